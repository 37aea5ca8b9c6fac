package layout

import (
	"image"
	"testing"

	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/random"
)

var canvas = image.Pt(1600, 1000)

func TestBasePositions(t *testing.T) {
	g := DefaultGeometry()

	tests := []struct {
		name  string
		role  domain.Role
		n     int
		wantX int
		wantY []int
	}{
		{"virgin five", domain.RoleVirgin, 5, 160, []int{300, 400, 500, 600, 700}},
		{"chad five", domain.RoleChad, 5, 1120, []int{300, 400, 500, 600, 700}},
		{"two spans the column", domain.RoleVirgin, 2, 160, []int{300, 700}},
		{"single goes to anchor", domain.RoleChad, 1, 1120, []int{500}},
		{"zero", domain.RoleVirgin, 0, 0, nil},
		{"negative", domain.RoleVirgin, -3, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasePositions(g, canvas, tt.role, tt.n)
			if got == nil {
				t.Fatal("BasePositions returned nil")
			}
			if len(got) != len(tt.wantY) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantY))
			}
			for i, p := range got {
				if p.X != tt.wantX || p.Y != tt.wantY[i] {
					t.Errorf("position %d = %+v, want {%d %d}", i, p, tt.wantX, tt.wantY[i])
				}
			}
		})
	}
}

func TestPositionsJitterBounds(t *testing.T) {
	g := DefaultGeometry()
	engine := NewSpreadEngine(g, random.NewSeeded(99))

	for _, role := range []domain.Role{domain.RoleVirgin, domain.RoleChad} {
		base := BasePositions(g, canvas, role, 5)
		for trial := 0; trial < 200; trial++ {
			got := engine.Positions(canvas, role, 5)
			if len(got) != 5 {
				t.Fatalf("len = %d, want 5", len(got))
			}
			for i, p := range got {
				dx, dy := p.X-base[i].X, p.Y-base[i].Y
				if dx < -g.JitterX || dx > g.JitterX || dy < -g.JitterY || dy > g.JitterY {
					t.Fatalf("%s position %d jitter (%d,%d) out of bounds", role, i, dx, dy)
				}
			}
		}
	}
}

func TestPositionsWithoutJitter(t *testing.T) {
	g := DefaultGeometry()
	g.JitterX, g.JitterY = 0, 0
	engine := NewSpreadEngine(g, random.NewSeeded(1))

	got := engine.Positions(canvas, domain.RoleVirgin, 3)
	want := []domain.Position{{X: 160, Y: 300}, {X: 160, Y: 500}, {X: 160, Y: 700}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCaptionsStayOutsideCharacters(t *testing.T) {
	g := DefaultGeometry()
	engine := NewSpreadEngine(g, random.NewSeeded(5))

	virginAnchor := Scale(canvas.X, g.VirginAnchorX)
	chadAnchor := Scale(canvas.X, g.ChadAnchorX)
	for trial := 0; trial < 100; trial++ {
		for _, p := range engine.Positions(canvas, domain.RoleVirgin, 5) {
			if p.X >= virginAnchor {
				t.Fatalf("virgin caption x %d at or right of anchor %d", p.X, virginAnchor)
			}
		}
		for _, p := range engine.Positions(canvas, domain.RoleChad, 5) {
			if p.X <= chadAnchor {
				t.Fatalf("chad caption x %d at or left of anchor %d", p.X, chadAnchor)
			}
		}
	}
}
