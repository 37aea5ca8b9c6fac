package caption

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/random"
)

func testAssignment() domain.Assignment {
	return domain.Assignment{Virgin: "Bananas", Chad: "Apples", Side: domain.SideRight}
}

func TestDefaultTemplatesCapacity(t *testing.T) {
	if len(DefaultVirginTemplates) < 12 || len(DefaultChadTemplates) < 12 {
		t.Fatalf("template lists too short: virgin=%d chad=%d", len(DefaultVirginTemplates), len(DefaultChadTemplates))
	}
	seen := map[string]bool{}
	for _, tpl := range append(append([]string{}, DefaultVirginTemplates...), DefaultChadTemplates...) {
		if seen[tpl] {
			t.Errorf("duplicate template %q", tpl)
		}
		seen[tpl] = true
	}
}

func TestStaticTemplateSource_Captions(t *testing.T) {
	src := NewStaticTemplateSource(25, random.NewSeeded(1))

	tests := []struct {
		name  string
		role  domain.Role
		label string
		other string
		pool  []string
	}{
		{"virgin", domain.RoleVirgin, "Bananas", "Apples", DefaultVirginTemplates},
		{"chad", domain.RoleChad, "Apples", "Bananas", DefaultChadTemplates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captions, err := src.Captions(context.Background(), Request{Assignment: testAssignment(), Role: tt.role, Count: 5})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(captions) != 5 {
				t.Fatalf("got %d captions, want 5", len(captions))
			}

			allowed := map[string]bool{}
			for _, tpl := range tt.pool {
				allowed[strings.ReplaceAll(tpl, LabelPlaceholder, tt.label)] = true
			}

			seen := map[string]bool{}
			for _, c := range captions {
				if !allowed[c.Text] {
					t.Errorf("caption %q is not from the %s templates", c.Text, tt.role)
				}
				if seen[c.Text] {
					t.Errorf("caption %q sampled twice", c.Text)
				}
				seen[c.Text] = true
				if strings.Contains(c.Text, tt.other) {
					t.Errorf("caption %q mentions the opposing label", c.Text)
				}
				if strings.Contains(c.Text, LabelPlaceholder) {
					t.Errorf("caption %q still has a placeholder", c.Text)
				}
				if !strings.HasPrefix(c.Lines[0], Bullet) {
					t.Errorf("caption lines %q missing bullet", c.Lines)
				}
			}
		})
	}
}

func TestStaticTemplateSource_Count(t *testing.T) {
	src := NewStaticTemplateSourceWith([]string{"a", "b"}, []string{"c", "d", "e"}, 25, random.NewSeeded(3))

	if _, err := src.Captions(context.Background(), Request{Assignment: testAssignment(), Role: domain.RoleVirgin, Count: 3}); !errors.Is(err, domain.ErrNotEnoughTemplates) {
		t.Errorf("expected ErrNotEnoughTemplates, got %v", err)
	}
	if _, err := src.Captions(context.Background(), Request{Assignment: testAssignment(), Role: domain.RoleChad, Count: 0}); err == nil {
		t.Error("expected error for zero count")
	}
	got, err := src.Captions(context.Background(), Request{Assignment: testAssignment(), Role: domain.RoleChad, Count: 3})
	if err != nil || len(got) != 3 {
		t.Errorf("full pool: got %d captions, err %v", len(got), err)
	}
	if src.Capacity() != 2 {
		t.Errorf("Capacity() = %d, want 2", src.Capacity())
	}
}
