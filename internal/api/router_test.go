package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/timmy/chadgen/internal/api/handler"
	"github.com/timmy/chadgen/internal/config"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/service"
	"github.com/timmy/chadgen/internal/storage"
)

type stubGenerator struct {
	topic string
	side  domain.Side
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, topic string, side domain.Side) ([]*service.Result, error) {
	g.topic, g.side = topic, side
	if g.err != nil {
		return nil, g.err
	}
	var out []*service.Result
	for _, s := range side.Expand() {
		out = append(out, &service.Result{Generation: &domain.Generation{ID: "gen-" + string(s), Topic: topic, Side: s}})
	}
	return out, nil
}

type stubHistory struct {
	gens map[string]*domain.Generation
}

func (h *stubHistory) GetByID(_ context.Context, id string) (*domain.Generation, error) {
	if g, ok := h.gens[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (h *stubHistory) List(_ context.Context, limit, offset int) ([]domain.Generation, error) {
	var out []domain.Generation
	for _, g := range h.gens {
		out = append(out, *g)
	}
	return out, nil
}

func (h *stubHistory) Count(_ context.Context) (int64, error) {
	return int64(len(h.gens)), nil
}

func newTestRouter(t *testing.T, gen *stubGenerator, history handler.GenerationReader) (http.Handler, storage.ObjectStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.ServerConfig{Mode: "test"}
	r := SetupRouter(Deps{
		Generator:     gen,
		History:       history,
		Storage:       store,
		CaptionSource: "static",
		Font:          "embedded:gobold",
	}, cfg, logger.NewNop())
	return r, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{}, nil)
	w := do(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["caption_source"] != "static" {
		t.Errorf("body = %v", body)
	}
}

func TestGenerateMeme(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantSide   domain.Side
		wantCount  int
	}{
		{"default side", `{"topic":"Bananas vs Apples"}`, nil, http.StatusCreated, domain.SideRight, 1},
		{"both", `{"topic":"Bananas vs Apples","side":"both"}`, nil, http.StatusCreated, domain.SideBoth, 2},
		{"menu digit", `{"topic":"Bananas vs Apples","side":"1"}`, nil, http.StatusCreated, domain.SideLeft, 1},
		{"bad side", `{"topic":"Bananas vs Apples","side":"up"}`, nil, http.StatusBadRequest, "", 0},
		{"missing topic", `{}`, nil, http.StatusBadRequest, "", 0},
		{"malformed topic", `{"topic":"bananas"}`, domain.ErrMalformedTopic, http.StatusBadRequest, domain.SideRight, 0},
		{"render failure", `{"topic":"Bananas vs Apples"}`, errors.New("disk full"), http.StatusInternalServerError, domain.SideRight, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{err: tt.err}
			r, _ := newTestRouter(t, gen, nil)

			w := do(t, r, http.MethodPost, "/api/v1/memes", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if gen.side != tt.wantSide {
				t.Errorf("side = %q, want %q", gen.side, tt.wantSide)
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			var resp handler.GenerateResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if len(resp.Results) != tt.wantCount {
				t.Errorf("results = %d, want %d", len(resp.Results), tt.wantCount)
			}
		})
	}
}

func TestMemeHistory(t *testing.T) {
	history := &stubHistory{gens: map[string]*domain.Generation{
		"abc":  {ID: "abc", Topic: "Cats vs Dogs", StorageKey: "memes/abc/out.png"},
		"gone": {ID: "gone", Topic: "Tea vs Coffee", StorageKey: "memes/gone/out.png"},
	}}
	r, store := newTestRouter(t, &stubGenerator{}, history)

	png := []byte("\x89PNG\r\n\x1a\nfake")
	if err := store.Upload(context.Background(), "memes/abc/out.png", bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		t.Fatal(err)
	}

	t.Run("list", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/memes?limit=500", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var resp handler.ListResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Total != 2 || len(resp.Results) != 2 || resp.Limit != 100 {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/memes/abc", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Cats vs Dogs") {
			t.Errorf("status = %d body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/memes/nope", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("image", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/memes/abc/image", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %q", ct)
		}
		if !bytes.Equal(w.Body.Bytes(), png) {
			t.Error("image body mismatch")
		}
	})

	t.Run("image missing from storage", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/memes/gone/image", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestHistoryDisabled(t *testing.T) {
	r, _ := newTestRouter(t, &stubGenerator{}, nil)
	w := do(t, r, http.MethodGet, "/api/v1/memes", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestCORS(t *testing.T) {
	store, _ := storage.NewLocalStorage(t.TempDir(), "")
	cfg := &config.ServerConfig{Mode: "test", CORS: config.CORSConfig{AllowedOrigins: []string{"https://chad.example"}}}
	r := SetupRouter(Deps{Generator: &stubGenerator{}, Storage: store}, cfg, logger.NewNop())

	tests := []struct {
		origin    string
		wantAllow string
	}{
		{"https://chad.example", "https://chad.example"},
		{"https://virgin.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/memes", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("allow origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}
