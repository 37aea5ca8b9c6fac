package bucket

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/timmy/chadgen/internal/storage"
)

func TestAdapter(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 10, 20))); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	for _, key := range []string{"templates/virgin1.png", "templates/chad1.png", "templates/old/virgin0.png", "memes/chad_x.png"} {
		if err := store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
			t.Fatal(err)
		}
	}

	a := NewAdapter(store, "templates/")
	pairs, err := a.Pairs(ctx)
	if err != nil {
		t.Fatalf("Pairs: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Virgin != "templates/virgin1.png" || pairs[0].Chad != "templates/chad1.png" {
		t.Fatalf("pairs = %+v", pairs)
	}

	img, err := a.Open(ctx, pairs[0].Virgin)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.Bounds().Dy() != 20 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
