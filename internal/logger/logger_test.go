package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return line
}

func TestEntryWritesMetricsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "debug", Format: "json", Output: &buf, ServiceName: "test"})

	ctx := SetGeneration(log.WithContext(context.Background()), "gen-1", "Cats vs Dogs", "left")
	With(Fields{FieldRole: "chad"}).
		WithDuration(1500 * time.Millisecond).
		WithCaptions("generative:openai", 5, false).
		Info(ctx, "Generated %d", 5)

	line := decode(t, &buf)
	want := map[string]interface{}{
		"message":          "Generated 5",
		"service":          "test",
		FieldGenerationID:  "gen-1",
		FieldTopic:         "Cats vs Dogs",
		FieldSide:          "left",
		FieldRole:          "chad",
		FieldDurationMs:    float64(1500),
		FieldCaptionSource: "generative:openai",
		FieldCaptions:      float64(5),
		FieldFellBack:      false,
	}
	for k, v := range want {
		if line[k] != v {
			t.Errorf("%s = %v, want %v", k, line[k], v)
		}
	}
}

func TestEntryLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		write func(*Entry, context.Context)
		want  bool
	}{
		{"debug below info", "info", func(e *Entry, ctx context.Context) { e.Debug(ctx, "x") }, false},
		{"debug at debug", "debug", func(e *Entry, ctx context.Context) { e.Debug(ctx, "x") }, true},
		{"warn at info", "info", func(e *Entry, ctx context.Context) { e.Warn(ctx, "x") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := New(&Config{Level: tt.level, Output: &buf}).WithContext(context.Background())
			tt.write(With(nil).WithFrame(2, 10).WithResponse(200, -1), ctx)
			if got := buf.Len() > 0; got != tt.want {
				t.Fatalf("wrote = %v, want %v", got, tt.want)
			}
			if !tt.want {
				return
			}
			line := decode(t, &buf)
			if line[FieldImages] != float64(2) || line[FieldHTTPStatus] != float64(200) {
				t.Errorf("line = %v", line)
			}
			if _, ok := line[FieldBytes]; ok {
				t.Error("negative size should be omitted")
			}
		})
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := NewNop()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected fallback for a bare context")
	}
	if got := FromContextOr(context.Background(), nil); got != GetDefault() {
		t.Error("expected default logger")
	}

	carried := NewNop()
	ctx := SetRequest(carried.WithContext(context.Background()), "req-9")
	got := FromContextOr(ctx, fallback)
	if got.Data[FieldRequestID] != "req-9" || got.Data[FieldComponent] != "api" {
		t.Errorf("fields = %v", got.Data)
	}
}

func TestLoadEnv(t *testing.T) {
	vars := map[string]string{
		"LOG_LEVEL":     "debug",
		"APP_ENV":       "prod",
		"LOG_MAX_SIZE":  "not-a-number",
		"LOG_COMPRESS":  "false",
		"LOG_FILE_ONLY": "yes",
	}
	cfg := loadEnv(func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	})

	if cfg.Level != "debug" || cfg.Environment != "prod" || cfg.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.MaxSizeMB != 50 {
		t.Errorf("MaxSizeMB = %d, want default for invalid value", cfg.MaxSizeMB)
	}
	if cfg.Compress {
		t.Error("Compress should be false")
	}
	if cfg.LogFileOnly {
		t.Error("unparseable bool should keep the default")
	}
	if cfg.ServiceName != "chadgen" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
}
