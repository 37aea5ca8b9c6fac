package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Entry collects the metric fields of one log line. The line is written
// through the logger found in the context passed to Debug, Info or Warn.
//
//	logger.With(nil).WithDuration(d).WithCaptions("static", 10, false).Info(ctx, "Meme rendered")
type Entry struct {
	fields Fields
}

// With starts an Entry holding a copy of fields. fields may be nil.
func With(fields Fields) *Entry {
	e := &Entry{fields: make(Fields, len(fields)+4)}
	for k, v := range fields {
		e.fields[k] = v
	}
	return e
}

// WithField sets one field.
func (e *Entry) WithField(key string, value interface{}) *Entry {
	e.fields[key] = value
	return e
}

// WithDuration records d in milliseconds.
func (e *Entry) WithDuration(d time.Duration) *Entry {
	return e.WithField(FieldDurationMs, d.Milliseconds())
}

// WithCaptions records where a batch of captions came from.
func (e *Entry) WithCaptions(source string, count int, fellBack bool) *Entry {
	e.fields[FieldCaptionSource] = source
	e.fields[FieldCaptions] = count
	e.fields[FieldFellBack] = fellBack
	return e
}

// WithFrame records what was composited onto one meme.
func (e *Entry) WithFrame(images, captions int) *Entry {
	e.fields[FieldImages] = images
	e.fields[FieldCaptions] = captions
	return e
}

// WithResponse records the outcome of an HTTP request.
func (e *Entry) WithResponse(status, bytes int) *Entry {
	e.fields[FieldHTTPStatus] = status
	if bytes >= 0 {
		e.fields[FieldBytes] = bytes
	}
	return e
}

func (e *Entry) log(ctx context.Context, level logrus.Level, format string, args []interface{}) {
	FromContext(ctx).Entry.WithFields(logrus.Fields(e.fields)).Logf(level, format, args...)
}

// Debug writes the entry at Debug level.
func (e *Entry) Debug(ctx context.Context, format string, args ...interface{}) {
	e.log(ctx, logrus.DebugLevel, format, args)
}

// Info writes the entry at Info level.
func (e *Entry) Info(ctx context.Context, format string, args ...interface{}) {
	e.log(ctx, logrus.InfoLevel, format, args)
}

// Warn writes the entry at Warn level.
func (e *Entry) Warn(ctx context.Context, format string, args ...interface{}) {
	e.log(ctx, logrus.WarnLevel, format, args)
}
