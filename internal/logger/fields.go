package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, attached to the context logger.
const (
	FieldRequestID    = "request_id"
	FieldGenerationID = "generation_id"
	FieldComponent    = "component"

	// FieldTopic is the raw "<A> vs <B>" topic
	FieldTopic = "topic"
	// FieldSide is the concrete side being rendered
	FieldSide = "side"
	// FieldRole is virgin or chad
	FieldRole = "role"
)

// Metric fields, written by Entry.
const (
	FieldDurationMs = "duration_ms"

	// FieldCaptions is the number of captions produced or drawn
	FieldCaptions = "captions"
	// FieldCaptionSource names the source that produced the captions
	FieldCaptionSource = "caption_source"
	// FieldFellBack is true when the generative backend was replaced by the fallback
	FieldFellBack = "fell_back"
	// FieldImages is the number of character images composited
	FieldImages = "images"

	FieldHTTPStatus = "http_status"
	FieldBytes      = "bytes"
)
