package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// GenerationStatus represents the outcome of a render.
// Values include GenerationStatusCompleted and GenerationStatusFailed.
type GenerationStatus string

const (
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Generation records one rendered meme.
type Generation struct {
	ID             string           `gorm:"type:text;primaryKey" json:"id"`
	Topic          string           `gorm:"type:text;not null;index:idx_generations_topic" json:"topic"`
	VirginLabel    string           `gorm:"type:text" json:"virgin_label"`
	ChadLabel      string           `gorm:"type:text" json:"chad_label"`
	Side           Side             `gorm:"type:text" json:"side"`
	Degraded       bool             `json:"degraded"`
	VirginTemplate string           `gorm:"type:text" json:"virgin_template"`
	ChadTemplate   string           `gorm:"type:text" json:"chad_template"`
	CaptionSource  string           `gorm:"type:text" json:"caption_source"`
	FellBack       bool             `json:"fell_back"`
	VirginCaptions StringArray      `gorm:"type:text" json:"virgin_captions"`
	ChadCaptions   StringArray      `gorm:"type:text" json:"chad_captions"`
	StorageKey     string           `gorm:"type:text" json:"storage_key"`
	URL            string           `gorm:"type:text" json:"url"`
	Width          int              `json:"width"`
	Height         int              `json:"height"`
	Status         GenerationStatus `gorm:"type:text;index:idx_generations_status;default:completed" json:"status"`
	Error          string           `gorm:"type:text" json:"error,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName returns the database table name for Generation.
func (Generation) TableName() string {
	return "generations"
}
