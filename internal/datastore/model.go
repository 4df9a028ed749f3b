// model.go this code defines the data model for the application
package datastore

import "time"

// Recording types stored in the metadata record.
const (
	TypeClip  = "clip"
	TypePanic = "panic"
)

// Recording represents the metadata record of one exported capture. The
// capture engine only ever inserts these; reading them back is for the
// operator tooling.
type Recording struct {
	ID            uint   `gorm:"primaryKey"`
	Filename      string `gorm:"index:idx_recordings_filename"`
	FilePath      string
	RecordingType string  `gorm:"index:idx_recordings_type"` // clip or panic
	Duration      float64 // seconds
	FileSize      int64   // bytes of the final artifact
	IsEncrypted   bool
	CreatedAt     time.Time `gorm:"index:idx_recordings_created"`
}
