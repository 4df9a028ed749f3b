package datastore

import (
	"log"
	"time"

	"gorm.io/gorm/logger"

	"github.com/audiodash/audiodash-go/internal/logging"
)

// createGormLogger returns a gorm logger that only surfaces slow queries
// and errors, routed through the application log writer.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(slogWriter{}, "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// slogWriter adapts gorm's line-oriented logging onto slog.
type slogWriter struct{}

func (slogWriter) Write(p []byte) (int, error) {
	logging.ForModule("datastore").Warn(string(p))
	return len(p), nil
}
