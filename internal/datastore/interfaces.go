// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/audiodash/audiodash-go/internal/conf"
)

// Interface abstracts the underlying database implementation and defines
// the operations available on recording metadata.
type Interface interface {
	Open() error
	Close() error
	Save(recording *Recording) error
	Get(id uint) (Recording, error)
	Delete(id uint) error
	GetAllRecordings() ([]Recording, error)
	GetLastRecordings(numRecordings int) ([]Recording, error)
	SearchRecordings(query string, limit, offset int) ([]Recording, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// Save inserts a new recording metadata record.
func (ds *DataStore) Save(recording *Recording) error {
	if ds.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if err := ds.DB.Create(recording).Error; err != nil {
		return fmt.Errorf("saving recording: %w", err)
	}
	return nil
}

// Get retrieves a recording by ID.
func (ds *DataStore) Get(id uint) (Recording, error) {
	var recording Recording
	if err := ds.DB.First(&recording, id).Error; err != nil {
		return Recording{}, fmt.Errorf("getting recording with id %d: %w", id, err)
	}
	return recording, nil
}

// Delete removes a recording metadata record by ID.
func (ds *DataStore) Delete(id uint) error {
	if err := ds.DB.Delete(&Recording{}, id).Error; err != nil {
		return fmt.Errorf("deleting recording with id %d: %w", id, err)
	}
	return nil
}

// GetAllRecordings retrieves all recordings, newest first.
func (ds *DataStore) GetAllRecordings() ([]Recording, error) {
	var recordings []Recording
	if err := ds.DB.Order("created_at DESC").Find(&recordings).Error; err != nil {
		return nil, fmt.Errorf("getting all recordings: %w", err)
	}
	return recordings, nil
}

// GetLastRecordings retrieves the most recent recordings.
func (ds *DataStore) GetLastRecordings(numRecordings int) ([]Recording, error) {
	var recordings []Recording
	if err := ds.DB.Order("created_at DESC").Limit(numRecordings).Find(&recordings).Error; err != nil {
		return nil, fmt.Errorf("getting last recordings: %w", err)
	}
	return recordings, nil
}

// SearchRecordings looks for recordings by filename or type substring.
func (ds *DataStore) SearchRecordings(query string, limit, offset int) ([]Recording, error) {
	var recordings []Recording
	err := ds.DB.Where("filename LIKE ? OR recording_type LIKE ?", "%"+query+"%", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recordings).Error
	if err != nil {
		return nil, fmt.Errorf("searching recordings: %w", err)
	}
	return recordings, nil
}

// performAutoMigration automigrates the schema, returning a descriptive
// error on failure.
func performAutoMigration(db *gorm.DB, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Recording{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database %s: %w", dbType, connectionInfo, err)
	}
	return nil
}
