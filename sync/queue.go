// Package sync implements the merchant-side offline queue: sales and
// credits recorded without connectivity are stored in a local sqlite
// cache and replayed against the server when it is reachable again.
package sync

import (
	"encoding/json"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record kinds
const (
	KindSale   = "sale"
	KindCredit = "credit"
)

// QueuedRecord is one offline-recorded sale or credit awaiting replay.
type QueuedRecord struct {
	ID        uint   `gorm:"primarykey"`
	Kind      string `gorm:"type:varchar(10);not null"` // sale or credit
	Payload   string `gorm:"type:text;not null"`        // JSON body for the server endpoint
	Synced    bool   `gorm:"default:false;index"`
	ServerID  string // server-assigned id, set on successful replay
	Attempts  int    `gorm:"default:0"`
	LastError string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Queue is the durable local store behind the reconciler.
type Queue struct {
	db *gorm.DB
}

// OpenQueue opens (and migrates) the local cache at path. ":memory:" gives
// an ephemeral queue for tests.
func OpenQueue(path string) (*Queue, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// sqlite allows one writer; a single connection also keeps ":memory:"
	// queues coherent
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&QueuedRecord{}); err != nil {
		return nil, err
	}
	return &Queue{db: db}, nil
}

// Enqueue stores a sale or credit payload recorded while offline.
func (q *Queue) Enqueue(kind string, payload interface{}) (*QueuedRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	record := QueuedRecord{
		Kind:    kind,
		Payload: string(body),
	}
	if err := q.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Unsynced returns pending records in insertion order.
func (q *Queue) Unsynced() ([]QueuedRecord, error) {
	var records []QueuedRecord
	err := q.db.Where("synced = ?", false).Order("id ASC").Find(&records).Error
	return records, err
}

// MarkSynced flips the record to synced with the server-assigned id.
func (q *Queue) MarkSynced(id uint, serverID string) error {
	return q.db.Model(&QueuedRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"synced":     true,
			"server_id":  serverID,
			"last_error": "",
		}).Error
}

// MarkFailed bumps the attempt counter and records the failure; the
// record stays queued for the next pass.
func (q *Queue) MarkFailed(id uint, errMsg string) error {
	return q.db.Model(&QueuedRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": errMsg,
		}).Error
}

// PendingCount reports how many records still need replay.
func (q *Queue) PendingCount() (int64, error) {
	var count int64
	err := q.db.Model(&QueuedRecord{}).Where("synced = ?", false).Count(&count).Error
	return count, err
}

// Record returns one queued record by local id.
func (q *Queue) Record(id uint) (*QueuedRecord, error) {
	var record QueuedRecord
	if err := q.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
