package repositories

import (
	"context"

	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Data is a key/value table. It backs the favorites slots and the bot session snapshot.
type Data struct {
	db *gorm.DB
}

func NewDataRepository(db *gorm.DB) *Data {
	return &Data{db: db}
}

// Save replaces the value stored under key.
func (repo *Data) Save(ctx context.Context, key string, value []byte) error {
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.ArbitraryData{ID: key, Value: value}).Error
}

// Load returns nil without an error for a key that was never saved.
func (repo *Data) Load(ctx context.Context, key string) ([]byte, error) {
	return loadSlot(repo.db.WithContext(ctx), key)
}

// LoadAndRemove takes the value out of the table, reading and deleting in one transaction.
func (repo *Data) LoadAndRemove(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if value, err = loadSlot(tx, key); err != nil || value == nil {
			return err
		}
		return tx.Delete(&models.ArbitraryData{}, "id = ?", key).Error
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func loadSlot(db *gorm.DB, key string) ([]byte, error) {
	slot := models.ArbitraryData{}
	if err := db.Take(&slot, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load %q", key)
	}
	return slot.Value, nil
}
