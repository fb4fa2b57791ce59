// Package repo implements the data persistence layer, backed by GORM. This
// file provides the key-value store that mirrors the tracker's in-memory
// collections.
//
// Each collection is one row in state_entries holding a JSON document. Writes
// replace the whole value; there is no partial update. Callers decide what the
// value means, the store only moves strings.
package repo

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-med-tracker/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// GetState returns the entry stored under key or ErrNotFound.
func GetState(ctx context.Context, db *gorm.DB, key string) (*domain.StateEntry, error) {
	var e domain.StateEntry
	err := db.WithContext(ctx).Where("key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// PutState upserts key=value.
func PutState(ctx context.Context, db *gorm.DB, key, value string) error {
	e := domain.StateEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// KV adapts the state_entries table to the tracker's StateStore contract.
type KV struct {
	db *gorm.DB
}

// NewKV returns a KV backed by db.
func NewKV(db *gorm.DB) *KV { return &KV{db: db} }

// Get returns the value under key; ok is false when the key was never written.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	e, err := GetState(ctx, k.db, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

// Put writes every key in one transaction, in key order.
func (k *KV) Put(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return k.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			if err := PutState(ctx, tx, key, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
}
