// Package gormstore implements the storage.Backend interface over any
// GORM dialector. The SQLite and Postgres backends compose it and add
// their connection-specific concerns.
package gormstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pictoseq/engine/internal/model"
	"github.com/pictoseq/engine/internal/model/convert"
	"github.com/pictoseq/engine/internal/storage"
	"github.com/pictoseq/engine/pkg/core"
)

// Backend persists sequences through a GORM connection.
type Backend struct {
	db *gorm.DB
}

// New wraps an open GORM connection.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Init migrates the schema and seeds the instance info row.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	var count int64
	if err := b.db.Model(&model.EngineInfo{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check engine_infos: %w", err)
	}
	if count == 0 {
		err := b.db.Create(&model.EngineInfo{
			InstanceName: "pictoseq",
			Description:  "pictoseq sequence engine",
			GridMode:     string(core.GridDiamond),
		}).Error
		if err != nil {
			return fmt.Errorf("failed to create engine_infos entry: %w", err)
		}
	}
	return nil
}

// Close closes the underlying sql connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the connection for composing backends.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// SaveSequence writes the sequence and its beats in one transaction.
func (b *Backend) SaveSequence(seq core.Sequence, opts storage.SaveOptions) (uint, error) {
	rec := convert.CoreToSequence(seq, opts.Name, opts.GridMode, opts.CapVariant, opts.EndsAtStart)
	if err := b.db.Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("failed to save sequence: %w", err)
	}
	return rec.ID, nil
}

// GetSequence loads one sequence with its beats in beat order.
func (b *Backend) GetSequence(id uint) (core.Sequence, storage.Metadata, error) {
	var rec model.SequenceRecord
	err := b.db.Preload("Beats", func(db *gorm.DB) *gorm.DB {
		return db.Order("beat_number ASC")
	}).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Sequence{}, storage.Metadata{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Sequence{}, storage.Metadata{}, fmt.Errorf("failed to load sequence %d: %w", id, err)
	}

	seq, err := convert.SequenceToCore(rec)
	if err != nil {
		return core.Sequence{}, storage.Metadata{}, err
	}
	return seq, metadataOf(rec), nil
}

// ListSequences returns summaries of every stored sequence, oldest first.
func (b *Backend) ListSequences() ([]storage.Metadata, error) {
	var recs []model.SequenceRecord
	if err := b.db.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}
	out := make([]storage.Metadata, 0, len(recs))
	for _, rec := range recs {
		out = append(out, metadataOf(rec))
	}
	return out, nil
}

// DeleteSequence removes a sequence and its beats.
func (b *Backend) DeleteSequence(id uint) error {
	res := b.db.Delete(&model.SequenceRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete sequence %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	// beats cascade on Postgres; SQLite needs the explicit sweep
	return b.db.Where("sequence_id = ?", id).Delete(&model.BeatRecord{}).Error
}

// RecordPerformance appends one performance sample.
func (b *Backend) RecordPerformance(p model.EnginePerformance) error {
	return b.db.Create(&p).Error
}

func metadataOf(rec model.SequenceRecord) storage.Metadata {
	return storage.Metadata{
		ID:          rec.ID,
		Name:        rec.Name,
		Word:        rec.Word,
		GridMode:    core.GridMode(rec.GridMode),
		Length:      rec.Length,
		CapVariant:  rec.CapVariant,
		EndsAtStart: rec.EndsAtStart,
		CreatedAt:   rec.CreatedAt,
	}
}
