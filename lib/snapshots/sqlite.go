package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fiffu/billwatch/lib/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const insertBatchSize = 200

func NewDatabase(path string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	log.Info("Database started", zap.String("path", path))

	log.Info("Starting migrations")
	if err := db.AutoMigrate(&models.SnapshotEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// SQLStore keeps every snapshot entry as a JSON payload row keyed by
// (kind, tenant, identity).
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	s := &SQLStore{db}

	// Decode everything once so corrupt rows fail start-up.
	var rows []models.SnapshotEntry
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		var probe map[string]any
		if err := json.Unmarshal([]byte(row.Payload), &probe); err != nil {
			return nil, fmt.Errorf("snapshot entry %s/%s/%s is corrupt: %w", row.Kind, row.TenantID, row.Identity, err)
		}
	}
	return s, nil
}

func (s *SQLStore) LoadBills(ctx context.Context) (models.BillSnapshot, error) {
	snap := make(models.BillSnapshot)
	if err := load(ctx, s.db, models.BillKind, "", snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLStore) SaveBills(ctx context.Context, snap models.BillSnapshot) error {
	return replace(ctx, s.db, models.BillKind, "", snap)
}

func (s *SQLStore) LoadMeetings(ctx context.Context, tenantID string) (models.MeetingSnapshot, error) {
	snap := make(models.MeetingSnapshot)
	if err := load(ctx, s.db, models.MeetingKind, tenantID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLStore) SaveMeetings(ctx context.Context, tenantID string, snap models.MeetingSnapshot) error {
	return replace(ctx, s.db, models.MeetingKind, tenantID, snap)
}

func load[R any](ctx context.Context, db *gorm.DB, kind models.SnapshotKind, tenantID string, into map[string]R) error {
	var rows []models.SnapshotEntry
	tx := db.WithContext(ctx).
		Where("kind = ? AND tenant_id = ?", kind, tenantID).
		Find(&rows)
	if err := tx.Error; err != nil {
		return err
	}

	for _, row := range rows {
		var rec R
		if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
			return fmt.Errorf("decode %s %s: %w", kind, row.Identity, err)
		}
		into[row.Identity] = rec
	}
	return nil
}

// replace swaps the whole (kind, tenant) scope inside one transaction.
func replace[R any](ctx context.Context, db *gorm.DB, kind models.SnapshotKind, tenantID string, snap map[string]R) error {
	now := time.Now().UTC()
	rows := make([]models.SnapshotEntry, 0, len(snap))
	for id, rec := range snap {
		payload, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		rows = append(rows, models.SnapshotEntry{
			Kind:      kind,
			TenantID:  tenantID,
			Identity:  id,
			Payload:   string(payload),
			UpdatedAt: now,
		})
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("kind = ? AND tenant_id = ?", kind, tenantID).
			Delete(&models.SnapshotEntry{}).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}
