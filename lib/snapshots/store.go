// Package snapshots persists the last observed bill set and each tenant's
// last observed meeting set.
package snapshots

import (
	"context"
	"fmt"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Store loads and atomically replaces snapshots. Loading a snapshot that was
// never saved yields an empty map.
type Store interface {
	LoadBills(ctx context.Context) (models.BillSnapshot, error)
	SaveBills(ctx context.Context, snap models.BillSnapshot) error
	LoadMeetings(ctx context.Context, tenantID string) (models.MeetingSnapshot, error)
	SaveMeetings(ctx context.Context, tenantID string, snap models.MeetingSnapshot) error
}

func NewStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Snapshots.Backend {
	case "", "json":
		log.Sugar().Infow("Using JSON snapshot files", "bills", cfg.Snapshots.BillFile, "meetings", cfg.Snapshots.MeetingFile)
		return NewFileStore(cfg.Snapshots.BillFile, cfg.Snapshots.MeetingFile)

	case "sqlite":
		db, err := NewDatabase(cfg.Snapshots.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		return NewSQLStore(db)

	default:
		return nil, fmt.Errorf("unsupported snapshot backend: %s", cfg.Snapshots.Backend)
	}
}
