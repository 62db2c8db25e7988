package lib

import (
	"context"
	"fmt"
	"strings"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/fiffu/billwatch/lib/registry"
	"go.uber.org/zap"
)

// Service is the operator command surface over the subscription registry.
type Service struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *registry.Registry

	*tracking
}

func NewService(cfg *config.Config, log *zap.Logger, reg *registry.Registry) *Service {
	return &Service{
		cfg, log, reg,
		&tracking{log, reg},
	}
}

// Status summarises a tenant's delivery settings and tracked bills.
func (svc *Service) Status(ctx context.Context, serverID string) (string, error) {
	t, err := svc.registry.Get(ctx, serverID)
	if err != nil {
		return "", err
	}

	state := "enabled"
	if !t.Enabled {
		state = "disabled"
	}
	if !t.Eligible(svc.cfg.IsDevelopment()) && t.Enabled {
		state = "enabled, but handled by the other environment"
	}

	target := t.Target()
	lines := []string{
		fmt.Sprintf("Notifications for this server are %s.", state),
		fmt.Sprintf("Delivering to %s %s.", target.Platform, target.Address),
		trackedList(t),
	}
	return strings.Join(lines, "\n"), nil
}

func trackedList(t *models.Tenant) string {
	if len(t.BillsOfInterest) == 0 {
		return "This server is not tracking any bills."
	}
	return "Tracked bills: " + strings.Join(t.BillsOfInterest, ", ")
}

// Tenants lists every configured tenant.
func (svc *Service) Tenants(ctx context.Context) (models.Tenants, error) {
	return svc.registry.Tenants(ctx)
}
