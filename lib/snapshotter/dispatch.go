package snapshotter

import (
	"context"

	"github.com/fiffu/billwatch/lib/models"
	"go.uber.org/zap"
)

// dispatch delivers one tenant's plan. Failures are logged and counted but
// never stop the cycle; the tenant's meeting snapshot is only advanced when
// its meeting messages went out.
func (s *Snapshotter) dispatch(ctx context.Context, log *zap.SugaredLogger, p tenantPlan, m *cycleMetrics) {
	log = log.With("server_id", p.tenant.ServerID)
	target := p.tenant.Target()
	failed := false

	if p.sendMOTD {
		if err := s.deliverer.Deliver(ctx, target, []string{s.motdText}); err != nil {
			log.Warnw("Failed to deliver announcement", "version", s.motdVersion, "err", err)
			failed = true
		} else {
			m.motdSent++
			if err := s.recordMOTD(ctx, p.tenant.ServerID); err != nil {
				log.Errorw("Announcement sent but version not recorded", "version", s.motdVersion, "err", err)
				failed = true
			}
		}
	}

	m.messagesQueued += len(p.bills) + len(p.meetings)

	if len(p.bills) > 0 {
		if err := s.deliverer.Deliver(ctx, target, p.bills); err != nil {
			log.Warnw("Failed to deliver bill updates", "err", err)
			failed = true
		}
	}

	if len(p.meetings) > 0 {
		if err := s.deliverer.Deliver(ctx, target, p.meetings); err != nil {
			log.Warnw("Failed to deliver meeting updates", "err", err)
			m.failedTenants++
			return
		}
		m.meetingsChanged += len(p.meetings)
	}

	if err := s.store.SaveMeetings(ctx, p.tenant.ServerID, p.snapshot); err != nil {
		log.Errorw("Failed to save meeting snapshot", "err", err)
		failed = true
	}

	if failed {
		m.failedTenants++
	}
}

// recordMOTD stores the announcement version right after delivery, so a
// later failure in the cycle cannot cause it to be sent again.
func (s *Snapshotter) recordMOTD(ctx context.Context, serverID string) error {
	_, err := s.tenants.Update(ctx, serverID, func(t *models.Tenant) error {
		if t.MOTDVersion < s.motdVersion {
			t.MOTDVersion = s.motdVersion
		}
		return nil
	})
	return err
}
