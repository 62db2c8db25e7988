package snapshotter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fiffu/billwatch/lib/diff"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSanityGuard reports a cycle whose bill count collapsed to less than
// half of the stored snapshot. Nothing is sent or written for such a cycle.
var ErrSanityGuard = errors.New("bill count dropped below half of the stored snapshot")

// tenantPlan is everything one tenant receives in a cycle.
type tenantPlan struct {
	tenant   models.Tenant
	sendMOTD bool
	bills    []string
	meetings []string
	snapshot models.MeetingSnapshot
}

// RunCycle performs one full poll cycle. Any error aborts the cycle before
// the bill snapshot is written; the next cycle starts from the old snapshot.
func (s *Snapshotter) RunCycle(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now()
	log := s.log.Sugar().With("cycle_id", uuid.NewString())
	m := &cycleMetrics{}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panicked: %v", r)
		}
		switch {
		case errors.Is(err, ErrSanityGuard):
			log.Warnw("Skipping cycle", "err", err)
		case err != nil:
			phase := s.State()
			s.setState(Aborted)
			log.Errorw("Cycle aborted", "phase", phase.String(), "err", err)
		}
		s.setState(Sleeping)

		elapsed := time.Since(startedAt)
		log.Infow("Snapshotter completed", append(m.fields(), "elapsed_msecs", int(elapsed.Milliseconds()))...)
	}()

	s.setState(Fetching)
	bills, err := s.bills.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch bills: %w", err)
	}
	meetings, err := s.meetings.FetchMeetings(ctx)
	if err != nil {
		return fmt.Errorf("fetch meetings: %w", err)
	}
	m.bills = len(bills)

	s.setState(Diffing)
	old, err := s.store.LoadBills(ctx)
	if err != nil {
		return fmt.Errorf("load bill snapshot: %w", err)
	}
	if 2*len(bills) < len(old) {
		log.Warnw("Upstream returned too few bills", "stored", len(old), "fetched", len(bills))
		return ErrSanityGuard
	}
	changes := diff.Diff(old, bills, models.BillFields)
	m.newBills, m.changedBills = diff.Count(changes)

	plans, err := s.plan(ctx, log, old, bills, changes, meetings)
	if err != nil {
		return err
	}
	m.tenants = len(plans)

	s.setState(Dispatching)
	for _, p := range plans {
		s.dispatch(ctx, log, p, m)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.setState(Persisting)
	if err := s.store.SaveBills(ctx, bills); err != nil {
		return fmt.Errorf("save bill snapshot: %w", err)
	}
	return nil
}

// plan renders the messages of every eligible tenant before anything is
// sent.
func (s *Snapshotter) plan(
	ctx context.Context,
	log *zap.SugaredLogger,
	old, bills models.BillSnapshot,
	changes []diff.Change,
	meetings []models.RawMeeting,
) ([]tenantPlan, error) {
	tenants, err := s.tenants.Tenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	var plans []tenantPlan
	for _, t := range tenants {
		if !t.Eligible(s.development) {
			continue
		}
		if t.ChannelID == "" {
			log.Warnw("Tenant has no delivery target", "server_id", t.ServerID)
			continue
		}

		p := tenantPlan{
			tenant:   t,
			sendMOTD: s.motdText != "" && s.motdVersion > t.MOTDVersion,
			bills:    s.renderBills(&t, old, bills, changes),
		}

		p.snapshot = models.ProjectMeetings(meetings, t.Tracked())
		prev, err := s.store.LoadMeetings(ctx, t.ServerID)
		if err != nil {
			return nil, fmt.Errorf("load meeting snapshot of %s: %w", t.ServerID, err)
		}
		p.meetings = s.renderMeetings(prev, p.snapshot)

		plans = append(plans, p)
	}
	return plans, nil
}

func (s *Snapshotter) renderBills(t *models.Tenant, old, bills models.BillSnapshot, changes []diff.Change) []string {
	var msgs []string
	for _, c := range changes {
		interest := t.Tracks(c.Identity)
		if c.Kind == diff.New {
			msgs = append(msgs, s.renderer.RenderNewBill(bills[c.Identity], interest))
			continue
		}
		if ok, msg := s.renderer.RenderChangedBill(old[c.Identity], bills[c.Identity], interest); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Every projected meeting concerns a tracked bill, so all of them are
// rendered as of interest.
func (s *Snapshotter) renderMeetings(prev, next models.MeetingSnapshot) []string {
	var msgs []string
	for _, c := range diff.Diff(prev, next, models.MeetingFields) {
		if c.Kind == diff.New {
			msgs = append(msgs, s.renderer.RenderNewMeeting(next[c.Identity], true))
			continue
		}
		if ok, msg := s.renderer.RenderChangedMeeting(prev[c.Identity], next[c.Identity], true); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
