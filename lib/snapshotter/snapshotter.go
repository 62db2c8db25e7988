// Package snapshotter runs the poll cycle: fetch, diff, notify tenants and
// persist the new snapshots.
package snapshotter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/fetcher"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/fiffu/billwatch/lib/registry"
	"github.com/fiffu/billwatch/lib/render"
	"github.com/fiffu/billwatch/lib/snapshots"
	"github.com/fiffu/billwatch/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type BillSource interface {
	FetchAll(ctx context.Context) (models.BillSnapshot, error)
}

type MeetingSource interface {
	FetchMeetings(ctx context.Context) ([]models.RawMeeting, error)
}

type TenantRegistry interface {
	Tenants(ctx context.Context) (models.Tenants, error)
	Update(ctx context.Context, serverID string, mutate func(*models.Tenant) error) (*models.Tenant, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, target models.Target, messages []string) error
}

func NewSnapshotter(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	bills *fetcher.Fetcher,
	meetings *fetcher.AlisonClient,
	store snapshots.Store,
	tenants *registry.Registry,
	renderer *render.Renderer,
	dispatcher *senders.Dispatcher,
) *Snapshotter {
	snapshotter := &Snapshotter{
		log:         log,
		bills:       bills,
		meetings:    meetings,
		store:       store,
		tenants:     tenants,
		renderer:    renderer,
		deliverer:   dispatcher,
		development: cfg.IsDevelopment(),
		motdVersion: cfg.MOTD.Version,
		motdText:    cfg.MOTD.Text,
		interval:    cfg.Poll.Interval,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			snapshotter.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Trying to stop snapshotter")
			snapshotter.Stop()
			return nil
		},
	})

	return snapshotter
}

type Snapshotter struct {
	log       *zap.Logger
	bills     BillSource
	meetings  MeetingSource
	store     snapshots.Store
	tenants   TenantRegistry
	renderer  *render.Renderer
	deliverer Deliverer

	development bool
	motdVersion int
	motdText    string
	interval    time.Duration

	mu     sync.Mutex // held for the duration of a cycle
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Snapshotter) State() State {
	return State(s.state.Load())
}

func (s *Snapshotter) setState(st State) {
	s.state.Store(int32(st))
}

// Start runs a cycle immediately and then once per interval, until Stop.
func (s *Snapshotter) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	ticks := newAlarmClock(s.interval).Start(ctx)

	go func() {
		defer close(s.done)
		for range ticks {
			s.RunCycle(ctx)
		}
		s.log.Sugar().Info("Snapshotter stopped")
	}()
}

// Stop cancels the loop and waits for an in-flight cycle to finish.
func (s *Snapshotter) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}
