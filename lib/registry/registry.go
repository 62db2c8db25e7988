// Package registry persists tenant subscriptions.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/jsonfile"
	"github.com/fiffu/billwatch/lib/models"
	"go.uber.org/zap"
)

var ErrUnknownTenant = errors.New("this server is not configured")

type document struct {
	Servers models.Tenants `json:"servers"`
}

// Registry is the single writer of the subscriptions file. Every mutation
// re-reads the file and rewrites it under one lock, so concurrent edits from
// the poll cycle and from commands cannot overwrite each other.
type Registry struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

func NewRegistry(cfg *config.Config, log *zap.Logger) (*Registry, error) {
	return Open(cfg.SubscriptionsFile, log)
}

// Open validates the file at path; a corrupt registry is a start-up error.
func Open(path string, log *zap.Logger) (*Registry, error) {
	r := &Registry{path: path, log: log}

	doc, found, err := r.load()
	if err != nil {
		return nil, err
	}
	if !found {
		log.Sugar().Warnw("Subscriptions file not found, starting with no tenants", "path", path)
	} else {
		log.Sugar().Infow("Loaded subscriptions", "path", path, "tenants", len(doc.Servers))
	}
	return r, nil
}

// Tenants returns a copy of every configured tenant, in file order.
func (r *Registry) Tenants(ctx context.Context) (models.Tenants, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, _, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make(models.Tenants, len(doc.Servers))
	for i := range doc.Servers {
		out[i] = clone(doc.Servers[i])
	}
	return out, nil
}

func (r *Registry) Get(ctx context.Context, serverID string) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, _, err := r.load()
	if err != nil {
		return nil, err
	}
	i := doc.index(serverID)
	if i < 0 {
		return nil, ErrUnknownTenant
	}
	t := clone(doc.Servers[i])
	return &t, nil
}

// Update applies mutate to the stored tenant and persists the result. If
// mutate returns an error nothing is written.
func (r *Registry) Update(ctx context.Context, serverID string, mutate func(*models.Tenant) error) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, _, err := r.load()
	if err != nil {
		return nil, err
	}
	i := doc.index(serverID)
	if i < 0 {
		return nil, ErrUnknownTenant
	}

	t := clone(doc.Servers[i])
	if err := mutate(&t); err != nil {
		return nil, err
	}
	doc.Servers[i] = t

	if err := jsonfile.Write(r.path, doc); err != nil {
		return nil, fmt.Errorf("save subscriptions: %w", err)
	}
	updated := clone(t)
	return &updated, nil
}

func (r *Registry) load() (*document, bool, error) {
	doc := &document{}
	found, err := jsonfile.Read(r.path, doc)
	if err != nil {
		return nil, found, err
	}

	seen := make(map[string]bool, len(doc.Servers))
	for _, t := range doc.Servers {
		if t.ServerID == "" {
			return nil, found, fmt.Errorf("%s: tenant without server_id", r.path)
		}
		if seen[t.ServerID] {
			return nil, found, fmt.Errorf("%s: duplicate server_id %s", r.path, t.ServerID)
		}
		seen[t.ServerID] = true
	}
	return doc, found, nil
}

func (d *document) index(serverID string) int {
	return slices.IndexFunc(d.Servers, func(t models.Tenant) bool {
		return t.ServerID == serverID
	})
}

func clone(t models.Tenant) models.Tenant {
	t.BillsOfInterest = slices.Clone(t.BillsOfInterest)
	return t
}
