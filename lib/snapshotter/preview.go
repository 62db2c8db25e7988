package snapshotter

import (
	"context"
	"fmt"

	"github.com/fiffu/billwatch/lib/diff"
	"github.com/fiffu/billwatch/lib/models"
)

// Preview fetches the current bills and renders what a cycle would
// broadcast, without sending or saving anything.
func (s *Snapshotter) Preview(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bills, err := s.bills.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bills: %w", err)
	}
	old, err := s.store.LoadBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bill snapshot: %w", err)
	}
	if 2*len(bills) < len(old) {
		return nil, ErrSanityGuard
	}

	changes := diff.Diff(old, bills, models.BillFields)
	return s.renderBills(&models.Tenant{}, old, bills, changes), nil
}
