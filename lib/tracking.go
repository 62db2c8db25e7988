package lib

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fiffu/billwatch/lib/models"
	"github.com/fiffu/billwatch/lib/registry"
	"go.uber.org/zap"
)

var ErrInvalidBill = errors.New("bill numbers look like HB123 or SB45")

type tracking struct {
	log      *zap.Logger
	registry *registry.Registry
}

// Mark adds a bill to the tenant's tracked set and returns the resulting
// list.
func (svc *tracking) Mark(ctx context.Context, serverID, bill string) (string, error) {
	bill, err := validBill(bill)
	if err != nil {
		return "", err
	}

	t, err := svc.registry.Update(ctx, serverID, func(t *models.Tenant) error {
		if !slices.Contains(t.BillsOfInterest, bill) {
			t.BillsOfInterest = append(t.BillsOfInterest, bill)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	svc.log.Sugar().Infow("Marked bill", "server_id", serverID, "bill", bill)
	return trackedList(t), nil
}

// Unmark removes a bill from the tenant's tracked set, if present, and
// returns the resulting list.
func (svc *tracking) Unmark(ctx context.Context, serverID, bill string) (string, error) {
	bill, err := validBill(bill)
	if err != nil {
		return "", err
	}

	t, err := svc.registry.Update(ctx, serverID, func(t *models.Tenant) error {
		t.BillsOfInterest = slices.DeleteFunc(t.BillsOfInterest, func(b string) bool { return b == bill })
		return nil
	})
	if err != nil {
		return "", err
	}
	svc.log.Sugar().Infow("Unmarked bill", "server_id", serverID, "bill", bill)
	return trackedList(t), nil
}

func validBill(bill string) (string, error) {
	bill = strings.TrimSpace(bill)
	if !models.BillNumberPattern.MatchString(bill) {
		return "", fmt.Errorf("%w: got %q", ErrInvalidBill, bill)
	}
	return bill, nil
}
