package lib

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/jsonfile"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/fiffu/billwatch/lib/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, tenants ...models.Tenant) (*Service, *registry.Registry) {
	log := zaptest.NewLogger(t)
	path := filepath.Join(t.TempDir(), "servers.json")
	require.NoError(t, jsonfile.Write(path, map[string]any{"servers": tenants}))

	reg, err := registry.Open(path, log)
	require.NoError(t, err)
	return NewService(&config.Config{Env: "production"}, log, reg), reg
}

func TestStatus(t *testing.T) {
	svc, _ := newTestService(t,
		models.Tenant{ServerID: "1", ChannelID: "100", Enabled: true, BillsOfInterest: []string{"HB1", "SB22"}},
		models.Tenant{ServerID: "2", ChannelID: "200"},
	)
	ctx := context.Background()

	text, err := svc.Status(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Notifications for this server are enabled.\nDelivering to discord 100.\nTracked bills: HB1, SB22", text)

	text, err = svc.Status(ctx, "2")
	require.NoError(t, err)
	assert.Contains(t, text, "are disabled")
	assert.Contains(t, text, "This server is not tracking any bills.")

	_, err = svc.Status(ctx, "3")
	assert.ErrorIs(t, err, registry.ErrUnknownTenant)
}

func TestMarkAndUnmark(t *testing.T) {
	svc, reg := newTestService(t, models.Tenant{ServerID: "1", ChannelID: "100", Enabled: true})
	ctx := context.Background()

	text, err := svc.Mark(ctx, "1", " HB101 ")
	require.NoError(t, err)
	assert.Equal(t, "Tracked bills: HB101", text)

	// Marking twice keeps one entry.
	_, err = svc.Mark(ctx, "1", "HB101")
	require.NoError(t, err)
	text, err = svc.Mark(ctx, "1", "SB7")
	require.NoError(t, err)
	assert.Equal(t, "Tracked bills: HB101, SB7", text)

	tenant, err := reg.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"HB101", "SB7"}, tenant.BillsOfInterest)

	text, err = svc.Unmark(ctx, "1", "HB101")
	require.NoError(t, err)
	assert.Equal(t, "Tracked bills: SB7", text)

	// Unmarking an untracked bill is not an error.
	text, err = svc.Unmark(ctx, "1", "HB999")
	require.NoError(t, err)
	assert.Equal(t, "Tracked bills: SB7", text)

	text, err = svc.Unmark(ctx, "1", "SB7")
	require.NoError(t, err)
	assert.Equal(t, "This server is not tracking any bills.", text)
}

func TestMarkRejectsInvalidInput(t *testing.T) {
	svc, reg := newTestService(t, models.Tenant{ServerID: "1", ChannelID: "100"})
	ctx := context.Background()

	for _, bill := range []string{"", "hb1", "HB", "XB12", "HB12a", "HJR4"} {
		_, err := svc.Mark(ctx, "1", bill)
		assert.ErrorIs(t, err, ErrInvalidBill, bill)
	}

	tenant, err := reg.Get(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, tenant.BillsOfInterest)

	_, err = svc.Mark(ctx, "404", "HB1")
	assert.ErrorIs(t, err, registry.ErrUnknownTenant)
	_, err = svc.Unmark(ctx, "1", "nope")
	assert.ErrorIs(t, err, ErrInvalidBill)
}
