package snapshots

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fiffu/billwatch/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("cold start is empty", func(t *testing.T) {
		bills, err := s.LoadBills(ctx)
		require.NoError(t, err)
		assert.Empty(t, bills)

		meetings, err := s.LoadMeetings(ctx, "tenant-a")
		require.NoError(t, err)
		assert.Empty(t, meetings)
	})

	t.Run("bills are replaced wholesale", func(t *testing.T) {
		first := models.BillSnapshot{
			"HB1": {Number: "HB1", CurrentStatus: "Pending"},
			"HB2": {Number: "HB2"},
		}
		require.NoError(t, s.SaveBills(ctx, first))

		second := models.BillSnapshot{"HB1": {Number: "HB1", CurrentStatus: "Passed"}}
		require.NoError(t, s.SaveBills(ctx, second))

		got, err := s.LoadBills(ctx)
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("meetings are scoped per tenant", func(t *testing.T) {
		a := models.MeetingSnapshot{"HB1": {Bill: "HB1", Committee: "Judiciary", PublicHearing: true}}
		b := models.MeetingSnapshot{"HB2": {Bill: "HB2", Location: "Room 200"}}
		require.NoError(t, s.SaveMeetings(ctx, "tenant-a", a))
		require.NoError(t, s.SaveMeetings(ctx, "tenant-b", b))
		require.NoError(t, s.SaveMeetings(ctx, "tenant-b", models.MeetingSnapshot{}))

		gotA, err := s.LoadMeetings(ctx, "tenant-a")
		require.NoError(t, err)
		assert.Equal(t, a, gotA)

		gotB, err := s.LoadMeetings(ctx, "tenant-b")
		require.NoError(t, err)
		assert.Empty(t, gotB)
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "bills.json"), filepath.Join(dir, "meetings.json"))
	require.NoError(t, err)
	testStoreContract(t, s)

	t.Run("on-disk layout", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "meetings.json"))
		require.NoError(t, err)
		var raw map[string]map[string]map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, "Judiciary", raw["tenant-a"]["HB1"]["committee"])

		data, err = os.ReadFile(filepath.Join(dir, "bills.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"currentStatus": "Passed"`)
	})
}

func TestFileStoreRejectsCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	bills := filepath.Join(dir, "bills.json")
	require.NoError(t, os.WriteFile(bills, []byte(`{"HB1": [`), 0o644))

	_, err := NewFileStore(bills, filepath.Join(dir, "meetings.json"))
	assert.ErrorContains(t, err, "corrupt")
}

func TestFileStoreRejectsEmptySnapshot(t *testing.T) {
	dir := t.TempDir()
	bills := filepath.Join(dir, "bills.json")
	meetings := filepath.Join(dir, "meetings.json")

	require.NoError(t, os.WriteFile(bills, nil, 0o644))
	_, err := NewFileStore(bills, meetings)
	assert.ErrorContains(t, err, "is corrupt")

	require.NoError(t, os.Remove(bills))
	require.NoError(t, os.WriteFile(meetings, []byte("  \n"), 0o644))
	_, err = NewFileStore(bills, meetings)
	assert.ErrorContains(t, err, "is corrupt")
}

func TestSQLStore(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "billwatch.sqlite"), zaptest.NewLogger(t))
	require.NoError(t, err)

	s, err := NewSQLStore(db)
	require.NoError(t, err)
	testStoreContract(t, s)
}

func TestSQLStoreRejectsCorruptRows(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "billwatch.sqlite"), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.SnapshotEntry{Kind: models.BillKind, Identity: "HB1", Payload: "{"}).Error)

	_, err = NewSQLStore(db)
	assert.ErrorContains(t, err, "corrupt")
}
