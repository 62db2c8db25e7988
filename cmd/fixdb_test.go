package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fiffu/billwatch/lib/jsonfile"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixDB(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "legacy.json")
	out := filepath.Join(dir, "bill-database.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"SB3": {"InstrumentNbr": "SB3", "FirstRead": "03/05/2024"}}`), 0o644))

	fixDBFile, fixDBOut = in, out
	t.Cleanup(func() { fixDBFile, fixDBOut = "bill-database.json", "" })

	buf := new(bytes.Buffer)
	fixDBCmd.SetOut(buf)
	require.NoError(t, runFixDB(fixDBCmd, nil))
	assert.Contains(t, buf.String(), out)

	var snap models.BillSnapshot
	found, err := jsonfile.Read(out, &snap)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.Bill{Number: "SB3", FirstRead: "2024-03-05"}, snap["SB3"])
}

func TestFixDBRejectsCorruptInput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(in, []byte(`[1, 2`), 0o644))

	fixDBFile, fixDBOut = in, ""
	t.Cleanup(func() { fixDBFile = "bill-database.json" })

	assert.ErrorContains(t, runFixDB(fixDBCmd, nil), "corrupt")
}
