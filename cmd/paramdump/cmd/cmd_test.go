package cmd

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/paramfile/param"
	"github.com/arloliu/paramfile/snapshot"
)

const testStructName = "NPC_PARAM_ST"

type testRow struct {
	id   uint32
	name string
	hp   uint32
}

// writeTable encodes rows into a 16-byte-row table file and returns its path.
func writeTable(t *testing.T, dir, file string, rows []testRow, opts ...param.EncoderOption) string {
	t.Helper()

	enc, err := param.NewEncoder(append([]param.EncoderOption{param.WithStructName(testStructName)}, opts...)...)
	require.NoError(t, err)
	for _, r := range rows {
		payload := make([]byte, 16)
		binary.LittleEndian.PutUint32(payload, r.hp)
		payload[15] = 0xEE
		require.NoError(t, enc.AddRow(r.id, r.name, payload))
	}

	buf, err := enc.Finish()
	require.NoError(t, err)

	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, buf, 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

var npcRows = []testRow{
	{id: 300, name: "Merchant", hp: 500},
	{id: 100, name: "Guard", hp: 1200},
	{id: 200, hp: 80},
}

func TestHeaderCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, "npc.param", npcRows, param.WithParamdefVersion(7))

	out, err := run(t, "header", path)
	require.NoError(t, err)

	var report headerReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, testStructName, report.StructName)
	assert.Equal(t, "Offset", report.Revision)
	assert.Equal(t, "OutOfLine", report.NameMode)
	assert.Equal(t, "LittleEndian", report.ByteOrder)
	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, uint16(7), report.ParamdefVersion)
	assert.True(t, report.ExtendedHeader)
	assert.False(t, report.WideOffsets)
	assert.Equal(t, 16, report.RowSize)
	assert.Len(t, report.Checksum, 16)
}

func TestHeaderCommand_RowSizeOverride(t *testing.T) {
	path := writeTable(t, t.TempDir(), "npc.param", npcRows)

	out, err := run(t, "header", path, "--row-size", "8")
	require.NoError(t, err)

	var report headerReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 8, report.RowSize)
}

func TestHeaderCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "header", filepath.Join(dir, "missing.param"))
	require.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.param")
	require.NoError(t, os.WriteFile(garbage, []byte("not a table"), 0o600))
	_, err = run(t, "header", garbage)
	require.Error(t, err)

	_, err = run(t, "header")
	require.Error(t, err)
}

func TestRowsCommand_Table(t *testing.T) {
	path := writeTable(t, t.TempDir(), "npc.param", npcRows)

	out, err := run(t, "rows", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "INDEX"))

	// Rows are listed by ascending ID with their storage index.
	assert.Equal(t, []string{"1", "100"}, strings.Fields(lines[1])[:2])
	assert.Equal(t, []string{"2", "200"}, strings.Fields(lines[2])[:2])
	assert.Equal(t, []string{"0", "300"}, strings.Fields(lines[3])[:2])
	assert.Contains(t, lines[1], "Guard")
	assert.Contains(t, lines[1], "b0040000"+strings.Repeat("00", 11)+"ee")
}

func TestRowsCommand_YAML(t *testing.T) {
	path := writeTable(t, t.TempDir(), "npc.param", npcRows)

	out, err := run(t, "rows", path, "--format", "yaml", "--limit", "2", "--bytes", "4")
	require.NoError(t, err)

	var rows []rowReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, rowReport{Index: 1, ID: 100, Name: "Guard", Offset: rows[0].Offset, Data: "b0040000"}, rows[0])
	assert.Equal(t, uint32(200), rows[1].ID)
	assert.Empty(t, rows[1].Name)
	assert.Equal(t, "50000000", rows[1].Data)
}

func TestRowsCommand_FullPayload(t *testing.T) {
	path := writeTable(t, t.TempDir(), "npc.param", npcRows)

	out, err := run(t, "rows", path, "--format", "yaml", "--bytes", "0")
	require.NoError(t, err)

	var rows []rowReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Len(t, r.Data, 32)
		assert.True(t, strings.HasSuffix(r.Data, "ee"))
	}
}

func TestRowsCommand_BadFormat(t *testing.T) {
	path := writeTable(t, t.TempDir(), "npc.param", npcRows)

	_, err := run(t, "rows", path, "--format", "json")
	require.ErrorContains(t, err, "unknown format")
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTable(t, dir, "old.param", npcRows)
	newPath := writeTable(t, dir, "new.param", []testRow{
		{id: 100, name: "Guard", hp: 1300},
		{id: 200, hp: 80},
		{id: 400, name: "Smith", hp: 900},
	})

	out, err := run(t, "diff", oldPath, newPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"modified", "100"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"removed", "300"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"added", "400"}, strings.Fields(lines[2]))

	out, err = run(t, "diff", oldPath, oldPath)
	require.NoError(t, err)
	assert.Equal(t, "tables are identical\n", out)
}

func TestDiffCommand_Incompatible(t *testing.T) {
	dir := t.TempDir()
	a := writeTable(t, dir, "a.param", npcRows)
	b := writeTable(t, dir, "b.param", npcRows, param.WithStructName("OTHER_PARAM_ST"))

	_, err := run(t, "diff", a, b)
	require.Error(t, err)
}

func TestSnapshotCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, "npc.param", npcRows)
	snapPath := filepath.Join(dir, "npc.snap")

	out, err := run(t, "snapshot", path, "--compression", "lz4", "--ids", "100,300", "--out", snapPath)
	require.NoError(t, err)

	var report snapshotReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, testStructName, report.StructName)
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 16, report.RowSize)
	assert.Equal(t, "LZ4", report.Compression)
	assert.Equal(t, int64(32), report.OriginalSize)

	data, err := os.ReadFile(snapPath)
	require.NoError(t, err)
	require.Len(t, data, report.EncodedSize)

	snap, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []uint32{100, 300}, snap.IDs())
	assert.Equal(t, report.Checksum, checksumString(snap.Checksum()))
}

func TestSnapshotCommand_Errors(t *testing.T) {
	path := writeTable(t, t.TempDir(), "npc.param", npcRows)

	_, err := run(t, "snapshot", path, "--compression", "brotli")
	require.ErrorContains(t, err, "unknown compression")

	_, err = run(t, "snapshot", path, "--ids", "999")
	require.Error(t, err)
}
