package bridgecli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrolink/x1bridge/internal/keymap"
)

func runCommand(t *testing.T, configDir string, args ...string) string {
	t.Helper()
	cmd := NewRootCmd(configDir)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestExportSchema(t *testing.T) {
	out := runCommand(t, t.TempDir(), "export-schema")

	var columns []keymap.SchemaColumn
	require.NoError(t, json.Unmarshal([]byte(out), &columns))
	require.NotEmpty(t, columns)
	assert.Equal(t, "srcKey", columns[0].Name)

	var names []string
	for _, c := range columns {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "layout")
	assert.Contains(t, names, "machine")
	assert.Contains(t, names, "outCtrl")
}

func TestShowKeymapMaterializesDefault(t *testing.T) {
	dir := t.TempDir()
	out := runCommand(t, dir, "show-keymap")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, keymap.Default().Len(), len(lines))

	// The fallback must now be file-backed.
	data, err := os.ReadFile(filepath.Join(dir, "data", "keymap.bin"))
	require.NoError(t, err)
	assert.Equal(t, keymap.Encode(keymap.Default()), data)
}

func TestUploadKeymapCommand(t *testing.T) {
	dir := t.TempDir()
	table := keymap.New([]keymap.Entry{
		{SrcKey: keymap.ScanA, Layout: keymap.LayoutAny, Machine: keymap.MachineAny, OutKey: 'a'},
	})
	src := filepath.Join(dir, "upload.bin")
	require.NoError(t, os.WriteFile(src, keymap.Encode(table), 0o644))

	out := runCommand(t, dir, "upload-keymap", src)
	assert.Contains(t, out, "1 rules")

	data, err := os.ReadFile(filepath.Join(dir, "data", "keymap.bin"))
	require.NoError(t, err)
	assert.Equal(t, keymap.Encode(table), data)
}

func TestUploadKeymapRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "upload.bin")
	require.NoError(t, os.WriteFile(src, []byte{0x01, 0x02, 0x03}, 0o644))

	cmd := NewRootCmd(dir)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"upload-keymap", src})
	assert.Error(t, cmd.Execute())
}
