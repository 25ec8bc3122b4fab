package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoadEntries(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	runs := []struct {
		vm    string
		suite string
		id    string
		at    time.Time
	}{
		{vm: "goja", suite: "octane", id: "aaaa1111", at: base},
		{vm: "goja", suite: "kraken", id: "bbbb2222", at: base.Add(time.Hour)},
		{vm: "other", suite: "octane", id: "cccc3333", at: base.Add(2 * time.Hour)},
	}
	for _, r := range runs {
		dir := filepath.Join(root, r.vm)
		require.NoError(t, os.MkdirAll(dir, 0755))
		path, err := Write(dir, &model.History{ID: r.id, Suite: r.suite, VM: r.vm, Timestamp: r.at})
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, r.suite+RunFileSuffix), path)
	}
	// unrelated and broken files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(root, "goja", "octane_results.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "goja", "broken"+RunFileSuffix), []byte("{"), 0644))

	entries, err := LoadEntries(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "cccc3333", entries[0].History.ID)
	require.Equal(t, "bbbb2222", entries[1].History.ID)
	require.Equal(t, "aaaa1111", entries[2].History.ID)
	require.Equal(t, filepath.Join(root, "other"), entries[0].Dir)
}

func TestLoadEntries_MissingRoot(t *testing.T) {
	_, err := LoadEntries(zerolog.Nop(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestFind(t *testing.T) {
	entries := []Entry{
		{History: model.History{ID: "abc123"}},
		{History: model.History{ID: "def456"}},
		{History: model.History{ID: "abd789"}},
	}

	tests := []struct {
		name    string
		arg     string
		wantID  string
		wantErr bool
	}{
		{name: "last", arg: "0", wantID: "abc123"},
		{name: "second to last", arg: "-1", wantID: "def456"},
		{name: "third to last", arg: "-2", wantID: "abd789"},
		{name: "out of range", arg: "-3", wantErr: true},
		{name: "positive index", arg: "1", wantErr: true},
		{name: "id prefix", arg: "DEF", wantID: "def456"},
		{name: "ambiguous prefix takes newest", arg: "ab", wantID: "abc123"},
		{name: "unknown id", arg: "fff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(entries, tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, got.History.ID)
		})
	}

	_, err := Find(nil, "0")
	require.Error(t, err)
}
