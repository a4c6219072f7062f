package perfdb_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROCm/pdbmerge/pkg/logging"
	"github.com/ROCm/pdbmerge/pkg/perfdb"
)

func pos(source string, line int) perfdb.Provenance {
	return perfdb.Provenance{Source: source, Line: line}
}

func TestStoreSingleValue(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	store.Ingest("key1", "alg:1,2,3", pos("a.db", 1))

	entry := store.Entry("key1")
	require.NotNil(t, entry)
	assert.Equal(t, perfdb.KindSingle, entry.Kind())
	assert.Equal(t, "alg:1,2,3", entry.Single().Value)
	assert.Equal(t, "a.db:1", entry.Single().Provenance.String())
}

func TestStoreEscalatesOnSecondValue(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	store.Ingest("key1", "alg:1,2", pos("a.db", 1))
	store.Ingest("key1", "alg:1,2,3", pos("b.db", 7))

	entry := store.Entry("key1")
	require.Equal(t, perfdb.KindConflict, entry.Kind())

	conflict := entry.Conflict()
	require.Equal(t, []string{"alg"}, conflict.SubIDs())

	records := conflict.Records("alg")
	require.Len(t, records, 2)
	// The original single value is re-injected first, keeping arrival order.
	assert.Equal(t, "1,2", records[0].Value)
	assert.Equal(t, "a.db:1", records[0].Provenance.String())
	assert.Equal(t, "1,2,3", records[1].Value)
	assert.Equal(t, "b.db:7", records[1].Provenance.String())
}

func TestStoreDuplicateValueStillEscalates(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	store.Ingest("key1", "alg:5", pos("a.db", 1))
	store.Ingest("key1", "alg:5", pos("b.db", 1))

	entry := store.Entry("key1")
	require.Equal(t, perfdb.KindConflict, entry.Kind())
	assert.True(t, entry.Conflict().AllAgree("alg"))
}

func TestStoreNeverReverts(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	store.Ingest("key1", "alg:1", pos("a.db", 1))
	store.Ingest("key1", "alg:2", pos("a.db", 2))
	store.Ingest("key1", "alg:3", pos("a.db", 3))

	entry := store.Entry("key1")
	require.Equal(t, perfdb.KindConflict, entry.Kind())
	assert.Len(t, entry.Conflict().Records("alg"), 3)
}

func TestIngestLineParsing(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantStored bool
		wantWarn   string
	}{
		{name: "well formed", line: "key1=alg:1", wantStored: true},
		{name: "empty line skipped silently", line: ""},
		{name: "no separator", line: "key1 alg:1", wantWarn: "ill-formed record: key not found"},
		{name: "empty key", line: "=alg:1", wantWarn: "ill-formed record: key not found"},
		{name: "empty value", line: "key1=", wantWarn: "none contents under the key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logging.NewTestLogger(t)
			store := perfdb.New(log.Logger)
			store.IngestLine(pos("in.db", 1), tt.line)

			if tt.wantStored {
				assert.Equal(t, 1, store.Len())
			} else {
				assert.Equal(t, 0, store.Len())
			}
			if tt.wantWarn != "" {
				assert.True(t, log.Contains(tt.wantWarn), "missing %q in %s", tt.wantWarn, log.Output())
			} else {
				assert.Equal(t, 0, log.Count())
			}
		})
	}
}

func TestIngestStripsTrailingCR(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	store.Ingest("key1", "alg:1\r", pos("a.db", 1))

	assert.Equal(t, "alg:1", store.Entry("key1").Single().Value)
}

func TestCRLFEquivalentValuesMergeCleanly(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	store.Ingest("key1", "alg:1\r", pos("dos.db", 1))
	store.Ingest("key1", "alg:1", pos("unix.db", 1))

	entry := store.Entry("key1")
	require.Equal(t, perfdb.KindConflict, entry.Kind())
	assert.True(t, entry.Conflict().AllAgree("alg"))
}

func TestConflictDecompositionWarnings(t *testing.T) {
	tests := []struct {
		name     string
		second   string
		wantIDs  []string
		wantWarn string
	}{
		{
			name:    "well formed sub-records",
			second:  "b:2;c:3",
			wantIDs: []string{"a", "b", "c"},
		},
		{
			name:     "missing id separator",
			second:   "junk",
			wantIDs:  []string{"a"},
			wantWarn: "ill-formed record: id not found",
		},
		{
			name:     "empty id",
			second:   ":2",
			wantIDs:  []string{"a"},
			wantWarn: "ill-formed record: id not found",
		},
		{
			name:     "empty sub-value",
			second:   "b:",
			wantIDs:  []string{"a"},
			wantWarn: "none contents under the id",
		},
		{
			name:    "trailing separator dropped silently",
			second:  "b:2;",
			wantIDs: []string{"a", "b"},
		},
		{
			name:     "interior empty segment warns",
			second:   "b:2;;c:3",
			wantIDs:  []string{"a", "b", "c"},
			wantWarn: "ill-formed record: id not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logging.NewTestLogger(t)
			store := perfdb.New(log.Logger)
			store.Ingest("key1", "a:1", pos("a.db", 1))
			store.Ingest("key1", tt.second, pos("b.db", 1))

			conflict := store.Entry("key1").Conflict()
			assert.Equal(t, tt.wantIDs, conflict.SubIDs())
			if tt.wantWarn != "" {
				assert.True(t, log.Contains(tt.wantWarn), "missing %q in %s", tt.wantWarn, log.Output())
			} else {
				assert.Equal(t, 0, log.Count())
			}
		})
	}
}

func TestConflictInsertionOrderAcrossValues(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	store.Ingest("key1", "z:1;a:2", pos("a.db", 1))
	store.Ingest("key1", "m:3;a:4", pos("b.db", 1))

	conflict := store.Entry("key1").Conflict()
	assert.Equal(t, []string{"z", "a", "m"}, conflict.SubIDs())
	assert.False(t, conflict.AllAgree("a"))
	assert.True(t, conflict.AllAgree("z"))
	assert.True(t, conflict.AllAgree("m"))
}

func TestSortedKeys(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	for _, key := range []string{"zebra", "alpha", "mid"} {
		store.Ingest(key, "a:1", pos("a.db", 1))
	}

	assert.Equal(t, []string{"alpha", "mid", "zebra"}, store.SortedKeys())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shard.db")
	content := "key1=a:1\n\nkey2=b:2\r\nbadline\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	log := logging.NewTestLogger(t)
	store := perfdb.New(log.Logger)
	require.NoError(t, store.LoadFile(path))

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "b:2", store.Entry("key2").Single().Value)
	assert.True(t, log.Contains("ill-formed record: key not found"))
	// The bad line is on line 4; empty lines still count.
	assert.True(t, log.Contains(`"line":4`) || log.Contains(path+":4"), log.Output())
}

func TestLoadFileMissing(t *testing.T) {
	store := perfdb.New(logging.NewNopLogger())
	err := store.LoadFile(filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
}
