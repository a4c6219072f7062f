package perfdb

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ROCm/pdbmerge/pkg/errors"
	"github.com/ROCm/pdbmerge/pkg/logging"
)

// Store holds every ingested tuning record, keyed by tuning key. Each key
// maps to exactly one Entry: Single until a second value arrives, Conflict
// from then on. A Store is built once per run and read once; it is not safe
// for concurrent use and does not need to be.
type Store struct {
	entries map[string]*Entry
	log     *zerolog.Logger
}

// New returns an empty store. A nil logger falls back to the package
// default diagnostic logger.
func New(log *zerolog.Logger) *Store {
	if log == nil {
		log = logging.Default()
	}
	return &Store{
		entries: make(map[string]*Entry),
		log:     log,
	}
}

// LoadFile ingests every line of the file at path, in file order. Line
// numbers start at 1. An unreadable path is fatal to the run and returned
// as an IOError; malformed lines only warn.
func (s *Store) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		s.IngestLine(Provenance{Source: path, Line: line}, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.WrapIO("read", path, err)
	}
	return nil
}

// IngestLine parses one key=value input line and feeds it to Ingest. Empty
// lines are skipped silently; lines without a separator or with an empty
// key are dropped with a warning.
func (s *Store) IngestLine(pos Provenance, line string) {
	if line == "" {
		return
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok || key == "" {
		s.log.Warn().
			Stringer("at", pos).
			Msg("ill-formed record: key not found")
		return
	}

	s.Ingest(key, value, pos)
}

// Ingest records one raw value for a tuning key. An empty value is dropped
// with a warning; a trailing carriage return is stripped before storage so
// CRLF inputs merge cleanly with LF inputs. The first value for a key is
// stored as-is; any later value escalates the key to a Conflict, feeding
// both the original value and the new one through sub-record decomposition.
func (s *Store) Ingest(key, raw string, pos Provenance) {
	if raw == "" {
		s.log.Warn().
			Str("key", key).
			Stringer("at", pos).
			Msg("none contents under the key")
		return
	}

	raw = strings.TrimSuffix(raw, "\r")

	entry, exists := s.entries[key]
	if !exists {
		s.entries[key] = newSingleEntry(ValueRecord{Provenance: pos, Value: raw})
		return
	}

	var conflict *Conflict
	if entry.Kind() == KindSingle {
		conflict = entry.escalate(s.log)
	} else {
		conflict = entry.Conflict()
	}
	conflict.Add(raw, pos)
}

// Entry returns the stored entry for key, or nil if the key is unknown.
func (s *Store) Entry(key string) *Entry {
	return s.entries[key]
}

// Len returns the number of distinct keys ingested so far.
func (s *Store) Len() int {
	return len(s.entries)
}

// SortedKeys returns every stored key in sorted order. Output passes
// iterate this slice so merged databases are deterministic regardless of
// map iteration order.
func (s *Store) SortedKeys() []string {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
