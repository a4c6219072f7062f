package errors_test

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ROCm/pdbmerge/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil means clean merge", err: nil, want: errors.ExitOK},
		{name: "unresolved conflicts", err: errors.ErrUnresolvedConflicts, want: errors.ExitConflicts},
		{name: "wrapped unresolved conflicts", err: fmt.Errorf("merge: %w", errors.ErrUnresolvedConflicts), want: errors.ExitConflicts},
		{name: "usage error", err: errors.NewUsageError("--resolve", "bad value"), want: errors.ExitFatal},
		{name: "key error", err: errors.NewKeyError("bad-key", 0, "channels"), want: errors.ExitFatal},
		{name: "io error", err: errors.WrapIO("read", "x.db", fs.ErrNotExist), want: errors.ExitFatal},
		{name: "arbitrary error", err: errors.New("boom"), want: errors.ExitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.ExitCode(tt.err))
		})
	}
}

func TestUsageError(t *testing.T) {
	err := errors.NewUsageError("--resolve", "expected 0, 1, off or auto, got maybe")
	assert.True(t, errors.IsUsage(err))
	assert.Equal(t, "--resolve: expected 0, 1, off or auto, got maybe", err.Error())

	bare := errors.NewUsageError("", "expected at least one input file")
	assert.Equal(t, "expected at least one input file", bare.Error())
}

func TestKeyError(t *testing.T) {
	err := errors.NewKeyError("a-b-c", 1, "height: bad syntax")
	assert.True(t, errors.IsInvalidKey(err))
	assert.Contains(t, err.Error(), `"a-b-c"`)
	assert.Contains(t, err.Error(), "field 1")
}

func TestIOErrorUnwrap(t *testing.T) {
	err := errors.WrapIO("read", "missing.db", fs.ErrNotExist)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "can not read file missing.db")

	assert.NoError(t, errors.WrapIO("read", "missing.db", nil))
}
