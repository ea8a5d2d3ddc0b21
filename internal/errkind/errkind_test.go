package errkind

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestQueryErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	qe := Wrap(Nil, cause)
	require.Error(t, qe)
	assert.Equal(t, Nil, KindOf(qe))
	assert.ErrorIs(t, qe, cause)
}

func TestKindOfUnwrapsNestedQueryError(t *testing.T) {
	qe := New(OverwriteError, "key %q exists", "sayan")
	wrapped := fmt.Errorf("set failed: %w", qe)
	assert.Equal(t, OverwriteError, KindOf(wrapped))
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("plain")))
}

func TestKindOfNilIsUnknown(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestKindStringFallback(t *testing.T) {
	assert.Equal(t, "kind(9999)", Kind(9999).String())
}

func TestKindOfResolvesMultierrCombinedError(t *testing.T) {
	var combined error
	combined = multierr.Append(combined, New(BadFieldDefinition, "duplicate field %q", "name"))
	combined = multierr.Append(combined, New(BadFieldDefinition, "model has no primary field"))
	assert.Equal(t, BadFieldDefinition, KindOf(combined))
}
