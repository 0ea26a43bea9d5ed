package errkind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesByKind(t *testing.T) {
	err := WithIndex(OutOfRange, 7)
	require.True(t, errors.Is(err, OutOfRange))
	require.False(t, errors.Is(err, Empty))

	var target *Error
	require.True(t, errors.As(err, &target))
	require.Equal(t, uint64(7), target.Index)
	require.True(t, target.HasIndex)
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(HostError, cause)
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, HostError)
}

func TestWithKeyFormatsHex(t *testing.T) {
	err := WithKey(KeyAbsent, []byte("k1"))
	require.Contains(t, err.Error(), "6b31")
	require.Contains(t, err.Error(), "key absent")
}
