package storagemetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/chainkv/onchain-collections/storage"
)

func TestInstrumentForwardsCallsAndCountsThem(t *testing.T) {
	inner := storage.NewMemHost()
	host := Instrument("test_onchain_collections_1", inner)

	_, err := host.Write([]byte("k"), []byte("v"))
	require.NoError(t, err)

	v, ok, err := host.Read([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)

	ok, err = host.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)

	i := host.(*instrumented)
	require.Greater(t, testutil.ToFloat64(i.calls.WithLabelValues("write", "ok")), float64(0))
	require.Greater(t, testutil.ToFloat64(i.calls.WithLabelValues("read", "ok")), float64(0))
}

func TestInstrumentCountsErrors(t *testing.T) {
	host := Instrument("test_onchain_collections_2", failingHost{})
	_, _, err := host.Read([]byte("k"))
	require.Error(t, err)

	i := host.(*instrumented)
	require.Greater(t, testutil.ToFloat64(i.calls.WithLabelValues("read", "error")), float64(0))
}

type failingHost struct{}

func (failingHost) Read([]byte) ([]byte, bool, error)      { return nil, false, assertErr }
func (failingHost) Write([]byte, []byte) (bool, error)     { return false, assertErr }
func (failingHost) Remove([]byte) (bool, error)            { return false, assertErr }
func (failingHost) Has([]byte) (bool, error)               { return false, assertErr }

var assertErr = &simpleErr{"boom"}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }
