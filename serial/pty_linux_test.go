package serial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenPTYLoopback(t *testing.T) {
	master, slave, err := OpenPTY(nil, nil)
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}
	defer master.Close()
	defer slave.Close()
	require.NoError(t, slave.MakeRaw())

	want := []byte("hello apt")
	n, err := master.Write(want)
	require.NoError(t, err)
	require.Equal(t, len(want), n)

	got := make([]byte, len(want))
	n, err = slave.ReadFull(got)
	require.NoError(t, err)
	require.Equal(t, len(want), n)
	require.Equal(t, want, got)
}

func TestOpenPTYWinSize(t *testing.T) {
	master, slave, err := OpenPTY(nil, &Winsize{Row: 24, Col: 80})
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}
	defer master.Close()
	defer slave.Close()

	ws, err := slave.GetWinSize()
	require.NoError(t, err)
	require.EqualValues(t, 24, ws.Row)
	require.EqualValues(t, 80, ws.Col)
}
