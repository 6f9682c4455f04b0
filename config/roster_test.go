package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempIni(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRoster(t *testing.T) {
	path := writeTempIni(t, `
[polarization-1]
port = /dev/ttyUSB0
family = mpc320
serial_number = 38123456

[waveplate-1]
port = /dev/ttyUSB1
family = k10cr1
serial_number = 55001234
`)

	roster, err := Load(path)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	pol := roster["polarization-1"]
	require.Equal(t, "/dev/ttyUSB0", pol.Port)
	require.Equal(t, FamilyMPC320, pol.Family)
	require.Equal(t, "38123456", pol.SerialNumber)

	mpcs := roster.ByFamily(FamilyMPC320)
	require.Len(t, mpcs, 1)
	require.Equal(t, "polarization-1", mpcs[0].Name)
}

func TestLoadRosterRejectsUnknownFamily(t *testing.T) {
	path := writeTempIni(t, `
[bogus]
port = /dev/ttyUSB2
family = not-a-real-device
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRosterRequiresPort(t *testing.T) {
	path := writeTempIni(t, `
[missing-port]
family = mpc220
`)

	_, err := Load(path)
	require.Error(t, err)
}
