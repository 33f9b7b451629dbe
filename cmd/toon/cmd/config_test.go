package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	in := `
log_level = "debug"
delimiter = "|"
length_markers = true
`
	cfg, err := ReadConfig(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "|", cfg.Delimiter)
	require.True(t, cfg.LengthMarkers)
	// Unset fields keep their defaults.
	require.Equal(t, 2, cfg.Indent)
	require.False(t, cfg.Lenient)
}

func TestReadConfigInvalid(t *testing.T) {
	_, err := ReadConfig(strings.NewReader("log_level = [broken"))
	require.Error(t, err)
}

func TestParseDelimiter(t *testing.T) {
	for _, s := range []string{",", "comma", ""} {
		d, err := parseDelimiter(s)
		require.NoError(t, err)
		require.EqualValues(t, ',', d)
	}
	d, err := parseDelimiter("pipe")
	require.NoError(t, err)
	require.EqualValues(t, '|', d)
	d, err = parseDelimiter("tab")
	require.NoError(t, err)
	require.EqualValues(t, '\t', d)

	_, err = parseDelimiter("semicolon")
	require.Error(t, err)
}
