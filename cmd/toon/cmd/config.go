package cmd

import (
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config holds the tool-wide defaults read from the config file. Command
// line flags override these.
type Config struct {
	LogLevel      string `mapstructure:"log_level"`
	Indent        int    `mapstructure:"indent"`
	Delimiter     string `mapstructure:"delimiter"`
	LengthMarkers bool   `mapstructure:"length_markers"`
	Lenient       bool   `mapstructure:"lenient"`
}

var DefaultConfig = Config{
	LogLevel:  "info",
	Indent:    2,
	Delimiter: ",",
}

// ReadConfig parses a TOML config from r on top of the defaults.
func ReadConfig(r io.Reader) (*Config, error) {
	decoder := toml.NewDecoder(r)
	decoder.SetTagName("mapstructure")
	config := DefaultConfig
	if err := decoder.Decode(&config); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	return &config, nil
}

// LoadConfig reads the config file at path, expanding a leading ~. A
// missing file is not an error; the defaults apply.
func LoadConfig(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "error expanding config path")
	}
	f, err := os.Open(expanded)
	if os.IsNotExist(err) {
		cfg := DefaultConfig
		return &cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error opening config file")
	}
	defer f.Close()
	return ReadConfig(f)
}
