package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	toon "github.com/toonfmt/go-toon"
)

const (
	FlagConfig        = "config"
	FlagLogLevel      = "log-level"
	FlagIndent        = "indent"
	FlagDelimiter     = "delimiter"
	FlagLengthMarkers = "length-markers"
	FlagLenient       = "lenient"
	FlagOutput        = "output"
)

var (
	cfg    *Config
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "toon",
	Short: "Convert between JSON and TOON, a compact indentation-based format.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := cmd.Flags().GetString(FlagConfig)
		if err != nil {
			return err
		}
		cfg, err = LoadConfig(configPath)
		if err != nil {
			return err
		}

		levelName := cfg.LogLevel
		if cmd.Flags().Changed(FlagLogLevel) {
			levelName, _ = cmd.Flags().GetString(FlagLogLevel)
		}
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			return errors.Wrap(err, "invalid log level")
		}
		logger.SetLevel(level)
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors: isatty.IsTerminal(os.Stderr.Fd()),
		})
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String(FlagConfig, "~/.toon/config.toml", "Path to the config file.")
	rootCmd.PersistentFlags().String(FlagLogLevel, "", "Log level (trace, debug, info, warn, error).")
	rootCmd.PersistentFlags().StringP(FlagOutput, "o", "", "Write output to a file instead of stdout.")
}

// encodeOptions builds the library options from config and flags.
func encodeOptions(cmd *cobra.Command) ([]toon.EncodeOption, error) {
	indent := cfg.Indent
	if cmd.Flags().Changed(FlagIndent) {
		indent, _ = cmd.Flags().GetInt(FlagIndent)
	}
	delim := cfg.Delimiter
	if cmd.Flags().Changed(FlagDelimiter) {
		delim, _ = cmd.Flags().GetString(FlagDelimiter)
	}
	markers := cfg.LengthMarkers
	if f, _ := cmd.Flags().GetBool(FlagLengthMarkers); f {
		markers = true
	}

	d, err := parseDelimiter(delim)
	if err != nil {
		return nil, err
	}
	opts := []toon.EncodeOption{toon.Indent(indent), toon.Delimiter(d)}
	if markers {
		opts = append(opts, toon.LengthMarkers())
	}
	return opts, nil
}

func decodeOptions(cmd *cobra.Command) []toon.DecodeOption {
	var opts []toon.DecodeOption
	if cmd.Flags().Changed(FlagIndent) {
		n, _ := cmd.Flags().GetInt(FlagIndent)
		opts = append(opts, toon.ExpectIndent(n))
	} else if cfg.Indent != 2 {
		opts = append(opts, toon.ExpectIndent(cfg.Indent))
	}
	lenient := cfg.Lenient
	if f, _ := cmd.Flags().GetBool(FlagLenient); f {
		lenient = true
	}
	if lenient {
		opts = append(opts, toon.Lenient())
	}
	return opts
}

func parseDelimiter(s string) (toon.Delim, error) {
	switch s {
	case ",", "comma", "":
		return toon.DelimComma, nil
	case "\t", "tab":
		return toon.DelimTab, nil
	case "|", "pipe":
		return toon.DelimPipe, nil
	default:
		return 0, errors.Errorf("invalid delimiter %q (use comma, tab or pipe)", s)
	}
}

// readInput reads the first positional argument as a file, or stdin when
// no argument is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "error reading input file")
		}
		return data, nil
	}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "Reading from stdin; press Ctrl+D when done.")
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return nil, errors.Wrap(err, "error reading stdin")
	}
	return data, nil
}

// writeOutput writes data plus a trailing newline to the --output file or
// stdout.
func writeOutput(cmd *cobra.Command, data []byte) error {
	out, err := cmd.Flags().GetString(FlagOutput)
	if err != nil {
		return err
	}
	if out == "" || out == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(out, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(err, "error writing output file")
	}
	logger.WithField("path", out).Debug("wrote output file")
	return nil
}
