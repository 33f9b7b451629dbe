package cmd

import (
	"bytes"
	"encoding/json"

	toon "github.com/toonfmt/go-toon"

	"github.com/spf13/cobra"
)

const FlagPretty = "pretty"

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Convert a TOON document to JSON.",
	Long: `Reads a TOON document from the given file (or stdin) and writes it as
JSON. Object key order is preserved. With --lenient, malformed input is
repaired on a best-effort basis instead of rejected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		v, err := toon.Decode(data, decodeOptions(cmd)...)
		if err != nil {
			return err
		}

		out, err := valueToJSON(v)
		if err != nil {
			return err
		}
		if pretty, _ := cmd.Flags().GetBool(FlagPretty); pretty {
			var buf bytes.Buffer
			if err := json.Indent(&buf, out, "", "  "); err != nil {
				return err
			}
			out = buf.Bytes()
		}
		return writeOutput(cmd, out)
	},
}

func init() {
	decodeCmd.Flags().Int(FlagIndent, 2, "Indent width the input uses.")
	decodeCmd.Flags().Bool(FlagLenient, false, "Repair malformed input instead of failing.")
	decodeCmd.Flags().Bool(FlagPretty, false, "Indent the JSON output.")
	rootCmd.AddCommand(decodeCmd)
}
