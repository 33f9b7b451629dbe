package cmd

import (
	toon "github.com/toonfmt/go-toon"

	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Convert a JSON document to TOON.",
	Long: `Reads a JSON document from the given file (or stdin) and writes its
TOON encoding. Object key order is preserved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		v, err := jsonToValue(data)
		if err != nil {
			return err
		}

		opts, err := encodeOptions(cmd)
		if err != nil {
			return err
		}
		out, err := toon.Encode(v, opts...)
		if err != nil {
			return err
		}

		logger.WithFields(map[string]interface{}{
			"json_bytes": len(data),
			"toon_bytes": len(out),
		}).Debug("encoded document")
		return writeOutput(cmd, out)
	},
}

func init() {
	encodeCmd.Flags().Int(FlagIndent, 2, "Indent width in spaces.")
	encodeCmd.Flags().String(FlagDelimiter, "comma", "Field delimiter: comma, tab or pipe.")
	encodeCmd.Flags().Bool(FlagLengthMarkers, false, "Prefix array lengths with '#'.")
	rootCmd.AddCommand(encodeCmd)
}
