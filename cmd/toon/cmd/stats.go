package cmd

import (
	"fmt"
	"os"
	"strconv"

	toon "github.com/toonfmt/go-toon"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type docStats struct {
	objects  int
	arrays   int
	strings  int
	numbers  int
	booleans int
	nulls    int
	maxDepth int
}

func collectStats(v *toon.Value, depth int, s *docStats) {
	if depth > s.maxDepth {
		s.maxDepth = depth
	}
	switch v.Kind() {
	case toon.KindNull:
		s.nulls++
	case toon.KindBool:
		s.booleans++
	case toon.KindNumber:
		s.numbers++
	case toon.KindString:
		s.strings++
	case toon.KindArray:
		s.arrays++
		elems, _ := v.AsArr()
		for _, el := range elems {
			collectStats(el, depth+1, s)
		}
	case toon.KindObject:
		s.objects++
		fields, _ := v.AsObj()
		for _, f := range fields {
			collectStats(f.Value, depth+1, s)
		}
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show size and structure statistics for a TOON document.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		v, err := toon.Decode(data, decodeOptions(cmd)...)
		if err != nil {
			return err
		}

		var s docStats
		collectStats(v, 0, &s)

		asJSON, err := valueToJSON(v)
		if err != nil {
			return err
		}
		savings := 0.0
		if len(asJSON) > 0 {
			savings = 100 * (1 - float64(len(data))/float64(len(asJSON)))
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Append([]string{"TOON Bytes", strconv.Itoa(len(data))})
		table.Append([]string{"JSON Bytes", strconv.Itoa(len(asJSON))})
		table.Append([]string{"Savings", fmt.Sprintf("%.1f%%", savings)})
		table.Append([]string{"Objects", strconv.Itoa(s.objects)})
		table.Append([]string{"Arrays", strconv.Itoa(s.arrays)})
		table.Append([]string{"Strings", strconv.Itoa(s.strings)})
		table.Append([]string{"Numbers", strconv.Itoa(s.numbers)})
		table.Append([]string{"Booleans", strconv.Itoa(s.booleans)})
		table.Append([]string{"Nulls", strconv.Itoa(s.nulls)})
		table.Append([]string{"Max Depth", strconv.Itoa(s.maxDepth)})
		table.Render()
		return nil
	},
}

func init() {
	statsCmd.Flags().Int(FlagIndent, 2, "Indent width the input uses.")
	statsCmd.Flags().Bool(FlagLenient, false, "Repair malformed input instead of failing.")
	rootCmd.AddCommand(statsCmd)
}
