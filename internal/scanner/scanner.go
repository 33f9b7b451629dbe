// Package scanner turns raw TOON text into an ordered list of logical
// lines tagged with their indentation depth. It does not interpret quoting
// or line content; that belongs to the structural parser.
package scanner

import (
	"fmt"
	"strings"
)

// Line is one logical line of input.
type Line struct {
	// Num is the 1-based line number in the raw input, blank lines included,
	// used for diagnostics.
	Num int
	// Depth is the indentation depth: leading spaces divided by the
	// configured indent width.
	Depth int
	// Content is the line with its leading spaces stripped, otherwise
	// verbatim.
	Content string
}

// IndentError reports indentation that is not a multiple of the configured
// indent width.
type IndentError struct {
	Line   int
	Spaces int
	Width  int
}

func (e *IndentError) Error() string {
	return fmt.Sprintf("line %d: indentation of %d spaces is not a multiple of %d", e.Line, e.Spaces, e.Width)
}

// Scan splits data into depth-tagged lines. Blank lines are skipped. In
// strict mode an indentation that is not a multiple of width fails with an
// IndentError; otherwise the depth is rounded down.
func Scan(data []byte, width int, strict bool) ([]Line, error) {
	if width <= 0 {
		width = 2
	}
	var lines []Line
	for num, raw := range strings.Split(string(data), "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		spaces := 0
		for spaces < len(raw) && raw[spaces] == ' ' {
			spaces++
		}
		if strict && spaces%width != 0 {
			return nil, &IndentError{Line: num + 1, Spaces: spaces, Width: width}
		}
		lines = append(lines, Line{
			Num:     num + 1,
			Depth:   spaces / width,
			Content: raw[spaces:],
		})
	}
	return lines, nil
}
