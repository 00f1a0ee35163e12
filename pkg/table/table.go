// Package table renders tabular CLI output.
package table

import (
	"github.com/pterm/pterm"
)

// PrintTableNoPad renders rows without the box padding pterm adds by default.
// The first row is treated as the header when hasHeader is set.
func PrintTableNoPad(rows pterm.TableData, hasHeader bool) {
	if len(rows) == 0 {
		return
	}
	_ = pterm.DefaultTable.
		WithHasHeader(hasHeader).
		WithBoxed(false).
		WithLeftAlignment().
		WithData(rows).
		Render()
}
