package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/perdasilva/dutyroster/pkg/schedule"
)

// TextRenderer prints a roster table for the console, one block per
// site.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Render(w io.Writer, table *schedule.Table, title string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	if title != "" {
		fmt.Fprintf(tw, "=== %s ===\n", title)
	}
	for _, group := range table.Sites() {
		fmt.Fprintf(tw, "\n────────────── %s ──────────────\n", group.Site)
		for _, row := range group.Rows {
			name := row.Name
			if row.Relaxed {
				name += "*"
			}
			cells := []string{name}
			for _, label := range row.Days {
				short := label.Short()
				if short == "" {
					short = "-"
				}
				cells = append(cells, short)
			}
			cells = append(cells,
				fmt.Sprintf("Sat:%d", row.SaturdayCount),
				fmt.Sprintf("Sun:%d", row.SundayCount),
				fmt.Sprintf("Total:%d", row.TotalDutyDays))
			fmt.Fprintf(tw, "%s\t\n", strings.Join(cells, "\t| "))
		}
	}
	saturdays, sundays := table.Totals()
	fmt.Fprintln(tw)
	for _, total := range []struct {
		label  string
		counts []int
	}{
		{SummarySaturdays, saturdays},
		{SummarySundays, sundays},
	} {
		cells := []string{total.label}
		for _, n := range total.counts {
			cells = append(cells, strconv.Itoa(n))
		}
		fmt.Fprintf(tw, "%s\t\n", strings.Join(cells, "\t| "))
	}
	if len(table.Relaxed) > 0 {
		fmt.Fprintf(tw, "\n* carry-over exclusion lifted: %s\n", strings.Join(table.Relaxed, ", "))
	}
	return tw.Flush()
}
