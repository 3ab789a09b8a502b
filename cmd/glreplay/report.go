package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// run is one labelled replay result.
type run struct {
	label  string
	result Result
}

// writeCalls prints native calls per entry point, one column per run.
func writeCalls(w io.Writer, runs []run) {
	var names []string
	for _, r := range runs {
		for name := range r.result.Calls {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return
	}
	slices.Sort(names)

	header := []string{"entry point"}
	for _, r := range runs {
		header = append(header, r.label)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	totals := make([]int, len(runs))
	for _, name := range names {
		row := []string{name}
		for i, r := range runs {
			n := r.result.Calls[name]
			totals[i] += n
			row = append(row, strconv.Itoa(n))
		}
		table.Append(row)
	}
	footer := []string{"total"}
	for _, n := range totals {
		footer = append(footer, strconv.Itoa(n))
	}
	table.SetFooter(footer)
	table.Render()
}

// writeStats prints the binding cache counters of every run.
func writeStats(w io.Writer, runs []run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"mode", "binds issued", "binds skipped", "hit rate", "queries", "evictions", "invalidations"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range runs {
		s := r.result.Stats
		table.Append([]string{
			r.label,
			strconv.FormatUint(s.BindsIssued, 10),
			strconv.FormatUint(s.BindsSkipped, 10),
			fmt.Sprintf("%.1f%%", 100*s.HitRate()),
			strconv.FormatUint(s.Queries, 10),
			strconv.FormatUint(s.Evictions, 10),
			strconv.FormatUint(s.Invalidations, 10),
		})
	}
	table.Render()
}

// saved returns how many native calls the first run avoided compared to the
// second, or false when either run has no call counts.
func saved(cached, uncached Result) (int, bool) {
	if cached.Calls == nil || uncached.Calls == nil {
		return 0, false
	}
	total := func(m map[string]int) int {
		n := 0
		for _, v := range m {
			n += v
		}
		return n
	}
	return total(uncached.Calls) - total(cached.Calls), true
}
