package report

// table.go renders results as a console table.

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/perfgo/jsbench/model"
)

// TableHeader lists the columns of the console table.
var TableHeader = []string{"Test", "Type", "Status", "Wall (s)", "User (s)", "Sys (s)", "JS mem Δ (B)", "RSS peak (KB)"}

// TableSink collects measured tests and renders them as a table on Close.
type TableSink struct {
	out    io.Writer
	rows   [][]string
	totals model.RunTotals
}

func NewTableSink(out io.Writer) *TableSink {
	return &TableSink{out: out}
}

func (s *TableSink) Write(r model.TestResult) error {
	s.totals.Add(r)
	s.rows = append(s.rows, []string{
		r.Descriptor.Name,
		string(r.Descriptor.Category),
		r.Status.String(),
		fmt.Sprintf("%.4f", r.WallDelta()),
		fmt.Sprintf("%.4f", r.UserDelta()),
		fmt.Sprintf("%.4f", r.SysDelta()),
		fmt.Sprintf("%d", r.MemoryChange()),
		fmt.Sprintf("%d", r.PeakResidentKB()),
	})
	return nil
}

func (s *TableSink) Close() error {
	footer := []string{
		fmt.Sprintf("%d tests", len(s.rows)), "", "",
		fmt.Sprintf("%.4f", s.totals.TotalWallSeconds),
		fmt.Sprintf("%.4f", s.totals.TotalUserSeconds),
		fmt.Sprintf("%.4f", s.totals.TotalSysSeconds),
		"",
		fmt.Sprintf("%d", s.totals.PeakResidentKB),
	}
	RenderTable(s.out, TableHeader, s.rows, footer)
	return nil
}

// RenderTable writes a borderless table to out.
func RenderTable(out io.Writer, header []string, rows [][]string, footer []string) {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	if footer != nil {
		table.SetFooter(footer)
	}
	table.Render()
}
