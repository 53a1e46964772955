package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

type CollectionStats struct {
	Name       string
	LoadFailed bool
	Written    int
	Skipped    int
	Failed     int
}

type cliOutputWithColors interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
}

// ExportReport tallies item outcomes per collection for the summary table
// printed at the end of a run.
type ExportReport struct {
	colors      cliOutputWithColors
	collections []*CollectionStats
	byName      map[string]*CollectionStats
	startTime   time.Time
	location    string
}

func NewExportReport(colors cliOutputWithColors, location string) *ExportReport {
	return &ExportReport{
		colors:    colors,
		byName:    make(map[string]*CollectionStats),
		startTime: time.Now(),
		location:  location,
	}
}

func (r *ExportReport) collection(name string) *CollectionStats {
	if stats, ok := r.byName[name]; ok {
		return stats
	}
	stats := &CollectionStats{Name: name}
	r.collections = append(r.collections, stats)
	r.byName[name] = stats
	return stats
}

func (r *ExportReport) StartCollection(name string) {
	r.collection(name)
}

func (r *ExportReport) CollectionFailed(name string) {
	r.collection(name).LoadFailed = true
}

func (r *ExportReport) Record(name string, outcome Outcome) {
	stats := r.collection(name)
	switch outcome {
	case OutcomeWritten:
		stats.Written++
	case OutcomeSkipped:
		stats.Skipped++
	case OutcomeFailed:
		stats.Failed++
	}
}

func (r *ExportReport) Collections() []CollectionStats {
	out := make([]CollectionStats, 0, len(r.collections))
	for _, stats := range r.collections {
		out = append(out, *stats)
	}
	return out
}

func (r *ExportReport) Totals() CollectionStats {
	total := CollectionStats{Name: "total"}
	for _, stats := range r.collections {
		total.Written += stats.Written
		total.Skipped += stats.Skipped
		total.Failed += stats.Failed
		if stats.LoadFailed {
			total.LoadFailed = true
		}
	}
	return total
}

func (r *ExportReport) HasFailures() bool {
	total := r.Totals()
	return total.LoadFailed || total.Failed > 0
}

func (r *ExportReport) Duration() time.Duration {
	return time.Since(r.startTime)
}

// Render prints the table. Nothing is printed when no collection ran.
func (r *ExportReport) Render(w io.Writer) {
	if len(r.collections) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Collection", "Written", "Skipped", "Failed"})

	for _, stats := range r.collections {
		name := stats.Name
		if stats.LoadFailed {
			name = r.colors.Red(name + " (not loaded)")
		}
		t.AppendRow(table.Row{name, stats.Written, stats.Skipped, stats.Failed})
	}

	total := r.Totals()
	t.AppendFooter(table.Row{"Total", total.Written, total.Skipped, total.Failed})
	t.Render()

	summary := r.colors.Green(fmt.Sprintf("Exported in %s", formatDuration(r.Duration())))
	if r.HasFailures() {
		summary = r.colors.Yellow(fmt.Sprintf("Exported with errors in %s", formatDuration(r.Duration())))
	}
	fmt.Fprintf(w, "  %s\n", summary)

	if r.location != "" {
		fmt.Fprintf(w, "  %s\n", r.colors.Gray("Output: "+r.location))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}
