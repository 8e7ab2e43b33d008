package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or csv)", s)
	}
}

// Render writes r in the given format.
func Render(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON:
		return RenderJSON(w, r)
	case FormatCSV:
		return RenderCSV(w, r)
	case FormatText, "":
		return RenderText(w, r)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// RenderJSON writes r as indented JSON.
func RenderJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// csvHeader is the column order of RenderCSV.
var csvHeader = []string{"id", "from", "to", "kind", "delay_ms", "sequence", "start_ms", "arrival_ms", "wave"}

// RenderCSV writes the connections table with computed windows. Unreached
// connectors have empty start, arrival and wave cells.
func RenderCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range r.Connections {
		wave := ""
		if c.Wave > 0 {
			wave = strconv.Itoa(c.Wave)
		}
		rec := []string{
			c.ID, c.From, c.To, c.Kind,
			strconv.FormatInt(c.DelayMs, 10),
			strconv.Itoa(c.Sequence),
			optionalMs(c.StartMs),
			optionalMs(c.ArrivalMs),
			wave,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5722"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#34495E")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336"))
)

// RenderText writes a human-readable report with lipgloss tables.
func RenderText(w io.Writer, r Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.Title))
	b.WriteString("\n")
	if r.Project != "" {
		fmt.Fprintf(&b, "Project: %s\n", r.Project)
	}
	fmt.Fprintf(&b, "Root rule: %s\n", r.RootRule)

	b.WriteString(sectionStyle.Render("Simulation Metrics"))
	b.WriteString("\n")
	m := r.Metrics
	fmt.Fprintf(&b, "Total Time (ms): %d\n", m.TotalBlastDurationMs)
	fmt.Fprintf(&b, "Holes: %d\n", m.TotalHoles)
	fmt.Fprintf(&b, "Connections: %d\n", m.TotalConnections)
	fmt.Fprintf(&b, "Average Delay (ms): %.2f\n", m.AverageDelayMs)
	fmt.Fprintf(&b, "Connections per Hole: %.2f\n", m.ConnectionsPerHole)
	fmt.Fprintf(&b, "Waves: %d\n", m.WaveCount)
	fmt.Fprintf(&b, "Max Simultaneous Detonations: %d\n", m.MaxSimultaneousDetonations)

	b.WriteString(sectionStyle.Render("Holes"))
	b.WriteString("\n")
	holes := newTable("ID", "X (m)", "Y (m)", "Activation (ms)", "Root")
	for _, h := range r.Holes {
		root := ""
		if h.Root {
			root = "yes"
		}
		holes.Row(h.ID, formatCoord(h.X), formatCoord(h.Y), optionalMs(h.ActivationMs), root)
	}
	b.WriteString(holes.String())
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Connections"))
	b.WriteString("\n")
	conns := newTable("ID", "From", "To", "Type", "Delay (ms)", "Sequence", "Start (ms)", "Arrival (ms)")
	for _, c := range r.Connections {
		conns.Row(c.ID, c.From, c.To, c.Kind,
			strconv.FormatInt(c.DelayMs, 10), strconv.Itoa(c.Sequence),
			optionalMs(c.StartMs), optionalMs(c.ArrivalMs))
	}
	b.WriteString(conns.String())
	b.WriteString("\n")

	if len(r.Waves) > 0 {
		b.WriteString(sectionStyle.Render("Waves"))
		b.WriteString("\n")
		for _, wv := range r.Waves {
			fmt.Fprintf(&b, "Wave %d at %dms: %s\n", wv.Number, wv.StartMs, strings.Join(wv.ConnectorIDs, ", "))
		}
	}

	if len(r.Validation.Errors)+len(r.Validation.Warnings)+len(r.Validation.Suggestions) > 0 {
		b.WriteString(sectionStyle.Render("Validation"))
		b.WriteString("\n")
		for _, f := range r.Validation.Errors {
			b.WriteString(errStyle.Render(fmt.Sprintf("ERROR [%s] %s", f.Severity, f.Message)))
			b.WriteString("\n")
		}
		for _, f := range r.Validation.Warnings {
			b.WriteString(warnStyle.Render(fmt.Sprintf("WARN  [%s] %s", f.Severity, f.Message)))
			b.WriteString("\n")
		}
		for _, sg := range r.Validation.Suggestions {
			fmt.Fprintf(&b, "HINT  %s (potential improvement %d%%)\n", sg.Message, sg.PotentialImprovement)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func optionalMs(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
