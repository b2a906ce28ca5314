package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/gocube_reconstruct"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/analysis"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	skipStyle = lipgloss.NewStyle().
			Faint(true)
)

// renderReport formats a report as a step table.
func renderReport(r *reconstruct.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s reconstruction", strings.ToUpper(string(r.Method)))))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s  %d moves (%d optimized)  %.2f TPS",
		formatMs(r.TotalTime), r.MoveCount, r.OptimizedMoves, r.TPS)))
	b.WriteString("\n\n")

	for _, s := range r.Steps {
		b.WriteString(renderStep(s, ""))
		for _, sub := range s.SubSteps {
			b.WriteString(renderStep(sub, "  "))
		}
	}

	if r.PauseCount > 0 {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(fmt.Sprintf("%d pause(s), longest %s", r.PauseCount, formatMs(float64(r.LongestPauseMs)))))
		b.WriteString("\n")
	}
	return b.String()
}

func renderStep(s reconstruct.Step, indent string) string {
	name := fmt.Sprintf("%s%-14s", indent, s.Name)
	if s.Skip {
		return skipStyle.Render(name+" skip") + "\n"
	}

	line := fmt.Sprintf("%s %3d%%  %8s  %2d moves  %5.2f TPS", phaseStyle.Render(name), s.Percent, formatMs(s.Time), s.MoveCount, s.TPS)
	if s.Algorithm != nil {
		line += "  " + titleStyle.Render(*s.Algorithm)
	}
	line += "\n" + indent + "  " + moveStyle.Render(strings.Join(s.Moves, " ")) + "\n"
	return line
}

func formatMs(ms float64) string {
	secs := ms / 1000
	if secs < 60 {
		return fmt.Sprintf("%.2fs", secs)
	}
	mins := int(secs / 60)
	return fmt.Sprintf("%d:%05.2f", mins, secs-float64(mins*60))
}

func renderRepetitions(steps []analysis.StepRepetitions) string {
	var b strings.Builder
	for _, s := range steps {
		r := s.Report
		if r.WastedMoves == 0 && len(r.BackAndForth) == 0 {
			continue
		}
		b.WriteString(phaseStyle.Render(s.Step))
		b.WriteString(statusStyle.Render(fmt.Sprintf("  %d wasted", r.WastedMoves)))
		b.WriteString("\n")
		for _, c := range r.Cancellations {
			b.WriteString(fmt.Sprintf("  cancel  #%d %s\n", c.Index+1, moveStyle.Render(c.Moves)))
		}
		for _, m := range r.Merges {
			b.WriteString(fmt.Sprintf("  merge   #%d %s -> %s\n", m.Index+1, moveStyle.Render(m.Moves), m.Merged))
		}
		for _, p := range r.BackAndForth {
			b.WriteString(fmt.Sprintf("  repeat  #%d (%s) x%d\n", p.Index+1, strings.Join(p.Pair, " "), p.Count))
		}
	}
	return b.String()
}
