package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/axiom/internal/model"
	"github.com/metalagman/axiom/internal/sweep"
)

// Presentation-layer formatting lives here; the core keeps full-precision
// values and never rounds.

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	canStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cantStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func styleVerdict(verdict string) string {
	switch model.Verdict(verdict) {
	case model.VerdictCan:
		return canStyle.Render(verdict)
	case model.VerdictHardCant:
		return cantStyle.Render(verdict)
	}
	return verdict
}

// padVerdict pads before styling so ANSI codes don't break column widths.
func padVerdict(verdict string, width int) string {
	return styleVerdict(verdict) + strings.Repeat(" ", max(0, width-len(verdict)))
}

func renderSummaryTable(summary sweep.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %d\n", canStyle.Render("CAN"), summary.Can)
	fmt.Fprintf(&b, "  %s %d\n", cantStyle.Render("HARD_CANT"), summary.HardCant)

	if len(summary.ByFailedGate) > 0 {
		b.WriteString("\n" + headerStyle.Render("  By failed gate") + "\n")
		gates := make([]string, 0, len(summary.ByFailedGate))
		for gate := range summary.ByFailedGate {
			gates = append(gates, gate)
		}
		sort.Strings(gates)
		for _, gate := range gates {
			fmt.Fprintf(&b, "  %-15s %d\n", gate, summary.ByFailedGate[gate])
		}
	}

	if len(summary.TopReasons) > 0 {
		b.WriteString("\n" + headerStyle.Render("  Top reasons") + "\n")
		for _, rc := range summary.TopReasons {
			fmt.Fprintf(&b, "  %-20s %d\n", rc.ReasonCode, rc.Count)
		}
	}

	return b.String()
}
