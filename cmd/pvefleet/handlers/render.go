// Package handlers implements the execution logic behind the CLI commands.
package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/pvefleet/internal/compile"
	"github.com/imamik/pvefleet/internal/report"
	"github.com/imamik/pvefleet/internal/topology"
)

// Output color palette.
var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

// renderer holds the output styles for one command invocation. Styles are
// plain when color is disabled or stdout is not a terminal.
type renderer struct {
	title   lipgloss.Style
	section lipgloss.Style
	dim     lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

func newRenderer(noColor bool) *renderer {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		plain := lipgloss.NewStyle()
		return &renderer{title: plain, section: plain, dim: plain, good: plain, bad: plain}
	}
	return &renderer{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
		section: lipgloss.NewStyle().Bold(true).Foreground(colorBlue),
		dim:     lipgloss.NewStyle().Foreground(colorDim),
		good:    lipgloss.NewStyle().Foreground(colorGreen),
		bad:     lipgloss.NewStyle().Foreground(colorRed),
	}
}

// renderReport produces the styled violation report. An empty report
// renders as a single success line.
func (r *renderer) renderReport(rep *report.Report) string {
	var b strings.Builder

	if rep.OK() {
		b.WriteString(r.good.Render("✓ manifest valid — safe to provision"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(r.bad.Render(fmt.Sprintf("  %d violation(s) found", rep.Len())))
	b.WriteString("\n")
	b.WriteString(r.dim.Render("  " + strings.Repeat("─", 50)))
	b.WriteString("\n")

	for _, v := range rep.Violations() {
		b.WriteString("  ")
		b.WriteString(r.bad.Render("✗"))
		b.WriteString(" ")
		b.WriteString(r.section.Render(v.Path))
		b.WriteString("\n    ")
		b.WriteString(v.Rule)
		if v.Value != "" {
			b.WriteString(r.dim.Render(fmt.Sprintf(" (got %s)", v.Value)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderSummary produces a one-screen overview of a clean compilation.
func (r *renderer) renderSummary(res *compile.Result) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(r.title.Render("  pvefleet expansion"))
	b.WriteString("\n")
	b.WriteString(r.dim.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "    Instances: %d\n", len(res.Instances))
	fmt.Fprintf(&b, "    Bonds:     %d\n", len(res.Networks.Bonds))
	fmt.Fprintf(&b, "    VLANs:     %d\n", len(res.Networks.VLANs))
	fmt.Fprintf(&b, "    Bridges:   %d\n", len(res.Networks.Bridges))

	return b.String()
}

// renderTopology produces the styled cluster role listing.
func (r *renderer) renderTopology(topo *topology.Topology) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(r.section.Render("  Control plane"))
	b.WriteString("\n")
	for _, name := range topo.ControlPlanes {
		b.WriteString("    " + name)
		if name == topo.BootstrapHead {
			b.WriteString(r.dim.Render("  (bootstrap head)"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.section.Render("  Data plane"))
	b.WriteString("\n")
	if len(topo.DataPlanes) == 0 {
		b.WriteString(r.dim.Render("    (none — control-plane-only cluster)"))
		b.WriteString("\n")
	}
	for _, name := range topo.DataPlanes {
		b.WriteString("    " + name + "\n")
	}

	return b.String()
}
