package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/Amr-9/YggHunter/pkg/generator"
)

// Console palette. color disables itself when stdout is not a terminal.
var (
	titleColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.Faint)
	rateColor  = color.New(color.FgGreen, color.Bold)
	countColor = color.New(color.FgYellow)
	warnColor  = color.New(color.FgRed, color.Bold)
)

// PrintBanner writes the start-up banner.
func PrintBanner(w io.Writer, version string) {
	titleColor.Fprintln(w, "  ╔════════════════════════════════════════════╗")
	titleColor.Fprintln(w, "  ║              Y G G H U N T E R             ║")
	titleColor.Fprintln(w, "  ╚════════════════════════════════════════════╝")
	dimColor.Fprintf(w, "   Ed25519 key search for high addresses • v%s\n\n", version)
}

// PrintSearchInfo describes the search about to start.
func PrintSearchInfo(w io.Writer, name string, config *generator.Config) {
	patterns := "any address"
	if len(config.Patterns) > 0 {
		patterns = strings.Join(config.Patterns, "  ")
	}
	fmt.Fprintf(w, "    %s %s\n", titleColor.Sprint("engine  "), name)
	fmt.Fprintf(w, "    %s %s\n", titleColor.Sprint("patterns"), patterns)
	warnColor.Fprintln(w, "    keep reported private keys secret")
	fmt.Fprintln(w)
}

// StatsLine renders a one-line progress summary.
func StatsLine(stats generator.Stats) string {
	return fmt.Sprintf("%s │ %s keys │ %s",
		rateColor.Sprint(FormatHashRate(stats.HashRate)),
		countColor.Sprint(FormatNumber(stats.Attempts)),
		FormatDuration(time.Duration(stats.ElapsedSecs*float64(time.Second))))
}

// FormatHashRate formats hash rate nicely
func FormatHashRate(rate float64) string {
	if rate >= 1000000 {
		return fmt.Sprintf("%.2fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	return fmt.Sprintf("%.0f/s", rate)
}

// FormatNumber adds commas to large numbers
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatDuration formats duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
