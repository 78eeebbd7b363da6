package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

var (
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1D3"))

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
)

const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
)

func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// StatusStyle colors a budget usage status.
func StatusStyle(s core.BudgetStatus) lipgloss.Style {
	switch s {
	case core.StatusOverBudget:
		return ErrorStyle
	case core.StatusWarning:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// UsageBar renders percent (0 to 100, capped) as a bar width cells wide.
func UsageBar(percent decimal.Decimal, width int) string {
	if width <= 0 {
		return ""
	}
	filled := percent.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).IntPart()
	if filled < 0 {
		filled = 0
	}
	if filled > int64(width) {
		filled = int64(width)
	}
	return strings.Repeat("█", int(filled)) + strings.Repeat("░", width-int(filled))
}
