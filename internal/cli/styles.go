package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tailorflow/tailorflow/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// renderStage colors a stage by its outcome class.
func renderStage(stage models.Stage) string {
	s := string(stage)
	switch stage {
	case models.StageDone:
		return okStyle.Render(s)
	case models.StageNeedsReview:
		return warnStyle.Render(s)
	case models.StageFailed:
		return errStyle.Render(s)
	default:
		return s
	}
}
