package llm

import (
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/format"
)

// maxPromptLabels caps how many categories are written into a prompt
const maxPromptLabels = 50

// BuildSummarySystemPrompt is the instruction block for chart summaries
func BuildSummarySystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a data analyst describing a dashboard chart.\n\n")
	sb.WriteString("Instructions:\n")
	sb.WriteString("- Answer in at most three sentences\n")
	sb.WriteString("- Mention the largest and smallest categories and any clear trend\n")
	sb.WriteString("- Use only the numbers given, never invent data\n")

	return sb.String()
}

// BuildChartPrompt renders the aggregated payload as a compact table
func BuildChartPrompt(title string, payload *analytics.ChartPayload) string {
	var sb strings.Builder

	if title != "" {
		sb.WriteString(fmt.Sprintf("Chart: %s\n", title))
	}
	sb.WriteString(fmt.Sprintf("Series: %s\n\n", strings.Join(payload.Legends, ", ")))

	labels := payload.Labels
	if len(labels) > maxPromptLabels {
		labels = labels[:maxPromptLabels]
	}

	sb.WriteString("=== DATA ===\n")
	for j, label := range labels {
		values := make([]string, len(payload.Series))
		for i, series := range payload.Series {
			values[i] = format.Value(series[j].RawValue(), format.ModeAccounting)
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", label, strings.Join(values, " | ")))
	}
	if omitted := len(payload.Labels) - len(labels); omitted > 0 {
		sb.WriteString(fmt.Sprintf("(%d more categories omitted)\n", omitted))
	}

	return sb.String()
}
