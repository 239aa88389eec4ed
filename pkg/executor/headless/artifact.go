package headless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing execution artifacts
type ArtifactWriter struct {
	outputDir string
	config    ArtifactConfig
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(config ArtifactConfig) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: config.OutputDir,
		config:    config,
	}
}

// WriteAll writes all configured artifact formats
func (w *ArtifactWriter) WriteAll(summary *ExecutionSummary) error {
	// Ensure output directory exists
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.config.JSON {
		if err := w.WriteExecutionJSON(summary); err != nil {
			return err
		}
	}
	if w.config.Markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return err
		}
	}
	return nil
}

// WriteExecutionJSON writes the full execution summary as JSON
func (w *ArtifactWriter) WriteExecutionJSON(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "execution.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write execution JSON: %w", writeErr)
	}
	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# labtime Watch Summary\n\n")
	md.WriteString(fmt.Sprintf("**Schedule:** `%s`\n\n", summary.Schedule))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	if !summary.EndTime.IsZero() {
		md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
		md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))
	}

	if len(summary.Runs) > 0 {
		md.WriteString("## Runs\n\n")
		md.WriteString("| Started | Duration | Facility | Reservations | Result |\n")
		md.WriteString("|---|---|---|---|---|\n")
		for _, run := range summary.Runs {
			result := "✅"
			if run.Error != "" {
				result = "❌ " + run.Error
			}
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n",
				run.StartTime.Format(time.DateTime), run.Duration.Round(time.Millisecond),
				run.Facility, run.Reservations, result))
		}
		md.WriteString("\n")
	}

	md.WriteString("## Metrics\n\n")
	md.WriteString(fmt.Sprintf("- **Runs:** %d\n", summary.Metrics.Runs))
	md.WriteString(fmt.Sprintf("- **Failures:** %d\n", summary.Metrics.Failures))
	md.WriteString(fmt.Sprintf("- **Reservations (last run):** %d\n", summary.Metrics.LastReservations))

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}
	return nil
}

// ExecutionSummary contains a complete summary of a watch session
type ExecutionSummary struct {
	Schedule  string           `json:"schedule"`
	Status    string           `json:"status"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Duration  time.Duration    `json:"duration"`
	Runs      []RunRecord      `json:"runs"`
	Metrics   ExecutionMetrics `json:"metrics"`
}

// RunRecord describes one scheduled scrape.
type RunRecord struct {
	StartTime    time.Time     `json:"start_time"`
	Duration     time.Duration `json:"duration"`
	Facility     string        `json:"facility,omitempty"`
	Reservations int           `json:"reservations"`
	Stored       bool          `json:"stored"`
	Error        string        `json:"error,omitempty"`
}

// ExecutionMetrics contains execution metrics
type ExecutionMetrics struct {
	Runs             int `json:"runs"`
	Failures         int `json:"failures"`
	LastReservations int `json:"last_reservations"`
}
