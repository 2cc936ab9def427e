// Package ghaction publishes the gate verdict to the GitHub Actions runner
// through its output and step summary files.
package ghaction

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/deployctl/workflow-gate/pkg/models"
)

// OutputPublisher appends the gate result to the runner's output file and
// writes a markdown report to the step summary file. The "passed" output is
// set to true only on full success; on failure no output flag is written.
type OutputPublisher struct {
	outputPath  string // defaults to $GITHUB_OUTPUT
	summaryPath string // defaults to $GITHUB_STEP_SUMMARY
}

func NewOutputPublisher(outputPath, summaryPath string) *OutputPublisher {
	if outputPath == "" {
		outputPath = os.Getenv("GITHUB_OUTPUT")
	}
	if summaryPath == "" {
		summaryPath = os.Getenv("GITHUB_STEP_SUMMARY")
	}
	return &OutputPublisher{
		outputPath:  outputPath,
		summaryPath: summaryPath,
	}
}

func (p *OutputPublisher) PublishVerdict(verdict *models.Verdict) error {
	if verdict == nil {
		return fmt.Errorf("cannot publish nil verdict")
	}

	if p.outputPath == "" && p.summaryPath == "" {
		logrus.Debug("No runner output files configured, skipping ghaction publisher")
		return nil
	}

	if p.outputPath != "" && verdict.AllSucceeded() {
		if err := appendLine(p.outputPath, "passed=true"); err != nil {
			return fmt.Errorf("failed to write output flag: %w", err)
		}
		logrus.WithField("path", p.outputPath).Info("Set passed=true output")
	}

	if p.summaryPath != "" {
		if err := appendLine(p.summaryPath, formatSummary(verdict)); err != nil {
			return fmt.Errorf("failed to write step summary: %w", err)
		}
	}

	return nil
}

func (p *OutputPublisher) GetName() string {
	return "ghaction"
}

func formatSummary(verdict *models.Verdict) string {
	var sb strings.Builder
	sb.WriteString("### Workflow run gate\n\n")

	if verdict.AllSucceeded() {
		sb.WriteString(fmt.Sprintf("All %d workflow checks passed.\n", verdict.TargetCount))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%d of %d workflow checks failed:\n\n",
		len(verdict.FailureReasons), verdict.TargetCount))
	for _, reason := range verdict.FailureReasons {
		sb.WriteString("- " + reason + "\n")
	}
	return sb.String()
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(line + "\n")
	return err
}
