package reporter

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/deployctl/workflow-gate/pkg/models"
	"github.com/deployctl/workflow-gate/pkg/version"
)

// ReportFormatter renders a gate verdict into a human-readable report.
type ReportFormatter interface {
	FormatReport(*models.Verdict) string
}

type ConsoleFormatter struct{}

type Reporter struct {
	formatter ReportFormatter
}

func NewReporter(formatter ReportFormatter) *Reporter {
	logrus.Debug("Initializing new reporter")
	return &Reporter{formatter: formatter}
}

func (r *Reporter) GenerateReport(verdict *models.Verdict) error {
	output, err := r.FormatResults(verdict)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate report")
		return fmt.Errorf("formatting error: %w", err)
	}
	fmt.Print(output)
	return nil
}

func (r *Reporter) FormatResults(verdict *models.Verdict) (string, error) {
	if verdict == nil {
		logrus.Error("Received nil verdict")
		return "", fmt.Errorf("cannot format nil verdict")
	}

	logrus.WithFields(logrus.Fields{
		"targetCount":  verdict.TargetCount,
		"failureCount": len(verdict.FailureReasons),
	}).Debug("Starting to format verdict")

	formatted := r.formatter.FormatReport(verdict)
	logrus.WithField("formattedLength", len(formatted)).Debug("Successfully formatted verdict")
	return formatted, nil
}

func (f *ConsoleFormatter) FormatReport(verdict *models.Verdict) string {
	logrus.Debug("Formatting verdict for console output")

	if verdict == nil {
		return "No verdict available\n"
	}

	buildInfo := version.Get()

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Workflow Gate: Version=%s, Commit=%s, Built=%s, Go=%s\n\n",
		buildInfo.Version, buildInfo.GitCommit, buildInfo.BuildDate, buildInfo.GoVersion))

	sb.WriteString("Workflow Run Gate Summary:\n")
	sb.WriteString(fmt.Sprintf("%-3s %-35s %-30s %-8s %s\n",
		"NO", "REPOSITORY", "WORKFLOW", "RESULT", "DETAIL"))

	for i, outcome := range verdict.Outcomes {
		result := "pass"
		detail := fmt.Sprintf("run %d", outcome.RunID)
		if !outcome.Passed {
			result = "fail"
			detail = outcome.Reason
		}
		sb.WriteString(fmt.Sprintf("%-3d %-35s %-30s %-8s %s\n",
			i+1,
			truncateString(outcome.Target.Owner+"/"+outcome.Target.Repo, 35),
			truncateString(outcome.Target.Workflow, 30),
			result,
			detail,
		))
	}

	sb.WriteString(fmt.Sprintf("\nTargets Checked: %d | Failures: %d\n",
		verdict.TargetCount, len(verdict.FailureReasons)))
	return sb.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s + strings.Repeat(" ", maxLen-len(s))
	}
	return s[:maxLen-2] + ".."
}
