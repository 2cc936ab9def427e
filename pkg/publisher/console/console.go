package console

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/deployctl/workflow-gate/pkg/models"
	"github.com/deployctl/workflow-gate/pkg/reporter"
)

// ConsolePublisher prints the gate verdict to stdout.
type ConsolePublisher struct {
	formatter reporter.ReportFormatter
}

func NewConsolePublisher() *ConsolePublisher {
	return &ConsolePublisher{
		formatter: &reporter.ConsoleFormatter{},
	}
}

func (c *ConsolePublisher) PublishVerdict(verdict *models.Verdict) error {
	logrus.Info("Publishing verdict to console")

	if verdict == nil {
		return fmt.Errorf("cannot publish nil verdict")
	}

	formatted := c.formatter.FormatReport(verdict)
	fmt.Print(formatted)

	return nil
}

func (c *ConsolePublisher) GetName() string {
	return "console"
}
