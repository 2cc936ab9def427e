// Package publisher delivers the gate verdict to its consumers: the console,
// the hosting workflow runner, or a chat webhook.
package publisher

import (
	"fmt"

	"github.com/deployctl/workflow-gate/pkg/models"
	"github.com/deployctl/workflow-gate/pkg/publisher/console"
	"github.com/deployctl/workflow-gate/pkg/publisher/ghaction"
	"github.com/deployctl/workflow-gate/pkg/publisher/slack"
)

// Publisher publishes one verdict to a single destination.
type Publisher interface {
	// PublishVerdict publishes the verdict and returns an error on failure.
	PublishVerdict(*models.Verdict) error

	// GetName returns the publisher's name.
	GetName() string
}

// Factory creates publishers from configuration.
type Factory struct{}

func NewPublisherFactory() *Factory {
	return &Factory{}
}

// CreatePublisher creates the publisher named by publisherType.
func (f *Factory) CreatePublisher(publisherType string, config map[string]string) (Publisher, error) {
	switch publisherType {
	case "console":
		return console.NewConsolePublisher(), nil
	case "ghaction":
		return ghaction.NewOutputPublisher(
			config["outputPath"],
			config["summaryPath"],
		), nil
	case "slack-webhook":
		return slack.NewWebhookPublisher(
			config["slackWebhookURL"],
			config["ref"],
		), nil
	default:
		return nil, fmt.Errorf("unknown publisher type: %s", publisherType)
	}
}
