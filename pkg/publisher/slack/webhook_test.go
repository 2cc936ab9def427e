package slack

import (
	"fmt"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"

	"github.com/deployctl/workflow-gate/pkg/models"
)

func TestPublishVerdict(t *testing.T) {
	var postedURL string
	var postedMsg *slack.WebhookMessage

	publisher := NewWebhookPublisher("https://hooks.slack.example/services/T/B/X", "main")
	publisher.post = func(url string, msg *slack.WebhookMessage) error {
		postedURL = url
		postedMsg = msg
		return nil
	}

	verdict := &models.Verdict{
		TargetCount: 2,
		FailureReasons: []string{
			"latest run 7 failed with conclusion failure",
		},
	}

	err := publisher.PublishVerdict(verdict)
	assert.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.example/services/T/B/X", postedURL)
	assert.NotNil(t, postedMsg)
	assert.Len(t, postedMsg.Blocks.BlockSet, 2)

	header, ok := postedMsg.Blocks.BlockSet[0].(*slack.HeaderBlock)
	assert.True(t, ok)
	assert.Equal(t, "Workflow gate failed on main", header.Text.Text)

	section, ok := postedMsg.Blocks.BlockSet[1].(*slack.SectionBlock)
	assert.True(t, ok)
	assert.Contains(t, section.Text.Text, "1 of 2 workflow checks failed")
	assert.Contains(t, section.Text.Text, "latest run 7 failed with conclusion failure")
}

func TestPublishVerdictSuccess(t *testing.T) {
	var postedMsg *slack.WebhookMessage

	publisher := NewWebhookPublisher("https://hooks.slack.example/services/T/B/X", "main")
	publisher.post = func(url string, msg *slack.WebhookMessage) error {
		postedMsg = msg
		return nil
	}

	err := publisher.PublishVerdict(&models.Verdict{TargetCount: 3})
	assert.NoError(t, err)

	header, ok := postedMsg.Blocks.BlockSet[0].(*slack.HeaderBlock)
	assert.True(t, ok)
	assert.Equal(t, "Workflow gate passed on main", header.Text.Text)

	section, ok := postedMsg.Blocks.BlockSet[1].(*slack.SectionBlock)
	assert.True(t, ok)
	assert.Contains(t, section.Text.Text, "All 3 workflow checks passed")
}

func TestPublishVerdictErrors(t *testing.T) {
	publisher := NewWebhookPublisher("", "main")
	assert.Error(t, publisher.PublishVerdict(&models.Verdict{}))

	publisher = NewWebhookPublisher("https://hooks.slack.example/services/T/B/X", "main")
	assert.Error(t, publisher.PublishVerdict(nil))

	publisher.post = func(url string, msg *slack.WebhookMessage) error {
		return fmt.Errorf("connection refused")
	}
	err := publisher.PublishVerdict(&models.Verdict{TargetCount: 1})
	assert.ErrorContains(t, err, "failed to send webhook")
}

func TestGetName(t *testing.T) {
	publisher := NewWebhookPublisher("https://hooks.slack.example/services/T/B/X", "main")
	assert.Equal(t, "slack-webhook", publisher.GetName())
}
