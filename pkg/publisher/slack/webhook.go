package slack

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/deployctl/workflow-gate/pkg/models"
)

// WebhookPublisher posts the gate verdict to a Slack incoming webhook.
type WebhookPublisher struct {
	webhookURL string
	ref        string
	post       func(url string, msg *slack.WebhookMessage) error
}

func NewWebhookPublisher(webhookURL, ref string) *WebhookPublisher {
	return &WebhookPublisher{
		webhookURL: webhookURL,
		ref:        ref,
		post:       slack.PostWebhook,
	}
}

func (p *WebhookPublisher) PublishVerdict(verdict *models.Verdict) error {
	if p.webhookURL == "" {
		return fmt.Errorf("invalid configuration: missing Slack webhook URL")
	}
	if verdict == nil {
		return fmt.Errorf("cannot publish nil verdict")
	}

	msg := &slack.WebhookMessage{
		Blocks: &slack.Blocks{
			BlockSet: p.createMessageBlocks(verdict),
		},
	}

	if err := p.post(p.webhookURL, msg); err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}

	logrus.Info("Published verdict to Slack webhook")
	return nil
}

func (p *WebhookPublisher) createMessageBlocks(verdict *models.Verdict) []slack.Block {
	header := fmt.Sprintf("Workflow gate passed on %s", p.ref)
	if !verdict.AllSucceeded() {
		header = fmt.Sprintf("Workflow gate failed on %s", p.ref)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, header, false, false)),
	}

	if verdict.AllSucceeded() {
		body := fmt.Sprintf("All %d workflow checks passed.", verdict.TargetCount)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, body, false, false), nil, nil))
		return blocks
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d of %d workflow checks failed:\n",
		len(verdict.FailureReasons), verdict.TargetCount))
	for _, reason := range verdict.FailureReasons {
		sb.WriteString("• " + reason + "\n")
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, sb.String(), false, false), nil, nil))
	return blocks
}

func (p *WebhookPublisher) GetName() string {
	return "slack-webhook"
}
