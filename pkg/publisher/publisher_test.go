package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePublisher(t *testing.T) {
	factory := NewPublisherFactory()

	tests := []struct {
		publisherType string
		wantErr       bool
	}{
		{"console", false},
		{"ghaction", false},
		{"slack-webhook", false},
		{"carrier-pigeon", true},
	}

	for _, tt := range tests {
		t.Run(tt.publisherType, func(t *testing.T) {
			p, err := factory.CreatePublisher(tt.publisherType, map[string]string{
				"slackWebhookURL": "https://hooks.slack.example/services/T/B/X",
				"ref":             "main",
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.publisherType, p.GetName())
		})
	}
}
