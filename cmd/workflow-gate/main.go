package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/deployctl/workflow-gate/internal/config"
	"github.com/deployctl/workflow-gate/pkg/checker"
	"github.com/deployctl/workflow-gate/pkg/connectivity"
	"github.com/deployctl/workflow-gate/pkg/gate"
	"github.com/deployctl/workflow-gate/pkg/logger"
	"github.com/deployctl/workflow-gate/pkg/publisher"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("Workflow gate failed")
		os.Exit(1)
	}
	os.Exit(0)
}

func run() error {
	cfg, err := initializeConfig()
	if err != nil {
		return err
	}

	if !cfg.SkipConnectivityCheck {
		if err := initializeConnectivityChecker(cfg).VerifyConnectivity(); err != nil {
			return err
		}
	}

	runChecker, err := initializeChecker(cfg)
	if err != nil {
		return err
	}

	g := gate.NewGate(runChecker, cfg.ConcurrentChecks)
	verdict := g.Evaluate(context.Background(), cfg.Targets, cfg.Ref, cfg.CheckMode)

	for _, p := range initializePublishers(cfg) {
		if err := p.PublishVerdict(verdict); err != nil {
			logrus.WithError(err).WithField("publisher", p.GetName()).Error("Failed to publish verdict")
		}
	}

	if !verdict.AllSucceeded() {
		return fmt.Errorf("%d of %d workflow checks failed: %s",
			len(verdict.FailureReasons), verdict.TargetCount, verdict.FailureMessage())
	}

	logrus.Infof("All %d workflow checks passed", verdict.TargetCount)
	return nil
}

func initializeConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initializeChecker(cfg *config.Config) (*checker.Checker, error) {
	baseURL := cfg.GitHubBaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	logrus.Printf("GitHub Base URL: %s", baseURL)
	return checker.NewChecker(cfg.GitHubToken, cfg.GitHubBaseURL)
}

func initializeConnectivityChecker(cfg *config.Config) *connectivity.Checker {
	return connectivity.NewChecker(connectivity.Config{
		BaseURL: cfg.GitHubBaseURL,
		Timeout: cfg.RequestTimeout,
	})
}

func initializePublishers(cfg *config.Config) []publisher.Publisher {
	factory := publisher.NewPublisherFactory()

	types := []string{"console", "ghaction"}
	if cfg.SlackWebhookURL != "" {
		types = append(types, "slack-webhook")
	}

	var publishers []publisher.Publisher
	for _, publisherType := range types {
		p, err := factory.CreatePublisher(publisherType, map[string]string{
			"slackWebhookURL": cfg.SlackWebhookURL,
			"ref":             cfg.Ref,
		})
		if err != nil {
			logrus.WithError(err).WithField("type", publisherType).Error("Failed to create publisher")
			continue
		}
		publishers = append(publishers, p)
	}
	return publishers
}
