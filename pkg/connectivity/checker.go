package connectivity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultMetaURL = "https://api.github.com/meta"

// Config holds configuration for the API reachability preflight. The
// preflight runs before the gate batch; classification itself never retries.
type Config struct {
	// BaseURL is the GitHub Enterprise Server base URL to check. Empty means
	// api.github.com.
	BaseURL string

	// MaxRetries is the maximum number of connection attempts.
	MaxRetries int

	// RetryInterval is the wait between attempts in seconds.
	RetryInterval int

	// Timeout is the timeout for each attempt in seconds.
	Timeout int
}

// ServerInfo holds the subset of the provider's meta endpoint used for
// diagnostics. InstalledVersion is only populated by GitHub Enterprise Server.
type ServerInfo struct {
	VerifiablePasswordAuth bool   `json:"verifiable_password_authentication"`
	InstalledVersion       string `json:"installed_version"`
}

// Checker verifies that the GitHub API is reachable before the gate runs.
type Checker struct {
	config Config
	client *http.Client
}

// NewChecker creates a connectivity checker with the provided configuration.
func NewChecker(config Config) *Checker {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 5
	}

	return &Checker{
		config: config,
		client: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// metaURL resolves the provider's meta endpoint for the configured base URL.
func (c *Checker) metaURL() (string, error) {
	if c.config.BaseURL == "" {
		return defaultMetaURL, nil
	}

	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil || baseURL.Host == "" {
		return "", fmt.Errorf("invalid GitHub base URL %q", c.config.BaseURL)
	}
	return fmt.Sprintf("%s://%s/api/v3/meta", baseURL.Scheme, baseURL.Host), nil
}

// VerifyConnectivity checks that the GitHub API answers on its meta endpoint.
// Returns nil on success, otherwise an error after MaxRetries attempts.
func (c *Checker) VerifyConnectivity() error {
	logrus.Info("Starting GitHub API connectivity check")

	apiURL, err := c.metaURL()
	if err != nil {
		return err
	}

	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		logrus.WithFields(logrus.Fields{
			"attempt": attempt,
			"url":     apiURL,
		}).Debug("Attempting to connect to GitHub API")

		if info, err := c.fetchServerInfo(apiURL); err == nil {
			if info != nil && info.InstalledVersion != "" {
				logrus.WithField("installedVersion", info.InstalledVersion).
					Info("Successfully connected to GitHub API")
			} else {
				logrus.Info("Successfully connected to GitHub API")
			}
			return nil
		} else {
			logrus.WithError(err).Warn("Connection attempt failed")
		}

		if attempt < c.config.MaxRetries {
			sleepDuration := time.Duration(c.config.RetryInterval) * time.Second
			logrus.WithField("retryIn", sleepDuration.String()).Debug("Retrying connection")
			time.Sleep(sleepDuration)
		}
	}

	return fmt.Errorf("failed to connect to GitHub API after %d attempts", c.config.MaxRetries)
}

// GetServerInfo retrieves the provider's meta information.
func (c *Checker) GetServerInfo() (*ServerInfo, error) {
	apiURL, err := c.metaURL()
	if err != nil {
		return nil, err
	}

	info, err := c.fetchServerInfo(apiURL)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("failed to parse server information")
	}
	return info, nil
}

// fetchServerInfo performs one GET against the meta endpoint. A reachable
// endpoint with an unparseable body still counts as connected (nil info).
func (c *Checker) fetchServerInfo(apiURL string) (*ServerInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.config.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned non-success status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read response body")
		return nil, nil
	}

	info := &ServerInfo{}
	if err := json.Unmarshal(body, info); err != nil {
		logrus.WithError(err).Warn("Failed to parse server information")
		return nil, nil
	}
	return info, nil
}
