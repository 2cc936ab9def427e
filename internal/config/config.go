package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deployctl/workflow-gate/pkg/checker"
	"github.com/deployctl/workflow-gate/pkg/models"
)

// Config is the resolved gate configuration. Targets and Ref are validated
// before any network call is made.
type Config struct {
	Targets               []models.Target
	Ref                   string // plain branch name, refs/heads/ prefix stripped
	GitHubToken           string
	GitHubBaseURL         string // empty for api.github.com
	CheckMode             models.CheckMode
	LogLevel              string
	RequestTimeout        int
	ConcurrentChecks      int
	SlackWebhookURL       string
	SkipConnectivityCheck bool
}

// ValidationError reports a configuration problem: malformed or empty target
// list, or a missing/invalid input. It is always raised before the gate runs.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	var err error

	cfg.GitHubToken, err = getInput("GITHUB_TOKEN", "TOKEN", true)
	if err != nil {
		return nil, err
	}

	ref, err := getInput("REF", "REF", true)
	if err != nil {
		return nil, err
	}
	cfg.Ref = checker.StripRefPrefix(ref)
	if cfg.Ref == "" {
		return nil, validationErrorf("ref %q does not name a branch", ref)
	}

	cfg.Targets, err = loadTargets()
	if err != nil {
		return nil, err
	}

	if baseURL := getInputWithDefault("GITHUB_BASE_URL", ""); baseURL != "" {
		if !strings.HasSuffix(baseURL, "/api/v3") {
			baseURL = strings.TrimSuffix(baseURL, "/") + "/api/v3"
		}
		cfg.GitHubBaseURL = baseURL
	}

	cfg.CheckMode, err = parseCheckMode(getInputWithDefault("CHECK_MODE", string(models.ModeLatestRun)))
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = getInputWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getIntInputWithDefault("REQUEST_TIMEOUT", 30)
	cfg.ConcurrentChecks = getIntInputWithDefault("CONCURRENT_CHECKS", 5)
	cfg.SlackWebhookURL = getInputWithDefault("SLACK_WEBHOOK_URL", "")
	cfg.SkipConnectivityCheck = getBoolInputWithDefault("SKIP_CONNECTIVITY_CHECK", false)

	return cfg, nil
}

// loadTargets resolves the target list from the inline JSON input, falling
// back to a YAML targets file when the inline input is absent.
func loadTargets() ([]models.Target, error) {
	raw := getInputWithDefault("REPOSITORIES_TO_CHECK", "")
	if raw != "" {
		return parseTargetsJSON(raw)
	}

	if path := getInputWithDefault("TARGETS_FILE", ""); path != "" {
		return parseTargetsFile(path)
	}

	return nil, validationErrorf("REPOSITORIES_TO_CHECK is not set")
}

func parseTargetsJSON(raw string) ([]models.Target, error) {
	var targets []models.Target
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, validationErrorf("repositories-to-check is not a valid JSON array: %v", err)
	}
	return validateTargets(targets)
}

func parseTargetsFile(path string) ([]models.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, validationErrorf("failed to read targets file %s: %v", path, err)
	}

	var file struct {
		Repositories []models.Target `yaml:"repositories"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, validationErrorf("targets file %s is not valid YAML: %v", path, err)
	}
	return validateTargets(file.Repositories)
}

func validateTargets(targets []models.Target) ([]models.Target, error) {
	if len(targets) == 0 {
		return nil, validationErrorf("repositories-to-check must contain at least one repository")
	}
	for i, t := range targets {
		if t.Owner == "" || t.Repo == "" || t.Workflow == "" {
			return nil, validationErrorf("repository entry %d is incomplete: owner, repo and workflow are required", i)
		}
	}
	return targets, nil
}

func parseCheckMode(raw string) (models.CheckMode, error) {
	switch models.CheckMode(raw) {
	case models.ModeLatestRun:
		return models.ModeLatestRun, nil
	case models.ModeLatestSuccessfulRun:
		return models.ModeLatestSuccessfulRun, nil
	default:
		return "", validationErrorf("unknown check mode %q (expected %q or %q)",
			raw, models.ModeLatestRun, models.ModeLatestSuccessfulRun)
	}
}

// getInput reads an environment variable, also honoring the GitHub Actions
// INPUT_<NAME> convention for the given input name.
func getInput(key, inputName string, required bool) (string, error) {
	value := os.Getenv(key)
	if value == "" && inputName != "" {
		value = os.Getenv("INPUT_" + inputName)
	}
	if value == "" && required {
		return "", validationErrorf("%s is not set", key)
	}
	return value, nil
}

func getInputWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := os.Getenv("INPUT_" + key); value != "" {
		return value
	}
	return defaultValue
}

func getIntInputWithDefault(key string, defaultValue int) int {
	if valueStr := getInputWithDefault(key, ""); valueStr != "" {
		if value, err := strconv.Atoi(valueStr); err == nil && value > 0 {
			return value
		}
	}
	return defaultValue
}

func getBoolInputWithDefault(key string, defaultValue bool) bool {
	if valueStr := getInputWithDefault(key, ""); valueStr != "" {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
