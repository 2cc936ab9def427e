package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-github/v50/github"
	"github.com/stretchr/testify/assert"

	"github.com/deployctl/workflow-gate/internal/config"
)

func setGateEnv(t *testing.T, baseURL string) {
	t.Helper()
	os.Clearenv()
	os.Setenv("GITHUB_TOKEN", "test-token")
	os.Setenv("REF", "refs/heads/main")
	os.Setenv("REPOSITORIES_TO_CHECK", `[{"owner":"a","repo":"x","workflow":"ci.yml"}]`)
	os.Setenv("GITHUB_BASE_URL", baseURL)
	os.Setenv("SKIP_CONNECTIVITY_CHECK", "true")
}

func TestRunAllChecksPass(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/a/x/actions/workflows/ci.yml/runs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		runs := &github.WorkflowRuns{
			TotalCount: github.Int(1),
			WorkflowRuns: []*github.WorkflowRun{
				{
					ID:         github.Int64(1),
					Status:     github.String("completed"),
					Conclusion: github.String("success"),
				},
			},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(runs))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	setGateEnv(t, server.URL)

	err := run()
	assert.NoError(t, err)
}

func TestRunFailingCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	setGateEnv(t, server.URL)

	err := run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 workflow checks failed")
}

func TestRunInvalidConfig(t *testing.T) {
	os.Clearenv()
	os.Setenv("GITHUB_TOKEN", "test-token")
	os.Setenv("REF", "main")
	os.Setenv("REPOSITORIES_TO_CHECK", `[]`)

	err := run()
	assert.Error(t, err)

	var validationError *config.ValidationError
	assert.ErrorAs(t, err, &validationError)
}

func TestInitializeChecker(t *testing.T) {
	cfg := &config.Config{
		GitHubToken:   "test-token",
		GitHubBaseURL: "",
	}

	checker, err := initializeChecker(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, checker)
}

func TestInitializePublishers(t *testing.T) {
	cfg := &config.Config{Ref: "main"}
	publishers := initializePublishers(cfg)
	assert.Len(t, publishers, 2)

	cfg.SlackWebhookURL = "https://hooks.slack.example/services/T/B/X"
	publishers = initializePublishers(cfg)
	assert.Len(t, publishers, 3)
}
