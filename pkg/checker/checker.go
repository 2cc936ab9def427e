package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v50/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/deployctl/workflow-gate/pkg/models"
)

const branchRefPrefix = "refs/heads/"

// Checker classifies the most relevant workflow run for a target via the
// GitHub Actions API.
type Checker struct {
	client *github.Client
}

// NewChecker creates a Checker for api.github.com, or for a GitHub Enterprise
// Server when baseURL is non-empty. The token is passed through to the API
// client and never inspected.
func NewChecker(token, baseURL string) (*Checker, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	if baseURL == "" {
		return &Checker{client: github.NewClient(tc)}, nil
	}

	client, err := github.NewEnterpriseClient(baseURL, baseURL, tc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return &Checker{client: client}, nil
}

// StripRefPrefix reduces a fully qualified branch ref such as
// "refs/heads/main" to the plain branch name the runs API expects.
func StripRefPrefix(ref string) string {
	return strings.TrimPrefix(ref, branchRefPrefix)
}

// Check fetches the single most relevant run of the target's workflow on the
// given branch and classifies it. Classification failures are returned as
// NotFoundError, InProgressError or ConclusionError; any other error comes
// from the API client and is wrapped as-is.
func (c *Checker) Check(ctx context.Context, target models.Target, ref string, mode models.CheckMode) (models.Outcome, error) {
	branch := StripRefPrefix(ref)

	logrus.WithFields(logrus.Fields{
		"owner":    target.Owner,
		"repo":     target.Repo,
		"workflow": target.Workflow,
		"branch":   branch,
		"mode":     string(mode),
	}).Info("Checking workflow run")

	opts := &github.ListWorkflowRunsOptions{
		Branch:      branch,
		ListOptions: github.ListOptions{PerPage: 1},
	}
	if mode == models.ModeLatestSuccessfulRun {
		opts.Status = models.RunConclusionSuccess
	}

	runs, _, err := c.client.Actions.ListWorkflowRunsByFileName(ctx, target.Owner, target.Repo, target.Workflow, opts)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("failed to list workflow runs for %s: %w", target, err)
	}

	if len(runs.WorkflowRuns) == 0 {
		notFound := &NotFoundError{
			Owner:      target.Owner,
			Repo:       target.Repo,
			Workflow:   target.Workflow,
			Branch:     branch,
			Successful: mode == models.ModeLatestSuccessfulRun,
		}
		logrus.WithField("target", target.String()).Warn(notFound.Error())
		return models.Outcome{}, notFound
	}

	run := runs.WorkflowRuns[0]

	if mode == models.ModeLatestSuccessfulRun {
		// The query already filtered to successful runs, so any returned run
		// passes without re-checking status or conclusion.
		logrus.WithFields(logrus.Fields{
			"target":      target.String(),
			"runID":       run.GetID(),
			"completedAt": run.GetUpdatedAt().Time,
		}).Info("Latest successful run found")
		return models.Outcome{
			Target:      target,
			Passed:      true,
			RunID:       run.GetID(),
			CompletedAt: run.GetUpdatedAt().Time,
		}, nil
	}

	if run.GetStatus() != models.RunStatusCompleted {
		inProgress := &InProgressError{RunID: run.GetID(), Status: run.GetStatus()}
		logrus.WithField("target", target.String()).Warn(inProgress.Error())
		return models.Outcome{}, inProgress
	}

	if run.GetConclusion() != models.RunConclusionSuccess {
		conclusion := &ConclusionError{RunID: run.GetID(), Conclusion: run.GetConclusion()}
		logrus.WithField("target", target.String()).Warn(conclusion.Error())
		return models.Outcome{}, conclusion
	}

	logrus.WithFields(logrus.Fields{
		"target": target.String(),
		"runID":  run.GetID(),
	}).Info("Latest run completed successfully")

	return models.Outcome{
		Target:      target,
		Passed:      true,
		RunID:       run.GetID(),
		CompletedAt: run.GetUpdatedAt().Time,
	}, nil
}
