package models

import (
	"fmt"
	"strings"
	"time"
)

// CheckMode selects how the most relevant workflow run is resolved for a target.
type CheckMode string

const (
	// ModeLatestRun requires the single most recent run on the branch to be a
	// completed success. An in-progress or failed latest run blocks the gate
	// even if an earlier run succeeded.
	ModeLatestRun CheckMode = "latest"

	// ModeLatestSuccessfulRun asks only whether the workflow has a most recent
	// successful run on the branch, ignoring newer runs that are still in
	// progress or have failed.
	ModeLatestSuccessfulRun CheckMode = "latest-successful"
)

// Run lifecycle states and conclusions as reported by the GitHub Actions API.
const (
	RunStatusQueued     = "queued"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"

	RunConclusionSuccess = "success"
)

// Target is one workflow to check: a repository plus a workflow file name.
type Target struct {
	Owner    string `json:"owner" yaml:"owner"`
	Repo     string `json:"repo" yaml:"repo"`
	Workflow string `json:"workflow" yaml:"workflow"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s:%s", t.Owner, t.Repo, t.Workflow)
}

// Outcome is the classification result for a single target.
type Outcome struct {
	Target      Target
	Passed      bool
	RunID       int64
	CompletedAt time.Time
	Reason      string // failure reason, empty when Passed
}

// Verdict aggregates the outcomes of one gate evaluation. Every target in the
// batch contributes exactly one outcome.
type Verdict struct {
	Outcomes       []Outcome
	TargetCount    int
	FailureReasons []string
}

// AllSucceeded reports whether every target in the batch passed.
func (v *Verdict) AllSucceeded() bool {
	return len(v.FailureReasons) == 0
}

// FailureMessage joins every recorded failure reason into a single report so
// all broken targets can be diagnosed at once.
func (v *Verdict) FailureMessage() string {
	return strings.Join(v.FailureReasons, "; ")
}
