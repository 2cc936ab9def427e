package checker

import "fmt"

// NotFoundError indicates no matching workflow run exists for a target.
type NotFoundError struct {
	Owner      string
	Repo       string
	Workflow   string
	Branch     string
	Successful bool // true when the query filtered to successful runs
}

func (e *NotFoundError) Error() string {
	kind := "run"
	if e.Successful {
		kind = "successful run"
	}
	return fmt.Sprintf("no %s found for workflow %s on branch %s in repo %s/%s",
		kind, e.Workflow, e.Branch, e.Owner, e.Repo)
}

// InProgressError indicates the latest run has not completed yet. An
// in-progress run always blocks the gate; it is never treated as retryable.
type InProgressError struct {
	RunID  int64
	Status string
}

func (e *InProgressError) Error() string {
	return fmt.Sprintf("latest run %d is still in progress (status %s); cannot proceed",
		e.RunID, e.Status)
}

// ConclusionError indicates the latest run completed without success.
type ConclusionError struct {
	RunID      int64
	Conclusion string
}

func (e *ConclusionError) Error() string {
	return fmt.Sprintf("latest run %d failed with conclusion %s", e.RunID, e.Conclusion)
}
