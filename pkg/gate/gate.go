package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/deployctl/workflow-gate/pkg/models"
)

const defaultConcurrentChecks = 5

// RunChecker classifies the most relevant workflow run for a single target.
// A non-nil error is the per-target failure carrying its reason string.
type RunChecker interface {
	Check(ctx context.Context, target models.Target, ref string, mode models.CheckMode) (models.Outcome, error)
}

// Gate fans a batch of targets out to concurrent run checks and folds every
// result into a single verdict.
type Gate struct {
	checker          RunChecker
	concurrentChecks int
}

// NewGate creates a Gate with the given checker and concurrency limit.
func NewGate(checker RunChecker, concurrentChecks int) *Gate {
	if concurrentChecks <= 0 {
		concurrentChecks = defaultConcurrentChecks
	}
	return &Gate{
		checker:          checker,
		concurrentChecks: concurrentChecks,
	}
}

// Evaluate checks every target concurrently and returns the aggregate
// verdict. Every check runs to completion before the verdict is computed: a
// failing target never cancels or short-circuits another target's in-flight
// check, and each failure is recorded as data instead of propagating.
func (g *Gate) Evaluate(ctx context.Context, targets []models.Target, ref string, mode models.CheckMode) *models.Verdict {
	start := time.Now()
	maxRoutines := int32(0)
	activeRoutines := int32(0)

	// One outcome slot per target; each goroutine writes only its own index.
	outcomes := make([]models.Outcome, len(targets))
	var failureReasons []string
	var failureMutex sync.Mutex

	sem := make(chan struct{}, g.concurrentChecks)
	var wg sync.WaitGroup

	for i, target := range targets {
		logrus.Infof("Queueing workflow check (%d/%d): %s", i+1, len(targets), target)
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, target models.Target) {
			atomic.AddInt32(&activeRoutines, 1)
			atomic.CompareAndSwapInt32(&maxRoutines, atomic.LoadInt32(&activeRoutines)-1, atomic.LoadInt32(&activeRoutines))

			defer func() {
				atomic.AddInt32(&activeRoutines, -1)
				wg.Done()
				<-sem
			}()

			outcome, err := g.checker.Check(ctx, target, ref, mode)
			if err != nil {
				outcome = models.Outcome{Target: target, Reason: err.Error()}
				failureMutex.Lock()
				failureReasons = append(failureReasons, err.Error())
				failureMutex.Unlock()
			}
			outcomes[i] = outcome
		}(i, target)
	}

	wg.Wait()
	logrus.Infof("Gate evaluation completed: %d targets in %v with max %d concurrent goroutines",
		len(targets), time.Since(start), maxRoutines)

	return &models.Verdict{
		Outcomes:       outcomes,
		TargetCount:    len(targets),
		FailureReasons: failureReasons,
	}
}
