package judgelib

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dsa-sandbox/sandbox-judge/src/dkrlib"
	"github.com/dsa-sandbox/sandbox-judge/src/stagelib"
	"github.com/dsa-sandbox/sandbox-judge/src/types"
)

type Options struct {
	BuildTimeout  time.Duration
	Grace         time.Duration // added to every host-side exec deadline
	Policy        string
	WorkspaceRoot string
}

// Judge ... builds and runs one submission at a time
type Judge struct {
	provider dkrlib.Provider
	fetcher  stagelib.Fetcher
	opts     Options
	log      *logrus.Entry
	now      func() time.Time
}

// New returns a Judge. fetcher may be nil.
func New(provider dkrlib.Provider, fetcher stagelib.Fetcher, opts Options, log *logrus.Entry) *Judge {
	return &Judge{provider: provider, fetcher: fetcher, opts: opts, log: log, now: time.Now}
}

// Run ... ジャッジのフロー. stage, create the sandbox, build, run the tier's tests in order.
// the workspace and the sandbox are gone when Run returns. on error result is nil
func (j *Judge) Run(ctx context.Context, assignment *types.Assignment, tier types.TestTier, submissions []string) (result *types.Result, err error) {
	log := j.log.WithField("assignment", assignment.ID)
	testcases := assignment.Select(tier)

	// timeout(1) treats 0 as no limit and docker treats a 0 memory limit as unlimited
	if assignment.MaxTimeMs <= 0 || assignment.MaxMemoryKB <= 0 {
		return nil, &stagelib.StagingError{Err: errors.Errorf(
			"limits must be positive, got %d ms / %d KB", assignment.MaxTimeMs, assignment.MaxMemoryKB)}
	}

	ws, err := stagelib.New(j.opts.WorkspaceRoot, j.fetcher)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := ws.Remove(); rmErr != nil {
			log.WithError(rmErr).Warn("failed to remove workspace")
		}
	}()

	if err := ws.Stage(ctx, assignment, testcases, submissions); err != nil {
		return nil, err
	}

	sandbox, err := j.provider.Create(ctx, ws.Dir, assignment.MaxMemoryKB)
	if err != nil {
		return nil, &SandboxError{Err: err}
	}
	log = log.WithField("container", sandbox.Name())
	defer func() {
		rmErr := sandbox.Remove(context.Background())
		if rmErr == nil {
			return
		}
		if err == nil {
			result, err = nil, &SandboxError{Err: rmErr}
			return
		}
		log.WithError(rmErr).Warn("failed to remove sandbox")
	}()

	result = types.NewResult()

	build, err := j.compile(ctx, sandbox, ws, assignment)
	if err != nil {
		return nil, err
	}
	result.CompileLog = build.Log
	if !build.Succeeded {
		log.WithField("exit_code", build.ExitCode).Info("compile error")
		result.Status = types.StatusCE
		return result, nil
	}

	for _, testcase := range testcases {
		testResult, err := j.runTestcase(ctx, sandbox, ws, assignment, testcase)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"test":   testcase.Name,
			"status": testResult.Status,
			"time":   testResult.Time,
			"memory": testResult.Memory,
		}).Debug("test finished")
		result.Detail = append(result.Detail, testResult)
	}

	result.Status = Classify(j.opts.Policy, result.Detail)
	result.Aggregate()
	log.WithField("status", result.Status).Info("judge finished")
	return result, nil
}
