package judgelib

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/dsa-sandbox/sandbox-judge/src/dkrlib"
	"github.com/dsa-sandbox/sandbox-judge/src/stagelib"
	"github.com/dsa-sandbox/sandbox-judge/src/types"
	"github.com/dsa-sandbox/sandbox-judge/src/util"
)

const buildTimedOut = "build timed out\n"

type BuildResult struct {
	ExitCode  int
	Log       string
	Succeeded bool
}

func compileCommand(compile string, timeout, killAfter time.Duration) string {
	return fmt.Sprintf("timeout -k %s %s sh -c %s 2>&1",
		util.Seconds(killAfter), util.Seconds(timeout), util.ShellQuote(compile))
}

// compile ... a zero exit status without the binary in the workspace is still a failure
func (j *Judge) compile(ctx context.Context, sandbox dkrlib.Sandbox, ws *stagelib.Workspace, assignment *types.Assignment) (BuildResult, error) {
	execCtx, cancel := context.WithTimeout(ctx, j.opts.BuildTimeout+j.opts.Grace)
	defer cancel()

	res, err := sandbox.Exec(execCtx, compileCommand(assignment.CompileCommand, j.opts.BuildTimeout, j.killAfter()))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return BuildResult{ExitCode: timeoutExitCode, Log: res.Output + buildTimedOut}, nil
		}
		return BuildResult{}, &SandboxError{Err: errors.Wrap(err, "build failed to run")}
	}

	build := BuildResult{ExitCode: res.ExitCode, Log: res.Output}
	build.Succeeded = res.ExitCode == 0 && ws.Exists(assignment.BinaryName)
	return build, nil
}
