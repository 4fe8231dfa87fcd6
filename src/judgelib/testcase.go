package judgelib

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/dsa-sandbox/sandbox-judge/src/checklib"
	"github.com/dsa-sandbox/sandbox-judge/src/dkrlib"
	"github.com/dsa-sandbox/sandbox-judge/src/stagelib"
	"github.com/dsa-sandbox/sandbox-judge/src/types"
	"github.com/dsa-sandbox/sandbox-judge/src/util"
)

const (
	// exit status of timeout(1) when the limit is hit
	timeoutExitCode = 124
	// 128+SIGKILL: timeout(1) escalated after -k, or the kernel killed the program
	killedExitCode = 137

	minKillAfter = 500 * time.Millisecond
	killTimeout  = 5 * time.Second
	procNameMax  = 15 // pkill -x matches the kernel's truncated comm
)

// testCommand ... GNU time writes "<elapsed seconds> <peak KB>" to <name>.time
func testCommand(binary, name string, limit, killAfter time.Duration) string {
	return fmt.Sprintf("timeout -k %s %s time -f '%%e %%M' -o %s.time ./%s < %s.in > %s.out",
		util.Seconds(killAfter), util.Seconds(limit), name, binary, name, name)
}

func killCommand(binary string) string {
	if len(binary) > procNameMax {
		binary = binary[:procNameMax]
	}
	return "pkill -9 -x " + binary
}

// killAfter ... SIGKILL follows SIGTERM before the host deadline (limit + grace) fires
func (j *Judge) killAfter() time.Duration {
	return max(j.opts.Grace/2, minKillAfter)
}

func (j *Judge) runTestcase(ctx context.Context, sandbox dkrlib.Sandbox, ws *stagelib.Workspace, assignment *types.Assignment, testcase types.TestCase) (types.TestResult, error) {
	testResult := types.TestResult{
		Name:   testcase.Name,
		Input:  testcase.Input,
		Expect: testcase.Output,
	}

	limit := time.Duration(assignment.MaxTimeMs) * time.Millisecond
	execCtx, cancel := context.WithTimeout(ctx, limit+j.opts.Grace)
	defer cancel()

	start := j.now()
	res, err := sandbox.Exec(execCtx, testCommand(assignment.BinaryName, testcase.Name, limit, j.killAfter()))
	elapsed := j.now().Sub(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// the program may still be running and would share the sandbox with the next test
			if err := j.killProgram(ctx, sandbox, assignment.BinaryName); err != nil {
				return testResult, err
			}
			testResult.Status = types.StatusTLE
			return testResult, nil
		}
		return testResult, &SandboxError{Err: errors.Wrapf(err, "test %s failed to run", testcase.Name)}
	}

	switch {
	case res.ExitCode == timeoutExitCode:
		testResult.Status = types.StatusTLE
		return testResult, nil
	case res.ExitCode == killedExitCode && elapsed >= limit:
		// SIGTERM was ignored and -k fired
		testResult.Status = types.StatusTLE
		return testResult, nil
	case res.ExitCode != 0:
		testResult.Status = types.StatusRE
		return testResult, nil
	}

	elapsedSec, peak, err := readMeasurement(ws, testcase.Name)
	if err != nil {
		return testResult, err
	}
	output, err := ws.ReadFile(testcase.Name + ".out")
	if err != nil {
		return testResult, &SandboxError{Err: errors.Wrapf(err, "test %s left no output", testcase.Name)}
	}

	testResult.Time = elapsedSec
	testResult.Memory = peak
	testResult.Output = output
	if checklib.Normal(output, testcase.Output) {
		testResult.Status = types.StatusAC
	} else {
		testResult.Status = types.StatusWA
	}
	return testResult, nil
}

func (j *Judge) killProgram(ctx context.Context, sandbox dkrlib.Sandbox, binary string) error {
	killCtx, cancel := context.WithTimeout(ctx, killTimeout)
	defer cancel()

	res, err := sandbox.Exec(killCtx, killCommand(binary))
	if err != nil {
		return &SandboxError{Err: errors.Wrapf(err, "failed to kill %s", binary)}
	}
	// 1 means nothing matched: the program already exited
	if res.ExitCode > 1 {
		return &SandboxError{Err: errors.Errorf("pkill exited with %d: %s", res.ExitCode, res.Output)}
	}
	return nil
}

// readMeasurement parses the last non-empty line of <name>.time.
func readMeasurement(ws *stagelib.Workspace, name string) (float64, int, error) {
	content, err := ws.ReadFile(name + ".time")
	if err != nil {
		return 0, 0, &MeasurementError{Test: name, Err: err}
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) != 2 {
		return 0, 0, &MeasurementError{Test: name, Err: errors.Errorf("malformed record %q", content)}
	}

	elapsed, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, &MeasurementError{Test: name, Err: errors.Wrap(err, "bad elapsed time")}
	}
	peak, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, &MeasurementError{Test: name, Err: errors.Wrap(err, "bad peak memory")}
	}
	return elapsed, peak, nil
}
