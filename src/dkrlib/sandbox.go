package dkrlib

import "context"

// ExecResult ... exit status and interleaved stdout/stderr of one command
type ExecResult struct {
	ExitCode int
	Output   string
}

// Sandbox is one isolated environment bound to a workspace directory.
type Sandbox interface {
	Name() string
	// Exec runs cmd with sh -c in the working directory and blocks until it exits or ctx is done.
	Exec(ctx context.Context, cmd string) (ExecResult, error)
	// Remove force-removes the sandbox. Only the first call does work.
	Remove(ctx context.Context) error
}

// Provider creates sandboxes.
type Provider interface {
	Create(ctx context.Context, workspace string, memoryKB int) (Sandbox, error)
}
