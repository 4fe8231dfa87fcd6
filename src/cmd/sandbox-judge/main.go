package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/dsa-sandbox/sandbox-judge/src/sqllib"
	"github.com/dsa-sandbox/sandbox-judge/src/util"
)

const (
	exitFatal    = 1
	exitNotFound = 2
)

func main() {
	// stdout carries the report only
	logrus.SetOutput(os.Stderr)

	if err := util.LoadEnv(".env"); err != nil {
		logrus.WithError(err).Fatal("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()

	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, sqllib.ErrAssignmentNotFound):
		fmt.Println("Assignment not found")
		return exitNotFound
	default:
		logrus.WithError(err).Error("sandbox-judge failed")
		return exitFatal
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "sandbox-judge",
		Usage: "build and judge submissions inside a docker sandbox",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "logrus level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := logrus.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return ctx, err
			}
			logrus.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "judge",
				Usage:     "judge submitted files against an assignment",
				ArgsUsage: "<db_path> <light|heavy|all> <assignment_id> <file>...",
				Flags:     judgeFlags(),
				Action:    runJudge,
			},
			{
				Name:      "register",
				Usage:     "store an assignment directory in the database",
				ArgsUsage: "<db_path> <assignment_dir>",
				Flags:     []cli.Flag{dbmsFlag()},
				Action:    runRegister,
			},
		},
	}
}

func dbmsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dbms",
		Value:   util.DefaultDBMS,
		Usage:   "sqlite3, mysql or postgres. db_path is a DSN for the latter two",
		Sources: cli.EnvVars("DBMS"),
	}
}

func judgeFlags() []cli.Flag {
	return []cli.Flag{
		dbmsFlag(),
		&cli.StringFlag{Name: "format", Value: "json", Usage: "json or table", Sources: cli.EnvVars("REPORT_FORMAT")},
		&cli.BoolFlag{Name: "check-required", Usage: "fail when a required file is not submitted", Sources: cli.EnvVars("CHECK_REQUIRED")},
		&cli.BoolFlag{Name: "pull", Usage: "pull the sandbox image if the daemon lacks it", Sources: cli.EnvVars("PULL_IMAGE")},
		&cli.StringFlag{Name: "image", Value: util.DefaultImage, Sources: cli.EnvVars("SANDBOX_IMAGE")},
		&cli.StringFlag{Name: "docker-api", Usage: "fixed docker API version, negotiated when empty", Sources: cli.EnvVars("DOCKER_API_VERSION")},
		&cli.DurationFlag{Name: "build-timeout", Value: util.DefaultBuildTimeout, Sources: cli.EnvVars("BUILD_TIMEOUT")},
		&cli.DurationFlag{Name: "grace", Value: util.DefaultGrace, Usage: "host-side slack on every exec deadline", Sources: cli.EnvVars("EXEC_GRACE")},
		&cli.StringFlag{Name: "policy", Value: "last", Usage: "verdict policy: last or worst", Sources: cli.EnvVars("VERDICT_POLICY")},
		&cli.StringFlag{Name: "workspace-root", Usage: "parent of the per-run workspace, os temp dir when empty", Sources: cli.EnvVars("WORKSPACE_ROOT")},
		&cli.StringFlag{Name: "gcs-credentials", Usage: "credentials file for gs:// submissions", Sources: cli.EnvVars("GCS_CREDENTIALS")},
		&cli.StringFlag{Name: "nats-url", Sources: cli.EnvVars("NATS_URL")},
		&cli.StringFlag{Name: "nats-subject", Usage: "publish the report here after judging", Sources: cli.EnvVars("NATS_SUBJECT")},
	}
}

func configFrom(cmd *cli.Command) util.Config {
	cfg := util.DefaultConfig()
	cfg.DBMS = cmd.String("dbms")
	if cmd.Name != "judge" {
		return cfg
	}

	cfg.Image = cmd.String("image")
	cfg.DockerAPI = cmd.String("docker-api")
	cfg.BuildTimeout = cmd.Duration("build-timeout")
	cfg.Grace = cmd.Duration("grace")
	cfg.Policy = cmd.String("policy")
	cfg.WorkspaceRoot = cmd.String("workspace-root")
	cfg.GCSCredentials = cmd.String("gcs-credentials")
	cfg.NatsURL = cmd.String("nats-url")
	cfg.NatsSubject = cmd.String("nats-subject")
	return cfg
}
