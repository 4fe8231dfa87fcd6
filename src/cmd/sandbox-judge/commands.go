package main

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/dsa-sandbox/sandbox-judge/src/dkrlib"
	"github.com/dsa-sandbox/sandbox-judge/src/gcplib"
	"github.com/dsa-sandbox/sandbox-judge/src/judgelib"
	"github.com/dsa-sandbox/sandbox-judge/src/registerlib"
	"github.com/dsa-sandbox/sandbox-judge/src/reportlib"
	"github.com/dsa-sandbox/sandbox-judge/src/sqllib"
	"github.com/dsa-sandbox/sandbox-judge/src/stagelib"
	"github.com/dsa-sandbox/sandbox-judge/src/types"
)

func runJudge(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 4 {
		return errors.Errorf("usage: %s judge %s", cmd.Root().Name, cmd.ArgsUsage)
	}
	dbPath, assignmentID, files := args[0], args[2], args[3:]

	tier, err := types.ParseTestTier(args[1])
	if err != nil {
		return err
	}
	format := cmd.String("format")
	if format != "json" && format != "table" {
		return errors.Errorf("unknown format %q", format)
	}
	cfg := configFrom(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := sqllib.Open(cfg.DBMS, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	assignment, err := db.FindAssignment(assignmentID)
	if err != nil {
		return err
	}

	if cmd.Bool("check-required") {
		if missing := assignment.MissingFiles(submittedNames(files)); len(missing) > 0 {
			return errors.Errorf("required files not submitted: %s", strings.Join(missing, ", "))
		}
	}

	log := logrus.NewEntry(logrus.StandardLogger())

	provider, err := dkrlib.NewDockerProvider(dkrlib.Options{
		Image:      cfg.Image,
		WorkDir:    cfg.WorkDir,
		APIVersion: cfg.DockerAPI,
		PidsLimit:  cfg.PidsLimit,
	}, log)
	if err != nil {
		return err
	}
	defer provider.Close()

	if cmd.Bool("pull") {
		if err := provider.EnsureImage(ctx); err != nil {
			return err
		}
	}

	var fetcher stagelib.Fetcher
	if fromBucket(files) {
		gcs, err := gcplib.NewClient(ctx, cfg.GCSCredentials)
		if err != nil {
			return err
		}
		defer gcs.Close()
		fetcher = gcs
	}

	judge := judgelib.New(provider, fetcher, judgelib.Options{
		BuildTimeout:  cfg.BuildTimeout,
		Grace:         cfg.Grace,
		Policy:        cfg.Policy,
		WorkspaceRoot: cfg.WorkspaceRoot,
	}, log)

	result, err := judge.Run(ctx, assignment, tier, files)
	if err != nil {
		return err
	}

	if cfg.NatsSubject != "" {
		if err := reportlib.Publish(cfg.NatsURL, cfg.NatsSubject, result); err != nil {
			return err
		}
	}

	if format == "table" {
		reportlib.WriteTable(os.Stdout, result)
		return nil
	}
	return reportlib.WriteJSON(os.Stdout, result)
}

func runRegister(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return errors.Errorf("usage: %s register %s", cmd.Root().Name, cmd.ArgsUsage)
	}
	dbPath, dir := args[0], args[1]

	cfg := configFrom(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	assignment, err := registerlib.Load(dir)
	if err != nil {
		return err
	}

	db, err := sqllib.Open(cfg.DBMS, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}
	if err := db.SaveAssignment(assignment); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"assignment": assignment.ID,
		"light":      len(assignment.LightTestCases),
		"heavy":      len(assignment.HeavyTestCases),
	}).Info("assignment registered")
	return nil
}

// submittedNames ... the file names the submissions are staged under
func submittedNames(files []string) []string {
	names := make([]string, 0, len(files))
	for _, file := range files {
		if _, object, ok := stagelib.SplitBucketURL(file); ok {
			names = append(names, path.Base(object))
			continue
		}
		names = append(names, filepath.Base(file))
	}
	return names
}

func fromBucket(files []string) bool {
	for _, file := range files {
		if _, _, ok := stagelib.SplitBucketURL(file); ok {
			return true
		}
	}
	return false
}
