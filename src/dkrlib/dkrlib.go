package dkrlib

// dkrlib ... docker 系のライブラリ

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	namePrefix   = "dsa_sandbox_"
	pollInterval = 10 * time.Millisecond
)

type Options struct {
	Image      string
	WorkDir    string
	APIVersion string
	PidsLimit  int64
}

type DockerProvider struct {
	cli  *client.Client
	opts Options
	log  *logrus.Entry
}

func NewDockerProvider(opts Options, log *logrus.Entry) (*DockerProvider, error) {
	clientOpts := []client.Opt{client.FromEnv}
	if opts.APIVersion != "" {
		clientOpts = append(clientOpts, client.WithVersion(opts.APIVersion))
	} else {
		clientOpts = append(clientOpts, client.WithAPIVersionNegotiation())
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create docker client")
	}

	return &DockerProvider{cli: cli, opts: opts, log: log}, nil
}

func (p *DockerProvider) Close() error {
	return p.cli.Close()
}

// NewContainerName ... never reused, so concurrent judges on one daemon cannot collide
func NewContainerName() string {
	return namePrefix + uuid.NewString()
}

func containerSpec(opts Options, workspace string, memoryKB int) (*container.Config, *container.HostConfig) {
	memory := int64(memoryKB) * 1024
	pidsLimit := opts.PidsLimit

	config := &container.Config{
		Image:           opts.Image,
		Tty:             true,
		WorkingDir:      opts.WorkDir,
		NetworkDisabled: true,
	}
	hostConfig := &container.HostConfig{
		Binds:       []string{workspace + ":" + opts.WorkDir},
		NetworkMode: "none",
		SecurityOpt: []string{"no-new-privileges"},
		CapDrop:     []string{"ALL"},
		Resources: container.Resources{
			Memory:     memory,
			MemorySwap: memory, // no swap
			PidsLimit:  &pidsLimit,
		},
	}
	return config, hostConfig
}

// Create ... create and start a container bound to workspace
func (p *DockerProvider) Create(ctx context.Context, workspace string, memoryKB int) (Sandbox, error) {
	// docker reads a zero memory limit as unlimited
	if memoryKB <= 0 {
		return nil, errors.Errorf("memory limit must be positive, got %d KB", memoryKB)
	}

	name := NewContainerName()
	config, hostConfig := containerSpec(p.opts, workspace, memoryKB)

	resp, err := p.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create container %s", name)
	}

	c := NewContainer(p.cli, resp.ID, name, p.opts.WorkDir, p.log)

	if err := p.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		if rmErr := c.Remove(ctx); rmErr != nil {
			c.log.WithError(rmErr).Warn("failed to remove container after start failure")
		}
		return nil, errors.Wrapf(err, "failed to start container %s", name)
	}

	c.log.WithField("memory_kb", memoryKB).Debug("container started")
	return c, nil
}

// EnsureImage pulls the sandbox image when the daemon does not have it.
func (p *DockerProvider) EnsureImage(ctx context.Context) error {
	if _, _, err := p.cli.ImageInspectWithRaw(ctx, p.opts.Image); err == nil {
		return nil
	}

	p.log.WithField("image", p.opts.Image).Info("pulling docker image")
	reader, err := p.cli.ImagePull(ctx, p.opts.Image, image.PullOptions{})
	if err != nil {
		return errors.Wrapf(err, "failed to pull image %s", p.opts.Image)
	}
	defer reader.Close()

	// the pull is cancelled if the stream is not drained
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return errors.Wrapf(err, "failed to pull image %s", p.opts.Image)
	}
	return nil
}

// ContainerAPI ... the part of the docker client a running container needs
type ContainerAPI interface {
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (types.IDResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, config container.ExecStartOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
}

type Container struct {
	cli     ContainerAPI
	ID      string
	name    string
	workDir string
	log     *logrus.Entry

	removeOnce sync.Once
	removeErr  error
}

func NewContainer(cli ContainerAPI, id, name, workDir string, log *logrus.Entry) *Container {
	return &Container{
		cli:     cli,
		ID:      id,
		name:    name,
		workDir: workDir,
		log:     log.WithField("container", name),
	}
}

func (c *Container) Name() string {
	return c.name
}

// Exec ... when ctx ends first, the output read so far is returned along with the error
func (c *Container) Exec(ctx context.Context, cmd string) (ExecResult, error) {
	execResp, err := c.cli.ContainerExecCreate(ctx, c.ID, container.ExecOptions{
		Cmd:          []string{"sh", "-c", cmd},
		WorkingDir:   c.workDir,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return ExecResult{}, errors.Wrap(err, "failed to create exec")
	}

	attachResp, err := c.cli.ContainerExecAttach(ctx, execResp.ID, container.ExecStartOptions{})
	if err != nil {
		return ExecResult{}, errors.Wrap(err, "failed to attach exec")
	}
	defer attachResp.Close()

	var output bytes.Buffer
	done := make(chan error, 1)
	go func() {
		// both streams go to one buffer so the log keeps their order
		_, err := stdcopy.StdCopy(&output, &output, attachResp.Reader)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return ExecResult{Output: output.String()}, errors.Wrap(err, "failed to read exec output")
		}
	case <-ctx.Done():
		// unblocks the copy so the buffer can be read
		attachResp.Close()
		<-done
		return ExecResult{Output: output.String()}, errors.Wrap(ctx.Err(), "exec did not finish")
	}

	for {
		inspect, err := c.cli.ContainerExecInspect(ctx, execResp.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ExecResult{Output: output.String()}, errors.Wrap(ctx.Err(), "exec did not finish")
			}
			return ExecResult{Output: output.String()}, errors.Wrap(err, "failed to inspect exec")
		}
		if !inspect.Running {
			return ExecResult{ExitCode: inspect.ExitCode, Output: output.String()}, nil
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ExecResult{Output: output.String()}, errors.Wrap(ctx.Err(), "exec did not finish")
		}
	}
}

// Remove ... コンテナを破棄する. cancellation of ctx does not stop the removal
func (c *Container) Remove(ctx context.Context) error {
	c.removeOnce.Do(func() {
		ctx := context.WithoutCancel(ctx)
		c.logLifetime(ctx)

		err := c.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{RemoveVolumes: true, Force: true})
		if err != nil {
			c.removeErr = errors.Wrapf(err, "failed to remove container %s", c.name)
			return
		}
		c.log.Debug("container removed")
	})
	return c.removeErr
}

func (c *Container) logLifetime(ctx context.Context) {
	info, err := c.cli.ContainerInspect(ctx, c.ID)
	if err != nil || info.ContainerJSONBase == nil || info.State == nil {
		return
	}

	startedAt, err := dateparse.ParseAny(info.State.StartedAt)
	if err != nil {
		c.log.WithError(err).Debug("failed to parse container start time")
		return
	}
	c.log.WithField("lifetime", time.Since(startedAt).Round(time.Millisecond)).Debug("removing container")
}
