package backend

import (
	"bytes"
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-units"
	"github.com/google/uuid"
)

const labelPrefix = "shellbox."

// Docker runs execution units as hardened containers via the Docker API.
type Docker struct {
	docker *client.Client
}

func NewDocker() (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &Docker{docker: cli}, nil
}

func (d *Docker) Close() error {
	return d.docker.Close()
}

// Client returns the underlying Docker client (shared with the image provider).
func (d *Docker) Client() *client.Client {
	return d.docker
}

// Ping verifies the Docker daemon is reachable.
func (d *Docker) Ping(ctx context.Context) error {
	if _, err := d.docker.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// CreateUnit creates and starts a sandbox container. The container is kept
// alive by a shell with an open stdin; commands are dispatched via exec.
func (d *Docker) CreateUnit(ctx context.Context, image string, limits Limits) (string, error) {
	unitID := uuid.New().String()[:12]

	memBytes, err := units.RAMInBytes(limits.MemLimit)
	if err != nil {
		return "", fmt.Errorf("%w: mem limit %q: %v", ErrResource, limits.MemLimit, err)
	}

	resources := container.Resources{
		NanoCPUs:  int64(limits.CPULimit * 1e9),
		Memory:    memBytes,
		PidsLimit: int64Ptr(int64(limits.PidsLimit)),
	}

	hostCfg := &container.HostConfig{
		Resources:   resources,
		AutoRemove:  true,
		SecurityOpt: []string{"no-new-privileges"},
		CapDrop:     []string{"ALL"},
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeTmpfs,
				Target: "/tmp",
				TmpfsOptions: &mount.TmpfsOptions{
					SizeBytes: 64 * units.MiB,
				},
			},
		},
	}

	if limits.NetworkMode == "none" {
		hostCfg.NetworkMode = "none"
	}

	containerCfg := &container.Config{
		Image: image,
		Labels: map[string]string{
			labelPrefix + "managed": "true",
		},
		Tty:       false,
		OpenStdin: true, // keeps the shell waiting on stdin
		Cmd:       []string{"/bin/sh"},
	}

	resp, err := d.docker.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, "shellbox-"+unitID)
	if err != nil {
		return "", classifyDockerErr(err, "container create")
	}

	if err := d.docker.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Clean up on start failure.
		d.docker.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", classifyDockerErr(err, "container start")
	}

	return resp.ID, nil
}

// Exec runs a command in the unit through `sh -c` and returns the combined
// stdout+stderr stream plus the exit code.
func (d *Docker) Exec(ctx context.Context, handle, command string) (*ExecResult, error) {
	execCfg := container.ExecOptions{
		Cmd:          []string{"/bin/sh", "-c", command},
		AttachStdout: true,
		AttachStderr: true,
	}

	execResp, err := d.docker.ContainerExecCreate(ctx, handle, execCfg)
	if err != nil {
		return nil, classifyExecErr(err, "exec create")
	}

	attachResp, err := d.docker.ContainerExecAttach(ctx, execResp.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, classifyExecErr(err, "exec attach")
	}
	defer attachResp.Close()

	// Demultiplex Docker's stream (8-byte headers); stdout and stderr are
	// interleaved into one buffer on purpose.
	var combined bytes.Buffer
	if _, err := stdcopy.StdCopy(&combined, &combined, attachResp.Reader); err != nil {
		return nil, classifyExecErr(err, "exec read")
	}

	inspect, err := d.docker.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return nil, classifyExecErr(err, "exec inspect")
	}

	return &ExecResult{
		Output:   combined.String(),
		ExitCode: inspect.ExitCode,
	}, nil
}

// DestroyUnit force-removes the container. A unit that is already gone is
// not an error.
func (d *Docker) DestroyUnit(ctx context.Context, handle string) error {
	err := d.docker.ContainerRemove(ctx, handle, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
	if err != nil && !client.IsErrNotFound(err) {
		return classifyDockerErr(err, "container remove")
	}
	return nil
}

func classifyDockerErr(err error, op string) error {
	if client.IsErrConnectionFailed(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrResource, op, err)
}

func classifyExecErr(err error, op string) error {
	if client.IsErrConnectionFailed(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExec, op, err)
}

func int64Ptr(v int64) *int64 {
	return &v
}
