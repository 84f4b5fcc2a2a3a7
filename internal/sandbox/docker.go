package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"go.uber.org/zap"
)

const (
	// DefaultImage ships browsers matching the playwright driver version.
	DefaultImage = "mcr.microsoft.com/playwright:v1.45.1-jammy"

	containerPrefix = "loginsuite-browser-"
	roleLabel       = "io.loginsuite.role"
	roleValue       = "browser-server"

	serverPort nat.Port = "3000/tcp"
)

var serverCmd = []string{
	"/bin/sh", "-c",
	"npx -y playwright@1.45.1 run-server --port 3000 --host 0.0.0.0",
}

// dockerClient is the subset of the Docker Engine API the server uses.
type dockerClient interface {
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	Close() error
}

var _ dockerClient = (*client.Client)(nil)

// DockerBrowserServer runs the playwright browser server in a local Docker
// container, published on a free loopback port.
type DockerBrowserServer struct {
	mu            sync.Mutex
	cli           dockerClient
	image         string
	log           *zap.Logger
	containerID   string
	containerName string
	port          int
	readyTimeout  time.Duration
	waitReady     func(ctx context.Context, port int, timeout time.Duration) error
}

// NewDockerBrowserServer connects to the Docker daemon from the environment
// (DOCKER_HOST and friends). An empty image means DefaultImage.
func NewDockerBrowserServer(log *zap.Logger, img string) (*DockerBrowserServer, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return newDockerBrowserServer(cli, log, img), nil
}

func newDockerBrowserServer(cli dockerClient, log *zap.Logger, img string) *DockerBrowserServer {
	if log == nil {
		log = zap.NewNop()
	}
	if img == "" {
		img = DefaultImage
	}
	return &DockerBrowserServer{
		cli:          cli,
		image:        img,
		log:          log.Named("docker"),
		readyTimeout: 2 * time.Minute,
		waitReady:    WaitForServerReady,
	}
}

// Start pulls the image if needed, starts the container and waits until the
// server accepts connections.
func (d *DockerBrowserServer) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.cleanupOrphanedContainers(ctx); err != nil {
		d.log.Warn("failed to clean up orphaned containers", zap.Error(err))
	}

	port, err := FindFreePort()
	if err != nil {
		return fmt.Errorf("failed to find free port: %w", err)
	}
	d.port = port
	d.log.Info("allocated port", zap.Int("port", port))

	if err := d.ensureImage(ctx); err != nil {
		return fmt.Errorf("failed to ensure image: %w", err)
	}
	if err := d.createContainer(ctx); err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	if err := d.waitReady(ctx, d.port, d.readyTimeout); err != nil {
		d.stopLocked()
		return fmt.Errorf("browser server not ready: %w", err)
	}

	d.log.Info("browser server ready", zap.String("endpoint", d.endpointLocked()))
	return nil
}

func (d *DockerBrowserServer) WSEndpoint() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.endpointLocked()
}

func (d *DockerBrowserServer) endpointLocked() string {
	if d.containerID == "" || d.port == 0 {
		return ""
	}
	return fmt.Sprintf("ws://127.0.0.1:%d/", d.port)
}

// Stop stops and removes the container. It is safe to call more than once.
func (d *DockerBrowserServer) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *DockerBrowserServer) stopLocked() error {
	if d.containerID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	d.log.Info("stopping container", zap.String("container", d.containerName))
	timeout := 5
	if err := d.cli.ContainerStop(ctx, d.containerID, container.StopOptions{Timeout: &timeout}); err != nil {
		d.log.Warn("graceful stop failed", zap.String("container", d.containerName), zap.Error(err))
	}

	var errs []error
	if err := d.cli.ContainerRemove(ctx, d.containerID, container.RemoveOptions{Force: true}); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove container %s: %w", d.containerName, err))
	} else {
		d.log.Info("removed container", zap.String("container", d.containerName))
	}

	d.containerID = ""
	d.containerName = ""
	d.port = 0
	return errors.Join(errs...)
}

func (d *DockerBrowserServer) IsRunning() bool {
	d.mu.Lock()
	id := d.containerID
	d.mu.Unlock()
	if id == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	info, err := d.cli.ContainerInspect(ctx, id)
	if err != nil || info.ContainerJSONBase == nil || info.State == nil {
		return false
	}
	return info.State.Running
}

// Close releases the Docker client.
func (d *DockerBrowserServer) Close() error {
	return d.cli.Close()
}

func (d *DockerBrowserServer) ensureImage(ctx context.Context) error {
	images, err := d.cli.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", d.image)),
	})
	if err != nil {
		return fmt.Errorf("failed to check image: %w", err)
	}
	if len(images) > 0 {
		d.log.Info("image already present", zap.String("image", d.image))
		return nil
	}

	d.log.Info("pulling image", zap.String("image", d.image))
	rc, err := d.cli.ImagePull(ctx, d.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull %s: %w", d.image, err)
	}
	defer rc.Close()
	// the pull only completes once the progress stream is drained
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("failed to pull %s: %w", d.image, err)
	}
	return nil
}

func (d *DockerBrowserServer) createContainer(ctx context.Context) error {
	d.containerName = fmt.Sprintf("%s%d", containerPrefix, time.Now().UnixNano())

	cfg := &container.Config{
		Image:        d.image,
		Cmd:          serverCmd,
		ExposedPorts: nat.PortSet{serverPort: struct{}{}},
		Labels:       map[string]string{roleLabel: roleValue},
	}
	host := &container.HostConfig{
		Init: boolPtr(true),
		PortBindings: nat.PortMap{
			serverPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: strconv.Itoa(d.port)}},
		},
	}

	resp, err := d.cli.ContainerCreate(ctx, cfg, host, nil, nil, d.containerName)
	if err != nil {
		d.containerName = ""
		return err
	}
	d.containerID = resp.ID

	if err := d.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		d.stopLocked()
		return fmt.Errorf("failed to start container: %w", err)
	}

	d.log.Info("started container",
		zap.String("container", d.containerName),
		zap.String("id", shortID(resp.ID)),
		zap.Int("port", d.port))
	return nil
}

func (d *DockerBrowserServer) cleanupOrphanedContainers(ctx context.Context) error {
	orphans, err := d.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", roleLabel+"="+roleValue)),
	})
	if err != nil {
		return fmt.Errorf("failed to list orphaned containers: %w", err)
	}
	if len(orphans) == 0 {
		d.log.Debug("no orphaned containers to clean up")
		return nil
	}

	d.log.Info("cleaning up orphaned containers", zap.Int("count", len(orphans)))
	for _, c := range orphans {
		if err := d.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true}); err != nil {
			d.log.Warn("failed to remove orphaned container", zap.String("id", shortID(c.ID)), zap.Error(err))
		} else {
			d.log.Info("removed orphaned container", zap.String("id", shortID(c.ID)))
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func boolPtr(b bool) *bool { return &b }
