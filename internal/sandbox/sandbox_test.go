package sandbox

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

type fakeDocker struct {
	mu       sync.Mutex
	images   []image.Summary
	orphans  []container.Summary
	pulled   []string
	created  []*container.Config
	hosts    []*container.HostConfig
	started  []string
	stopped  []string
	removed  []string
	running  bool
	startErr error
}

func (f *fakeDocker) ImageList(context.Context, image.ListOptions) ([]image.Summary, error) {
	return f.images, nil
}

func (f *fakeDocker) ImagePull(_ context.Context, ref string, _ image.PullOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulled = append(f.pulled, ref)
	return io.NopCloser(strings.NewReader(`{"status":"Downloaded"}`)), nil
}

func (f *fakeDocker) ContainerCreate(_ context.Context, cfg *container.Config, host *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, _ string) (container.CreateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, cfg)
	f.hosts = append(f.hosts, host)
	return container.CreateResponse{ID: "0123456789abcdef0123"}, nil
}

func (f *fakeDocker) ContainerStart(_ context.Context, id string, _ container.StartOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, id)
	f.running = true
	return nil
}

func (f *fakeDocker) ContainerInspect(context.Context, string) (container.InspectResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{State: &container.State{Running: f.running}},
	}, nil
}

func (f *fakeDocker) ContainerStop(_ context.Context, id string, _ container.StopOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, id)
	f.running = false
	return nil
}

func (f *fakeDocker) ContainerRemove(_ context.Context, id string, _ container.RemoveOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeDocker) ContainerList(context.Context, container.ListOptions) ([]container.Summary, error) {
	return f.orphans, nil
}

func (f *fakeDocker) Close() error { return nil }

func newTestServer(f *fakeDocker) *DockerBrowserServer {
	d := newDockerBrowserServer(f, nil, "")
	d.waitReady = func(context.Context, int, time.Duration) error { return nil }
	return d
}

func TestDockerBrowserServerLifecycle(t *testing.T) {
	f := &fakeDocker{orphans: []container.Summary{{ID: "stale-container-id"}}}
	d := newTestServer(f)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if len(f.pulled) != 1 || f.pulled[0] != DefaultImage {
		t.Errorf("Expected pull of %s, got %v", DefaultImage, f.pulled)
	}
	if len(f.removed) != 1 || f.removed[0] != "stale-container-id" {
		t.Errorf("Expected orphan removal, got %v", f.removed)
	}

	cfg := f.created[0]
	if cfg.Labels[roleLabel] != roleValue {
		t.Errorf("Expected role label, got %v", cfg.Labels)
	}
	if _, ok := cfg.ExposedPorts[serverPort]; !ok {
		t.Errorf("Expected %s exposed", serverPort)
	}
	binding := f.hosts[0].PortBindings[serverPort]
	if len(binding) != 1 || binding[0].HostIP != "127.0.0.1" {
		t.Errorf("Expected loopback binding, got %v", binding)
	}

	ep := d.WSEndpoint()
	if !strings.HasPrefix(ep, "ws://127.0.0.1:") || !strings.HasSuffix(ep, "/") {
		t.Errorf("Unexpected endpoint %q", ep)
	}
	if !strings.Contains(ep, binding[0].HostPort) {
		t.Errorf("Endpoint %q does not use bound port %s", ep, binding[0].HostPort)
	}
	if !d.IsRunning() {
		t.Error("Expected server to be running")
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if d.IsRunning() || d.WSEndpoint() != "" {
		t.Error("Expected server to be stopped")
	}
	if err := d.Stop(); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}
	if len(f.stopped) != 1 {
		t.Errorf("Expected exactly one stop, got %d", len(f.stopped))
	}
}

func TestDockerBrowserServerSkipsPullWhenPresent(t *testing.T) {
	f := &fakeDocker{images: []image.Summary{{ID: "sha256:abc"}}}
	d := newTestServer(f)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer d.Stop()
	if len(f.pulled) != 0 {
		t.Errorf("Expected no pull, got %v", f.pulled)
	}
}

func TestDockerBrowserServerStartFailureCleansUp(t *testing.T) {
	f := &fakeDocker{startErr: errors.New("port is already allocated")}
	d := newTestServer(f)

	err := d.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "port is already allocated") {
		t.Fatalf("Expected start error, got %v", err)
	}
	if len(f.removed) != 1 {
		t.Errorf("Expected container removal after failed start, got %v", f.removed)
	}
	if d.WSEndpoint() != "" {
		t.Error("Expected no endpoint after failure")
	}
}

func TestDockerBrowserServerNotReady(t *testing.T) {
	f := &fakeDocker{}
	d := newTestServer(f)
	d.waitReady = func(context.Context, int, time.Duration) error { return errors.New("connection refused") }

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("Expected readiness error")
	}
	if len(f.removed) != 1 {
		t.Errorf("Expected cleanup after readiness failure, got %v", f.removed)
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatalf("FindFreePort() error: %v", err)
	}
	if port <= 0 || port > 65535 {
		t.Errorf("Invalid port %d", port)
	}
}

func TestWaitForServerReady(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	if err := WaitForServerReady(context.Background(), port, time.Second); err != nil {
		t.Errorf("Expected ready, got %v", err)
	}
}

func TestWaitForServerReadyTimeout(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if err := WaitForServerReady(context.Background(), port, 200*time.Millisecond); err == nil {
		t.Error("Expected timeout for closed port")
	}
}

func TestStaticBrowserServer(t *testing.T) {
	s := NewStaticBrowserServer("ws://grid:3000/")
	if s.WSEndpoint() != "" {
		t.Error("Expected empty endpoint before Start")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.WSEndpoint() != "ws://grid:3000/" || !s.IsRunning() {
		t.Error("Expected static endpoint while running")
	}
	_ = s.Stop()
	if s.IsRunning() {
		t.Error("Expected stopped")
	}

	if err := NewStaticBrowserServer("").Start(context.Background()); err == nil {
		t.Error("Expected error for empty endpoint")
	}
}
