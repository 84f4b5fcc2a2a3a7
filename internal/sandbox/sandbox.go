// Package sandbox runs browser servers that sessions connect to over a
// websocket instead of launching a local browser.
package sandbox

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// BrowserServer is a running playwright browser server.
type BrowserServer interface {
	// Start brings the server up and blocks until it accepts connections.
	Start(ctx context.Context) error

	// WSEndpoint is the websocket URL sessions connect to. Empty until
	// Start succeeds.
	WSEndpoint() string

	// Stop shuts the server down and releases its resources.
	Stop() error

	// IsRunning reports whether the server is up.
	IsRunning() bool
}

// FindFreePort finds an available TCP port on the local machine
func FindFreePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()

	addr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("failed to get TCP address")
	}

	return addr.Port, nil
}

// WaitForServerReady polls until something accepts TCP connections on
// 127.0.0.1:port.
func WaitForServerReady(ctx context.Context, port int, timeout time.Duration) error {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return fmt.Errorf("browser server on port %d not ready after %v", port, timeout)
}

// StaticBrowserServer points at a browser server someone else runs.
type StaticBrowserServer struct {
	endpoint string
	running  bool
}

func NewStaticBrowserServer(endpoint string) *StaticBrowserServer {
	return &StaticBrowserServer{endpoint: endpoint}
}

func (s *StaticBrowserServer) Start(context.Context) error {
	if s.endpoint == "" {
		return fmt.Errorf("static browser server has no endpoint")
	}
	s.running = true
	return nil
}

func (s *StaticBrowserServer) WSEndpoint() string {
	if !s.running {
		return ""
	}
	return s.endpoint
}

func (s *StaticBrowserServer) Stop() error     { s.running = false; return nil }
func (s *StaticBrowserServer) IsRunning() bool { return s.running }
