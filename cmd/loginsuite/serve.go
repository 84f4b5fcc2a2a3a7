package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loginsuite/internal/auth"
	"loginsuite/internal/logging"
	"loginsuite/internal/testsite"
)

// Credentials the demo site accepts when none are given.
const (
	demoUser     = "admin@example.com"
	demoPassword = "admin"
)

type serveFlags struct {
	port     int
	user     string
	password string
	logLevel string
}

func newServeCommand() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo login site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, flags)
		},
	}
	f := cmd.Flags()
	f.IntVar(&flags.port, "port", 8080, "port to serve HTTP on")
	f.StringVar(&flags.user, "user", demoUser, "email the site accepts")
	f.StringVar(&flags.password, "password", demoPassword, "password the site accepts")
	f.StringVar(&flags.logLevel, "log-level", "info", "minimum log level: debug, info, warn, error")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, flags *serveFlags) error {
	lg, err := logging.New(logging.Options{Level: flags.logLevel, Console: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer lg.Close()

	site, err := startDemoSite(lg.Logger, fmt.Sprintf(":%d", flags.port),
		auth.Account{Email: flags.user, Password: flags.password})
	if err != nil {
		return err
	}

	<-ctx.Done()
	lg.Info("shutting down")
	return site.shutdown()
}

// demoSite is a running testsite server.
type demoSite struct {
	URL    string
	server *http.Server
	done   chan error
	log    *zap.Logger
}

func startDemoSite(log *zap.Logger, addr string, account auth.Account) (*demoSite, error) {
	srv, err := testsite.NewServer(log, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo site: %w", err)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	d := &demoSite{
		URL:    siteURL(ln.Addr()),
		server: &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second},
		done:   make(chan error, 1),
		log:    log,
	}
	go func() {
		if err := d.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.done <- err
		}
		close(d.done)
	}()
	log.Info("demo site listening", zap.String("url", d.URL), zap.String("user", account.Email))
	return d, nil
}

func (d *demoSite) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("demo site shutdown: %w", err)
	}
	if err := <-d.done; err != nil {
		return fmt.Errorf("demo site failed: %w", err)
	}
	d.log.Info("demo site stopped")
	return nil
}

func siteURL(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP.IsUnspecified() {
		return fmt.Sprintf("http://localhost:%d/", tcp.Port)
	}
	return "http://" + addr.String() + "/"
}
