package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loginsuite/internal/auth"
	"loginsuite/internal/browser"
	"loginsuite/internal/config"
	"loginsuite/internal/fixture"
	"loginsuite/internal/ledger"
	"loginsuite/internal/logging"
	"loginsuite/internal/report"
	"loginsuite/internal/sandbox"
	"loginsuite/internal/scenario"
)

var errScenariosFailed = errors.New("one or more scenarios failed")

type runFlags struct {
	envFile  string
	install  bool
	demo     bool
	endpoint string
	image    string
}

func newRunCommand() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the login scenarios against every selected browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuite(cmd.Context(), cmd, flags)
		},
	}
	f := cmd.Flags()
	config.BindFlags(f)
	f.StringVar(&flags.envFile, "env-file", "", "dotenv file with settings (default ./.env)")
	f.BoolVar(&flags.install, "install", false, "download the playwright driver and browsers before running")
	f.BoolVar(&flags.demo, "demo", false, "serve the demo site locally and run against it")
	f.StringVar(&flags.endpoint, "endpoint", "", "connect to an already running browser server instead of starting one")
	f.StringVar(&flags.image, "image", sandbox.DefaultImage, "browser server image used with --remote")
	return cmd
}

func runSuite(ctx context.Context, cmd *cobra.Command, flags *runFlags) error {
	cfg, err := config.Load(config.LoadOptions{EnvFile: flags.envFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	led := ledger.New()
	lg, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Console: cmd.ErrOrStderr(),
		Ledger:  led,
		Name:    cfg.SuiteName,
	})
	if err != nil {
		return err
	}
	defer lg.Close()
	log := lg.Logger

	if flags.demo {
		admin := auth.Account{Email: cfg.AdminUsername, Password: cfg.AdminPassword}
		if admin.Email == "" || admin.Password == "" {
			admin = auth.Account{Email: demoUser, Password: demoPassword}
			cfg.AdminUsername, cfg.AdminPassword = admin.Email, admin.Password
		}
		site, err := startDemoSite(log, "127.0.0.1:0", admin)
		if err != nil {
			return err
		}
		defer site.shutdown()
		cfg.BaseURL = site.URL
	}

	kinds, err := browser.ParseTargets(cfg.Browser)
	if err != nil {
		return err
	}
	if flags.install && !cfg.Remote && flags.endpoint == "" {
		log.Info("installing browsers", zap.Int("count", len(kinds)))
		if err := browser.Install(kinds); err != nil {
			return fmt.Errorf("install browsers: %w", err)
		}
	}

	launcher := browser.NewLauncher(log, led)
	defer launcher.Close()

	suite := &fixture.Suite{
		Config:   cfg,
		Log:      log,
		Ledger:   led,
		Launcher: launcher,
		Recorder: report.NewRecorder(),
	}

	if server := browserServer(log, cfg, flags); server != nil {
		defer func() {
			if err := server.Stop(); err != nil {
				log.Warn("failed to stop browser server", zap.Error(err))
			}
		}()
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("start browser server: %w", err)
		}
		suite.RemoteEndpoint = server.WSEndpoint()
	}

	runner := &scenario.Runner{
		Suite: suite,
		Scenarios: scenario.Login(scenario.Credentials{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
		}),
	}
	rep, runErr := runner.Run(ctx)
	if runErr != nil {
		log.Warn("run interrupted, writing partial report", zap.Error(runErr))
	}
	if _, err := writeReport(cmd.OutOrStdout(), log.With(zap.String("log", lg.Path)), rep, cfg.ReportDir); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}
	if suite.Recorder.Failed() {
		return errScenariosFailed
	}
	return nil
}

// writeReport renders rep into dir and prints its summary to out. It runs
// for interrupted runs too, so finished scenarios are never lost.
func writeReport(out io.Writer, log *zap.Logger, rep report.Report, dir string) (string, error) {
	path, err := rep.Write(dir)
	if err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	counts := rep.Counts()
	log.Info("run complete",
		zap.Int("passed", counts[report.Passed]),
		zap.Int("failed", counts[report.Failed]),
		zap.Int("skipped", counts[report.Skipped]),
		zap.String("report", path))
	fmt.Fprintln(out, rep.Summary())
	return path, nil
}

// browserServer picks where remote browsers come from: an explicit endpoint,
// a Docker container when remote mode is on, or nowhere.
func browserServer(log *zap.Logger, cfg config.Config, flags *runFlags) sandbox.BrowserServer {
	switch {
	case flags.endpoint != "":
		return sandbox.NewStaticBrowserServer(flags.endpoint)
	case cfg.Remote:
		return &lazyDocker{log: log, image: flags.image}
	default:
		return nil
	}
}

// lazyDocker defers connecting to the Docker daemon until Start so that a
// missing daemon is reported as a start error.
type lazyDocker struct {
	log   *zap.Logger
	image string
	*sandbox.DockerBrowserServer
}

func (l *lazyDocker) Start(ctx context.Context) error {
	d, err := sandbox.NewDockerBrowserServer(l.log, l.image)
	if err != nil {
		return err
	}
	l.DockerBrowserServer = d
	return d.Start(ctx)
}

func (l *lazyDocker) Stop() error {
	if l.DockerBrowserServer == nil {
		return nil
	}
	return errors.Join(l.DockerBrowserServer.Stop(), l.DockerBrowserServer.Close())
}

func (l *lazyDocker) WSEndpoint() string {
	if l.DockerBrowserServer == nil {
		return ""
	}
	return l.DockerBrowserServer.WSEndpoint()
}

func (l *lazyDocker) IsRunning() bool {
	return l.DockerBrowserServer != nil && l.DockerBrowserServer.IsRunning()
}
