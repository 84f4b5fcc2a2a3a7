package scenario

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"loginsuite/internal/browser"
	"loginsuite/internal/fixture"
	"loginsuite/internal/pages"
	"loginsuite/internal/report"
)

// PageBuilder turns a session into the page object a scenario drives.
type PageBuilder func(sess *browser.Session, shots pages.Screenshotter) *pages.LoginPage

// Runner executes scenarios outside go test: every scenario against every
// configured browser, with results going to the suite recorder.
type Runner struct {
	Suite     *fixture.Suite
	Scenarios []Scenario
	// NewPage defaults to NewLoginPage with the suite logger.
	NewPage PageBuilder
}

func (r *Runner) log() *zap.Logger {
	if r.Suite.Log == nil {
		return zap.NewNop()
	}
	return r.Suite.Log.Named("runner")
}

func (r *Runner) newPage(sess *browser.Session, shots pages.Screenshotter) *pages.LoginPage {
	if r.NewPage != nil {
		return r.NewPage(sess, shots)
	}
	return NewLoginPage(sess, shots, r.Suite.Log, r.Suite.Config.UploadDir)
}

// Run executes every scenario and returns the report. Shared sessions are
// closed before it returns. The error is non-nil only when the run could not
// proceed; failed scenarios are in the report.
func (r *Runner) Run(ctx context.Context) (report.Report, error) {
	rep := report.Report{
		Suite:   r.Suite.Config.SuiteName,
		App:     r.Suite.Config.AppName,
		Started: time.Now(),
	}
	defer func() {
		if err := r.Suite.Close(); err != nil {
			r.log().Warn("failed to close shared sessions", zap.Error(err))
		}
	}()

	kinds, err := r.Suite.Targets()
	if err != nil {
		return rep, err
	}
	for _, kind := range kinds {
		for _, sc := range r.Scenarios {
			if err := ctx.Err(); err != nil {
				return r.finish(rep), err
			}
			r.runOne(ctx, kind, sc)
		}
	}
	return r.finish(rep), nil
}

func (r *Runner) finish(rep report.Report) report.Report {
	if r.Suite.Recorder != nil {
		rep.Results = r.Suite.Recorder.Results()
	}
	return rep
}

func (r *Runner) runOne(ctx context.Context, kind browser.Kind, sc Scenario) report.Result {
	tt := r.Suite.StartTest(sc.Name+"/"+string(kind), kind)

	sess, release, err := r.Suite.Acquire(ctx, kind)
	if err != nil {
		r.log().Error("could not start session", zap.String("browser", string(kind)), zap.Error(err))
		return tt.Finish(report.Failed, err.Error())
	}

	outcome, message := r.execute(sess, tt, sc)

	if err := release(); err != nil {
		r.log().Warn("session release failed", zap.String("session", sess.ID), zap.Error(err))
	}
	return tt.Finish(outcome, message)
}

func (r *Runner) execute(sess *browser.Session, tt *fixture.Test, sc Scenario) (report.Outcome, string) {
	if r.Suite.Continuous() {
		if err := sess.Reset(r.Suite.Config.BaseURL); err != nil {
			return report.Failed, err.Error()
		}
	}

	shots := tt.Screenshots(sess)
	err := sc.Run(r.newPage(sess, shots))
	switch {
	case err == nil:
		r.log().Info("scenario passed", zap.String("scenario", sc.Name))
		return report.Passed, ""
	case errors.Is(err, ErrMissingCredentials):
		r.log().Warn("scenario skipped", zap.String("scenario", sc.Name), zap.Error(err))
		return report.Skipped, err.Error()
	default:
		r.log().Error("scenario failed", zap.String("scenario", sc.Name), zap.Error(err))
		if sess.Page != nil {
			if _, shotErr := shots.Screenshot(sc.Name + "_" + string(sess.Kind) + "_failure"); shotErr != nil {
				r.log().Warn("failure screenshot not captured", zap.Error(shotErr))
			}
		}
		return report.Failed, err.Error()
	}
}
