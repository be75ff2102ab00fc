package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"afmdash/adapters/backend/ws"
	"afmdash/domain/analysis"
	"afmdash/domain/feed"
	"afmdash/internal/config"
	apperrors "afmdash/internal/errors"
	"afmdash/internal/session"
	"afmdash/internal/store"
	"afmdash/ports"
)

func newStreamCmd(opts *globalOptions) *cobra.Command {
	var numCurves int
	var presetFile string
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Connect, request one batch of curves and print a summary",
		Long: `Connect to the backend, send the initial curve request and wait until the
backend reports a terminal status, the loading timeout fires or --wait elapses.

Example: afmdash-cli stream --num-curves 50 --preset soft.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			initial := analysis.DefaultState()
			if presetFile != "" {
				p, err := config.LoadPresetFile(presetFile)
				if err != nil {
					return err
				}
				p.ApplyTo(&initial)
			}
			if numCurves > 0 {
				initial.NumCurves = numCurves
			}

			st := store.New(initial)
			ctl := session.NewController(session.Config{
				URL:            cfg.Backend.WebSocketURL,
				LoadingTimeout: cfg.Session.LoadingTimeout,
				DialTimeout:    cfg.Session.DialTimeout,
			}, st, ws.NewDialer(cfg.Session.DialTimeout), logger)
			defer ctl.Shutdown()

			views := make(chan feed.View, 1)
			ctl.Subscribe(ports.ViewObserverFunc(func(v feed.View) {
				// keep only the newest view
				select {
				case <-views:
				default:
				}
				views <- v
			}))

			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			ctl.Connect()
			v, err := waitForOutcome(ctx, views)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), v.Summarize()); err != nil {
				return err
			}
			if v.LastOutcome == feed.OutcomeError {
				return apperrors.ProtocolError(st.Snapshot().Error)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&numCurves, "num-curves", 0, "Curves to request (default from preset or 10)")
	cmd.Flags().StringVar(&presetFile, "preset", "", "YAML or TOML analysis preset")
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Minute, "Give up after this long")

	return cmd
}

// waitForOutcome returns the first view that ends a request, or reports a
// session that failed or closed before any request finished
func waitForOutcome(ctx context.Context, views <-chan feed.View) (feed.View, error) {
	for {
		select {
		case v := <-views:
			switch v.LastOutcome {
			case feed.OutcomeComplete, feed.OutcomeError, feed.OutcomeTimedOut:
				if v.Phase == feed.PhaseIdle {
					return v, nil
				}
			case feed.OutcomeClosed:
				return v, apperrors.ConnectionError("session closed before the backend finished", nil)
			}
			if v.Status == analysis.StatusError {
				return v, apperrors.ConnectionError("backend connection failed", nil)
			}
			// a session that went away without finishing a request
			if v.Status == analysis.StatusDisconnected && v.Phase == feed.PhaseIdle && v.SessionID != "" {
				return v, apperrors.ConnectionError("backend session closed", nil)
			}
		case <-ctx.Done():
			return feed.View{}, fmt.Errorf("no result before deadline: %w", ctx.Err())
		}
	}
}
