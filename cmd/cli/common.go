package main

import (
	"encoding/json"
	"io"

	"afmdash/adapters/backend/rest"
	"afmdash/internal"
	"afmdash/internal/config"
)

type globalOptions struct {
	backendURL string
	logLevel   string
}

func (o *globalOptions) load() (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.backendURL != "" {
		wsURL, err := config.WebSocketURL(o.backendURL, cfg.Backend.WSPath)
		if err != nil {
			return nil, nil, err
		}
		cfg.Backend.URL = o.backendURL
		cfg.Backend.WebSocketURL = wsURL
	}
	level, _ := internal.ParseLogLevel(o.logLevel)
	return cfg, internal.NewLogger(level), nil
}

func newBackend(cfg *config.Config) *rest.Client {
	return rest.NewClient(cfg.Backend.HTTPBaseURL(), rest.WithRateLimit(cfg.Backend.RateLimit))
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// noReload stands in for the streaming session, which the one-shot
// commands do not open
type noReload struct{}

func (noReload) ResetAndReload() {}
