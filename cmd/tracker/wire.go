package main

import (
	"path/filepath"

	"github.com/hucklog/hucklog/internal/adapters/directory"
	"github.com/hucklog/hucklog/internal/adapters/repository"
	slackadapter "github.com/hucklog/hucklog/internal/adapters/slack"
	"github.com/hucklog/hucklog/internal/app"
	"github.com/hucklog/hucklog/internal/config"
)

// newService assembles the adapters around one workspace client.
func newService(cfg *config.Config) (*app.Service, error) {
	client := slackadapter.NewClient(cfg.BotToken)
	store := repository.NewFileStore(filepath.Join(cfg.DataDir, "messages.csv"))
	roster := directory.NewSource(client, cfg.WorkoutChannel, cfg.DataDir)
	period := directory.NewPeriod(cfg.DataDir)
	return app.New(cfg, client, store, roster, period)
}
