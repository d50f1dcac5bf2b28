// Command taskflow is the terminal task manager: day/week task views backed
// by the remote todo API, with deadline warning and overdue alerts.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/app"
	"github.com/nhle/taskflow/internal/credential"
	"github.com/nhle/taskflow/internal/logger"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/notify"
	"github.com/nhle/taskflow/internal/repo"
	"github.com/nhle/taskflow/internal/store"
	appsync "github.com/nhle/taskflow/internal/sync"
	"github.com/nhle/taskflow/internal/watch"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogPath, false); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	cache, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer cache.Close()

	// The session cookie is optional at startup; without it the first sync
	// surfaces an auth error in the status bar.
	cookie, err := credential.Get(credential.SessionCookieKey)
	if err != nil {
		logger.Warn("no stored session cookie", zap.Error(err))
		cookie = ""
	}

	client, err := api.NewClient(
		cfg.API.BaseURL,
		cookie,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
	)
	if err != nil {
		return err
	}

	tasks := repo.New()
	preload(cache, tasks)

	alerts := notify.NewRepository(buildDelivery(cfg))

	watcher := watch.New(
		tasks, alerts,
		time.Duration(cfg.Watcher.TickIntervalSec)*time.Second,
		nil,
	)

	syncer := appsync.New(
		client, tasks, cache,
		time.Duration(cfg.Sync.PollIntervalSec)*time.Second,
	)

	root := app.New(tasks, alerts, syncer, watcher, cfg.Notifications.Enabled)

	program := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}

// preload seeds the repository from the cached snapshot so the first frame
// shows the last-known task set instead of an empty list.
func preload(cache *store.SQLiteStore, tasks *repo.TaskRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cached, err := cache.LoadTasks(ctx)
	if err != nil {
		logger.Warn("loading cached tasks", zap.Error(err))
		return
	}
	if len(cached) > 0 {
		tasks.Replace(cached)
	}
}

// buildDelivery wires the desktop notification adapter, degrading to
// in-app-only alerting when the session bus is unavailable.
func buildDelivery(cfg *model.AppConfig) notify.Delivery {
	if !cfg.Notifications.Desktop {
		return notify.NopDelivery{}
	}

	desktop, err := notify.NewDesktopDelivery()
	if err != nil {
		logger.Warn("desktop notifications unavailable", zap.Error(err))
		return notify.NopDelivery{}
	}
	if !desktop.RequestPermission() {
		return notify.NopDelivery{}
	}
	return desktop
}
