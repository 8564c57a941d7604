package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/danlitvak/tool-cliptrim/internal/api"
	"github.com/danlitvak/tool-cliptrim/internal/config"
	"github.com/danlitvak/tool-cliptrim/internal/db"
	"github.com/danlitvak/tool-cliptrim/internal/export"
	"github.com/danlitvak/tool-cliptrim/internal/ffmpeg"
	"github.com/danlitvak/tool-cliptrim/internal/jobs"
	"github.com/danlitvak/tool-cliptrim/internal/keymap"
	"github.com/danlitvak/tool-cliptrim/internal/library"
	"github.com/danlitvak/tool-cliptrim/internal/logging"
	"github.com/danlitvak/tool-cliptrim/internal/playback"
	"github.com/danlitvak/tool-cliptrim/internal/player"
	"github.com/danlitvak/tool-cliptrim/internal/session"
	"github.com/danlitvak/tool-cliptrim/internal/timeline"
	"github.com/danlitvak/tool-cliptrim/internal/tui"
	"github.com/danlitvak/tool-cliptrim/internal/ui"
	"github.com/danlitvak/tool-cliptrim/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create working folder: %w", err)
	}

	// The TUI owns stdout, so logs go to a file when a terminal is attached.
	interactive := !cfg.Headless() && term.IsTerminal(int(os.Stdout.Fd()))
	var logger = logging.NewLogger(cfg.LogLevel())
	if interactive {
		logger, err = logging.NewFileLogger(cfg.LogPath(), cfg.LogLevel())
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	}
	logger.Info("starting cliptrim", "version", config.Version, "working_folder", logging.SanitizePath(cfg.WorkingFolder()))

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := library.NewRepository(database.Conn())

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}
	if !interactive {
		fmt.Printf("API:        http://127.0.0.1:%d\n", cfg.Port())
		fmt.Printf("Auth Token: %s\n", authToken)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings, err := library.LoadSettings(ctx, repo)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "error", err)
	}

	ffm := ffmpeg.NewExecFFmpeg(cfg.FFmpegPath(), cfg.FFprobePath(), logger)
	dirs := library.Dirs{In: cfg.InDir(), Out: cfg.OutDir(), Backup: cfg.BackupDir()}
	clipSvc := library.NewService(repo, dirs, ffm, logging.WithComponent(logger, "library"))

	bus := jobs.NewBus()
	reducer := jobs.NewReducer()
	detachJobs := reducer.Subscribe(ctx, bus)
	defer detachJobs()

	exporter := export.NewExporter(clipSvc, ffm, bus, cfg.OutDir(), logging.WithComponent(logger, "export"))

	clock := player.NewClock()
	sess := session.New(clipSvc, clock, exporter, settings, logging.WithComponent(logger, "session"))

	view := timeline.NewView(0, 100)
	sess.SetOnClipLoaded(func(clip *library.Clip, info *library.VideoInfo) {
		durationMs := int64(info.DurationSec * 1000)
		clock.Load(durationMs)
		view.Reset(durationMs)
	})

	if err := sess.RefreshClips(ctx); err != nil {
		logger.Warn("initial scan failed", "error", err)
	}

	folderWatcher := watcher.NewPollWatcher(5*time.Second, logging.WithComponent(logger, "watcher"))
	folderWatcher.OnChange(func(name string, event watcher.EventType) {
		if event == watcher.EventCreate && library.IsClipFile(name) {
			logger.Info("new clip detected", "name", name)
			if err := sess.RefreshClips(ctx); err != nil {
				logger.Error("rescan failed", "error", err)
			}
		}
	})
	if err := folderWatcher.Watch(ctx, cfg.InDir()); err != nil {
		logger.Warn("folder watch unavailable", "error", err)
	}
	defer folderWatcher.Stop()

	playbackSrv := playback.NewServer(clipSvc, cfg.BackupDir(), logging.WithComponent(logger, "playback"))

	apiServer := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		Version:        config.Version,
		WorkingFolder:  cfg.WorkingFolder(),
		ClipService:    clipSvc,
		Repository:     repo,
		Exporter:       exporter,
		Jobs:           reducer,
		PlaybackServer: playbackSrv,
		Logger:         logging.WithComponent(logger, "api"),
		StartTime:      startTime,
	})
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})
	quit := func() {
		select {
		case <-quitCh:
		default:
			close(quitCh)
		}
	}

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig.String())
			quit()
		case <-quitCh:
		}
	}()

	var tray *ui.Tray
	if !cfg.Headless() {
		tray = ui.NewTray(ui.TrayConfig{
			ClipService: clipSvc,
			Jobs:        reducer,
			Logger:      logging.WithComponent(logger, "tray"),
			OnRescan: func() error {
				return sess.RefreshClips(ctx)
			},
			OnQuit: quit,
		})
		bus.OnStarted(func(jobs.StartedEvent) { tray.RefreshStatus() })
		bus.OnCompleted(func(jobs.CompletedEvent) { tray.RefreshStatus() })
		bus.OnFailed(func(jobs.FailedEvent) { tray.RefreshStatus() })
		go tray.Run()
	}

	if interactive {
		dispatcher := keymap.NewDispatcher(nil)
		model := tui.New(ctx, tui.Config{
			Session:    sess,
			Clock:      clock,
			View:       view,
			Dispatcher: dispatcher,
			Jobs:       reducer,
			Logger:     logger,
		})
		dispatcher.Set(tui.BuildBindings(ctx, sess, keymap.Merge(settings.Keybinds), model.Notify))

		program := tea.NewProgram(model, tea.WithAltScreen())
		go func() {
			if _, err := program.Run(); err != nil {
				logger.Error("TUI error", "error", err)
			}
			quit()
		}()
		go func() {
			<-quitCh
			program.Quit()
		}()
	} else {
		logger.Info("running headless (API only)")
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()
	if tray != nil {
		tray.Quit()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureAuthToken(repo library.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}
	return token, nil
}
