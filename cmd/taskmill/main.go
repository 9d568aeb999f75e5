package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"taskmill/internal/config"
	"taskmill/internal/driver"
	"taskmill/internal/notify"
	"taskmill/internal/runner"
	"taskmill/internal/schedule"
	"taskmill/internal/storage"
	logx "taskmill/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./taskmill.yaml", "path to config file (yaml or json)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	log, closeLog := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console || cfg.Logging.File == "",
		File:    logx.FileConfig{Enabled: cfg.Logging.File != "", Path: cfg.Logging.File},
	})
	defer func() { _ = closeLog() }()
	mgr.SetLogger(log)

	store, err := openStorage(cfg, log)
	if err != nil {
		log.Error("storage init failed", logx.Err(err))
		os.Exit(1)
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	collab, err := buildCollaborators(cfg)
	if err != nil {
		log.Error("notify init failed", logx.Err(err))
		os.Exit(1)
	}

	sched, err := config.BuildSchedule(cfg)
	if err != nil {
		log.Error("schedule build failed", logx.Err(err))
		os.Exit(1)
	}

	run := runner.New(runner.Config{WorkDir: cfg.Driver.WorkDir}, runner.ShellRunner{}, collab, log)
	svc := driver.New(driver.Config{Timezone: cfg.Driver.Timezone, Tick: cfg.Driver.Tick}, sched, run, store, log)

	if err := svc.Start(ctx); err != nil {
		log.Error("driver start failed", logx.Err(err))
		os.Exit(1)
	}

	// Rebuild the schedule when the task file changes.
	go func() {
		_ = mgr.Watch(ctx, func(c *config.Config) {
			next, err := config.BuildSchedule(c)
			if err != nil {
				log.Warn("reloaded config rejected", logx.Err(err))
				return
			}
			svc.Apply(next)
		})
	}()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	log.Info("taskmill ready", logx.Int("tasks", len(sched.Events())))

	<-ctx.Done()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	_ = svc.Stop(stopCtx)
}

func openStorage(cfg *config.Config, log logx.Logger) (storage.Store, error) {
	if cfg.Storage == nil {
		return nil, nil
	}
	busy, err := config.ParseDuration("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, err
	}
	return storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
		HistorySize: cfg.Storage.HistorySize,
	}, log)
}

// buildCollaborators wires the outbound collaborators callbacks receive.
// The pinger is always available; the mailer only when configured (SMTP
// wins over Telegram when both are present).
func buildCollaborators(cfg *config.Config) (schedule.Collaborators, error) {
	var collab schedule.Collaborators

	ping := notify.PingConfig{}
	if cfg.Notify != nil && cfg.Notify.Ping != nil {
		timeout, err := config.ParseDuration("notify.ping.timeout", cfg.Notify.Ping.Timeout)
		if err != nil {
			return collab, err
		}
		ping.Timeout = timeout
		ping.RatePerSec = cfg.Notify.Ping.RatePerSec
	}
	collab.HTTP = notify.NewHTTPPinger(ping)

	if cfg.Notify == nil {
		return collab, nil
	}
	switch {
	case cfg.Notify.SMTP != nil:
		m, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.Notify.SMTP.Host,
			Port:     cfg.Notify.SMTP.Port,
			Username: cfg.Notify.SMTP.Username,
			Password: cfg.Notify.SMTP.Password,
			From:     cfg.Notify.SMTP.From,
		})
		if err != nil {
			return collab, err
		}
		collab.Mail = m
	case cfg.Notify.Telegram != nil:
		m, err := notify.NewTelegramNotifier(notify.TelegramConfig{Token: cfg.Notify.Telegram.Token})
		if err != nil {
			return collab, err
		}
		collab.Mail = m
	}
	return collab, nil
}
