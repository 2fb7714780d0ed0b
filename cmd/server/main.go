package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kevbot021/smart-tasks/internal/api"
	"github.com/kevbot021/smart-tasks/internal/config"
	"github.com/kevbot021/smart-tasks/internal/db"
	"github.com/kevbot021/smart-tasks/internal/email"
	"github.com/kevbot021/smart-tasks/internal/logging"
	"github.com/kevbot021/smart-tasks/pkg/assistant"
	"github.com/kevbot021/smart-tasks/pkg/events"
	"github.com/kevbot021/smart-tasks/pkg/task"
	"github.com/kevbot021/smart-tasks/pkg/team"
)

func main() {
	app := &cli.App{
		Name:  "smart-tasks",
		Usage: "team task management API with AI-generated task details",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", EnvVars: []string{"LOG_LEVEL"}},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Load()
	if v := c.String("port"); v != "" {
		cfg.Port = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.NewLogger(logging.Options{Level: cfg.LogLevel, Component: "server"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	tasks := task.NewPgStore(pool)
	teams := team.NewPgStore(pool)
	if err := tasks.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure task tables: %w", err)
	}
	if err := teams.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure team tables: %w", err)
	}

	provider, err := assistant.NewOpenAIProvider(assistant.OpenAIOptions{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		AssistantID: cfg.AssistantID,
	})
	if err != nil {
		return err
	}
	ai := assistant.NewService(provider, assistant.NewPoller(cfg.PollInterval, cfg.PollMaxAttempts), log.With("component", "assistant"))

	var mail email.Sender = email.NoopSender{}
	if cfg.ResendAPIKey != "" {
		mail = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Warn("RESEND_API_KEY not set, outbound email disabled")
	}

	hub := events.NewHub()
	server := api.New(tasks, teams, ai, mail, hub, cfg.AppBaseURL, log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("smart-tasks listening", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
