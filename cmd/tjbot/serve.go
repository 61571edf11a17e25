package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tjbot/config"
	"tjbot/internal/adapters/auth"
	"tjbot/internal/adapters/discord"
	"tjbot/internal/adapters/email"
	"tjbot/internal/adapters/wolframalpha"
	transport "tjbot/internal/delivery/http"
	"tjbot/internal/delivery/http/controllers"
	"tjbot/internal/delivery/http/middleware"
	_ "tjbot/internal/docs"
	"tjbot/internal/metrics"
	"tjbot/internal/services"
)

const outboundTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactions endpoint and the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	publicKey, err := middleware.ParsePublicKey(cfg.Discord.PublicKey)
	if err != nil {
		return fmt.Errorf("DISCORD_PUBLIC_KEY: %w", err)
	}

	repo, closeRepo, err := openTagRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Warn("close tag store", "err", err)
		}
	}()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	alerts := services.NewEmailService(mailer, email.NewTemplateRenderer(), cfg.Email.AlertTo)

	outbound := &http.Client{Timeout: outboundTimeout}
	discordClient := discord.NewClient(outbound, cfg.Discord.APIBase, cfg.Discord.BotToken, cfg.Discord.RateLimit)
	mathClient := wolframalpha.NewClient(outbound, cfg.WolframAlpha.Endpoint, cfg.WolframAlpha.AppID)
	recorder := metrics.NewRecorder()

	tagManage := services.NewTagManageService(logger, repo, discordClient, cfg.RolePattern, recorder, alerts)
	math := services.NewMathService(logger, mathClient, recorder)
	interactions := controllers.NewInteractionController(logger, tagManage, math, discordClient, discordClient, recorder, recorder)
	tags := controllers.NewTagController(logger, services.NewTagAdminService(repo))

	router := transport.NewRouter(transport.RouterDeps{
		Logger:         logger,
		Interactions:   interactions,
		Tags:           tags,
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		PublicKey:      publicKey,
		Metrics:        recorder,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "driver", cfg.DatabaseDriver, "role_pattern", cfg.RolePattern.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return shutdown(shutdownCtx, srv, interactions)
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type waiter interface {
	Wait()
}

// shutdown stops the server and then waits for in-flight follow-ups, even when the server
// did not stop cleanly.
func shutdown(ctx context.Context, srv shutdowner, followups waiter) error {
	err := srv.Shutdown(ctx)
	followups.Wait()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
