package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/oharrington/thirdline-backend/api/routes"
	"github.com/oharrington/thirdline-backend/internal/cases"
	"github.com/oharrington/thirdline-backend/internal/flagged"
	"github.com/oharrington/thirdline-backend/internal/invitations"
	"github.com/oharrington/thirdline-backend/internal/notifications"
	"github.com/oharrington/thirdline-backend/internal/profiles"
	"github.com/oharrington/thirdline-backend/internal/tenants"
	"github.com/oharrington/thirdline-backend/internal/transactions"
	"github.com/oharrington/thirdline-backend/internal/workflow"
	"github.com/oharrington/thirdline-backend/internal/workflowledger"
	"github.com/oharrington/thirdline-backend/pkg/config"
	"github.com/oharrington/thirdline-backend/pkg/db"
	"github.com/oharrington/thirdline-backend/pkg/logger"
	"github.com/oharrington/thirdline-backend/pkg/mail"
	"github.com/oharrington/thirdline-backend/pkg/metrics"
	"github.com/oharrington/thirdline-backend/pkg/migrate"
	"github.com/oharrington/thirdline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflowMetrics := metrics.NewWorkflowMetrics(promRegistry)

	var sender mail.Sender
	if cfg.Mail.Enabled() {
		sendgrid, err := mail.NewSendgridSender(cfg.Mail)
		if err != nil {
			logg.Error(context.Background(), "failed to create mail sender", err)
			os.Exit(1)
		}
		sender = sendgrid
	} else {
		logg.Warn(context.Background(), "mail not configured, using noop sender")
		sender = mail.NewNoopSender(logg)
	}

	conn := dbClient.DB()
	tenantRepo := tenants.NewRepository(conn)
	gate, err := tenants.NewGate(tenantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create tenant gate", err)
		os.Exit(1)
	}

	caseRepo := cases.NewRepository(conn)
	profileRepo := profiles.NewRepository(conn)

	ledger, err := workflowledger.NewService(workflowledger.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow ledger", err)
		os.Exit(1)
	}

	flagEvaluator, err := flagged.NewEvaluator(flagged.NewConfigRepository(conn), caseRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create flag evaluator", err)
		os.Exit(1)
	}

	outbox, err := transactions.NewService(transactions.NewRepository(conn), workflowMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create transaction outbox", err)
		os.Exit(1)
	}

	notifier, err := notifications.NewService(notifications.NewRepository(conn), sender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	invitationSvc, err := invitations.NewService(
		dbClient,
		invitations.NewRepository(conn),
		caseRepo,
		gate,
		sender,
		logg,
		workflowMetrics,
		cfg.Workflow,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create invitation service", err)
		os.Exit(1)
	}

	resolver, err := workflow.NewResolver(tenantRepo, workflow.NewRegistry(), workflow.Deps{
		Gate:          gate,
		Ledger:        ledger,
		Invitations:   invitationSvc,
		Flagged:       flagEvaluator,
		Profiles:      profileRepo,
		Cases:         caseRepo,
		Outbox:        outbox,
		Notifications: notifier,
		Locker:        redisClient,
		Logger:        logg,
		Metrics:       workflowMetrics,
		Workflow:      cfg.Workflow,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create strategy resolver", err)
		os.Exit(1)
	}

	engine, err := workflow.NewEngine(resolver, profileRepo, caseRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create workflow engine", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, engine, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
