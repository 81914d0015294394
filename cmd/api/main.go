package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/leave-engine-go/internal/config"
	"github.com/cmlabs-hris/leave-engine-go/internal/core"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-engine-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/leave-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/events"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-engine-go/internal/repository/memory"
	"github.com/cmlabs-hris/leave-engine-go/internal/repository/postgresql"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-engine"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	var repos core.Repositories
	switch cfg.App.Store {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return
		}
		defer db.Close()

		repos = core.Repositories{
			Employees:    postgresql.NewEmployeeRepository(db),
			Types:        postgresql.NewLeaveTypeRepository(db),
			Requests:     postgresql.NewLeaveRequestRepository(db),
			Reservations: postgresql.NewReservationRepository(db),
			Balances:     postgresql.NewBalanceRepository(db),
			Holidays:     postgresql.NewHolidayRepository(db),
		}
	case "memory":
		repos = core.Repositories{
			Employees:    memory.NewEmployeeRepository(),
			Types:        memory.NewLeaveTypeRepository(),
			Requests:     memory.NewLeaveRequestRepository(),
			Reservations: memory.NewReservationRepository(),
			Balances:     memory.NewBalanceRepository(),
			Holidays:     memory.NewHolidayRepository(),
		}
	default:
		logger.Error("unsupported store type", "store", cfg.App.Store)
		return
	}

	hub := events.NewHub()
	engine := core.NewEngine(repos, hub, logger, cfg.Engine.LockWait)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	// The memory store starts empty and has no endpoints to create
	// employees, so standalone mode seeds a policy and a small roster and
	// logs ready-to-use tokens for them.
	if cfg.App.Store == "memory" {
		if err := seedMemoryStore(context.Background(), repos, engine, jwtService, logger); err != nil {
			logger.Error("failed to seed memory store", "error", err)
			return
		}
	}

	scheduler := cron.NewScheduler()
	accrualJobs := cron.NewAccrualJobs(engine)
	accrualJobs.RegisterJobs(scheduler, cfg.Engine.AccrualInterval)
	scheduler.Start()
	defer scheduler.Stop()

	leaveHandler := appHTTP.NewLeaveHandler(engine)
	eventHandler := appHTTP.NewEventHandler(hub, jwtService)
	router := appHTTP.NewRouter(logger, jwtService, leaveHandler, eventHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("starting server", "addr", addr, "store", cfg.App.Store)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", "error", err)
	}
}

func seedMemoryStore(ctx context.Context, repos core.Repositories, engine *core.Engine, jwtService jwt.Service, logger *slog.Logger) error {
	types, err := fixtures.SeedLeaveTypes(ctx, repos.Types)
	if err != nil {
		return err
	}

	employees, err := fixtures.SeedEmployees(ctx, repos.Employees)
	if err != nil {
		return err
	}

	var annualTypeID string
	for _, t := range types {
		if t.Code == "ANNUAL" {
			annualTypeID = t.ID
			break
		}
	}

	for _, e := range employees {
		if annualTypeID != "" {
			if _, err := engine.Accrue(ctx, e.ID, annualTypeID, 10, "opening balance"); err != nil {
				return err
			}
		}

		role := user.RoleEmployee
		if e.ManagerID == nil {
			role = user.RoleManager
		}
		token, _, err := jwtService.GenerateAccessToken("dev-"+e.ID, e.ID, role)
		if err != nil {
			return err
		}
		logger.Info("dev access token issued",
			"employee", e.Name,
			"employee_id", e.ID,
			"role", role,
			"token", token,
		)
	}

	return nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
