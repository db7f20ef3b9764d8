package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/config"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	appHTTP "github.com/dayflow-hr/dayflow-backend-go/internal/handler/http"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/calendar"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/cron"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/jwt"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/oauth"
	"github.com/dayflow-hr/dayflow-backend-go/internal/repository/memory"
	"github.com/dayflow-hr/dayflow-backend-go/internal/repository/postgresql"
	attendanceService "github.com/dayflow-hr/dayflow-backend-go/internal/service/attendance"
	authService "github.com/dayflow-hr/dayflow-backend-go/internal/service/auth"
	leaveService "github.com/dayflow-hr/dayflow-backend-go/internal/service/leave"
	payrollService "github.com/dayflow-hr/dayflow-backend-go/internal/service/payroll"
	profileService "github.com/dayflow-hr/dayflow-backend-go/internal/service/profile"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	attendance attendance.AttendanceRepository
	profile    profile.ProfileRepository
	leave      leave.LeaveRequestRepository
	payroll    payroll.PayrollRepository
	tx         database.Transactor
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dayflow"),
		slog.String("env", app.Env),
	)
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			attendance: store.Attendances(),
			profile:    store.Profiles(),
			leave:      store.LeaveRequests(),
			payroll:    store.Payrolls(),
			tx:         store,
			close:      func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns:          cfg.Database.MaxConns,
			MinConns:          cfg.Database.MinConns,
			HealthCheckPeriod: time.Minute,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("connect database: %w", err)
		}
		return repositories{
			attendance: postgresql.NewAttendanceRepository(db),
			profile:    postgresql.NewProfileRepository(db),
			leave:      postgresql.NewLeaveRequestRepository(db),
			payroll:    postgresql.NewPayrollRepository(db),
			tx:         postgresql.NewTransactor(db),
			close:      db.Close,
		}, nil
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	workCalendar, err := calendar.New(cfg.Attendance.WorkingDays, cfg.Attendance.Holidays)
	if err != nil {
		return fmt.Errorf("build calendar: %w", err)
	}
	policy := attendance.Policy{
		LateCutoff:       cfg.Attendance.LateCutoff,
		HalfDayThreshold: cfg.Attendance.HalfDayThreshold,
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	profileSvc := profileService.NewProfileService(repos.profile, profileService.RetryPolicy{
		Attempts:       cfg.Profile.RetryAttempts,
		Backoff:        cfg.Profile.RetryBackoff,
		AttemptTimeout: cfg.Profile.AttemptTimeout,
	}, logger)
	leaveSvc := leaveService.NewLeaveService(repos.leave, logger)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		leaveSvc,
		workCalendar,
		policy,
		cfg.Attendance.Location,
		attendanceService.WithLogger(logger),
	)
	payrollSvc := payrollService.NewPayrollService(repos.payroll, repos.tx, logger)
	authSvc := authService.NewAuthService(profileSvc, JWTService, cfg.App.AdminEmails, logger)

	secureCookies := strings.HasPrefix(cfg.OAuth2Google.RedirectURL, "https://")
	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc, GoogleService, cfg.App.FrontendURL, secureCookies),
		Profile:    appHTTP.NewProfileHandler(profileSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
	})

	scheduler := cron.NewScheduler(ctx, logger)
	cron.NewAttendanceJobs(repos.attendance, cfg.Attendance.Location, time.Now, logger).
		RegisterJobs(scheduler, cfg.Cron.OpenAttendanceInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "store", cfg.Store.Driver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
