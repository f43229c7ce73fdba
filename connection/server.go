package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmhodges/clock"
	"github.com/sirupsen/logrus"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
	"github.com/Senorsean/crm-employ-2025-sub001/controller/agenda"
	"github.com/Senorsean/crm-employ-2025-sub001/controller/alert"
	"github.com/Senorsean/crm-employ-2025-sub001/controller/appointment"
	controller "github.com/Senorsean/crm-employ-2025-sub001/controller/auth"
	notifyctl "github.com/Senorsean/crm-employ-2025-sub001/controller/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/controller/user"
	"github.com/Senorsean/crm-employ-2025-sub001/middleware"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/scheduler"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
	"github.com/Senorsean/crm-employ-2025-sub001/store"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupEvery    = time.Minute
)

// App is the wired service: repositories, stores, coordinator and the
// background workers around them.
type App struct {
	cfg        config.Config
	log        logrus.FieldLogger
	clk        clock.Clock
	fb         *Firebase
	hub        *notify.Hub
	coord      *services.Coordinator
	users      *services.UserService
	verifier   middleware.TokenVerifier
	captcha    services.CaptchaVerifier
	limiter    *middleware.RateLimiter
	dispatcher *scheduler.Dispatcher
}

// NewApp builds every component for cfg. Firebase is only contacted when
// the store backend or the auth mode needs it.
func NewApp(ctx context.Context, cfg config.Config, log logrus.FieldLogger, clk clock.Clock) (*App, error) {
	app := &App{cfg: cfg, log: log, clk: clk, hub: notify.NewHub(log)}

	if cfg.NeedsFirebase() {
		fb, err := FBConnection(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		app.fb = fb
	}

	var (
		appointments repository.AppointmentRepository
		alerts       repository.AlertRepository
		users        repository.UserRepository
	)
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		appointments = repository.NewFirestoreAppointments(app.fb.Firestore)
		alerts = repository.NewFirestoreAlerts(app.fb.Firestore)
		users = repository.NewFirestoreUsers(app.fb.Firestore)
	default:
		log.Warn("using in-memory store, data is lost on restart")
		appointments = repository.NewMemoryAppointments()
		alerts = repository.NewMemoryAlerts()
		users = repository.NewMemoryUsers()
	}

	loc := cfg.Location()
	app.coord = services.NewCoordinator(
		store.NewAppointmentStore(appointments, app.hub, log, clk),
		store.NewAlertStore(alerts, app.hub, log, clk),
		loc, log,
	)

	tokens := services.NewTokenService(cfg, clk)
	app.users = services.NewUserService(users, tokens, clk)
	if cfg.Auth.Mode == config.AuthModeFirebase {
		app.verifier = middleware.NewFirebaseVerifier(app.fb.Auth)
	} else {
		app.verifier = middleware.JWTVerifier{Tokens: tokens}
	}
	if cfg.CaptchaEnabled() {
		app.captcha = services.NewRecaptchaVerifier(cfg, log)
	}
	app.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, clk)

	var mailer notify.Mailer
	if cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(cfg)
	}
	app.dispatcher = scheduler.NewDispatcher(scheduler.Options{
		Due:      appointments,
		Users:    app.users,
		Marker:   app.coord,
		Mailer:   mailer,
		Notifier: app.hub,
		Location: loc,
		Interval: cfg.Reminder.Interval,
		Clock:    clk,
		Log:      log.WithField("component", "reminders"),
	})
	return app, nil
}

func (a *App) Close() error {
	return a.fb.Close()
}

// Router builds the gin engine with every route.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLoggingMiddleware(a.log))
	router.Use(a.cors())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	authRoutes := router.Group("/auth", middleware.RateLimit(a.limiter))
	controller.SignInController(authRoutes, a.users)
	controller.CaptchaController(authRoutes, a.captcha)
	if a.cfg.Auth.Mode == config.AuthModeJWT {
		controller.SignUpController(authRoutes, a.users, a.captcha)
	}

	protected := router.Group("", middleware.AccessTokenMiddleware(a.verifier))
	controller.SessionController(protected, a.users)
	user.UserController(protected, a.users)
	appointment.AppointmentController(protected, a.coord)
	alert.AlertController(protected, a.coord)
	agenda.AgendaController(protected, a.coord)

	ws := router.Group("", middleware.QueryTokenMiddleware(), middleware.AccessTokenMiddleware(a.verifier))
	notifyctl.NotifyController(ws, a.hub, a.cfg.Server.AllowedOrigins, a.log)

	return router
}

func (a *App) cors() gin.HandlerFunc {
	if len(a.cfg.Server.AllowedOrigins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     a.cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RunBackground runs the reminder dispatcher and the rate limiter cleanup
// until ctx is cancelled. A zero reminder interval disables the dispatcher.
func (a *App) RunBackground(ctx context.Context) {
	if a.cfg.Reminder.Interval > 0 {
		go a.dispatcher.Run(ctx)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-a.clk.After(cleanupEvery):
				a.limiter.Cleanup()
			}
		}
	}()
}

// StartServer serves until SIGINT or SIGTERM, then shuts down gracefully.
func StartServer(cfg config.Config, log logrus.FieldLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, log, clock.New())
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Warn("close firestore client")
		}
	}()
	app.RunBackground(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
