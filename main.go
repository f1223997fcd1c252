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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"laundromat-backend/config"
	"laundromat-backend/metrics"
	"laundromat-backend/routes"
	"laundromat-backend/services"
	"laundromat-backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger := config.NewLogger(cfg)
	log := logrus.NewEntry(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := config.OpenStore(startCtx, cfg.Database, log)
	startCancel()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	log.WithField("driver", cfg.Database.Driver).Info("database connection established")

	m := metrics.New()
	laundryService := services.NewLaundryService(db, log, m, cfg.Location())

	credentials, err := utils.NewStaticCredentials(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash, cfg.Auth.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("failed to set up credentials")
	}
	sessions := utils.NewSessionManager(credentials, utils.NewSessionStore(cfg.Session.TTL), utils.SessionOptions{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.IsProduction(),
	})

	scheduler := utils.NewScheduler(log.WithField("component", "scheduler"))
	if err := utils.SchedulePurge(scheduler, cfg.Session.PurgeSchedule, sessions, log); err != nil {
		log.WithError(err).Fatal("invalid session purge schedule")
	}
	var reminders *services.ReminderService
	if cfg.Twilio.Enabled() {
		sender := services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
		reminders = services.NewReminderService(db, sender, log, m, services.ReminderOptions{
			Window:      cfg.Reminder.Window,
			CountryCode: cfg.Twilio.CountryCode,
			Location:    cfg.Location(),
		})
		if err := reminders.Schedule(scheduler, cfg.Reminder.Schedule); err != nil {
			log.WithError(err).Fatal("invalid reminder schedule")
		}
	} else {
		log.Info("twilio not configured, pick-up reminders disabled")
	}
	scheduler.Start()

	r := routes.SetupRouter(routes.Dependencies{
		Store:          db,
		Service:        laundryService,
		Reminders:      reminders,
		Sessions:       sessions,
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
		Log:            log,
		CORSOrigins:    cfg.CORSOrigins,
	})
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown failed")
	}
	if err := db.Close(); err != nil {
		log.WithError(err).Error("failed to close database")
	}
	log.Info("server stopped")
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
