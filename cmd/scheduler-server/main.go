package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/scheduler/internal/config"
	"github.com/clinic/scheduler/internal/domain/scheduling"
	"github.com/clinic/scheduler/internal/platform/middleware"
	"github.com/clinic/scheduler/internal/platform/validation"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "scheduler-server",
		Short: "Medical Appointment Scheduler API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(slotsCmd())
	rootCmd.AddCommand(typesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduling API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func slotsCmd() *cobra.Command {
	var (
		date            string
		appointmentType string
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Preview bookable slots for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			svc := scheduling.NewService(scheduling.NewLedger(), loc)
			resp, err := svc.Availability(context.Background(), date, appointmentType)
			if err != nil {
				return err
			}

			fmt.Printf("Slots for %s (%s):\n", resp.Date, appointmentType)
			for _, s := range resp.AvailableSlots {
				fmt.Printf("  %s to %s\n", s.StartTime, s.EndTime)
			}
			fmt.Printf("%d of %d slots available\n", countAvailable(resp.AvailableSlots), len(resp.AvailableSlots))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", defaultSlotsDate(time.Now()), "date to preview (YYYY-MM-DD)")
	cmd.Flags().StringVar(&appointmentType, "type", "consultation", "appointment type")
	return cmd
}

// defaultSlotsDate is the date the slots command previews when --date is not
// given. Tomorrow is the earliest date guaranteed to show the full grid.
func defaultSlotsDate(now time.Time) string {
	return now.AddDate(0, 0, 1).Format("2006-01-02")
}

func countAvailable(slots []scheduling.TimeSlot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List appointment types and business hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := scheduling.NewService(scheduling.NewLedger(), time.Local)

			catalog := svc.Catalog()
			for _, name := range scheduling.AppointmentTypeNames() {
				fmt.Printf("%-14s %d minutes\n", name, catalog[name])
			}

			start, end := svc.Hours()
			fmt.Printf("\nBusiness hours: %s to %s\n", start, end)
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid timezone")
	}

	// Scheduling core. The ledger lives in process memory.
	ledger := scheduling.NewLedger()
	service := scheduling.NewService(ledger, loc)
	logger.Warn().Msg("bookings are held in memory and do not survive a restart")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SanitizeWithLogger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))

	// API group
	api := e.Group("/api/calendly")

	// Rate limiting middleware. Validate() guarantees a positive rate.
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	handler := scheduling.NewHandler(service)
	handler.RegisterRoutes(api)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// Service root
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Medical Appointment Scheduler API",
			"version": version,
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("timezone", loc.String()).Msg("starting server")

		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
