package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
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

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/domain/appointment"
	"github.com/clinicore/clinicore/internal/domain/clinic"
	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/prescription"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/internal/platform/document"
	"github.com/clinicore/clinicore/internal/platform/fixtures"
	"github.com/clinicore/clinicore/internal/platform/memstore"
	"github.com/clinicore/clinicore/internal/platform/middleware"
	"github.com/clinicore/clinicore/internal/platform/stats"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management console API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the demo fixtures and accounts for a given seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			stores := newStores(memstore.NewLatency(0), zerolog.Nop())
			seeder := fixtures.NewSeeder(cfg.FixtureSeed, zerolog.Nop())
			if err := seeder.Seed(context.Background(), stores.fixtureStores()); err != nil {
				return err
			}

			ctx := context.Background()
			clinics, _ := stores.clinics.Count(ctx)
			patients, _ := stores.patients.Count(ctx)
			appts, _ := stores.appointments.Count(ctx)
			fmt.Printf("Seed %d: %d clinics, %d patients, %d appointments\n", cfg.FixtureSeed, clinics, patients, appts)
			fmt.Println("Demo accounts:")
			fmt.Println("  admin@clinicore.local / admin123 (super_user)")
			fmt.Println("  pharmacie@clinicore.local / pharma123 (pharmacy)")
			doctors, _, err := stores.staff.ListByRole(ctx, staff.RoleDoctor, 0, 0)
			if err != nil {
				return err
			}
			for _, d := range doctors {
				fmt.Printf("  %s / doctor123 (doctor, %s)\n", doctorEmail(d), d.Specialty)
			}
			return nil
		},
	}
}

type appStores struct {
	clinics       *clinic.Service
	patients      *patient.Service
	staff         *staff.Service
	appointments  *appointment.Service
	medicines     *medicine.Service
	prescriptions *prescription.Service
	credentials   *auth.CredentialStore
}

func newStores(latency *memstore.Latency, logger zerolog.Logger) *appStores {
	s := &appStores{
		clinics:      clinic.NewService(clinic.NewMemRepository(latency)),
		patients:     patient.NewService(patient.NewMemRepository(latency)),
		staff:        staff.NewService(staff.NewMemRepository(latency)),
		appointments: appointment.NewService(appointment.NewMemRepository(latency)),
		medicines:    medicine.NewService(medicine.NewMemRepository(latency)),
		credentials:  auth.NewCredentialStore(nil),
	}
	gen := document.NewGenerator(logger)
	s.prescriptions = prescription.NewService(
		prescription.NewMemRepository(latency),
		s.patients, s.staff, s.clinics, gen, logger,
	)
	return s
}

func (s *appStores) fixtureStores() fixtures.Stores {
	return fixtures.Stores{
		Clinics:      s.clinics,
		Patients:     s.patients,
		Staff:        s.staff,
		Appointments: s.appointments,
		Medicines:    s.medicines,
		Credentials:  s.credentials,
	}
}

func doctorEmail(d *staff.Member) string {
	return fmt.Sprintf("%s.%s@clinicore.local",
		toLowerASCII(d.FirstName), toLowerASCII(d.LastName))
}

func toLowerASCII(v string) string {
	b := []byte(v)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	secret := cfg.SessionSecret
	if secret == "" {
		// dev only; Validate rejects a missing secret outside development
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate session secret")
		}
		secret = hex.EncodeToString(buf)
		logger.Warn().Msg("SESSION_SECRET not set, using a random per-process secret")
	}

	latency := memstore.NewLatency(time.Duration(cfg.MockLatencyMS) * time.Millisecond)
	stores := newStores(latency, logger)

	seeder := fixtures.NewSeeder(cfg.FixtureSeed, logger)
	if err := seeder.Seed(context.Background(), stores.fixtureStores()); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed fixtures")
	}

	issuer := auth.NewTokenIssuer([]byte(secret), time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(15 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "Idempotency-Key"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.Middleware(issuer, auth.DefaultSkipper))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	apiV1 := e.Group("/api/v1")

	auth.NewHandler(stores.credentials, issuer).RegisterRoutes(apiV1)
	clinic.NewHandler(stores.clinics).RegisterRoutes(apiV1)
	patient.NewHandler(stores.patients).RegisterRoutes(apiV1)
	staff.NewHandler(stores.staff).RegisterRoutes(apiV1)
	appointment.NewHandler(stores.appointments).RegisterRoutes(apiV1)
	medicine.NewHandler(stores.medicines).RegisterRoutes(apiV1)
	prescription.NewHandler(stores.prescriptions).RegisterRoutes(apiV1)

	statsSvc := stats.NewService(stores.clinics, stores.patients, stores.appointments, stores.prescriptions)
	stats.NewHandler(statsSvc).RegisterRoutes(apiV1)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
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
