// ABOUTME: Runs the in-memory lead generation backend for local development
// ABOUTME: Seeds a demo account and a handful of businesses, then serves until interrupted
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harperreed/leadgen/logging"
	"github.com/harperreed/leadgen/mockapi"
	"github.com/harperreed/leadgen/models"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "Listen address")
	demoToken := flag.String("demo-token", "demo", "Google ID token accepted for the demo account")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := logging.New(logging.Options{
		Level: os.Getenv("LOG_LEVEL"),
		Dev:   os.Getenv("LOG_DEV") == "1",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Close() }()

	backend := mockapi.New(logger.Logger)
	seed(backend, *demoToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("mock backend listening", zap.String("addr", *addr), zap.String("demo_token", *demoToken))

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown failed", zap.Error(err))
	}
}

func seed(backend *mockapi.Server, demoToken string) {
	backend.AddUser(demoToken, models.UserProfile{ID: 1, Email: "demo@example.com", Name: "Demo User", Credits: 25})

	rating := 4.6
	reviews := 212
	backend.SetBusinesses([]models.Business{
		{
			Name:                 "Blue Bottle Coffee",
			PlaceID:              "mock-place-1",
			Types:                []string{"cafe", "food"},
			PrimaryType:          "cafe",
			FormattedAddress:     "450 W 15th St, New York, NY 10011",
			City:                 "New York",
			State:                "NY",
			Country:              "US",
			PostalCode:           "10011",
			Latitude:             40.7423,
			Longitude:            -74.0061,
			FormattedPhoneNumber: "(510) 653-3394",
			Website:              "https://bluebottlecoffee.com",
			Rating:               &rating,
			UserRatingTotal:      &reviews,
		},
		{
			Name:             "Joe Coffee Company",
			PlaceID:          "mock-place-2",
			Types:            []string{"cafe"},
			FormattedAddress: "141 Waverly Pl, New York, NY 10014",
			City:             "New York",
			State:            "NY",
			Country:          "US",
			Website:          "https://joecoffeecompany.com",
		},
		{
			Name:             "Abraço",
			PlaceID:          "mock-place-3",
			Types:            []string{"cafe", "bakery"},
			FormattedAddress: "81 E 7th St, New York, NY 10003",
			City:             "New York",
			State:            "NY",
			Country:          "US",
		},
	})
	backend.SetContacts([]models.Contact{
		{Name: "Ada Lovelace", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Analytical Engines"},
	})
}
