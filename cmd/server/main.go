package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"solar_estimator/internal/api"
	"solar_estimator/internal/predictor"
	"solar_estimator/internal/store"
	"solar_estimator/internal/weather"
	"solar_estimator/internal/ws"
)

func main() {
	addr := pflag.String("addr", ":8080", "listen address")
	dbPath := pflag.String("db", "data/solar.db", "path to SQLite database")
	modelDir := pflag.String("model-dir", "model", "directory holding model artifacts")
	frontendDir := pflag.String("frontend-dir", "frontend/build", "directory containing frontend build")
	weatherSeed := pflag.Uint64("weather-seed", 1, "seed for the synthetic weather fallback")
	pflag.Parse()

	// Optional .env holding provider API keys.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	models := predictor.NewService(*modelDir, logger)
	if !models.Load() {
		// Predict self-heals on first use; a failed eager load is not fatal.
		logger.Warn("model not loaded at startup")
	}

	chain := weather.NewChain(logger,
		weather.NewRateLimited(weather.NewOpenWeatherMap(os.Getenv("OPENWEATHER_API_KEY")), 1, 5),
		weather.NewRateLimited(weather.NewNASAPower(), 0.5, 2),
		weather.NewSynthetic(*weatherSeed),
	)

	hub := ws.NewHub(logger)
	events := ws.NewEvents(hub, logger)

	mux := http.NewServeMux()
	api.NewServer(st, models, chain, events, logger).Register(mux)
	mux.Handle("/ws", ws.NewHandler(hub, logger))

	// Serve frontend static files
	if _, err := os.Stat(*frontendDir); err == nil {
		log.Printf("Serving frontend from %s", *frontendDir)
		mux.Handle("/", http.FileServer(http.Dir(*frontendDir)))
	}

	log.Printf("Starting server on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}
