// Package store persists locations, panel configurations, predictions, and
// recommendations in a local SQLite database. The prediction core never
// touches this package; the API layer glues the two together.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"solar_estimator/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS locations (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS panel_configs (
	id            TEXT PRIMARY KEY,
	surface_area  REAL NOT NULL,
	tilt_angle    REAL NOT NULL,
	azimuth_angle REAL NOT NULL,
	efficiency    REAL NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS predictions (
	id              TEXT PRIMARY KEY,
	location_id     TEXT NOT NULL REFERENCES locations(id),
	panel_config_id TEXT NOT NULL REFERENCES panel_configs(id),
	date            TIMESTAMP NOT NULL,
	timeframe       TEXT NOT NULL,
	predicted_kwh   REAL NOT NULL,
	confidence      REAL NOT NULL,
	weather         TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS recommendations (
	id                TEXT PRIMARY KEY,
	location_id       TEXT NOT NULL REFERENCES locations(id),
	optimal_tilt      REAL NOT NULL,
	optimal_azimuth   REAL NOT NULL,
	max_output_kwh    REAL NOT NULL,
	current_config_id TEXT,
	improvement_pct   REAL NOT NULL,
	created_at        TIMESTAMP NOT NULL
);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetOrCreateLocation returns the existing location with these coordinates
// or inserts a new one.
func (s *Store) GetOrCreateLocation(name string, lat, lon float64) (model.Location, error) {
	var loc model.Location
	err := s.db.QueryRow(
		`SELECT id, name, latitude, longitude, created_at FROM locations WHERE latitude = ? AND longitude = ?`,
		lat, lon,
	).Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.CreatedAt)
	if err == nil {
		return loc, nil
	}
	if err != sql.ErrNoRows {
		return model.Location{}, fmt.Errorf("querying location: %w", err)
	}

	if name == "" {
		name = fmt.Sprintf("Location %.4f, %.4f", lat, lon)
	}
	loc = model.Location{
		ID:        uuid.NewString(),
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO locations (id, name, latitude, longitude, created_at) VALUES (?, ?, ?, ?, ?)`,
		loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.CreatedAt,
	)
	if err != nil {
		return model.Location{}, fmt.Errorf("inserting location: %w", err)
	}
	return loc, nil
}

// GetLocation fetches a location by ID.
func (s *Store) GetLocation(id string) (model.Location, error) {
	var loc model.Location
	err := s.db.QueryRow(
		`SELECT id, name, latitude, longitude, created_at FROM locations WHERE id = ?`, id,
	).Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.CreatedAt)
	if err != nil {
		return model.Location{}, fmt.Errorf("querying location: %w", err)
	}
	return loc, nil
}

// SavePanelConfig inserts a panel configuration and returns it with its ID.
func (s *Store) SavePanelConfig(surfaceArea, tilt, azimuth, efficiency float64) (model.PanelConfig, error) {
	cfg := model.PanelConfig{
		ID:           uuid.NewString(),
		SurfaceArea:  surfaceArea,
		TiltAngle:    tilt,
		AzimuthAngle: azimuth,
		Efficiency:   efficiency,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO panel_configs (id, surface_area, tilt_angle, azimuth_angle, efficiency, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		cfg.ID, cfg.SurfaceArea, cfg.TiltAngle, cfg.AzimuthAngle, cfg.Efficiency, cfg.CreatedAt,
	)
	if err != nil {
		return model.PanelConfig{}, fmt.Errorf("inserting panel config: %w", err)
	}
	return cfg, nil
}

// GetPanelConfig fetches a panel configuration by ID.
func (s *Store) GetPanelConfig(id string) (model.PanelConfig, error) {
	var cfg model.PanelConfig
	err := s.db.QueryRow(
		`SELECT id, surface_area, tilt_angle, azimuth_angle, efficiency, created_at FROM panel_configs WHERE id = ?`, id,
	).Scan(&cfg.ID, &cfg.SurfaceArea, &cfg.TiltAngle, &cfg.AzimuthAngle, &cfg.Efficiency, &cfg.CreatedAt)
	if err != nil {
		return model.PanelConfig{}, fmt.Errorf("querying panel config: %w", err)
	}
	return cfg, nil
}

// SavePrediction assigns an ID and inserts the prediction. The weather
// reading is stored as a JSON blob on the row.
func (s *Store) SavePrediction(p model.Prediction) (model.Prediction, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	weather, err := json.Marshal(p.Weather)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("serializing weather: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO predictions (id, location_id, panel_config_id, date, timeframe, predicted_kwh, confidence, weather, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.LocationID, p.PanelConfigID, p.Date, string(p.Timeframe), p.PredictedKWh, p.Confidence, string(weather), p.CreatedAt,
	)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("inserting prediction: %w", err)
	}
	return p, nil
}

// GetPrediction fetches a single prediction by ID.
func (s *Store) GetPrediction(id string) (model.Prediction, error) {
	row := s.db.QueryRow(
		`SELECT id, location_id, panel_config_id, date, timeframe, predicted_kwh, confidence, weather, created_at
		 FROM predictions WHERE id = ?`, id,
	)
	return scanPrediction(row)
}

// ListPredictions returns the most recent predictions, newest first.
func (s *Store) ListPredictions(limit int) ([]model.Prediction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, location_id, panel_config_id, date, timeframe, predicted_kwh, confidence, weather, created_at
		 FROM predictions ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	var out []model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveRecommendation assigns an ID and inserts the recommendation.
func (s *Store) SaveRecommendation(r model.Recommendation) (model.Recommendation, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()

	currentConfig := sql.NullString{String: r.CurrentConfigID, Valid: r.CurrentConfigID != ""}
	_, err := s.db.Exec(
		`INSERT INTO recommendations (id, location_id, optimal_tilt, optimal_azimuth, max_output_kwh, current_config_id, improvement_pct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.LocationID, r.OptimalTilt, r.OptimalAzimuth, r.MaxOutputKWh, currentConfig, r.ImprovementPct, r.CreatedAt,
	)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("inserting recommendation: %w", err)
	}
	return r, nil
}

// ListRecommendations returns the most recent recommendations, newest first.
func (s *Store) ListRecommendations(limit int) ([]model.Recommendation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, location_id, optimal_tilt, optimal_azimuth, max_output_kwh, current_config_id, improvement_pct, created_at
		 FROM recommendations ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var out []model.Recommendation
	for rows.Next() {
		var r model.Recommendation
		var currentConfig sql.NullString
		if err := rows.Scan(&r.ID, &r.LocationID, &r.OptimalTilt, &r.OptimalAzimuth, &r.MaxOutputKWh, &currentConfig, &r.ImprovementPct, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		r.CurrentConfigID = currentConfig.String
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (model.Prediction, error) {
	var p model.Prediction
	var timeframe, weather string
	err := row.Scan(&p.ID, &p.LocationID, &p.PanelConfigID, &p.Date, &timeframe, &p.PredictedKWh, &p.Confidence, &weather, &p.CreatedAt)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("scanning prediction: %w", err)
	}
	p.Timeframe = model.Timeframe(timeframe)
	if err := json.Unmarshal([]byte(weather), &p.Weather); err != nil {
		return model.Prediction{}, fmt.Errorf("parsing stored weather: %w", err)
	}
	return p, nil
}
