// Package api exposes the predictor, optimizer, store, and weather chain
// over HTTP. Request validation and persistence glue only; all algorithmic
// work happens in internal/predictor.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"solar_estimator/internal/model"
	"solar_estimator/internal/predictor"
	"solar_estimator/internal/report"
	"solar_estimator/internal/store"
	"solar_estimator/internal/weather"
	"solar_estimator/internal/ws"
)

// Server wires HTTP routes to the underlying services.
type Server struct {
	store   *store.Store
	models  *predictor.Service
	weather weather.Provider
	events  *ws.Events
	logger  *slog.Logger
}

func NewServer(st *store.Store, models *predictor.Service, wp weather.Provider, events *ws.Events, logger *slog.Logger) *Server {
	return &Server{
		store:   st,
		models:  models,
		weather: wp,
		events:  events,
		logger:  logger,
	}
}

// Register attaches all API routes to the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/predict", s.handlePredict)
	mux.HandleFunc("POST /api/recommend", s.handleRecommend)
	mux.HandleFunc("POST /api/retrain", s.handleRetrain)
	mux.HandleFunc("GET /api/model", s.handleModelInfo)
	mux.HandleFunc("GET /api/predictions", s.handleListPredictions)
	mux.HandleFunc("GET /api/predictions/{id}", s.handleGetPrediction)
	mux.HandleFunc("GET /api/predictions/{id}/report.csv", s.handlePredictionReport)
	mux.HandleFunc("GET /api/recommendations", s.handleListRecommendations)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

type predictRequest struct {
	LocationName    string  `json:"location_name"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	SurfaceArea     float64 `json:"surface_area"`
	TiltAngle       float64 `json:"tilt_angle"`
	AzimuthAngle    float64 `json:"azimuth_angle"`
	PanelEfficiency float64 `json:"panel_efficiency"`
	Timeframe       string  `json:"timeframe"`
}

type predictResponse struct {
	ID           string               `json:"id"`
	LocationID   string               `json:"location_id"`
	Timeframe    string               `json:"timeframe"`
	PredictedKWh float64              `json:"predicted_kwh"`
	Confidence   float64              `json:"confidence"`
	Weather      model.WeatherReading `json:"weather"`
	Series       []report.Point       `json:"series"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, fmt.Errorf("decoding request: %w", err))
		return
	}

	if err := model.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		s.badRequest(w, err)
		return
	}
	if err := model.ValidatePanel(req.SurfaceArea, req.TiltAngle, req.AzimuthAngle, req.PanelEfficiency); err != nil {
		s.badRequest(w, err)
		return
	}
	timeframe, err := model.ParseTimeframe(req.Timeframe)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	reading, err := s.weather.Fetch(r.Context(), req.Latitude, req.Longitude)
	if err != nil {
		s.internalError(w, fmt.Errorf("fetching weather: %w", err))
		return
	}

	output, confidence, err := s.models.Predict(
		req.Latitude, req.Longitude, req.SurfaceArea,
		req.TiltAngle, req.AzimuthAngle, req.PanelEfficiency, reading,
	)
	if err != nil {
		s.internalError(w, fmt.Errorf("predicting output: %w", err))
		return
	}

	// The model always returns a per-day estimate; scaling to the requested
	// horizon happens here, not in the predictor.
	output *= timeframe.Multiplier()

	loc, err := s.store.GetOrCreateLocation(req.LocationName, req.Latitude, req.Longitude)
	if err != nil {
		s.internalError(w, err)
		return
	}
	cfg, err := s.store.SavePanelConfig(req.SurfaceArea, req.TiltAngle, req.AzimuthAngle, req.PanelEfficiency)
	if err != nil {
		s.internalError(w, err)
		return
	}

	prediction, err := s.store.SavePrediction(model.Prediction{
		LocationID:    loc.ID,
		PanelConfigID: cfg.ID,
		Date:          time.Now().UTC(),
		Timeframe:     timeframe,
		PredictedKWh:  output,
		Confidence:    confidence,
		Weather:       reading,
	})
	if err != nil {
		s.internalError(w, err)
		return
	}

	s.events.PredictionCreated(prediction)

	s.writeJSON(w, http.StatusCreated, predictResponse{
		ID:           prediction.ID,
		LocationID:   prediction.LocationID,
		Timeframe:    string(prediction.Timeframe),
		PredictedKWh: prediction.PredictedKWh,
		Confidence:   prediction.Confidence,
		Weather:      prediction.Weather,
		Series:       report.Series(prediction),
	})
}

type recommendRequest struct {
	LocationName    string   `json:"location_name"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	SurfaceArea     float64  `json:"surface_area"`
	PanelEfficiency float64  `json:"panel_efficiency"`
	CurrentTilt     *float64 `json:"current_tilt,omitempty"`
	CurrentAzimuth  *float64 `json:"current_azimuth,omitempty"`
}

type recommendResponse struct {
	ID             string               `json:"id"`
	LocationID     string               `json:"location_id"`
	OptimalTilt    float64              `json:"optimal_tilt"`
	OptimalAzimuth float64              `json:"optimal_azimuth"`
	MaxOutputKWh   float64              `json:"max_output_kwh"`
	ImprovementPct float64              `json:"improvement_pct"`
	Weather        model.WeatherReading `json:"weather"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, fmt.Errorf("decoding request: %w", err))
		return
	}

	if err := model.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		s.badRequest(w, err)
		return
	}
	if err := model.ValidatePanel(req.SurfaceArea, 0, 0, req.PanelEfficiency); err != nil {
		s.badRequest(w, err)
		return
	}
	if req.CurrentTilt != nil && req.CurrentAzimuth != nil {
		if err := model.ValidatePanel(req.SurfaceArea, *req.CurrentTilt, *req.CurrentAzimuth, req.PanelEfficiency); err != nil {
			s.badRequest(w, err)
			return
		}
	}

	reading, err := s.weather.Fetch(r.Context(), req.Latitude, req.Longitude)
	if err != nil {
		s.internalError(w, fmt.Errorf("fetching weather: %w", err))
		return
	}

	best, err := s.models.FindOptimal(req.Latitude, req.Longitude, req.SurfaceArea, req.PanelEfficiency, reading)
	if err != nil {
		s.internalError(w, fmt.Errorf("searching optimal configuration: %w", err))
		return
	}

	loc, err := s.store.GetOrCreateLocation(req.LocationName, req.Latitude, req.Longitude)
	if err != nil {
		s.internalError(w, err)
		return
	}

	rec := model.Recommendation{
		LocationID:     loc.ID,
		OptimalTilt:    best.Tilt,
		OptimalAzimuth: best.Azimuth,
		MaxOutputKWh:   best.Output,
	}

	if req.CurrentTilt != nil && req.CurrentAzimuth != nil {
		current, _, err := s.models.Predict(
			req.Latitude, req.Longitude, req.SurfaceArea,
			*req.CurrentTilt, *req.CurrentAzimuth, req.PanelEfficiency, reading,
		)
		if err != nil {
			s.internalError(w, fmt.Errorf("predicting current configuration: %w", err))
			return
		}
		if current > 0 {
			rec.ImprovementPct = (best.Output - current) / current * 100
		}
		cfg, err := s.store.SavePanelConfig(req.SurfaceArea, *req.CurrentTilt, *req.CurrentAzimuth, req.PanelEfficiency)
		if err != nil {
			s.internalError(w, err)
			return
		}
		rec.CurrentConfigID = cfg.ID
	}

	rec, err = s.store.SaveRecommendation(rec)
	if err != nil {
		s.internalError(w, err)
		return
	}

	s.events.RecommendationCreated(rec)

	s.writeJSON(w, http.StatusCreated, recommendResponse{
		ID:             rec.ID,
		LocationID:     rec.LocationID,
		OptimalTilt:    rec.OptimalTilt,
		OptimalAzimuth: rec.OptimalAzimuth,
		MaxOutputKWh:   rec.MaxOutputKWh,
		ImprovementPct: rec.ImprovementPct,
		Weather:        reading,
	})
}

type retrainRequest struct {
	Samples int `json:"samples"`
}

func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	var req retrainRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.badRequest(w, fmt.Errorf("decoding request: %w", err))
			return
		}
	}

	metrics, err := s.models.Train(req.Samples)
	if err != nil {
		s.internalError(w, fmt.Errorf("retraining model: %w", err))
		return
	}

	s.events.ModelTrained(metrics)
	s.writeJSON(w, http.StatusOK, metrics)
}

type modelInfoResponse struct {
	ModelType string             `json:"model_type"`
	Fitted    bool               `json:"fitted"`
	Metrics   *predictor.Metrics `json:"metrics,omitempty"`
}

// handleModelInfo reports the model's fitted state and, when this process
// trained it, the held-out evaluation metrics.
func (s *Server) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	info := modelInfoResponse{
		ModelType: "random_forest",
		Fitted:    s.models.Fitted(),
	}
	if m, ok := s.models.LastMetrics(); ok {
		info.Metrics = &m
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListPredictions(w http.ResponseWriter, _ *http.Request) {
	predictions, err := s.store.ListPredictions(0)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if predictions == nil {
		predictions = []model.Prediction{}
	}
	s.writeJSON(w, http.StatusOK, predictions)
}

func (s *Server) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPrediction(r.PathValue("id"))
	if err != nil {
		s.notFound(w)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePredictionReport(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPrediction(r.PathValue("id"))
	if err != nil {
		s.notFound(w)
		return
	}
	loc, err := s.store.GetLocation(p.LocationID)
	if err != nil {
		s.internalError(w, err)
		return
	}
	cfg, err := s.store.GetPanelConfig(p.PanelConfigID)
	if err != nil {
		s.internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=solar_prediction_%s.csv", p.ID))
	if err := report.WriteCSV(w, p, loc, cfg); err != nil {
		s.logger.Error("writing CSV report", "prediction", p.ID, "error", err)
	}
}

func (s *Server) handleListRecommendations(w http.ResponseWriter, _ *http.Request) {
	recs, err := s.store.ListRecommendations(0)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if recs == nil {
		recs = []model.Recommendation{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (s *Server) notFound(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}
