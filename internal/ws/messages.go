package ws

import (
	"encoding/json"

	"solar_estimator/internal/model"
	"solar_estimator/internal/predictor"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Server -> client message types.
const (
	TypePredictionCreated     = "prediction:created"
	TypeRecommendationCreated = "recommendation:created"
	TypeModelTrained          = "model:trained"
)

type PredictionPayload struct {
	ID           string  `json:"id"`
	LocationID   string  `json:"location_id"`
	Timeframe    string  `json:"timeframe"`
	PredictedKWh float64 `json:"predicted_kwh"`
	Confidence   float64 `json:"confidence"`
	Source       string  `json:"weather_source"`
}

type RecommendationPayload struct {
	ID             string  `json:"id"`
	LocationID     string  `json:"location_id"`
	OptimalTilt    float64 `json:"optimal_tilt"`
	OptimalAzimuth float64 `json:"optimal_azimuth"`
	MaxOutputKWh   float64 `json:"max_output_kwh"`
	ImprovementPct float64 `json:"improvement_pct"`
}

type ModelTrainedPayload struct {
	MAE float64 `json:"mae"`
	R2  float64 `json:"r2"`
}

// NewEnvelope marshals a payload into a typed envelope.
func NewEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// PredictionPayloadFrom maps a stored prediction to its wire form.
func PredictionPayloadFrom(p model.Prediction) PredictionPayload {
	return PredictionPayload{
		ID:           p.ID,
		LocationID:   p.LocationID,
		Timeframe:    string(p.Timeframe),
		PredictedKWh: p.PredictedKWh,
		Confidence:   p.Confidence,
		Source:       p.Weather.Source,
	}
}

// RecommendationPayloadFrom maps a stored recommendation to its wire form.
func RecommendationPayloadFrom(r model.Recommendation) RecommendationPayload {
	return RecommendationPayload{
		ID:             r.ID,
		LocationID:     r.LocationID,
		OptimalTilt:    r.OptimalTilt,
		OptimalAzimuth: r.OptimalAzimuth,
		MaxOutputKWh:   r.MaxOutputKWh,
		ImprovementPct: r.ImprovementPct,
	}
}

// ModelTrainedPayloadFrom maps training metrics to their wire form.
func ModelTrainedPayloadFrom(m predictor.Metrics) ModelTrainedPayload {
	return ModelTrainedPayload{MAE: m.MAE, R2: m.R2}
}
