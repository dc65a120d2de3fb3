package ws

import (
	"log/slog"

	"solar_estimator/internal/model"
	"solar_estimator/internal/predictor"
)

// Events broadcasts domain events to the WebSocket hub. Marshal failures
// are logged and the event dropped; event delivery is best-effort.
type Events struct {
	hub    *Hub
	logger *slog.Logger
}

func NewEvents(hub *Hub, logger *slog.Logger) *Events {
	return &Events{hub: hub, logger: logger}
}

func (e *Events) PredictionCreated(p model.Prediction) {
	e.broadcast(TypePredictionCreated, PredictionPayloadFrom(p))
}

func (e *Events) RecommendationCreated(r model.Recommendation) {
	e.broadcast(TypeRecommendationCreated, RecommendationPayloadFrom(r))
}

func (e *Events) ModelTrained(m predictor.Metrics) {
	e.broadcast(TypeModelTrained, ModelTrainedPayloadFrom(m))
}

func (e *Events) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		e.logger.Error("marshaling event", "type", msgType, "error", err)
		return
	}
	e.hub.Broadcast(msg)
}
