package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exoserve/classify"
	"exoserve/db"
	"exoserve/monitoring"
)

const modelUnavailableMessage = "Model not loaded. Please ensure the model artifact exists."

// Handler 聚合HTTP处理器的依赖；store和hub可以为nil，对应功能停用
type Handler struct {
	pipeline *classify.Pipeline
	store    *db.Store
	hub      *monitoring.Hub
}

// NewHandler 创建处理器
func NewHandler(pipeline *classify.Pipeline, store *db.Store, hub *monitoring.Hub) *Handler {
	return &Handler{pipeline: pipeline, store: store, hub: hub}
}

// RegisterRoutes 注册所有路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleNotFound)
	mux.HandleFunc("GET /{$}", h.handleHome)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /performance", h.handlePerformance)
	mux.HandleFunc("POST /predict", h.handlePredict)
	mux.HandleFunc("GET /predictions", h.handlePredictions)
	mux.HandleFunc("GET /model", h.handleModelInfo)
	if h.hub != nil {
		mux.HandleFunc("GET /ws/live", h.hub.HandleWebSocket)
	}
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "running",
		"message": "Exoplanet Detection API is active",
		"endpoints": map[string]string{
			"/predict":     "POST - Make predictions",
			"/performance": "GET - Get model metrics",
			"/health":      "GET - Check service health",
			"/predictions": "GET - Recent prediction history",
			"/model":       "GET - Loaded model information",
			"/ws/live":     "GET - WebSocket stream of predictions",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	caps := h.pipeline.Capabilities()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":               "healthy",
		"model_loaded":         caps.ModelLoaded,
		"scaler_loaded":        caps.ScalerLoaded,
		"label_encoder_loaded": caps.LabelEncoderLoaded,
	})
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.pipeline.Metrics())
}

func (h *Handler) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.pipeline.Info())
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	// 模型缺失优先于请求校验
	if !h.pipeline.Capabilities().ModelLoaded {
		respondError(w, http.StatusInternalServerError, modelUnavailableMessage)
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}

	features, err := classify.ParseFeatures(payload)
	if err != nil {
		h.respondClassifyError(w, r, err)
		return
	}

	result, err := h.pipeline.Classify(features)
	if err != nil {
		h.respondClassifyError(w, r, err)
		return
	}

	response := map[string]any{
		"prediction": result.Category,
		"input": map[string]float64{
			"orbital_period":   features.OrbitalPeriod,
			"transit_duration": features.TransitDuration,
			"planetary_radius": features.PlanetaryRadius,
		},
	}
	if result.Fallback {
		if result.Grouped != nil {
			response["confidence"] = result.Grouped
		}
	} else if result.Detailed != nil {
		response["confidence"] = map[string]any{
			"detailed": result.Detailed,
			"grouped":  result.Grouped,
		}
	}

	h.recordPrediction(r, features, result)
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Prediction history is not enabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	records, err := h.store.RecentPredictions(limit)
	if err != nil {
		zap.L().Error("failed to query predictions",
			zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"predictions": records,
		"count":       len(records),
	})
}

// recordPrediction 持久化并广播预测结果，失败只记日志
func (h *Handler) recordPrediction(r *http.Request, features classify.Features, result classify.Result) {
	if h.store == nil && h.hub == nil {
		return
	}

	rec := db.PredictionRecord{
		ID:              uuid.NewString(),
		OrbitalPeriod:   features.OrbitalPeriod,
		TransitDuration: features.TransitDuration,
		PlanetaryRadius: features.PlanetaryRadius,
		RawLabel:        result.RawLabel,
		Category:        string(result.Category),
		Confidence:      result.Grouped[result.Category],
		CreatedAt:       time.Now().UTC(),
	}

	if h.store != nil {
		if err := h.store.SavePrediction(rec); err != nil {
			zap.L().Warn("failed to save prediction",
				zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		}
	}
	if h.hub != nil {
		h.hub.PublishPrediction(rec)
	}
}

func (h *Handler) respondClassifyError(w http.ResponseWriter, r *http.Request, err error) {
	var bad *classify.BadInput
	switch {
	case errors.As(err, &bad):
		respondError(w, http.StatusBadRequest, bad.Message)
	case errors.Is(err, classify.ErrModelUnavailable):
		respondError(w, http.StatusInternalServerError, modelUnavailableMessage)
	default:
		zap.L().Error("prediction failed",
			zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Prediction error: "+err.Error())
	}
}

// respondJSON 统一JSON响应；先序列化，失败时仍能返回500
func respondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
