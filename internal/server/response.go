package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/finsight/finsight/internal/common"
)

// Response is the standardized API envelope.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// JSON writes a JSON response.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// Success writes a successful JSON response.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// Error writes an error JSON response.
func Error(w http.ResponseWriter, err error, statusCode int) {
	JSON(w, statusCode, Response{Success: false, Error: err.Error()})
}

// HandleError maps application errors to status codes.
func HandleError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError

	switch {
	case errors.Is(err, common.ErrKeyNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidEditInput):
		statusCode = http.StatusBadRequest
	case errors.Is(err, common.ErrMalformedTransaction),
		errors.Is(err, common.ErrAggregatorConnection):
		statusCode = http.StatusBadGateway
	case errors.Is(err, common.ErrAggregatorRateLimit):
		statusCode = http.StatusTooManyRequests
	case errors.Is(err, common.ErrMissingConfig),
		errors.Is(err, common.ErrInvalidConfig):
		statusCode = http.StatusServiceUnavailable
	}

	Error(w, err, statusCode)
}
