package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/clipstream/backend/internal/logging"
)

// decodeJSON reads the request body into dst, rejecting unknown fields
// and trailing garbage.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data")
	}
	return nil
}

// apiResponse is the uniform envelope returned by every endpoint.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeEnvelope(ctx, w, status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeEnvelope(ctx, w, status, apiResponse{
		StatusCode: status,
		Data:       nil,
		Message:    message,
		Success:    false,
	})
}

func writeEnvelope(ctx context.Context, w http.ResponseWriter, status int, payload apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "message", payload.Message)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "message", payload.Message)
	}
}
