// Package handler exposes the poll, vote, participation and voter workflows
// over HTTP. Responses use a {"data": ...} envelope; errors use the
// pkg/apierror envelope with the status code derived from the domain error
// kind.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"ballotbox/pkg/apierror"

	"go.uber.org/zap"
)

type dataEnvelope struct {
	Data interface{} `json:"data"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dataEnvelope{Data: data})
}

// respondError maps a service error onto the wire. Internal errors are logged
// with their cause; client errors only at debug level.
func respondError(w http.ResponseWriter, err error, log *zap.Logger) {
	appErr, ok := err.(*apierror.AppError)
	if !ok {
		appErr = apierror.FromDomain(err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Error(err))
	}

	response := &apierror.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(response)
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.NewValidationError("invalid request body")
	}
	return nil
}
