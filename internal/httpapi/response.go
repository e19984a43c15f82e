package httpapi

import (
	"encoding/json"
	"net/http"

	apperrors "paygo-hire/internal/common/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.FromError(err)
	writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorBody{
		Error: errorDetail{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Details: stdErr.Details,
		},
	})
}
