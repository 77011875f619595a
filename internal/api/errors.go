package api

import (
	"errors"
	"net/http"

	"github.com/echo-social/echo-server/internal/api/respond"
	"github.com/echo-social/echo-server/internal/model"
)

// writeServiceError maps service-layer errors onto the HTTP error taxonomy:
// validation 400, not found 404, conflict 409, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
