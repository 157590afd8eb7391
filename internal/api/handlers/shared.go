package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, fmt.Errorf("request body is empty")
		}
		return v, err
	}
	return v, nil
}

// respondServiceError maps a service error onto an HTTP status. Errors with
// no specific mapping answer 500 with failure as the message.
func respondServiceError(w http.ResponseWriter, err error, failure error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrAssetNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrAssetNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrCustomerNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrCustomerNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrOwnerNotFound),
		errors.Is(err, apperrors.ErrInvalidFraction):
		response.RespondError(w, http.StatusBadRequest, "invalid ownership row", err.Error())
	case errors.Is(err, apperrors.ErrOwnershipInconsistent):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrOwnershipInconsistent.Error(), err.Error())
	case errors.Is(err, apperrors.ErrUnauthenticated):
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error(), "")
	case errors.Is(err, apperrors.ErrFeatureDisabled):
		response.RespondError(w, http.StatusForbidden, apperrors.ErrFeatureDisabled.Error(), "")
	default:
		logger.Get().Errorw(failure.Error(), "error", err)
		response.RespondError(w, http.StatusInternalServerError, failure.Error(), err.Error())
	}
}

// respondBackendError answers a classified business-rule error with its
// user-facing message.
func respondBackendError(w http.ResponseWriter, err error, failure error) {
	be := apperrors.Classify(err)
	switch be.Kind {
	case apperrors.KindEmailExists:
		response.RespondError(w, http.StatusConflict, be.UserMessage(), string(be.Kind))
	case apperrors.KindEmailUpdateForbidden:
		response.RespondError(w, http.StatusForbidden, be.UserMessage(), string(be.Kind))
	default:
		respondServiceError(w, err, failure)
	}
}
