package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/zekrotja/hermans/internal/catalog"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/model"
	"github.com/zekrotja/hermans/internal/orders"
)

const (
	CodeNotFound       = "orders:not-found"
	CodeDatabase       = "orders:database"
	CodeInvalidItem    = "orders:invalid-store-item"
	CodeInvalidVariant = "orders:invalid-variants"
	CodeInvalidDips    = "orders:invalid-dips"
	CodeInvalidDrink   = "orders:invalid-drink"
	CodeInvalidEditKey = "orders:invalid-edit-key"
	CodeDeadline       = "orders:deadline-passed"
	CodeValidation     = "orders:validation"
	CodeBadRequest     = "api:bad-request"
	CodeCatalog        = "catalog:unavailable"
)

var errEmptyBody = errors.New("empty request body")

type ErrorResponse struct {
	Code             string                 `json:"code"`
	Message          string                 `json:"message"`
	Status           int                    `json:"status"`
	ValidationErrors model.ValidationErrors `json:"validation_errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg, Status: status})
}

// readJSONBody decodes a body of at most maxBodyBytes into v. An empty body
// yields errEmptyBody.
func readJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// respondErr maps domain errors onto HTTP responses.
func respondErr(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var vErrs model.ValidationErrors
	if errors.As(err, &vErrs) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:             CodeValidation,
			Message:          "validation failed",
			Status:           http.StatusBadRequest,
			ValidationErrors: vErrs,
		})
		return
	}

	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, orders.ErrInvalidEditKey):
		writeError(w, http.StatusForbidden, CodeInvalidEditKey, err.Error())
	case errors.Is(err, orders.ErrDeadlinePassed):
		writeError(w, http.StatusConflict, CodeDeadline, err.Error())
	case errors.Is(err, catalog.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, CodeInvalidItem, err.Error())
	case errors.Is(err, catalog.ErrInvalidVariants):
		writeError(w, http.StatusBadRequest, CodeInvalidVariant, err.Error())
	case errors.Is(err, catalog.ErrInvalidDips):
		writeError(w, http.StatusBadRequest, CodeInvalidDips, err.Error())
	case errors.Is(err, catalog.ErrUnknownDrink):
		writeError(w, http.StatusBadRequest, CodeInvalidDrink, err.Error())
	default:
		log.Error("request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Err(err))
		writeError(w, http.StatusInternalServerError, CodeDatabase, "internal server error")
	}
}

func badJSON(w http.ResponseWriter, err error) {
	msg := "invalid json"
	if errors.Is(err, errEmptyBody) {
		msg = "missing request body"
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, msg)
}
