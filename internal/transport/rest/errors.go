package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/pkg/ctxutil"
)

var statusByCode = map[string]int{
	domain.CodeNotFound:          http.StatusNotFound,
	domain.CodeAlreadyExists:     http.StatusConflict,
	domain.CodeValidation:        http.StatusBadRequest,
	domain.CodeUnauthenticated:   http.StatusUnauthorized,
	domain.CodeForbidden:         http.StatusForbidden,
	domain.CodeTerminal:          http.StatusConflict,
	domain.CodeInvalidTransition: http.StatusConflict,
	domain.CodeConflict:          http.StatusConflict,
	domain.CodeInternal:          http.StatusInternalServerError,
}

type errorResponse struct {
	Error  string               `json:"error"`
	Code   string               `json:"code"`
	Fields []fieldErrorResponse `json:"fields,omitempty"`
}

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleError maps a domain error to its HTTP status and error code.
// Unexpected errors are logged and reported without details.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)
	resp := errorResponse{Error: err.Error(), Code: code}

	switch code {
	case domain.CodeValidation:
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			resp.Error = "validation failed"
			resp.Fields = make([]fieldErrorResponse, len(ve.Errors))
			for i, fe := range ve.Errors {
				resp.Fields[i] = fieldErrorResponse{Field: fe.Field, Message: fe.Message}
			}
		}
	case domain.CodeUnauthenticated:
		resp.Error = "unauthenticated"
	case domain.CodeInternal:
		log.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
		)
		resp.Error = "internal server error"
	}

	writeJSON(w, statusByCode[code], resp)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
