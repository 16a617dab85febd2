package handlers

import (
	"errors"
	"net/http"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/autherr"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/directory"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
)

// Error codes sent alongside the auth error kinds.
const (
	CodeBadRequest   = "bad-request"
	CodeValidation   = "validation-failed"
	CodeNoFields     = "no-fields"
	CodeNotFound     = "not-found"
	CodeRoleNotFound = "role-not-found"
	CodeForbidden    = "forbidden"
	CodeTooLarge     = "payload-too-large"
	CodeInternal     = "internal"
)

const (
	msgValidation = "Verifique os campos destacados."
	msgNoFields   = "Nenhuma alteração informada."
	msgInternal   = "Ocorreu um erro inesperado. Tente novamente."
	msgForbidden  = "Apenas administradores podem realizar esta ação."
)

var authStatus = map[autherr.Kind]int{
	autherr.KindInvalidEmail:        http.StatusBadRequest,
	autherr.KindWeakPassword:        http.StatusBadRequest,
	autherr.KindInvalidToken:        http.StatusBadRequest,
	autherr.KindUserNotFound:        http.StatusUnauthorized,
	autherr.KindWrongPassword:       http.StatusUnauthorized,
	autherr.KindUserDisabled:        http.StatusForbidden,
	autherr.KindOperationNotAllowed: http.StatusForbidden,
	autherr.KindRequiresRecentLogin: http.StatusForbidden,
	autherr.KindEmailAlreadyInUse:   http.StatusConflict,
	autherr.KindTooManyRequests:     http.StatusTooManyRequests,
}

func writeError(c *drift.Context, status int, code, message string) {
	_ = c.JSON(status, dto.ErrorResponse{Code: code, Message: message})
}

func writeInternal(c *drift.Context, err error, msg string) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	writeError(c, http.StatusInternalServerError, CodeInternal, msgInternal)
}

// writeAuthError answers with the kind carried by err, or 500 when err has
// no kind.
func writeAuthError(c *drift.Context, err error) {
	kind := autherr.KindOf(err)
	status, ok := authStatus[kind]
	if !ok {
		writeInternal(c, err, "identity operation failed")
		return
	}
	writeError(c, status, string(kind), autherr.Message(kind))
}

// writeDirectoryError maps validation and service errors of the directory
// collections to responses.
func writeDirectoryError(c *drift.Context, err error, notFound error, notFoundMsg string) {
	var verr *directory.ValidationError
	switch {
	case errors.As(err, &verr):
		_ = c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Code:    CodeValidation,
			Message: msgValidation,
			Fields:  verr.Fields,
		})
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		writeError(c, http.StatusBadRequest, CodeNoFields, msgNoFields)
	case errors.Is(err, notFound):
		writeError(c, http.StatusNotFound, CodeNotFound, notFoundMsg)
	default:
		writeInternal(c, err, "directory operation failed")
	}
}
