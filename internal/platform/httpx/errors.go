package httpx

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors the domain layer wraps so handlers can map them uniformly.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate entry")
)

const uniqueViolation = "23505"

// wireError carries a user-facing message while matching a sentinel via errors.Is.
type wireError struct {
	msg  string
	kind error
}

func (e *wireError) Error() string { return e.msg }

func (e *wireError) Is(target error) bool { return target == e.kind }

// NotFound builds an error that responds as HTTP 404 with the given message.
func NotFound(msg string) error { return &wireError{msg: msg, kind: ErrNotFound} }

// Invalid builds an error that responds as HTTP 400 with the given message.
func Invalid(msg string) error { return &wireError{msg: msg, kind: ErrValidation} }

// Duplicate builds an error that responds as HTTP 409 with the given message.
func Duplicate(msg string) error { return &wireError{msg: msg, kind: ErrDuplicate} }

// RespondError maps domain errors to the legacy {"error": msg} responses.
func RespondError(w http.ResponseWriter, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, err.Error())
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		Error(w, http.StatusConflict, "duplicate entry")
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
