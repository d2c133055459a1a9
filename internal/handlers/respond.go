package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/utils"
)

const maxBody = 1 << 20

// Responder converts service errors into JSON error bodies. Outside
// production the body also carries the wrapped error chain.
type Responder struct {
	log   zerolog.Logger
	trace bool
}

func NewResponder(log zerolog.Logger, production bool) Responder {
	return Responder{log: log, trace: !production}
}

func (rs Responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		rs.log.Error().Err(err).Str("request_id", chimw.GetReqID(r.Context())).Msg("request failed")
	}
	body := map[string]any{"message": apperr.Public(err)}
	if rs.trace {
		body["stack"] = errorChain(err)
	}
	utils.JSON(w, status, body)
}

// errorChain lists err and everything it wraps, outermost first.
func errorChain(err error) []string {
	var out []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, e.Error())
	}
	return out
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		return apperr.Validation("", "invalid json")
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return nil, apperr.Validation("", "request body too large")
	}
	return b, nil
}
