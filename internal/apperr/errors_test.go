package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("title", "is required"), http.StatusBadRequest},
		{"invalid query", &InvalidQueryError{Key: "company", Value: "x"}, http.StatusBadRequest},
		{"not found", NotFound("ticket"), http.StatusNotFound},
		{"not authorized", NotAuthorized(""), http.StatusUnauthorized},
		{"wrapped", fmt.Errorf("get ticket: %w", NotFound("ticket")), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestPublicHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "internal server error", Public(errors.New("pq: connection refused")))
	assert.Equal(t, "title: is required", Public(fmt.Errorf("create: %w", Validation("title", "is required"))))
	assert.Equal(t, "not authorized", Public(NotAuthorized("")))
}
