package apperr

import (
	"context"
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
		{"not found", NotFound("user not found"), http.StatusNotFound},
		{"conflict", Conflict("already swiped"), http.StatusBadRequest},
		{"validation", Validation("bad action"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("bad token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden},
		{"rate limited", RateLimited("slow down"), http.StatusTooManyRequests},
		{"wrapped", fmt.Errorf("get match: %w", NotFound("match not found")), http.StatusNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "user not found", Message(NotFound("user not found")))
	assert.Equal(t, "", Message(errors.New("driver exploded")))

	cause := errors.New("age must be 18 or more")
	err := Invalid(cause)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "invalid request: age must be 18 or more", Message(err))
}
