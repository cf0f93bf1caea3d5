package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := InvalidFilter("unexpected token")
	wrapped := Wrap(base, "failed to apply filter")

	assert.Equal(t, CodeInvalidFilter, GetCode(wrapped))
	assert.Equal(t, "failed to apply filter: unexpected token", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrap_PlainError(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("boom"), "query failed")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCode_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("load: %w", NotFound("catalog"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidFilter("x"), http.StatusBadRequest},
		{UnknownColumn("foo"), http.StatusBadRequest},
		{InvalidInput("x"), http.StatusBadRequest},
		{NotFound("plot"), http.StatusNotFound},
		{DatabaseError("query failed", fmt.Errorf("locked")), http.StatusInternalServerError},
		{fmt.Errorf("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
