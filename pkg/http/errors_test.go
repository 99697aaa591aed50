package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorHelpers(t *testing.T) {
	cause := errors.New("disk gone")
	err := InternalErrorf("failed to load dashboard %s", "thai").WithError(cause)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "failed to load dashboard thai: disk gone", err.Error())
	assert.ErrorIs(t, err, cause)

	err = BadRequestErrorf("cannot export %s", "merged")
	assert.Equal(t, "ERR_BAD_REQUEST", err.Code)
	assert.Equal(t, "cannot export merged", err.Message)

	err = SchemaError("history", "no year column").WithParams(map[string]interface{}{"kind": "no_year"})
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "no_year", err.Params["kind"])
	assert.Equal(t, "history", err.Field)
}
