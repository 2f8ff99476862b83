package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		ErrUnauthorized:                                 http.StatusUnauthorized,
		ErrForbidden:                                    http.StatusForbidden,
		fmt.Errorf("%w: id 42", ErrOrderNotFound):       http.StatusNotFound,
		ErrReferenceNotFound:                            http.StatusNotFound,
		fmt.Errorf("%w: bogus", ErrInvalidPaymentField): http.StatusBadRequest,
		ErrNoUpdatableFields:                            http.StatusBadRequest,
		ErrFileTooLarge:                                 http.StatusRequestEntityTooLarge,
		ErrOrderAlreadyExists:                           http.StatusConflict,
		ErrDatabaseError:                                http.StatusInternalServerError,
		errors.New("boom"):                              http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}

func TestHandleServiceErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("trace_id", "t-1")

	HandleServiceError(c, fmt.Errorf("%w: connection refused", ErrDatabaseError))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Equal(t, "t-1", body.TraceID)
}

func TestRespondWithoutTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondCreated(c, gin.H{"id": "x"}, "created")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
}
