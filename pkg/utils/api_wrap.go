package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// errorStatus maps a sentinel to its HTTP status. Order matters: the first
// match wins, so wrapped errors resolve to their most specific kind.
var errorStatus = []struct {
	err  error
	code int
}{
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrOrderNotFound, http.StatusNotFound},
	{ErrReferenceNotFound, http.StatusNotFound},
	{ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{ErrInvalidFileType, http.StatusBadRequest},
	{ErrInvalidPaymentField, http.StatusBadRequest},
	{ErrNoUpdatableFields, http.StatusBadRequest},
	{ErrNegativePrice, http.StatusBadRequest},
	{ErrValidation, http.StatusBadRequest},
	{ErrEmailAlreadyExists, http.StatusConflict},
	{ErrOrderAlreadyExists, http.StatusConflict},
}

// StatusFor returns the HTTP status HandleServiceError would use for err.
func StatusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return http.StatusInternalServerError
}

func HandleServiceError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"trace_id": traceID(c),
			"path":     c.FullPath(),
		}).WithError(err).Error("request failed")
		RespondError(c, code, "Internal server error")
		return
	}

	RespondError(c, code, err.Error())
}
