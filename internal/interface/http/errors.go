package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/pkg/response"
	"github.com/oksasatya/sneakerhub-api/pkg/validation"
)

type errorMapping struct {
	target error
	status int
}

// order matters: the first match wins
var errorStatuses = []errorMapping{
	{application.ErrInvalidCredentials, http.StatusForbidden},
	{application.ErrEmailNotVerified, http.StatusForbidden},
	{application.ErrInvalidOTP, http.StatusBadRequest},
	{application.ErrInvalidGoogleToken, http.StatusUnauthorized},
	{application.ErrUserNotFound, http.StatusNotFound},
	{application.ErrNotFound, http.StatusNotFound},
	{application.ErrAlreadyActive, http.StatusConflict},
	{application.ErrConflict, http.StatusConflict},
	{application.ErrInvalidReference, http.StatusBadRequest},
	{application.ErrMailDispatch, http.StatusBadGateway},
	{application.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// writeError maps an application error onto the response envelope. Unknown errors are
// logged and reported as a bare 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	for _, m := range errorStatuses {
		if errors.Is(err, m.target) {
			msg := err.Error()
			if m.status >= http.StatusInternalServerError {
				msg = m.target.Error()
			}
			response.Error[any](c, m.status, msg, nil)
			return
		}
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("unhandled error")
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

// bindJSON decodes the body into dst and runs binding validation, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return false
	}
	return true
}
