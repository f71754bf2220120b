package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/api/types"
	"github.com/urmzd/patriot/pkg/cloud"
	"github.com/urmzd/patriot/pkg/photon"
	"github.com/urmzd/patriot/pkg/schema"
)

// writeError maps domain errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"

	switch {
	case errors.Is(err, cloud.ErrNotLoggedIn), errors.Is(err, cloud.ErrNotConfigured):
		status, code = http.StatusServiceUnavailable, "not_logged_in"
	case errors.Is(err, activity.ErrActivityNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, photon.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, schema.ErrInvalidPayload), errors.Is(err, activity.ErrInvalidPercent):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, cloud.ErrDiscovery):
		status, code = http.StatusBadGateway, "discovery_failed"
	}

	c.JSON(status, types.ErrorResponse{Error: code, Message: err.Error()})
}
