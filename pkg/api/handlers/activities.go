package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/api/types"
	"github.com/urmzd/patriot/pkg/schema"
)

// ActivitiesHandler handles the activity list and commands
type ActivitiesHandler struct {
	store     *activity.Store
	validator *schema.Validator
}

// NewActivitiesHandler creates a new activities handler
func NewActivitiesHandler(store *activity.Store, validator *schema.Validator) *ActivitiesHandler {
	return &ActivitiesHandler{store: store, validator: validator}
}

// ListActivities handles GET /activities
func (h *ActivitiesHandler) ListActivities(c *gin.Context) {
	activities := h.store.Activities()
	c.JSON(http.StatusOK, types.ListActivitiesResponse{
		Activities: activities,
		Count:      len(activities),
	})
}

// GetActivity handles GET /activities/:name
func (h *ActivitiesHandler) GetActivity(c *gin.Context) {
	name := strings.ToLower(c.Param("name"))

	_, a, ok := h.store.Find(name)
	if !ok {
		writeError(c, fmt.Errorf("%w: %s", activity.ErrActivityNotFound, name))
		return
	}

	c.JSON(http.StatusOK, types.ActivityResponse{Activity: a})
}

// SetActivity handles POST /activities/:name with a {"percent": n} body
func (h *ActivitiesHandler) SetActivity(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	percent, err := h.validator.Percent(body)
	if err != nil {
		writeError(c, err)
		return
	}

	a, err := h.store.SetByName(c.Param("name"), percent)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ActivityResponse{Activity: a})
}

// ToggleActivity handles POST /activities/:name/toggle
func (h *ActivitiesHandler) ToggleActivity(c *gin.Context) {
	a, err := h.store.ToggleByName(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ActivityResponse{Activity: a})
}
