package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/api/handlers"
	"github.com/urmzd/patriot/pkg/photon"
	"github.com/urmzd/patriot/pkg/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	fleet     handlers.Fleet
	store     *activity.Store
	bus       *photon.EventBus
	validator *schema.Validator
	metrics   http.Handler
}

// Option configures a Router.
type Option func(*Router)

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(r *Router) { r.metrics = h }
}

// NewRouter creates a new API router
func NewRouter(fleet handlers.Fleet, store *activity.Store, bus *photon.EventBus, validator *schema.Validator, opts ...Option) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		fleet:     fleet,
		store:     store,
		bus:       bus,
		validator: validator,
	}
	for _, opt := range opts {
		opt(router)
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(r.fleet)
	r.engine.GET("/health", healthHandler.Health)

	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics))
	}

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.POST("/logout", healthHandler.Logout)

		devicesHandler := handlers.NewDevicesHandler(r.fleet)
		v1.POST("/discovery", devicesHandler.Discover)
		devices := v1.Group("/devices")
		{
			devices.GET("", devicesHandler.ListDevices)
			devices.GET("/:name", devicesHandler.GetDevice)
		}

		activitiesHandler := handlers.NewActivitiesHandler(r.store, r.validator)
		activities := v1.Group("/activities")
		{
			activities.GET("", activitiesHandler.ListActivities)
			activities.GET("/:name", activitiesHandler.GetActivity)
			activities.POST("/:name", activitiesHandler.SetActivity)
			activities.POST("/:name/toggle", activitiesHandler.ToggleActivity)
		}

		v1.GET("/events", handlers.NewEventsHandler(r.bus).Events)
	}
}

// Handler returns the engine as an http.Handler.
func (r *Router) Handler() http.Handler {
	return r.engine
}
