// Package metrics exposes the fleet and activity state to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/photon"
)

// Fleet is the part of photon.Manager the collector reads.
type Fleet interface {
	IsLoggedIn() bool
	Photons() []*photon.Photon
	SupportedNames() []string
}

// Activities is the part of activity.Store the collector reads.
type Activities interface {
	Activities() []activity.Activity
}

var (
	upDesc = prometheus.NewDesc(
		"patriot_up", "Whether the cloud session is logged in.", nil, nil,
	)
	photonsDesc = prometheus.NewDesc(
		"patriot_photons_total", "Number of connected Photons.", nil, nil,
	)
	photonReadyDesc = prometheus.NewDesc(
		"patriot_photon_ready", "Whether the Photon's last refresh succeeded.", []string{"name"}, nil,
	)
	supportedDesc = prometheus.NewDesc(
		"patriot_supported_names_total", "Number of activities supported across the fleet.", nil, nil,
	)
	activityPercentDesc = prometheus.NewDesc(
		"patriot_activity_percent", "Last known level of each activity.", []string{"name"}, nil,
	)
)

// Collector reads fleet and activity state at scrape time.
type Collector struct {
	fleet      Fleet
	activities Activities
}

// NewCollector creates a collector. activities may be nil.
func NewCollector(fleet Fleet, activities Activities) *Collector {
	return &Collector{fleet: fleet, activities: activities}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- photonsDesc
	ch <- photonReadyDesc
	ch <- supportedDesc
	ch <- activityPercentDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	up := 0.0
	if c.fleet.IsLoggedIn() {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, up)

	photons := c.fleet.Photons()
	ch <- prometheus.MustNewConstMetric(photonsDesc, prometheus.GaugeValue, float64(len(photons)))
	for _, p := range photons {
		ready := 0.0
		if p.State() == photon.StateReady {
			ready = 1
		}
		ch <- prometheus.MustNewConstMetric(photonReadyDesc, prometheus.GaugeValue, ready, p.Key())
	}

	ch <- prometheus.MustNewConstMetric(supportedDesc, prometheus.GaugeValue, float64(len(c.fleet.SupportedNames())))

	if c.activities == nil {
		return
	}
	for _, a := range c.activities.Activities() {
		ch <- prometheus.MustNewConstMetric(activityPercentDesc, prometheus.GaugeValue, float64(a.Percent), a.Name)
	}
}

// Recorder counts store notifications. Register it with activity.Store.AddObserver.
type Recorder struct {
	listChanges     prometheus.Counter
	activityChanges *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	return &Recorder{
		listChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patriot_activity_list_changes_total",
			Help: "Number of times the activity list was refreshed.",
		}),
		activityChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "patriot_activity_changes_total",
			Help: "Number of activity level changes.",
		}, []string{"name"}),
	}
}

func (r *Recorder) ListChanged() {
	r.listChanges.Inc()
}

func (r *Recorder) ActivityChanged(_ int, a activity.Activity) {
	r.activityChanges.WithLabelValues(a.Name).Inc()
}

// Registry holds the hub's collectors.
type Registry struct {
	*prometheus.Registry
	Recorder *Recorder
}

// NewRegistry registers a Collector and a Recorder on a fresh registry.
func NewRegistry(fleet Fleet, activities Activities) *Registry {
	reg := prometheus.NewRegistry()
	rec := NewRecorder()
	reg.MustRegister(NewCollector(fleet, activities), rec.listChanges, rec.activityChanges)
	return &Registry{Registry: reg, Recorder: rec}
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
