// Package metrics holds Prometheus instruments for theme resolution.  All
// collectors are registered with the global registry, so mounting
// promhttp.Handler() in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup results recorded by the themed resolver.
const (
	LookupThemed   = "themed"   // themed override served
	LookupFallback = "fallback" // themed path missed, base file served
	LookupUnthemed = "unthemed" // rewrite did not apply
	LookupMiss     = "miss"     // nothing found
)

var (
	ThemeLookupTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theme_lookup_total",
			Help: "File lookups through the themed resolver, by result.",
		}, []string{"result"})

	ThemeSwitchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "theme_switch_total",
			Help: "Cumulative number of successful theme switches.",
		})

	ThemeSwitchErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "theme_switch_errors_total",
			Help: "Cumulative number of rejected theme switches.",
		})

	ThemeActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "theme_active_info",
			Help: "Set to 1 for the currently active theme.",
		}, []string{"theme"})

	ViewCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_cache_total",
			Help: "Parsed template cache lookups, by result (hit, miss, stale).",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ThemeLookupTotal,
		ThemeSwitchTotal,
		ThemeSwitchErrorsTotal,
		ThemeActive,
		ViewCacheTotal,
	)
}
