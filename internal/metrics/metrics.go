// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_resolve_total",
			Help: "Inbound requests classified by the tenant resolver, by mode.",
		}, []string{"mode"})

	ProfileLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_profile_load_total",
			Help: "Profile loads by strategy and outcome (found, not_found, error).",
		}, []string{"strategy", "outcome"})

	ProfileFetchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_profile_fetch_total",
			Help: "Request-time store fetches actually issued (after singleflight).",
		})

	SnapshotSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_profile_snapshot_size",
			Help: "Number of profiles in the pre-materialized snapshot.",
		})

	SnapshotBuildTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_profile_snapshot_build_total",
			Help: "Snapshot builds by result (ok, error).",
		}, []string{"result"})

	ThemeApplyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_theme_apply_total",
			Help: "Theme applications by resolved theme name.",
		}, []string{"theme"})

	ThemePersistErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_theme_persist_errors_total",
			Help: "Swallowed failures writing the theme preference to client storage.",
		})

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_page_cache_total",
			Help: "Rendered-page cache lookups by result (hit, miss, bypass, error).",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ResolveTotal,
		ProfileLoadTotal,
		ProfileFetchTotal,
		SnapshotSize,
		SnapshotBuildTotal,
		ThemeApplyTotal,
		ThemePersistErrorsTotal,
		PageCacheTotal,
	)
}
