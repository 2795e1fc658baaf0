package analytics

import "github.com/ChristinaBak/Oasa/models"

// Limits sizes the two ranked views of a dashboard.
type Limits struct {
	TopStops int
	TopFive  int
}

// DefaultLimits are the sizes the dashboard shows: top 12 stops, top 5 regrouped.
var DefaultLimits = Limits{TopStops: 12, TopFive: 5}

// BuildDashboard runs the whole pipeline for one query against a snapshot.
//
// An empty filtered view produces a dashboard with NoData set and no views.
// A view whose grouping field is missing from the source is left nil and
// named in Unavailable; the remaining views are still computed.
func BuildDashboard(snapshot *Snapshot, query models.DashboardQuery, limits Limits) models.Dashboard {
	dashboard := models.Dashboard{
		SnapshotID:      snapshot.ID,
		SnapshotVersion: snapshot.Version,
		Coverage:        snapshot.Coverage(),
		DataQuality:     snapshot.DataQuality(),
	}
	if query.Advisory != "" {
		dashboard.Advisories = append(dashboard.Advisories, query.Advisory)
	}

	view := snapshot.Filter(query.Selection)
	if view.Empty() {
		dashboard.NoData = true
		dashboard.Message = models.NO_DATA_MESSAGE
		return dashboard
	}

	kpis := ComputeKPIs(view)
	dashboard.KPIs = &kpis

	if top, err := TopN(view, limits.TopStops); err == nil {
		dashboard.TopStops = &top
	} else {
		dashboard.MarkUnavailable("top_stops")
	}

	if trend, err := Trend(view, query.TrendBy); err == nil {
		dashboard.Trend = &trend
	} else {
		dashboard.MarkUnavailable(models.ViewTrend.String())
	}

	if topFive, err := TopRegroup(view, limits.TopFive, query.TopFiveBy); err == nil {
		dashboard.TopFive = &topFive
	} else {
		dashboard.MarkUnavailable(models.ViewTopFive.String())
	}

	if hourly, err := HourlyAverages(view, query.HourlyBy); err == nil {
		dashboard.HourlyAverages = &hourly
	} else {
		dashboard.MarkUnavailable(models.ViewHourly.String())
	}

	density := Density(view)
	dashboard.Density = &density
	return dashboard
}
