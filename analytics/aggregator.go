package analytics

import (
	"math"
	"math/rand/v2"
	"net/url"
	"sort"
	"strings"
	"time"

	"lensfolio/api/models"
)

const topPagesLimit = 10

// Placeholder figures. None of these are derived from stored data; they stand in
// until real rules exist for them.
const (
	PlaceholderBounceRate         = 42.5
	PlaceholderAvgSessionDuration = "2m 34s"
	placeholderConversionRate     = 0.10
	placeholderMaxHourly          = 100
	placeholderMaxDaily           = 500
)

const (
	SourceDirect = "Direct"
	SourceOther  = "Other"
)

var referrerSources = []struct {
	match  string
	source string
}{
	{"google", "Google Search"},
	{"instagram", "Instagram"},
	{"youtube", "YouTube"},
	{"youtu.be", "YouTube"},
	{"linkedin", "LinkedIn"},
}

// Aggregator turns raw events and sessions into an AnalyticsSummary.
type Aggregator struct {
	now      func() time.Time
	randIntN func(int) int
}

func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now, randIntN: rand.IntN}
}

// Summarize computes the dashboard figures for events and sessions from windowStart
// onward. Page and traffic breakdowns count page views only; EventCounts covers
// every kind in the window. The hourly and daily series are random and differ
// between calls.
func (a *Aggregator) Summarize(windowStart time.Time, events []models.AnalyticsEvent, sessions []models.Session) *models.AnalyticsSummary {
	var inWindow, views []models.AnalyticsEvent
	for _, e := range events {
		if e.Timestamp.Before(windowStart) {
			continue
		}
		inWindow = append(inWindow, e)
		if e.Event == models.EventPageView {
			views = append(views, e)
		}
	}

	return &models.AnalyticsSummary{
		WindowStart:        windowStart,
		TotalPageViews:     len(views),
		UniqueVisitors:     uniqueVisitors(windowStart, sessions),
		EventCounts:        eventCounts(inWindow),
		BounceRate:         PlaceholderBounceRate,
		AvgSessionDuration: PlaceholderAvgSessionDuration,
		TopPages:           topPages(views),
		TrafficSources:     trafficSources(views),
		DeviceBreakdown:    deviceBreakdown(views),
		CountryBreakdown:   countryBreakdown(views),
		UTMCampaigns:       campaigns(views),
		HourlyTraffic:      a.hourlyTraffic(),
		DailyTraffic:       a.dailyTraffic(windowStart),
	}
}

// ClassifySource picks the traffic source: utm_source, then a known referrer
// domain, then Other for any other referrer, then Direct.
func ClassifySource(e *models.AnalyticsEvent) string {
	if s := strings.TrimSpace(e.UTMSource); s != "" {
		return s
	}
	ref := strings.TrimSpace(e.Referrer)
	if ref == "" {
		return SourceDirect
	}
	host := referrerHost(ref)
	for _, rs := range referrerSources {
		if strings.Contains(host, rs.match) {
			return rs.source
		}
	}
	return SourceOther
}

func referrerHost(ref string) string {
	u, err := url.Parse(ref)
	if err == nil && u.Host != "" {
		return strings.ToLower(u.Hostname())
	}
	if u, err := url.Parse("https://" + ref); err == nil && u.Host != "" {
		return strings.ToLower(u.Hostname())
	}
	return strings.ToLower(ref)
}

func uniqueVisitors(windowStart time.Time, sessions []models.Session) int {
	seen := make(map[string]struct{})
	for _, s := range sessions {
		if s.StartedAt.Before(windowStart) {
			continue
		}
		seen[s.IPHash] = struct{}{}
	}
	return len(seen)
}

type bucket struct {
	key   string
	count int
}

// countBy groups keys and returns them by count descending, ties by key.
func countBy(n int, key func(i int) string) []bucket {
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		counts[key(i)]++
	}
	buckets := make([]bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, bucket{key: k, count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key < buckets[j].key
	})
	return buckets
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(total)) / 100
}

func eventCounts(events []models.AnalyticsEvent) []models.EventKindStat {
	buckets := countBy(len(events), func(i int) string { return string(events[i].Event) })
	out := make([]models.EventKindStat, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.EventKindStat{Event: models.EventKind(b.key), Count: b.count})
	}
	return out
}

func topPages(views []models.AnalyticsEvent) []models.PageStat {
	buckets := countBy(len(views), func(i int) string { return views[i].Page })
	if len(buckets) > topPagesLimit {
		buckets = buckets[:topPagesLimit]
	}
	out := make([]models.PageStat, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.PageStat{Page: b.key, Views: b.count, Percentage: percentage(b.count, len(views))})
	}
	return out
}

func trafficSources(views []models.AnalyticsEvent) []models.SourceStat {
	buckets := countBy(len(views), func(i int) string { return ClassifySource(&views[i]) })
	out := make([]models.SourceStat, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.SourceStat{Source: b.key, Visitors: b.count, Percentage: percentage(b.count, len(views))})
	}
	return out
}

func deviceBreakdown(views []models.AnalyticsEvent) []models.DeviceStat {
	buckets := countBy(len(views), func(i int) string {
		if views[i].Device == "" {
			return string(ClassifyDevice(views[i].UserAgent))
		}
		return string(views[i].Device)
	})
	out := make([]models.DeviceStat, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.DeviceStat{Device: models.Device(b.key), Count: b.count, Percentage: percentage(b.count, len(views))})
	}
	return out
}

func countryBreakdown(views []models.AnalyticsEvent) []models.CountryStat {
	buckets := countBy(len(views), func(i int) string {
		if views[i].Country == "" {
			return models.UnknownCountry
		}
		return views[i].Country
	})
	out := make([]models.CountryStat, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.CountryStat{Country: b.key, Visitors: b.count, Percentage: percentage(b.count, len(views))})
	}
	return out
}

func campaigns(views []models.AnalyticsEvent) []models.CampaignStat {
	var tagged []string
	for _, v := range views {
		if c := strings.TrimSpace(v.UTMCampaign); c != "" {
			tagged = append(tagged, c)
		}
	}
	buckets := countBy(len(tagged), func(i int) string { return tagged[i] })
	out := make([]models.CampaignStat, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.CampaignStat{
			Campaign:    b.key,
			Visitors:    b.count,
			Conversions: int(math.Floor(float64(b.count) * placeholderConversionRate)),
		})
	}
	return out
}

func (a *Aggregator) hourlyTraffic() []models.HourlyTraffic {
	out := make([]models.HourlyTraffic, 24)
	for h := range out {
		out[h] = models.HourlyTraffic{Hour: h, Visitors: a.randIntN(placeholderMaxHourly)}
	}
	return out
}

func (a *Aggregator) dailyTraffic(windowStart time.Time) []models.DailyTraffic {
	days := int(a.now().Sub(windowStart).Hours() / 24)
	if days < 1 {
		days = 1
	}
	out := make([]models.DailyTraffic, days)
	for d := range out {
		out[d] = models.DailyTraffic{
			Date:     windowStart.AddDate(0, 0, d).Format("2006-01-02"),
			Visitors: a.randIntN(placeholderMaxDaily),
		}
	}
	return out
}
