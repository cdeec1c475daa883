package models

import (
	"encoding/json"
	"time"
)

type EventKind string

const (
	EventPageView          EventKind = "page_view"
	EventExternalLinkClick EventKind = "external_link_click"
	EventScrollDepth       EventKind = "scroll_depth"
	EventTimeOnPage        EventKind = "time_on_page"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventPageView, EventExternalLinkClick, EventScrollDepth, EventTimeOnPage:
		return true
	default:
		return false
	}
}

type Device string

const (
	DeviceMobile  Device = "Mobile"
	DeviceTablet  Device = "Tablet"
	DeviceDesktop Device = "Desktop"
)

// UnknownCountry is stored until a geolocation source is wired in.
const UnknownCountry = "Unknown"

// AnalyticsEvent is one tracked action. The first block is what the browser sends;
// the second is derived server side before the row is written.
type AnalyticsEvent struct {
	Event       EventKind       `json:"event"`
	Page        string          `json:"page"`
	Timestamp   time.Time       `json:"timestamp"`
	UserAgent   string          `json:"userAgent"`
	Referrer    string          `json:"referrer"`
	UTMSource   string          `json:"utm_source,omitempty"`
	UTMMedium   string          `json:"utm_medium,omitempty"`
	UTMCampaign string          `json:"utm_campaign,omitempty"`
	UTMTerm     string          `json:"utm_term,omitempty"`
	UTMContent  string          `json:"utm_content,omitempty"`
	SessionID   string          `json:"sessionId,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`

	EventID string `json:"eventId,omitempty"`
	Device  Device `json:"device,omitempty"`
	Country string `json:"country,omitempty"`
	IPHash  string `json:"-"`
}

// Session is one browsing visit keyed by the client generated session id.
type Session struct {
	SessionID string    `json:"sessionId"`
	IPHash    string    `json:"-"`
	UserAgent string    `json:"userAgent"`
	Device    Device    `json:"device"`
	Country   string    `json:"country"`
	FirstPage string    `json:"firstPage"`
	LastPage  string    `json:"lastPage"`
	PageCount int       `json:"pageCount"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

type EventKindStat struct {
	Event EventKind `json:"event"`
	Count int       `json:"count"`
}

type PageStat struct {
	Page       string  `json:"page"`
	Views      int     `json:"views"`
	Percentage float64 `json:"percentage"`
}

type SourceStat struct {
	Source     string  `json:"source"`
	Visitors   int     `json:"visitors"`
	Percentage float64 `json:"percentage"`
}

type DeviceStat struct {
	Device     Device  `json:"device"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CountryStat struct {
	Country    string  `json:"country"`
	Visitors   int     `json:"visitors"`
	Percentage float64 `json:"percentage"`
}

type CampaignStat struct {
	Campaign    string `json:"campaign"`
	Visitors    int    `json:"visitors"`
	Conversions int    `json:"conversions"`
}

type HourlyTraffic struct {
	Hour     int `json:"hour"`
	Visitors int `json:"visitors"`
}

type DailyTraffic struct {
	Date     string `json:"date"`
	Visitors int    `json:"visitors"`
}

// AnalyticsSummary is the dashboard payload for one summary window.
type AnalyticsSummary struct {
	Range              string          `json:"range"`
	WindowStart        time.Time       `json:"windowStart"`
	TotalPageViews     int             `json:"totalPageViews"`
	UniqueVisitors     int             `json:"uniqueVisitors"`
	EventCounts        []EventKindStat `json:"eventCounts"`
	BounceRate         float64         `json:"bounceRate"`
	AvgSessionDuration string          `json:"avgSessionDuration"`
	TopPages           []PageStat      `json:"topPages"`
	TrafficSources     []SourceStat    `json:"trafficSources"`
	DeviceBreakdown    []DeviceStat    `json:"deviceBreakdown"`
	CountryBreakdown   []CountryStat   `json:"countryBreakdown"`
	UTMCampaigns       []CampaignStat  `json:"utmCampaigns"`
	HourlyTraffic      []HourlyTraffic `json:"hourlyTraffic"`
	DailyTraffic       []DailyTraffic  `json:"dailyTraffic"`
}
