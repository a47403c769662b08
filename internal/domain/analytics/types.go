// Package analytics derives report metrics from a canonical project snapshot.
// Everything in this package is pure computation: no I/O, no mutation of the
// input, no caching between calls.
package analytics

// RiskLevel classifies overall project risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// VelocityTrend compares the two most recent sprint completion percentages.
type VelocityTrend string

const (
	VelocityIncreasing VelocityTrend = "increasing"
	VelocityStable     VelocityTrend = "stable"
	VelocityDecreasing VelocityTrend = "decreasing"
)

// WorkloadEntry is one distinct assignee's share of the task load.
// Utilization is relative to the team average and intentionally unclamped:
// values above 100 signal overload.
type WorkloadEntry struct {
	Member      string `json:"member"`
	TaskCount   int    `json:"taskCount"`
	Utilization int    `json:"utilization"`
}

// StatusSlice is one distinct task status and its share of all tasks.
// Slices partition 100%.
type StatusSlice struct {
	Status     string `json:"status"`
	Percentage int    `json:"percentage"`
}

// BurndownPoint is one synthesized burndown sample.
type BurndownPoint struct {
	Date      string `json:"date"`
	Remaining int    `json:"remaining"`
	Ideal     int    `json:"ideal"`
}

// Metrics is the full derived analytics set consumed by every report template.
// Percentage fields other than WorkloadEntry.Utilization are clamped to [0,100].
type Metrics struct {
	CompletionRate     int  `json:"completionRate"`
	TeamEfficiency     int  `json:"teamEfficiency"`
	QualityScore       int  `json:"qualityScore"`
	TimelineAdherence  int  `json:"timelineAdherence"`
	CollaborationScore int  `json:"collaborationScore"`

	RiskLevel     RiskLevel     `json:"riskLevel"`
	VelocityTrend VelocityTrend `json:"velocityTrend"`

	BlockedItemsCount int `json:"blockedItemsCount"`
	OverdueTasks      int `json:"overdueTasks"`

	WorkloadDistribution []WorkloadEntry `json:"workloadDistribution"`
	StatusDistribution   []StatusSlice   `json:"statusDistribution"`
	CriticalPath         []string        `json:"criticalPath"`
	BurndownTrend        []BurndownPoint `json:"burndownTrend"`
	RecommendedActions   []string        `json:"recommendedActions"`
}
