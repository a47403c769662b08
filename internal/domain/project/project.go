// Package project defines the canonical, platform-agnostic project model that
// every platform adapter converges to and every report consumer reads from.
package project

import "time"

// Platform identifies the project-tracking platform a project came from.
type Platform string

const (
	PlatformJira   Platform = "jira"
	PlatformMonday Platform = "monday"
	PlatformTrofos Platform = "trofos"
	PlatformOther  Platform = "other"
)

// ParsePlatform maps a string to a known Platform, defaulting to PlatformOther.
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformJira, PlatformMonday, PlatformTrofos:
		return Platform(s)
	default:
		return PlatformOther
	}
}

// Placeholder names used when a platform record carries no usable title.
const (
	UnnamedIssue = "Unnamed Issue"
	UnnamedItem  = "Unnamed Item"
)

// Task is a single work item. Status is the platform-native vocabulary,
// passed through verbatim; semantic grouping happens in analytics.
type Task struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Assignee    string     `json:"assignee,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	Updated     *time.Time `json:"updated,omitempty"`
	StoryPoints float64    `json:"storyPoints,omitempty"`
	Group       string     `json:"group,omitempty"`
}

// TeamMember is a person associated with the project. Name is unique within
// a project after normalization.
type TeamMember struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// Sprint is one iteration with its completion expressed as a percentage string
// (e.g. "85%"), the way the upstream platforms report it.
type Sprint struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Completed string `json:"completed"`
}

// Metric is a platform-supplied auxiliary counter, passed through opaquely.
type Metric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// ProjectData is the canonical project shape.
//
// FallbackData is load-bearing: true iff the instance was synthesized rather
// than fetched live. Downstream report templates disclose that distinction to
// the end user, so a single instance must never mix live and synthetic content.
type ProjectData struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Platform     Platform     `json:"platform"`
	Status       string       `json:"status"`
	Description  string       `json:"description,omitempty"`
	Tasks        []Task       `json:"tasks"`
	Team         []TeamMember `json:"team"`
	Sprints      []Sprint     `json:"sprints,omitempty"`
	Metrics      []Metric     `json:"metrics"`
	FallbackData bool         `json:"fallbackData"`
	LastUpdated  time.Time    `json:"lastUpdated"`
}

// Finalize enforces the post-normalization invariants: non-nil slices and
// non-empty task/member names. Adapters and the synthesizer both call it as
// the last construction step.
func (p *ProjectData) Finalize(placeholder string) {
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	if p.Team == nil {
		p.Team = []TeamMember{}
	}
	if p.Metrics == nil {
		p.Metrics = []Metric{}
	}
	for i := range p.Tasks {
		if p.Tasks[i].Name == "" {
			p.Tasks[i].Name = placeholder
		}
	}
	for i := range p.Team {
		if p.Team[i].Name == "" {
			p.Team[i].Name = "Unknown Member"
		}
	}
}

// DateRange bounds a report window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AcquisitionRequest is the inbound request from the report-generation layer.
// ConnectionID is an opaque handle scoped to the platform-integrations layer.
type AcquisitionRequest struct {
	Platform              Platform   `json:"platform"`
	ConnectionID          string     `json:"connectionId"`
	ProjectID             string     `json:"projectId"`
	IncludeHistoricalData bool       `json:"includeHistoricalData,omitempty"`
	DateRange             *DateRange `json:"dateRange,omitempty"`
}

// Validate checks the request fields that acquisition cannot default.
func (r AcquisitionRequest) Validate() error {
	if r.ConnectionID == "" {
		return errEmptyField("connectionId")
	}
	if r.ProjectID == "" {
		return errEmptyField("projectId")
	}
	return nil
}
