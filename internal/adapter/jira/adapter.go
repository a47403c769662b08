// Package jira normalizes Jira payloads into the canonical project model.
// The integration layer forwards Jira REST responses mostly untouched, so the
// adapter accepts both the search-style nesting (issues[].fields.summary) and
// the flattened shape some connection routes emit (issues[].summary).
package jira

import (
	"encoding/json"
	"time"

	"github.com/briefdeck/briefdeck/internal/domain/project"
	"github.com/briefdeck/briefdeck/internal/payload"
	"github.com/briefdeck/briefdeck/internal/port/platform"
)

func init() {
	platform.Register(&Adapter{})
}

// Adapter implements platform.Adapter for Jira.
type Adapter struct{}

// Platform returns project.PlatformJira.
func (a *Adapter) Platform() project.Platform { return project.PlatformJira }

type jiraNamed struct {
	Name string `json:"name"`
}

type jiraUser struct {
	DisplayName  string `json:"displayName"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
}

func (u *jiraUser) display() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}

// jiraIssueFields is the classic REST nesting under "fields".
type jiraIssueFields struct {
	Summary     string     `json:"summary"`
	Status      *jiraNamed `json:"status"`
	Assignee    *jiraUser  `json:"assignee"`
	Priority    *jiraNamed `json:"priority"`
	Created     string     `json:"created"`
	Updated     string     `json:"updated"`
	StoryPoints float64    `json:"customfield_10016"`
}

type jiraIssue struct {
	ID       payload.FlexString `json:"id"`
	Key      string             `json:"key"`
	Summary  string             `json:"summary"`
	Status   *jiraNamed         `json:"status"`
	Assignee *jiraUser          `json:"assignee"`
	Priority *jiraNamed         `json:"priority"`
	Created  string             `json:"created"`
	Updated  string             `json:"updated"`
	Fields   *jiraIssueFields   `json:"fields"`
}

type jiraSprint struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	State     string `json:"state"`
	Completed string `json:"completed"`
}

type jiraProject struct {
	ID          payload.FlexString `json:"id"`
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	Lead        *jiraUser          `json:"lead"`
	Issues      []jiraIssue        `json:"issues"`
	Sprints     []jiraSprint       `json:"sprints"`
}

// Normalize maps the payload to canonical records. Records carrying neither
// an identity nor any issues are dropped.
func (a *Adapter) Normalize(body []byte) []project.ProjectData {
	var out []project.ProjectData
	for _, rec := range payload.Records(body) {
		var jp jiraProject
		if err := json.Unmarshal(rec, &jp); err != nil {
			continue
		}
		if jp.ID == "" && jp.Key == "" && jp.Name == "" && len(jp.Issues) == 0 {
			continue
		}
		out = append(out, a.normalizeOne(jp))
	}
	return out
}

func (a *Adapter) normalizeOne(jp jiraProject) project.ProjectData {
	p := project.ProjectData{
		ID:          firstNonEmpty(jp.ID.String(), jp.Key),
		Name:        firstNonEmpty(jp.Name, jp.Key, "Jira Project"),
		Platform:    project.PlatformJira,
		Status:      firstNonEmpty(jp.Status, "Active"),
		Description: jp.Description,
		LastUpdated: time.Now(),
	}

	for _, issue := range jp.Issues {
		fields := issue.Fields
		if fields == nil {
			fields = &jiraIssueFields{
				Summary:  issue.Summary,
				Status:   issue.Status,
				Assignee: issue.Assignee,
				Priority: issue.Priority,
				Created:  issue.Created,
				Updated:  issue.Updated,
			}
		}

		task := project.Task{
			ID:          firstNonEmpty(issue.Key, issue.ID.String()),
			Name:        fields.Summary,
			Status:      named(fields.Status),
			Assignee:    fields.Assignee.display(),
			Priority:    named(fields.Priority),
			Created:     parseJiraTime(fields.Created),
			Updated:     parseJiraTime(fields.Updated),
			StoryPoints: fields.StoryPoints,
		}
		p.Tasks = append(p.Tasks, task)
	}

	p.Team = teamFromAssignees(jp)
	p.Sprints = sprintsFrom(jp.Sprints)
	p.Finalize(project.UnnamedIssue)
	return p
}

// teamFromAssignees derives the roster from the project lead plus distinct
// issue assignees; Jira connection payloads carry no separate member list.
func teamFromAssignees(jp jiraProject) []project.TeamMember {
	var team []project.TeamMember
	seen := make(map[string]bool)

	if lead := jp.Lead.display(); lead != "" {
		seen[lead] = true
		team = append(team, project.TeamMember{Name: lead, Role: "Project Lead", Email: jp.Lead.EmailAddress})
	}
	for _, issue := range jp.Issues {
		assignee := issue.Assignee
		if issue.Fields != nil {
			assignee = issue.Fields.Assignee
		}
		name := assignee.display()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		team = append(team, project.TeamMember{Name: name, Role: "Developer", Email: assignee.EmailAddress})
	}
	return team
}

func sprintsFrom(sprints []jiraSprint) []project.Sprint {
	var out []project.Sprint
	for _, s := range sprints {
		completed := s.Completed
		if completed == "" && s.State == "closed" {
			completed = "100%"
		}
		out = append(out, project.Sprint{
			Name:      s.Name,
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
			Completed: completed,
		})
	}
	return out
}

func named(n *jiraNamed) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var jiraTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
	"2006-01-02",
}

func parseJiraTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range jiraTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
