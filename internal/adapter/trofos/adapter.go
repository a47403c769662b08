// Package trofos normalizes TROFOS payloads into the canonical project model.
// TROFOS reports projects as pname/backlogs/sprints with nested user records.
package trofos

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/briefdeck/briefdeck/internal/domain/project"
	"github.com/briefdeck/briefdeck/internal/payload"
	"github.com/briefdeck/briefdeck/internal/port/platform"
)

func init() {
	platform.Register(&Adapter{})
}

// Adapter implements platform.Adapter for TROFOS.
type Adapter struct{}

// Platform returns project.PlatformTrofos.
func (a *Adapter) Platform() project.Platform { return project.PlatformTrofos }

type trofosUser struct {
	UserID          payload.FlexString `json:"user_id"`
	UserDisplayName string             `json:"user_display_name"`
	UserEmail       string             `json:"user_email"`
}

type trofosMember struct {
	User *trofosUser `json:"user"`
	Role string      `json:"role"`
}

type trofosBacklog struct {
	BacklogID payload.FlexString `json:"backlog_id"`
	Summary   string             `json:"summary"`
	Status    string             `json:"status"`
	Priority  string             `json:"priority"`
	Type      string             `json:"type"`
	Points    float64            `json:"points"`
	SprintID  payload.FlexString `json:"sprint_id"`
	Assignee  *trofosMember      `json:"assignee"`
}

type trofosSprint struct {
	Name      string  `json:"name"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Status    string  `json:"status"`
	Velocity  float64 `json:"velocity"`
	Completed string  `json:"completed"`
}

type trofosProject struct {
	ID          payload.FlexString `json:"id"`
	PName       string             `json:"pname"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	Backlogs    []trofosBacklog    `json:"backlogs"`
	Sprints     []trofosSprint     `json:"sprints"`
	Users       []trofosMember     `json:"users"`
}

// Normalize maps the payload to canonical records. Projects carrying neither
// an identity nor any backlog items are dropped.
func (a *Adapter) Normalize(body []byte) []project.ProjectData {
	var out []project.ProjectData
	for _, rec := range payload.Records(body) {
		var tp trofosProject
		if err := json.Unmarshal(rec, &tp); err != nil {
			continue
		}
		if tp.ID == "" && tp.PName == "" && tp.Name == "" && len(tp.Backlogs) == 0 {
			continue
		}
		out = append(out, a.normalizeOne(tp))
	}
	return out
}

func (a *Adapter) normalizeOne(tp trofosProject) project.ProjectData {
	name := tp.PName
	if name == "" {
		name = tp.Name
	}
	if name == "" {
		name = "TROFOS Project"
	}

	p := project.ProjectData{
		ID:          tp.ID.String(),
		Name:        name,
		Platform:    project.PlatformTrofos,
		Status:      statusOrDefault(tp.Status),
		Description: tp.Description,
		LastUpdated: time.Now(),
	}

	for _, b := range tp.Backlogs {
		task := project.Task{
			ID:          b.BacklogID.String(),
			Name:        b.Summary,
			Status:      b.Status,
			Priority:    capitalize(b.Priority),
			StoryPoints: b.Points,
		}
		if b.Assignee != nil && b.Assignee.User != nil {
			task.Assignee = b.Assignee.User.UserDisplayName
		}
		if b.SprintID != "" {
			task.Group = "Sprint " + b.SprintID.String()
		} else if b.Type != "" {
			task.Group = b.Type
		}
		p.Tasks = append(p.Tasks, task)
	}

	for _, m := range tp.Users {
		if m.User == nil || m.User.UserDisplayName == "" {
			continue
		}
		role := m.Role
		if role == "" {
			role = "Student Developer"
		}
		p.Team = append(p.Team, project.TeamMember{
			ID:    m.User.UserID.String(),
			Name:  m.User.UserDisplayName,
			Role:  role,
			Email: m.User.UserEmail,
		})
	}

	p.Sprints = sprintsFrom(tp.Sprints)
	p.Finalize(project.UnnamedItem)
	return p
}

// sprintsFrom carries the upstream completion figure through when present and
// otherwise derives one from the sprint lifecycle status.
func sprintsFrom(sprints []trofosSprint) []project.Sprint {
	var out []project.Sprint
	for _, s := range sprints {
		completed := s.Completed
		if completed == "" {
			switch strings.ToLower(s.Status) {
			case "completed", "closed":
				completed = "100%"
			case "current", "ongoing":
				completed = "50%"
			default:
				completed = "0%"
			}
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

func statusOrDefault(s string) string {
	if s == "" {
		return "Active"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
