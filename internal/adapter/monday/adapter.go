// Package monday normalizes Monday.com board payloads into the canonical
// project model. Boards arrive either through the integration layer or from
// the direct GraphQL source; both use the boards/items/column_values shape.
package monday

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/briefdeck/briefdeck/internal/domain/project"
	"github.com/briefdeck/briefdeck/internal/payload"
	"github.com/briefdeck/briefdeck/internal/port/platform"
)

func init() {
	platform.Register(&Adapter{})
}

// Adapter implements platform.Adapter for Monday.com.
type Adapter struct{}

// Platform returns project.PlatformMonday.
func (a *Adapter) Platform() project.Platform { return project.PlatformMonday }

type mondayColumnValue struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Text  string `json:"text"`
}

type mondayGroup struct {
	Title string `json:"title"`
}

type mondayItem struct {
	ID           payload.FlexString  `json:"id"`
	Name         string              `json:"name"`
	State        string              `json:"state"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
	Group        *mondayGroup        `json:"group"`
	ColumnValues []mondayColumnValue `json:"column_values"`
}

type mondayUser struct {
	ID    payload.FlexString `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Title string             `json:"title"`
}

type mondayBoard struct {
	ID          payload.FlexString `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	State       string             `json:"state"`
	Items       []mondayItem       `json:"items"`
	Subscribers []mondayUser       `json:"subscribers"`
}

// Normalize maps the payload to canonical records. Boards carrying neither an
// identity nor any items are dropped.
func (a *Adapter) Normalize(body []byte) []project.ProjectData {
	var out []project.ProjectData
	for _, rec := range payload.Records(body) {
		var board mondayBoard
		if err := json.Unmarshal(rec, &board); err != nil {
			continue
		}
		if board.ID == "" && board.Name == "" && len(board.Items) == 0 {
			continue
		}
		out = append(out, a.normalizeOne(board))
	}
	return out
}

func (a *Adapter) normalizeOne(board mondayBoard) project.ProjectData {
	p := project.ProjectData{
		ID:          board.ID.String(),
		Name:        board.Name,
		Platform:    project.PlatformMonday,
		Status:      boardStatus(board.State),
		Description: board.Description,
		LastUpdated: time.Now(),
	}
	if p.Name == "" {
		p.Name = "Monday Board"
	}

	for _, item := range board.Items {
		task := project.Task{
			ID:          item.ID.String(),
			Name:        item.Name,
			Status:      columnText(item.ColumnValues, "status", "status", "color"),
			Assignee:    columnText(item.ColumnValues, "person", "people", "multiple-person"),
			Priority:    columnText(item.ColumnValues, "priority", "priority", ""),
			Created:     parseMondayTime(item.CreatedAt),
			Updated:     parseMondayTime(item.UpdatedAt),
			StoryPoints: columnNumber(item.ColumnValues, "numbers", "estimate"),
		}
		if task.Group == "" && item.Group != nil {
			task.Group = item.Group.Title
		}
		p.Tasks = append(p.Tasks, task)
	}

	for _, u := range board.Subscribers {
		role := u.Title
		if role == "" {
			role = "Contributor"
		}
		p.Team = append(p.Team, project.TeamMember{
			ID:    u.ID.String(),
			Name:  u.Name,
			Role:  role,
			Email: u.Email,
		})
	}

	p.Finalize(project.UnnamedItem)
	return p
}

// columnText finds a column value by id prefix, falling back to column type
// or title. Monday column ids are user-defined ("status", "status_1", ...),
// so prefix matching is the reliable lookup.
func columnText(cols []mondayColumnValue, idPrefix, colType, altType string) string {
	for _, c := range cols {
		if strings.HasPrefix(strings.ToLower(c.ID), idPrefix) && c.Text != "" {
			return c.Text
		}
	}
	for _, c := range cols {
		if (c.Type == colType || (altType != "" && c.Type == altType) ||
			strings.EqualFold(c.Title, idPrefix)) && c.Text != "" {
			return c.Text
		}
	}
	return ""
}

func columnNumber(cols []mondayColumnValue, idPrefix, title string) float64 {
	for _, c := range cols {
		if strings.HasPrefix(strings.ToLower(c.ID), idPrefix) || strings.EqualFold(c.Title, title) {
			if n, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64); err == nil {
				return n
			}
		}
	}
	return 0
}

func boardStatus(state string) string {
	switch strings.ToLower(state) {
	case "", "active":
		return "Active"
	case "archived":
		return "Archived"
	case "deleted":
		return "Deleted"
	default:
		return state
	}
}

var mondayTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseMondayTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range mondayTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
