package monday

import (
	"testing"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

const boardPayload = `{"projects":[{
	"id": 4412077,
	"name": "Launch Plan",
	"state": "active",
	"items": [
		{"id": 1, "name": "Design landing page", "created_at": "2026-02-10T08:00:00Z",
		 "group": {"title": "This Week"},
		 "column_values": [
			{"id": "status", "type": "status", "text": "Working on it"},
			{"id": "person", "type": "people", "text": "Maya Goldberg"},
			{"id": "priority_1", "type": "status", "text": "High"},
			{"id": "numbers_0", "type": "numbers", "text": "3"}
		 ]},
		{"id": 2, "name": "", "column_values": [
			{"id": "status", "type": "status", "text": "Stuck"}
		 ]}
	],
	"subscribers": [
		{"id": 9, "name": "Maya Goldberg", "email": "maya@example.com", "title": "Designer"}
	]
}]}`

func TestNormalizeBoard(t *testing.T) {
	a := &Adapter{}
	projects := a.Normalize([]byte(boardPayload))
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	p := projects[0]

	if p.ID != "4412077" || p.Name != "Launch Plan" || p.Status != "Active" {
		t.Errorf("board identity = %q/%q/%q", p.ID, p.Name, p.Status)
	}
	if p.Platform != project.PlatformMonday {
		t.Errorf("platform = %q, want monday", p.Platform)
	}

	if len(p.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(p.Tasks))
	}
	first := p.Tasks[0]
	if first.Status != "Working on it" {
		t.Errorf("status = %q, want platform-native %q", first.Status, "Working on it")
	}
	if first.Assignee != "Maya Goldberg" {
		t.Errorf("assignee = %q, want Maya Goldberg", first.Assignee)
	}
	if first.Priority != "High" {
		t.Errorf("priority = %q, want High", first.Priority)
	}
	if first.StoryPoints != 3 {
		t.Errorf("story points = %v, want 3", first.StoryPoints)
	}
	if first.Group != "This Week" {
		t.Errorf("group = %q, want This Week", first.Group)
	}

	if p.Tasks[1].Name != project.UnnamedItem {
		t.Errorf("unnamed item = %q, want placeholder %q", p.Tasks[1].Name, project.UnnamedItem)
	}

	if len(p.Team) != 1 || p.Team[0].Role != "Designer" {
		t.Errorf("team = %+v, want single Designer", p.Team)
	}
}

func TestNormalizeDropsEmptyBoards(t *testing.T) {
	a := &Adapter{}
	got := a.Normalize([]byte(`[{"state":"active"},{"id":7,"name":"Kept"}]`))
	if len(got) != 1 || got[0].Name != "Kept" {
		t.Errorf("Normalize() = %+v, want only the identified board", got)
	}
}

func TestNormalizeUnknownShape(t *testing.T) {
	a := &Adapter{}
	if got := a.Normalize([]byte(`[1,2,3]`)); len(got) != 0 {
		t.Errorf("Normalize() = %d projects, want 0 for unknown shape", len(got))
	}
}
