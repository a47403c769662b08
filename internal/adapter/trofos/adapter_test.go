package trofos

import (
	"testing"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

const projectPayload = `{"project":{
	"id": 312,
	"pname": "CS3203 Capstone",
	"description": "Team 14 project",
	"backlogs": [
		{"backlog_id": 1, "summary": "Build parser", "status": "In progress", "priority": "high",
		 "points": 8, "sprint_id": 3,
		 "assignee": {"user": {"user_id": 55, "user_display_name": "Wei Lin"}}},
		{"backlog_id": 2, "summary": "", "status": "To do", "type": "story"}
	],
	"sprints": [
		{"name": "Sprint 2", "start_date": "2026-01-12", "end_date": "2026-01-25", "status": "completed"},
		{"name": "Sprint 3", "start_date": "2026-01-26", "end_date": "2026-02-08", "status": "current", "completed": "40%"}
	],
	"users": [
		{"user": {"user_id": 55, "user_display_name": "Wei Lin", "user_email": "wei@u.example.edu"}, "role": "Scrum Master"},
		{"user": null}
	]
}}`

func TestNormalizeProject(t *testing.T) {
	a := &Adapter{}
	projects := a.Normalize([]byte(projectPayload))
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	p := projects[0]

	if p.ID != "312" || p.Name != "CS3203 Capstone" {
		t.Errorf("identity = %q/%q", p.ID, p.Name)
	}
	if p.Platform != project.PlatformTrofos {
		t.Errorf("platform = %q, want trofos", p.Platform)
	}

	if len(p.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(p.Tasks))
	}
	first := p.Tasks[0]
	if first.Status != "In progress" {
		t.Errorf("status = %q, want verbatim %q", first.Status, "In progress")
	}
	if first.Priority != "High" {
		t.Errorf("priority = %q, want High", first.Priority)
	}
	if first.Assignee != "Wei Lin" || first.StoryPoints != 8 {
		t.Errorf("task = %+v", first)
	}
	if first.Group != "Sprint 3" {
		t.Errorf("group = %q, want Sprint 3", first.Group)
	}
	if p.Tasks[1].Name != project.UnnamedItem {
		t.Errorf("unnamed backlog = %q, want placeholder", p.Tasks[1].Name)
	}

	if len(p.Team) != 1 {
		t.Fatalf("team = %+v, want the one resolvable member", p.Team)
	}

	if len(p.Sprints) != 2 {
		t.Fatalf("got %d sprints, want 2", len(p.Sprints))
	}
	if p.Sprints[0].Completed != "100%" {
		t.Errorf("completed sprint = %q, want derived 100%%", p.Sprints[0].Completed)
	}
	if p.Sprints[1].Completed != "40%" {
		t.Errorf("current sprint = %q, want upstream 40%%", p.Sprints[1].Completed)
	}
}

func TestNormalizeDropsAnonymousRecords(t *testing.T) {
	a := &Adapter{}
	got := a.Normalize([]byte(`[{"description":"orphan"},{"id":1,"pname":"Kept"}]`))
	if len(got) != 1 || got[0].Name != "Kept" {
		t.Errorf("Normalize() = %+v, want only the identified project", got)
	}
}
