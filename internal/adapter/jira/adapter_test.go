package jira

import (
	"testing"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

func TestNormalizeFlattenedIssue(t *testing.T) {
	body := `{"issues":[{"key":"X-1","summary":"Fix bug","status":{"name":"Done"},"assignee":{"displayName":"Ann"}}]}`

	a := &Adapter{}
	projects := a.Normalize([]byte(body))
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}

	tasks := projects[0].Tasks
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	want := project.Task{ID: "X-1", Name: "Fix bug", Status: "Done", Assignee: "Ann"}
	got := tasks[0]
	if got.ID != want.ID || got.Name != want.Name || got.Status != want.Status || got.Assignee != want.Assignee {
		t.Errorf("task = %+v, want %+v", got, want)
	}
	if projects[0].FallbackData {
		t.Error("FallbackData = true for live normalization")
	}
}

func TestNormalizeSearchNesting(t *testing.T) {
	body := `{"projects":[{
		"id": 10001,
		"key": "RPT",
		"name": "Reporting",
		"issues": [
			{"key":"RPT-1","fields":{"summary":"Build export","status":{"name":"In Progress"},
				"assignee":{"displayName":"Ben","emailAddress":"ben@example.com"},
				"priority":{"name":"High"},
				"created":"2026-02-01T09:30:00.000+0000","updated":"2026-02-03T10:00:00.000+0000",
				"customfield_10016": 5}},
			{"key":"RPT-2","fields":{"summary":"","status":{"name":"To Do"}}}
		]
	}]}`

	a := &Adapter{}
	projects := a.Normalize([]byte(body))
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	p := projects[0]

	if p.ID != "10001" || p.Name != "Reporting" {
		t.Errorf("identity = %q/%q, want 10001/Reporting", p.ID, p.Name)
	}
	if len(p.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(p.Tasks))
	}

	first := p.Tasks[0]
	if first.Priority != "High" || first.StoryPoints != 5 {
		t.Errorf("first task = %+v, want High priority, 5 points", first)
	}
	if first.Created == nil || first.Updated == nil {
		t.Error("timestamps not parsed")
	}

	if p.Tasks[1].Name != project.UnnamedIssue {
		t.Errorf("empty summary = %q, want placeholder %q", p.Tasks[1].Name, project.UnnamedIssue)
	}

	if len(p.Team) != 1 || p.Team[0].Name != "Ben" {
		t.Errorf("team = %+v, want single member Ben", p.Team)
	}
}

func TestNormalizeShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":"1","name":"A"},{"id":"2","name":"B"}]`, 2},
		{"project envelope", `{"project":{"id":"1","name":"A"}}`, 1},
		{"single object", `{"id":"1","name":"A"}`, 1},
		{"drops anonymous records", `[{"description":"nothing else"},{"id":"2","name":"B"}]`, 1},
		{"unknown shape", `"just a string"`, 0},
		{"empty", ``, 0},
	}

	a := &Adapter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Normalize([]byte(tt.body)); len(got) != tt.want {
				t.Errorf("Normalize() = %d projects, want %d", len(got), tt.want)
			}
		})
	}
}

func TestNormalizeNeverNilTasks(t *testing.T) {
	a := &Adapter{}
	projects := a.Normalize([]byte(`{"id":"1","name":"Empty"}`))
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if projects[0].Tasks == nil {
		t.Error("Tasks is nil after normalization")
	}
	if projects[0].Team == nil {
		t.Error("Team is nil after normalization")
	}
}
