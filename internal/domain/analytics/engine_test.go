package analytics

import (
	"testing"
	"time"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

func taskList(statuses ...string) []project.Task {
	tasks := make([]project.Task, 0, len(statuses))
	for i, s := range statuses {
		tasks = append(tasks, project.Task{ID: string(rune('a' + i)), Name: "Task", Status: s})
	}
	return tasks
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     int
	}{
		{"empty", nil, 0},
		{"half done", []string{"Done", "Done", "To Do", "Blocked"}, 50},
		{"case-insensitive synonyms", []string{"done", "RESOLVED", "Closed", "completed"}, 100},
		{"none done", []string{"To Do", "In Progress"}, 0},
		{"rounds", []string{"Done", "To Do", "To Do"}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := completionRate(taskList(tt.statuses...))
			if got != tt.want {
				t.Errorf("completionRate = %d, want %d", got, tt.want)
			}
		})
	}
}

// Mirrors the canonical half-done project: 2 of 4 complete, 1 blocked, and no
// sprint history so the timeline is assumed adequate.
func TestAnalyzeHalfDoneProject(t *testing.T) {
	p := project.ProjectData{
		ID:          "p1",
		Name:        "Demo",
		Platform:    project.PlatformJira,
		Tasks:       taskList("Done", "Done", "To Do", "Blocked"),
		LastUpdated: time.Now(),
	}

	m := Analyze(p)

	if m.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d, want 50", m.CompletionRate)
	}
	if m.BlockedItemsCount != 1 {
		t.Errorf("BlockedItemsCount = %d, want 1", m.BlockedItemsCount)
	}
	if m.RiskLevel != RiskLow {
		t.Errorf("RiskLevel = %q, want low", m.RiskLevel)
	}
}

func TestAnalyzeEmptyProjectClamped(t *testing.T) {
	m := Analyze(project.ProjectData{ID: "p1", Tasks: []project.Task{}, LastUpdated: time.Now()})

	if m.CompletionRate != 0 {
		t.Errorf("CompletionRate = %d, want 0", m.CompletionRate)
	}
	for name, v := range map[string]int{
		"TeamEfficiency":     m.TeamEfficiency,
		"QualityScore":       m.QualityScore,
		"TimelineAdherence":  m.TimelineAdherence,
		"CollaborationScore": m.CollaborationScore,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %d, want within [0,100]", name, v)
		}
	}
	if len(m.WorkloadDistribution) != 0 {
		t.Errorf("WorkloadDistribution = %v, want empty", m.WorkloadDistribution)
	}
	if len(m.BurndownTrend) != 0 {
		t.Errorf("BurndownTrend = %v, want empty", m.BurndownTrend)
	}
}

func TestWorkloadDistributionUnclamped(t *testing.T) {
	var tasks []project.Task
	for i := 0; i < 2; i++ {
		tasks = append(tasks, project.Task{Name: "t", Status: "To Do", Assignee: "A"})
	}
	for i := 0; i < 6; i++ {
		tasks = append(tasks, project.Task{Name: "t", Status: "To Do", Assignee: "B"})
	}
	tasks = append(tasks, project.Task{Name: "t", Status: "To Do", Assignee: "Unassigned"})

	entries := workloadDistribution(tasks)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (unassigned excluded)", len(entries))
	}
	if entries[0].Member != "A" || entries[0].Utilization != 50 {
		t.Errorf("A = %+v, want utilization 50", entries[0])
	}
	if entries[1].Member != "B" || entries[1].Utilization != 150 {
		t.Errorf("B = %+v, want utilization 150 (unclamped)", entries[1])
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		name      string
		blocked   int
		adherence int
		want      RiskLevel
	}{
		{"all clear", 0, 90, RiskLow},
		{"boundary blocked low", 2, 90, RiskLow},
		{"blocked medium", 3, 90, RiskMedium},
		{"blocked boundary medium", 5, 90, RiskMedium},
		{"blocked high", 6, 90, RiskHigh},
		{"adherence medium", 0, 79, RiskMedium},
		{"adherence boundary medium", 0, 60, RiskMedium},
		{"adherence high", 0, 59, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := riskLevel(tt.blocked, tt.adherence); got != tt.want {
				t.Errorf("riskLevel(%d, %d) = %q, want %q", tt.blocked, tt.adherence, got, tt.want)
			}
		})
	}
}

func TestVelocityTrend(t *testing.T) {
	sprint := func(completed string) project.Sprint {
		return project.Sprint{Name: "s", Completed: completed}
	}

	tests := []struct {
		name    string
		sprints []project.Sprint
		want    VelocityTrend
	}{
		{"no sprints", nil, VelocityStable},
		{"single sprint", []project.Sprint{sprint("80%")}, VelocityStable},
		{"increasing", []project.Sprint{sprint("60%"), sprint("85%")}, VelocityIncreasing},
		{"decreasing", []project.Sprint{sprint("85%"), sprint("60%")}, VelocityDecreasing},
		{"equal", []project.Sprint{sprint("70%"), sprint("70%")}, VelocityStable},
		{"uses last two only", []project.Sprint{sprint("90%"), sprint("50%"), sprint("75%")}, VelocityIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := velocityTrend(tt.sprints); got != tt.want {
				t.Errorf("velocityTrend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusDistributionPartitions100(t *testing.T) {
	tasks := taskList("Done", "To Do", "To Do", "In Progress", "In Progress", "In Progress")

	slices := statusDistribution(tasks)
	sum := 0
	for _, s := range slices {
		sum += s.Percentage
	}
	if sum != 100 {
		t.Errorf("percentages sum to %d, want 100 (%v)", sum, slices)
	}
	if slices[0].Status != "Done" {
		t.Errorf("first status = %q, want first-appearance order", slices[0].Status)
	}
}

func TestCriticalPathOrdering(t *testing.T) {
	day := func(n int) *time.Time {
		d := time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
		return &d
	}
	tasks := []project.Task{
		{Name: "newest", Status: "To Do", Priority: "High", Created: day(20)},
		{Name: "done high", Status: "Done", Priority: "High", Created: day(1)},
		{Name: "oldest", Status: "In Progress", Priority: "high", Created: day(2)},
		{Name: "low prio", Status: "To Do", Priority: "Low", Created: day(3)},
		{Name: "undated", Status: "To Do", Priority: "High"},
	}

	got := criticalPath(tasks)
	want := []string{"oldest", "newest", "undated"}
	if len(got) != len(want) {
		t.Fatalf("criticalPath = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("criticalPath[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBurndownTrendShape(t *testing.T) {
	p := project.ProjectData{
		Tasks:       taskList("Done", "Done", "To Do", "To Do"),
		LastUpdated: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	points := burndownTrend(p)
	if len(points) != burndownPoints {
		t.Fatalf("got %d points, want %d", len(points), burndownPoints)
	}
	if points[0].Remaining != 4 || points[0].Ideal != 4 {
		t.Errorf("first point = %+v, want remaining=ideal=total", points[0])
	}
	last := points[len(points)-1]
	if last.Remaining != 2 {
		t.Errorf("last remaining = %d, want open task count 2", last.Remaining)
	}
	if last.Ideal != 0 {
		t.Errorf("last ideal = %d, want 0", last.Ideal)
	}
	if points[0].Date != "2026-03-04" || last.Date != "2026-03-10" {
		t.Errorf("date range = %s..%s, want 2026-03-04..2026-03-10", points[0].Date, last.Date)
	}
}

func TestRecommendedActions(t *testing.T) {
	t.Run("healthy project maintains strategy", func(t *testing.T) {
		m := Metrics{
			RiskLevel:      RiskLow,
			TeamEfficiency: 85,
			QualityScore:   90,
			VelocityTrend:  VelocityStable,
		}
		got := recommendedActions(m)
		if len(got) != 1 || got[0] != "Maintain current project strategy" {
			t.Errorf("actions = %v, want single maintain message", got)
		}
	})

	t.Run("each breach contributes in order", func(t *testing.T) {
		m := Metrics{
			RiskLevel:      RiskHigh,
			TeamEfficiency: 40,
			QualityScore:   50,
			VelocityTrend:  VelocityDecreasing,
			WorkloadDistribution: []WorkloadEntry{
				{Member: "B", TaskCount: 6, Utilization: 150},
			},
		}
		got := recommendedActions(m)
		if len(got) != 5 {
			t.Fatalf("got %d actions, want 5: %v", len(got), got)
		}
	})
}

func TestQualityScoreFullyPopulated(t *testing.T) {
	now := time.Now()
	recent := now.Add(-24 * time.Hour)
	p := project.ProjectData{
		LastUpdated: now,
		Tasks: []project.Task{
			{Name: "Build export", Status: "Done", Assignee: "Ann", Priority: "High",
				Created: &recent, Updated: &recent, StoryPoints: 5},
			{Name: "Review deck", Status: "In Progress", Assignee: "Ben", Priority: "Medium",
				Created: &recent, Updated: &recent, Group: "Reporting"},
		},
	}

	got := qualityScore(p)
	if got != 100 {
		t.Errorf("qualityScore = %d, want 100 for fully populated tasks", got)
	}
}

func TestQualityScoreSparseTasks(t *testing.T) {
	p := project.ProjectData{
		LastUpdated: time.Now(),
		Tasks:       taskList("To Do", "To Do"),
	}

	got := qualityScore(p)
	if got < 0 || got > 100 {
		t.Fatalf("qualityScore = %d, out of range", got)
	}
	if got >= 80 {
		t.Errorf("qualityScore = %d, want below threshold for sparse tasks", got)
	}
}
