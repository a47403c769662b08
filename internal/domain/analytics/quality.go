package analytics

import (
	"math"
	"strings"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

// qualityScore is a weighted average of four sub-dimensions, each a percentage
// computed from task field population and recency of updates. Weights are
// fixed at 25/20/25/30.
func qualityScore(p project.ProjectData) int {
	if len(p.Tasks) == 0 {
		return 0
	}
	weighted := weightCompleteness*taskCompleteness(p.Tasks) +
		weightDocumentation*documentationQuality(p.Tasks) +
		weightProcess*processAdherence(p.Tasks) +
		weightDeliverable*deliverableStandards(p)
	return clampPercent(int(math.Round(float64(weighted) / 100)))
}

// taskCompleteness measures population of the core task fields: name (beyond
// the adapter placeholder), status, assignee, and priority.
func taskCompleteness(tasks []project.Task) int {
	populated, possible := 0, 0
	for _, t := range tasks {
		possible += 4
		if t.Name != "" && t.Name != project.UnnamedIssue && t.Name != project.UnnamedItem {
			populated++
		}
		if t.Status != "" {
			populated++
		}
		if strings.TrimSpace(t.Assignee) != "" {
			populated++
		}
		if t.Priority != "" {
			populated++
		}
	}
	return roundPercent(populated, possible)
}

// documentationQuality measures whether tasks carry planning annotations:
// a story-point estimate or a group/epic assignment.
func documentationQuality(tasks []project.Task) int {
	annotated := 0
	for _, t := range tasks {
		if t.StoryPoints > 0 || t.Group != "" {
			annotated++
		}
	}
	return roundPercent(annotated, len(tasks))
}

// processAdherence measures whether tasks carry full lifecycle timestamps.
func processAdherence(tasks []project.Task) int {
	stamped := 0
	for _, t := range tasks {
		if t.Created != nil && t.Updated != nil {
			stamped++
		}
	}
	return roundPercent(stamped, len(tasks))
}

// deliverableStandards blends completion with recency: a task updated inside
// the overdue window counts as actively maintained.
func deliverableStandards(p project.ProjectData) int {
	fresh := 0
	for _, t := range p.Tasks {
		if IsCompleted(t.Status) {
			fresh++
			continue
		}
		if t.Updated != nil && p.LastUpdated.Sub(*t.Updated) <= overdueAfter {
			fresh++
		}
	}
	return roundPercent(fresh, len(p.Tasks))
}
