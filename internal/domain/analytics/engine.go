package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

// Statuses treated as completed, matched case-insensitively. These remain the
// only semantic grouping applied to platform-native status strings.
var completedSynonyms = map[string]bool{
	"done":      true,
	"completed": true,
	"closed":    true,
	"resolved":  true,
}

// Statuses treated as blocked, matched case-insensitively. Covers the Jira and
// Monday vocabularies ("Blocked", "Stuck", "On Hold").
var blockedSynonyms = map[string]bool{
	"blocked": true,
	"stuck":   true,
	"on hold": true,
}

var inProgressSynonyms = map[string]bool{
	"in progress":   true,
	"working on it": true,
	"doing":         true,
	"started":       true,
	"active":        true,
}

// Threshold constants preserved verbatim from the report templates that depend
// on them. Candidates for configuration if requirements evolve.
const (
	riskBlockedHigh      = 5
	riskBlockedMedium    = 2
	riskAdherenceHigh    = 60
	riskAdherenceMedium  = 80
	overutilizedPercent  = 120
	underutilizedPercent = 60
	efficiencyThreshold  = 70
	qualityThreshold     = 80

	// Tasks untouched for this long count as overdue, relative to the
	// snapshot's normalization time.
	overdueAfter = 14 * 24 * time.Hour

	unassignedName = "unassigned"
)

// Quality sub-dimension weights (task completeness, documentation quality,
// process adherence, deliverable standards).
const (
	weightCompleteness  = 25
	weightDocumentation = 20
	weightProcess       = 25
	weightDeliverable   = 30
)

// Analyze derives the full metrics set from a project snapshot.
func Analyze(p project.ProjectData) Metrics {
	m := Metrics{
		CompletionRate:    completionRate(p.Tasks),
		BlockedItemsCount: countStatus(p.Tasks, blockedSynonyms),
		OverdueTasks:      overdueTasks(p),
	}

	m.TimelineAdherence = timelineAdherence(p, m.CompletionRate, m.OverdueTasks)
	m.TeamEfficiency = teamEfficiency(p.Tasks, m.CompletionRate, m.BlockedItemsCount)
	m.QualityScore = qualityScore(p)
	m.WorkloadDistribution = workloadDistribution(p.Tasks)
	m.CollaborationScore = collaborationScore(p.Tasks, m.WorkloadDistribution)
	m.RiskLevel = riskLevel(m.BlockedItemsCount, m.TimelineAdherence)
	m.VelocityTrend = velocityTrend(p.Sprints)
	m.StatusDistribution = statusDistribution(p.Tasks)
	m.CriticalPath = criticalPath(p.Tasks)
	m.BurndownTrend = burndownTrend(p)
	m.RecommendedActions = recommendedActions(m)

	return m
}

// IsCompleted reports whether a platform-native status string counts as done.
func IsCompleted(status string) bool {
	return completedSynonyms[strings.ToLower(strings.TrimSpace(status))]
}

// IsBlocked reports whether a platform-native status string counts as blocked.
func IsBlocked(status string) bool {
	return blockedSynonyms[strings.ToLower(strings.TrimSpace(status))]
}

func completionRate(tasks []project.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := countStatus(tasks, completedSynonyms)
	return roundPercent(done, len(tasks))
}

func countStatus(tasks []project.Task, synonyms map[string]bool) int {
	n := 0
	for _, t := range tasks {
		if synonyms[strings.ToLower(strings.TrimSpace(t.Status))] {
			n++
		}
	}
	return n
}

// overdueTasks counts open tasks whose last update is stale relative to the
// snapshot's normalization time. Tasks without an update timestamp are not
// counted; staleness cannot be established for them.
func overdueTasks(p project.ProjectData) int {
	n := 0
	for _, t := range p.Tasks {
		if IsCompleted(t.Status) || t.Updated == nil {
			continue
		}
		if p.LastUpdated.Sub(*t.Updated) > overdueAfter {
			n++
		}
	}
	return n
}

// timelineAdherence averages sprint completion when sprint history exists.
// Without sprints the timeline is assumed adequate: a baseline of 85 nudged
// up by completion and down by overdue work.
func timelineAdherence(p project.ProjectData, completion, overdue int) int {
	if len(p.Sprints) > 0 {
		sum := 0
		for _, s := range p.Sprints {
			sum += parsePercent(s.Completed)
		}
		return clampPercent(int(math.Round(float64(sum) / float64(len(p.Sprints)))))
	}
	return clampPercent(85 + completion/10 - 5*overdue)
}

// teamEfficiency scores throughput: completion plus credit for work in flight,
// penalized per blocked item.
func teamEfficiency(tasks []project.Task, completion, blocked int) int {
	if len(tasks) == 0 {
		return 0
	}
	inProgress := countStatus(tasks, inProgressSynonyms)
	inProgressShare := roundPercent(inProgress, len(tasks))
	return clampPercent(completion + inProgressShare/2 - 10*blocked)
}

// workloadDistribution groups tasks by assignee in first-appearance order,
// excluding unassigned work. Utilization is relative to the average task count
// across members and deliberately unclamped.
func workloadDistribution(tasks []project.Task) []WorkloadEntry {
	counts := make(map[string]int)
	var order []string
	for _, t := range tasks {
		name := strings.TrimSpace(t.Assignee)
		if name == "" || strings.ToLower(name) == unassignedName {
			continue
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}
	if len(order) == 0 {
		return []WorkloadEntry{}
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	avg := float64(total) / float64(len(order))

	entries := make([]WorkloadEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, WorkloadEntry{
			Member:      name,
			TaskCount:   counts[name],
			Utilization: int(math.Round(100 * float64(counts[name]) / avg)),
		})
	}
	return entries
}

// collaborationScore reflects how much of the work is owned and how evenly it
// is spread across the team.
func collaborationScore(tasks []project.Task, workload []WorkloadEntry) int {
	if len(tasks) == 0 {
		return 0
	}
	assigned := 0
	for _, t := range tasks {
		name := strings.TrimSpace(t.Assignee)
		if name != "" && strings.ToLower(name) != unassignedName {
			assigned++
		}
	}
	score := roundPercent(assigned, len(tasks))
	for _, w := range workload {
		if w.Utilization > overutilizedPercent+30 {
			score -= 10
			break
		}
	}
	if len(workload) > 1 {
		score += 5
	}
	return clampPercent(score)
}

// riskLevel is monotonic in blocked count and inversely in timeline adherence.
func riskLevel(blocked, adherence int) RiskLevel {
	if blocked > riskBlockedHigh || adherence < riskAdherenceHigh {
		return RiskHigh
	}
	if blocked > riskBlockedMedium || adherence < riskAdherenceMedium {
		return RiskMedium
	}
	return RiskLow
}

// velocityTrend compares the two most recent sprints' completion percentages.
func velocityTrend(sprints []project.Sprint) VelocityTrend {
	if len(sprints) < 2 {
		return VelocityStable
	}
	latest := parsePercent(sprints[len(sprints)-1].Completed)
	prior := parsePercent(sprints[len(sprints)-2].Completed)
	switch {
	case latest > prior:
		return VelocityIncreasing
	case latest < prior:
		return VelocityDecreasing
	default:
		return VelocityStable
	}
}

// statusDistribution partitions 100% across distinct statuses in
// first-appearance order. Rounding drift is absorbed by the largest slice.
func statusDistribution(tasks []project.Task) []StatusSlice {
	if len(tasks) == 0 {
		return []StatusSlice{}
	}
	counts := make(map[string]int)
	var order []string
	for _, t := range tasks {
		status := t.Status
		if status == "" {
			status = "Unknown"
		}
		if _, seen := counts[status]; !seen {
			order = append(order, status)
		}
		counts[status]++
	}

	slices := make([]StatusSlice, 0, len(order))
	sum, largest := 0, 0
	for i, status := range order {
		pct := roundPercent(counts[status], len(tasks))
		slices = append(slices, StatusSlice{Status: status, Percentage: pct})
		sum += pct
		if counts[status] > counts[order[largest]] {
			largest = i
		}
	}
	slices[largest].Percentage += 100 - sum
	return slices
}

// criticalPath lists unresolved high-priority task names, oldest first.
// Tasks without a creation date sort last, keeping their relative order.
func criticalPath(tasks []project.Task) []string {
	var critical []project.Task
	for _, t := range tasks {
		if strings.EqualFold(strings.TrimSpace(t.Priority), "high") && !IsCompleted(t.Status) {
			critical = append(critical, t)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		switch {
		case critical[i].Created == nil:
			return false
		case critical[j].Created == nil:
			return true
		default:
			return critical[i].Created.Before(*critical[j].Created)
		}
	})

	names := make([]string, 0, len(critical))
	for _, t := range critical {
		names = append(names, t.Name)
	}
	return names
}

func parsePercent(s string) int {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return clampPercent(n)
}

func roundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func clampPercent(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
