package analytics

import (
	"math"
	"time"

	"github.com/briefdeck/briefdeck/internal/domain/project"
)

const burndownPoints = 7

// burndownTrend synthesizes a burndown series from the single snapshot, since
// no time-series history is persisted. The series spans the last seven days up
// to the normalization time: ideal decreases linearly from the total task
// count to zero, remaining interpolates from the total down to the currently
// open count.
func burndownTrend(p project.ProjectData) []BurndownPoint {
	total := len(p.Tasks)
	if total == 0 {
		return []BurndownPoint{}
	}
	open := 0
	for _, t := range p.Tasks {
		if !IsCompleted(t.Status) {
			open++
		}
	}

	end := p.LastUpdated
	if end.IsZero() {
		end = time.Now()
	}
	start := end.AddDate(0, 0, -(burndownPoints - 1))

	points := make([]BurndownPoint, 0, burndownPoints)
	for i := 0; i < burndownPoints; i++ {
		frac := float64(i) / float64(burndownPoints-1)
		points = append(points, BurndownPoint{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			Remaining: int(math.Round(float64(total) - frac*float64(total-open))),
			Ideal:     int(math.Round(float64(total) * (1 - frac))),
		})
	}
	return points
}
