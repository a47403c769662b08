package analytics

// recommendedActions evaluates a fixed sequence of threshold checks and emits
// one human-readable action per breach. The order is contractual: report
// templates render actions in the order produced here.
func recommendedActions(m Metrics) []string {
	var actions []string

	if m.RiskLevel == RiskHigh {
		actions = append(actions, "Implement risk mitigation plan for blocked and overdue items")
	}
	if m.TeamEfficiency < efficiencyThreshold {
		actions = append(actions, "Optimize team workflows to improve delivery efficiency")
	}
	for _, w := range m.WorkloadDistribution {
		if w.Utilization > overutilizedPercent {
			actions = append(actions, "Rebalance workload away from overutilized team members")
			break
		}
	}
	if m.QualityScore < qualityThreshold {
		actions = append(actions, "Strengthen quality assurance and review processes")
	}
	if m.VelocityTrend == VelocityDecreasing {
		actions = append(actions, "Investigate causes of declining sprint velocity")
	}

	if len(actions) == 0 {
		actions = append(actions, "Maintain current project strategy")
	}
	return actions
}
