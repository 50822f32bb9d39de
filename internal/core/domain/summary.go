package domain

// WeeklySummary aggregates the active days of a schedule. Rest days do not
// count towards any figure.
type WeeklySummary struct {
	ActiveDays          int     `json:"active_days"`
	TotalFastingHours   float64 `json:"total_fasting_hours"`
	AverageFastingHours float64 `json:"average_fasting_hours"`
	LongestFastHours    float64 `json:"longest_fast_hours"`
	ShortestFastHours   float64 `json:"shortest_fast_hours"`
}

func Summarize(s WeeklySchedule) WeeklySummary {
	var sum WeeklySummary

	for _, day := range s {
		if !day.Active {
			continue
		}

		if sum.ActiveDays == 0 || day.FastingHours > sum.LongestFastHours {
			sum.LongestFastHours = day.FastingHours
		}
		if sum.ActiveDays == 0 || day.FastingHours < sum.ShortestFastHours {
			sum.ShortestFastHours = day.FastingHours
		}

		sum.ActiveDays++
		sum.TotalFastingHours += day.FastingHours
	}

	if sum.ActiveDays > 0 {
		sum.AverageFastingHours = sum.TotalFastingHours / float64(sum.ActiveDays)
	}

	return sum
}
