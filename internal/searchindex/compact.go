package searchindex

import "fmt"

// CompactLine renders one fixed-width result line: "[type] id | title(≤40)
// | project | date | score" (spec.md §4.8 "Compact output"), used by
// auto-injection to maximize items per byte budget.
func CompactLine(r Result) string {
	title := r.Content
	if len(title) > 40 {
		title = title[:37] + "..."
	}
	date := ""
	if !r.Timestamp.IsZero() {
		date = r.Timestamp.Format("2006-01-02")
	}
	return fmt.Sprintf("[%s] %s | %-40s | %s | %s | %.2f", r.Type, r.ID, title, r.Project, date, r.Score)
}
