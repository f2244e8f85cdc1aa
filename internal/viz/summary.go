package viz

import (
	"fmt"
	"sort"
	"strings"
)

// RenderSummary formats a post-solve report card from the backend
// diagnostics.
func RenderSummary(problem, scheme, backend string, stats map[string]any) string {
	var b strings.Builder

	status, _ := stats["status"].(string)
	success, _ := stats["success"].(bool)

	statusStyle := StatusFailed
	if success {
		statusStyle = StatusSolved
	}

	b.WriteString(Title.Render(problem))
	b.WriteString(Subtle.Render(fmt.Sprintf("  %s / %s", scheme, backend)))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n\n")

	keys := make([]string, 0, len(stats))
	for k := range stats {
		switch k {
		case "status", "success", "backend":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		label := MetricLabel.Render(fmt.Sprintf("%-22s", k))
		var value string
		switch v := stats[k].(type) {
		case float64:
			value = fmt.Sprintf("%.6g", v)
		default:
			value = fmt.Sprintf("%v", v)
		}
		b.WriteString(label)
		b.WriteString(MetricValue.Render(value))
		b.WriteString("\n")
	}

	return Panel.Render(b.String())
}
