package chart

import (
	"fmt"
	"sort"
	"strings"

	"chartAnalystBot/internal/storage"

	"github.com/vicanso/go-charts/v2"
)

// MakeUsageChart draws the command-category distribution as a pie chart.
func MakeUsageChart(stats map[string]*storage.UsageStats, days int) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no usage data available")
	}
	categories := sortedCategories(stats)
	total := 0
	values := make([]float64, 0, len(categories))
	for _, c := range categories {
		values = append(values, float64(stats[c].Count))
		total += stats[c].Count
	}
	labels := make([]string, 0, len(categories))
	for i, c := range categories {
		labels = append(labels, fmt.Sprintf("%s (%.1f%%)", formatCategoryName(c), values[i]/float64(total)*100))
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Command Usage Distribution (%d days)", days)),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// FormatUsageText summarizes usage per category with its top commands.
func FormatUsageText(stats map[string]*storage.UsageStats, days int) string {
	if len(stats) == 0 {
		return "No usage data available for the specified period."
	}
	categories := sortedCategories(stats)
	total := 0
	for _, c := range categories {
		total += stats[c].Count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Usage (%d days)\n\nTotal commands: %d\n\n", days, total)
	for _, c := range categories {
		st := stats[c]
		fmt.Fprintf(&b, "%s (%d commands, %.1f%%)\n", formatCategoryName(c), st.Count, float64(st.Count)/float64(total)*100)

		type cmdCount struct {
			cmd   string
			count int
		}
		cmds := make([]cmdCount, 0, len(st.Commands))
		for cmd, n := range st.Commands {
			cmds = append(cmds, cmdCount{cmd, n})
		}
		sort.Slice(cmds, func(i, j int) bool {
			if cmds[i].count != cmds[j].count {
				return cmds[i].count > cmds[j].count
			}
			return cmds[i].cmd < cmds[j].cmd
		})
		for i, cc := range cmds {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "  • %s: %d\n", cc.cmd, cc.count)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedCategories(stats map[string]*storage.UsageStats) []string {
	out := make([]string, 0, len(stats))
	for c := range stats {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func formatCategoryName(category string) string {
	switch category {
	case storage.CategoryData:
		return "Price Data"
	case storage.CategoryIndicators:
		return "Indicators"
	case storage.CategoryCharts:
		return "Charts"
	case storage.CategoryAnalysis:
		return "AI Analysis"
	default:
		return category
	}
}
