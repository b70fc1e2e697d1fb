package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// renderAnalysis draws the current game's evaluation trail and the AI's
// search effort per move as an HTML page.
func renderAnalysis(w io.Writer, history []HistoryEntry, aiColor string) error {
	moves := make([]string, 0, len(history))
	scores := make([]opts.LineData, 0, len(history))
	nodes := make([]opts.BarData, 0, len(history))
	for i, entry := range history {
		moves = append(moves, fmt.Sprintf("%d %s", i+1, entry.Move))
		scores = append(scores, opts.LineData{Value: entry.Score})
		nodes = append(nodes, opts.BarData{Value: entry.Nodes})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Evaluation per move",
			Subtitle: "static score after each move, " + aiColor + " perspective",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	line.SetXAxis(moves).AddSeries("evaluation", scores)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Search nodes per AI move",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	bar.SetXAxis(moves).AddSeries("nodes", nodes)

	page := components.NewPage()
	page.AddCharts(line, bar)
	return page.Render(w)
}
