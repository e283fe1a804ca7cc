package squadservice

import (
	"bytes"
	"context"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

// historyLimit caps the number of snapshots plotted.
const historyLimit = 500

var (
	chartBackground = drawing.ColorFromHex("0f1a14")
	chartTotalLine  = drawing.ColorFromHex("4caf7a")
	chartBankedLine = drawing.ColorFromHex("d4a537")
	chartText       = drawing.ColorFromHex("e8efe9")
)

// GetSquadHistoryChart renders the squad's total and banked points over time.
func (s *SquadService) GetSquadHistoryChart(ctx context.Context, squadID string) (ChartOperationResult, error) {
	return withTelemetry(s, ctx, "GetSquadHistoryChart", squadID, func(ctx context.Context) (ChartOperationResult, error) {
		if _, _, err := s.loadSquad(ctx, nil, squadID); err != nil {
			return failOrError[[]byte](err)
		}
		history, err := s.repo.ListTotalSnapshots(ctx, nil, squadID, historyLimit)
		if err != nil {
			return ChartOperationResult{}, err
		}
		png, err := RenderTotalHistoryChart(history)
		if err != nil {
			return ChartOperationResult{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
}

// RenderTotalHistoryChart produces a PNG line chart of snapshots, which must
// be ordered oldest first.
func RenderTotalHistoryChart(history []squaddb.SquadTotalSnapshot) ([]byte, error) {
	if len(history) == 0 {
		return renderNoHistory()
	}
	if len(history) == 1 {
		// A line needs two points.
		only := history[0]
		only.RecordedAt = only.RecordedAt.Add(-time.Minute)
		history = append([]squaddb.SquadTotalSnapshot{only}, history...)
	}

	xValues := make([]time.Time, len(history))
	totals := make([]float64, len(history))
	banked := make([]float64, len(history))
	for i, snap := range history {
		xValues[i] = snap.RecordedAt
		totals[i] = snap.Total
		banked[i] = snap.BankedPoints
	}

	textStyle := chart.Style{FontColor: chartText}
	graph := chart.Chart{
		Width:      800,
		Height:     400,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style:          textStyle,
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: textStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Total",
				XValues: xValues,
				YValues: totals,
				Style:   chart.Style{StrokeColor: chartTotalLine, StrokeWidth: 2, DotWidth: 3, DotColor: chartTotalLine},
			},
			chart.TimeSeries{
				Name:    "Banked",
				XValues: xValues,
				YValues: banked,
				Style:   chart.Style{StrokeColor: chartBankedLine, StrokeWidth: 1, StrokeDashArray: []float64{4, 2}},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoHistory() ([]byte, error) {
	const msg = "No squad history yet"

	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
