package rankingservice

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	rankingdomain "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/domain"
)

// RenderScoreDistribution produces a PNG bar chart of how many participants
// hold each best score on the quiz.
func (s *Service) RenderScoreDistribution(ctx context.Context, quizID string) ([]byte, error) {
	best, err := s.attempts.BestByQuiz(ctx, s.db, quizID, nil)
	if err != nil {
		return nil, err
	}
	if len(best) == 0 {
		return nil, ErrNoAttempts
	}

	return renderDistribution(best)
}

func renderDistribution(best []rankingdomain.BestAttempt) ([]byte, error) {
	counts := make(map[int]int)
	for _, b := range best {
		counts[b.BestScore]++
	}

	scores := make([]int, 0, len(counts))
	for score := range counts {
		scores = append(scores, score)
	}
	sort.Ints(scores)

	bars := make([]chart.Value, len(scores))
	for i, score := range scores {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%d", score),
			Value: float64(counts[score]),
		}
	}

	graph := chart.BarChart{
		Title:    "Best score distribution",
		Width:    800,
		Height:   400,
		BarWidth: 40,
		XAxis: chart.Style{
			TextRotationDegrees: 0,
		},
		YAxis: chart.YAxis{
			Name: "Participants",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render distribution chart: %w", err)
	}
	return buf.Bytes(), nil
}
