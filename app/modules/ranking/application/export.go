package rankingservice

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const exportPageSize = 500

// ExportLeaderboard renders the full global leaderboard (optionally stream
// filtered) as an XLSX workbook.
func (s *Service) ExportLeaderboard(ctx context.Context, stream string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leaderboard"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Rank", "Full Name", "Score", "Stream"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for page := 1; ; page++ {
		result, err := s.GetLeaderboard(ctx, LeaderboardQuery{
			Page:   page,
			Limit:  exportPageSize,
			Stream: stream,
		})
		if err != nil {
			return nil, err
		}

		for _, entry := range result.Leaderboard {
			values := []any{entry.Rank, entry.FullName, entry.Score, entry.Stream}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("failed to write row %s: %w", strconv.Itoa(row), err)
				}
			}
			row++
		}

		if page >= result.TotalPages || len(result.Leaderboard) == 0 {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
