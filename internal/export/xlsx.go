package export

import (
	"fmt"

	"majestic-dominion/internal/league"

	"github.com/xuri/excelize/v2"
)

const RankingsSheet = "Rankings"

var rankingsHeader = []any{"Rank", "Kingdom", "Tag", "Points", "Wins", "Draws", "Losses", "Matches", "Win rate %"}

// RankingsXLSX renders the leaderboard as a single-sheet workbook.
func RankingsXLSX(entries []league.RankingEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), RankingsSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(RankingsSheet, "A1", &rankingsHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(rankingsHeader), 1)
	if err := f.SetCellStyle(RankingsSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range entries {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{e.Rank, e.Name, e.Tag, e.Points, e.Wins, e.Draws, e.Losses, e.TotalMatches, e.WinRate}
		if err := f.SetSheetRow(RankingsSheet, axis, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(RankingsSheet, "B", "B", 24); err != nil {
		return nil, err
	}
	if err := f.SetPanes(RankingsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
