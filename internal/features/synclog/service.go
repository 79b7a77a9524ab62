package synclog

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type SyncLogService interface {
	List(ctx context.Context) ([]SyncLog, error)
	ExportExcel(ctx context.Context) ([]byte, string, error)
}

type SyncLogServiceImpl struct {
	Repo SyncLogRepository
}

func NewSyncLogService(repo SyncLogRepository) SyncLogService {
	return &SyncLogServiceImpl{Repo: repo}
}

func (s *SyncLogServiceImpl) List(ctx context.Context) ([]SyncLog, error) {
	return s.Repo.List(ctx)
}

// ExportExcel renders the full audit trail as an xlsx workbook.
func (s *SyncLogServiceImpl) ExportExcel(ctx context.Context) ([]byte, string, error) {
	logs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Synchronizations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	columns := []string{"ID", "Sync Date", "Table", "Records Synced", "Direction"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, l := range logs {
		values := []interface{}{l.ID, l.SyncDate.Format("2006-01-02 15:04:05"), l.TableName, l.RecordsSynced, l.SyncType}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("sync_logs_%d.xlsx", len(logs))
	return buf.Bytes(), filename, nil
}
