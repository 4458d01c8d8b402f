// Package export renders exams as spreadsheets.
package export

import (
	"fmt"

	"github.com/sgp/sgp-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	examSheet      = "Prova"
	questionsSheet = "Questoes"
)

// ContentType is the media type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExamWorkbook builds a workbook with one sheet describing the exam and one
// listing its questions in order. The caller must Close the file.
func ExamWorkbook(exam *model.Exam) (*excelize.File, error) {
	f := excelize.NewFile()

	// NewFile starts with "Sheet1"; rename it instead of leaving it empty.
	if err := f.SetSheetName("Sheet1", examSheet); err != nil {
		f.Close()
		return nil, err
	}

	var id interface{}
	if exam.ID != nil {
		id = *exam.ID
	}
	var percentage interface{}
	if exam.ApprovalPercentage != nil {
		percentage = *exam.ApprovalPercentage
	}

	examRows := [][]interface{}{
		{"ID", id},
		{"Título", exam.Title},
		{"Percentual de Aprovação", percentage},
		{"Total de Questões", len(exam.Questions)},
	}
	if err := writeRows(f, examSheet, examRows); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(questionsSheet); err != nil {
		f.Close()
		return nil, err
	}
	questionRows := make([][]interface{}, 0, len(exam.Questions)+1)
	questionRows = append(questionRows, []interface{}{"Ordem", "ID", "Descrição"})
	for i, q := range exam.Questions {
		questionRows = append(questionRows, []interface{}{i + 1, q.Value, q.Label})
	}
	if err := writeRows(f, questionsSheet, questionRows); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetColWidth(questionsSheet, "C", "C", 80); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// FileName is the suggested download name for an exam workbook.
func FileName(exam *model.Exam) string {
	if exam.ID == nil {
		return "prova.xlsx"
	}
	return fmt.Sprintf("prova-%d.xlsx", *exam.ID)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
