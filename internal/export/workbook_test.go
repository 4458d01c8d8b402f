package export

import (
	"bytes"
	"testing"

	"github.com/sgp/sgp-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExamWorkbook(t *testing.T) {
	id := int64(12)
	pct := 70.0
	exam := &model.Exam{
		ID:                 &id,
		Title:              "Prova de Go",
		ApprovalPercentage: &pct,
		Questions: []model.SelectItem{
			{Label: "O que é uma goroutine?", Value: 3},
			{Label: "Para que serve um canal?", Value: 9},
		},
	}

	f, err := ExamWorkbook(exam)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	read, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer read.Close()

	assert.Equal(t, []string{"Prova", "Questoes"}, read.GetSheetList())

	title, err := read.GetCellValue("Prova", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Prova de Go", title)

	rows, err := read.GetRows("Questoes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "9", "Para que serve um canal?"}, rows[2])
}

func TestFileName(t *testing.T) {
	id := int64(5)
	assert.Equal(t, "prova-5.xlsx", FileName(&model.Exam{ID: &id}))
	assert.Equal(t, "prova.xlsx", FileName(&model.Exam{}))
}
