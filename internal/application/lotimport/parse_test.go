package lotimport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trims and uppercases",
			input: []string{"  lot-001 ", "LOT-002"},
			want:  []string{"LOT-001", "LOT-002"},
		},
		{
			name:  "drops empty entries",
			input: []string{"LOT-001", "", "   ", "LOT-002"},
			want:  []string{"LOT-001", "LOT-002"},
		},
		{
			name:  "dedupes preserving first-seen order",
			input: []string{"b", "a", "B", "a"},
			want:  []string{"B", "A"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestParseList(t *testing.T) {
	lots, err := ParseList("lot-001, lot-002\nlot-003,\n\nlot-001")
	require.NoError(t, err)
	assert.Equal(t, []string{"LOT-001", "LOT-002", "LOT-003"}, lots)
}

func TestParseList_Empty(t *testing.T) {
	_, err := ParseList("  \n , ,\n")
	assert.ErrorIs(t, err, ErrNoLots)
}

func TestParseCSV(t *testing.T) {
	input := "Lot Number,Quantity\nlot-001,5\nlot-002,3\n,\nlot-001,1\n"
	lots, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"LOT-001", "LOT-002"}, lots)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Lot Number\n"))
	assert.ErrorIs(t, err, ErrNoLots)
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Lot Number"))
	require.NoError(t, f.SetCellValue(sheet, "A2", " lot-001 "))
	require.NoError(t, f.SetCellValue(sheet, "A3", "lot-002"))
	require.NoError(t, f.SetCellValue(sheet, "A4", "LOT-001"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	lots, err := ParseWorkbook(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"LOT-001", "LOT-002"}, lots)
}

func TestParseWorkbook_HeaderOnly(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Lot Number"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := ParseWorkbook(&buf)
	assert.ErrorIs(t, err, ErrNoLots)
}

func TestParseWorkbook_NotAWorkbook(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("not an xlsx"))
	assert.Error(t, err)
}

func TestParseFile_DispatchesOnExtension(t *testing.T) {
	lots, err := ParseFile("lots.csv", strings.NewReader("Lot Number\nL1\nL2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"L1", "L2"}, lots)

	lots, err = ParseFile("lots.txt", strings.NewReader("L1, L2\nL3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"L1", "L2", "L3"}, lots)

	_, err = ParseFile("lots.xlsx", strings.NewReader("not an xlsx"))
	assert.Error(t, err)
}
