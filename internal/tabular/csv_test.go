package tabular

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/categorizer/internal/model"
)

func TestCSV_ParseTestdata(t *testing.T) {
	data, err := os.ReadFile("../../testdata/statement.csv")
	require.NoError(t, err)

	tbl, err := (&CSV{}).Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Description", "Amount", "Reference"}, tbl.Columns)
	require.Equal(t, 6, tbl.Len())

	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", tbl.Cell(0, "Description").String())
	assert.Equal(t, model.KindNumber, tbl.Cell(0, "Amount").Kind())
	assert.Equal(t, "-4.00", tbl.Cell(0, "Amount").String())
	assert.True(t, tbl.Cell(4, "Description").IsNull())

	// Leading zeros keep references as text.
	assert.Equal(t, model.KindString, tbl.Cell(0, "Reference").Kind())
	assert.Equal(t, "0001", tbl.Cell(0, "Reference").String())
}

func TestCSV_ShortRowsPadded(t *testing.T) {
	tbl, err := (&CSV{}).Parse(strings.NewReader("A,B,C\n1\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Len(t, tbl.Rows[0], 3)
	assert.True(t, tbl.Rows[0][2].IsNull())
}

func TestCSV_WideRowFails(t *testing.T) {
	_, err := (&CSV{}).Parse(strings.NewReader("A,B\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestCSV_HeaderOnly(t *testing.T) {
	tbl, err := (&CSV{}).Parse(strings.NewReader("Date,Description\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.HasColumn("Description"))
}

func TestCSV_BlankHeaderNamed(t *testing.T) {
	tbl, err := (&CSV{}).Parse(strings.NewReader("Description,\nx,y\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Description", "Unnamed: 1"}, tbl.Columns)
}

func TestCSV_StripsBOM(t *testing.T) {
	tbl, err := (&CSV{}).Parse(strings.NewReader("\xEF\xBB\xBFDescription\nx\n"))
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("Description"))
}

func TestCSV_RejectsEmptyAndBinary(t *testing.T) {
	_, err := (&CSV{}).Parse(strings.NewReader("  \n"))
	assert.Error(t, err)

	_, err = (&CSV{}).Parse(bytes.NewReader([]byte{'P', 'K', 0x03, 0x04, 0x00, 0xff}))
	assert.Error(t, err)
}

func TestCSV_WriteRoundTrip(t *testing.T) {
	data, err := os.ReadFile("../../testdata/statement.csv")
	require.NoError(t, err)
	tbl, err := (&CSV{}).Parse(bytes.NewReader(data))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&CSV{}).Write(&buf, tbl))
	assert.Equal(t, string(data), buf.String())
}
