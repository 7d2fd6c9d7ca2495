package tabular

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/categorizer/internal/model"
)

func TestDetect_PrefersSpreadsheet(t *testing.T) {
	data := workbook(t, DefaultSheet, [][]any{{"Description"}, {"coffee"}})

	a, err := Detect(data, DefaultRegistry().Codecs()...)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", a.Format)
	assert.Equal(t, 1, a.Table.Len())
}

func TestDetect_FallsBackToCSV(t *testing.T) {
	data, err := os.ReadFile("../../testdata/statement.csv")
	require.NoError(t, err)

	a, err := Detect(data, DefaultRegistry().Codecs()...)
	require.NoError(t, err)
	assert.Equal(t, "csv", a.Format)
	assert.Equal(t, 6, a.Table.Len())
}

func TestDetect_AllFail(t *testing.T) {
	_, err := Detect([]byte{0x00, 0x01, 0x02}, DefaultRegistry().Codecs()...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "xlsx:")
	assert.Contains(t, err.Error(), "csv:")
}

func TestDetect_NoCodecs(t *testing.T) {
	_, err := Detect([]byte("Description\n"))
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestTry_ReportsEachAttempt(t *testing.T) {
	a := Try(&XLSX{}, []byte("Description\nx\n"))
	assert.False(t, a.OK())
	assert.Equal(t, "xlsx", a.Format)
	assert.Error(t, a.Err)

	a = Try(&CSV{}, []byte("Description\nx\n"))
	assert.True(t, a.OK())
}
