package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSV{})
	c := r.Get("csv")
	require.NotNil(t, c)
	assert.Equal(t, "csv", c.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&XLSX{})
	assert.NotNil(t, r.Get("XLSX"))
	assert.NotNil(t, r.Get("Xlsx"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSV{})
	assert.Panics(t, func() { r.Register(&CSV{}) })
}

func TestRegistry_ForPath(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, "xlsx", r.ForPath("Master_Categorization_File.xlsx").Format())
	assert.Equal(t, "csv", r.ForPath("/tmp/statement.CSV").Format())
	assert.Nil(t, r.ForPath("statement"))
	assert.Nil(t, r.ForPath("statement.pdf"))
}

func TestDefaultRegistry_Order(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"xlsx", "csv"}, r.Formats())
	require.Len(t, r.Codecs(), 2)
	assert.Equal(t, "xlsx", r.Codecs()[0].Format())
}
