package rules

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/categorizer/internal/model"
	"github.com/cleared-dev/categorizer/internal/tabular"
)

func TestNewSource_Dispatch(t *testing.T) {
	tests := []struct {
		location string
		want     any
	}{
		{"Master_Categorization_File.xlsx", &FileSource{}},
		{"rules/master.csv", &FileSource{}},
		{"https://example.com/export?format=xlsx", &HTTPSource{}},
		{"http://localhost/rules.csv", &HTTPSource{}},
		{"gs://bucket/rules/master.xlsx", &GCSSource{}},
		{"sqlite:///var/lib/rules.db", &SQLiteSource{}},
	}
	for _, tt := range tests {
		src, err := NewSource(tt.location, Options{})
		require.NoError(t, err, tt.location)
		assert.IsType(t, tt.want, src, tt.location)
	}
}

func TestNewSource_Errors(t *testing.T) {
	for _, loc := range []string{"", "  ", "gs://bucket", "gs:///object", "sqlite://"} {
		_, err := NewSource(loc, Options{})
		assert.Error(t, err, "location %q", loc)
	}
}

func TestNewSource_SQLiteTable(t *testing.T) {
	src, err := NewSource("sqlite://rules.db?table=master", Options{})
	require.NoError(t, err)
	s := src.(*SQLiteSource)
	assert.Equal(t, "rules.db", s.Path)
	assert.Equal(t, "master", s.Table)
}

func TestNewSource_GCSParts(t *testing.T) {
	src, err := NewSource("gs://finance/rules/master.xlsx", Options{Sheet: "Rules"})
	require.NoError(t, err)
	s := src.(*GCSSource)
	assert.Equal(t, "finance", s.Bucket)
	assert.Equal(t, "rules/master.xlsx", s.Object)
	assert.Equal(t, "Rules", s.Sheet)
	assert.Equal(t, "gs://finance/rules/master.xlsx", s.String())
}

func TestFileSource_CSV(t *testing.T) {
	tbl, err := (&FileSource{Path: "../../testdata/master.csv"}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, tbl.Len())
}

func TestFileSource_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&tabular.XLSX{}).Write(&buf, ToTable(StarterRules())))
	path := filepath.Join(t.TempDir(), "Master_Categorization_File.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tbl, err := (&FileSource{Path: path}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(StarterRules()), tbl.Len())
}

func TestFileSource_Missing(t *testing.T) {
	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "nope.xlsx")}).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_Unparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01}, 0o644))

	_, err := (&FileSource{Path: path}).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMalformedSource)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rules.csv":
			_, _ = w.Write([]byte("Key Word,Category\ncoffee,Dining\n"))
		case "/garbage":
			_, _ = w.Write([]byte{0x00, 0x01})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tbl, err := (&HTTPSource{URL: srv.URL + "/rules.csv"}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "coffee", tbl.Cell(0, model.ColumnKeyword).String())

	_, err = (&HTTPSource{URL: srv.URL + "/missing"}).Fetch(context.Background())
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)

	_, err = (&HTTPSource{URL: srv.URL + "/garbage"}).Fetch(context.Background())
	assert.ErrorIs(t, err, model.ErrMalformedSource)
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := (&HTTPSource{URL: url + "/rules.csv"}).Fetch(context.Background())
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
}

func TestHTTPSource_TooLarge(t *testing.T) {
	body := "Key Word,Category\ncoffee,Dining\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := (&HTTPSource{URL: srv.URL, MaxBytes: int64(len(body) - 1)}).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.NotErrorIs(t, err, model.ErrMalformedSource)
	assert.Contains(t, err.Error(), "exceeds")

	tbl, err := (&HTTPSource{URL: srv.URL, MaxBytes: int64(len(body))}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestReadAtMost(t *testing.T) {
	data, err := readAtMost(strings.NewReader("abcd"), 4, "src")
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(data))

	_, err = readAtMost(strings.NewReader("abcde"), 4, "src")
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)

	data, err = readAtMost(strings.NewReader("abcde"), 0, "src")
	require.NoError(t, err)
	assert.Len(t, data, 5)
}

func createRulesDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE categorization_rules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			keyword TEXT
		);
		INSERT INTO categorization_rules (category, keyword) VALUES
			('Dining', 'coffee'),
			('Everything', NULL),
			('Bank Charges', 'fee');
	`)
	require.NoError(t, err)
	return path
}

func TestSQLiteSource(t *testing.T) {
	path := createRulesDB(t)

	tbl, err := (&SQLiteSource{Path: path}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", model.ColumnCategory, model.ColumnKeyword}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())

	rt, err := FromTable(tbl)
	require.NoError(t, err)
	assert.Equal(t, []model.Rule{
		{Keyword: "coffee", Category: "Dining"},
		{Keyword: "fee", Category: "Bank Charges"},
	}, rt.Rules())
}

func TestSQLiteSource_Errors(t *testing.T) {
	path := createRulesDB(t)

	_, err := (&SQLiteSource{Path: path, Table: "missing_table"}).Fetch(context.Background())
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)

	_, err = (&SQLiteSource{Path: path, Table: "rules; DROP TABLE x"}).Fetch(context.Background())
	assert.ErrorIs(t, err, model.ErrMalformedSource)

	_, err = (&SQLiteSource{Path: filepath.Join(t.TempDir(), "none.db")}).Fetch(context.Background())
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
}
