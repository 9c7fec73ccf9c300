package csvfile_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playstore/internal/adapters/csvfile"
	"playstore/internal/domain"
)

func collect(t *testing.T, body string) []domain.Row {
	t.Helper()
	var rows []domain.Row
	err := csvfile.Read(context.Background(), strings.NewReader(body), nil, func(r domain.Row) error {
		rows = append(rows, r)
		return nil
	})
	require.NoError(t, err)
	return rows
}

func TestRead_HeaderKeyedRows(t *testing.T) {
	rows := collect(t, "\ufeffApp,Rating,Installs\n"+
		"\"Photo, Pro\",4.7,\"1,000+\"\n"+
		"Short,3.1\n"+
		"Long,2,10+,extra\n")

	require.Len(t, rows, 3)
	assert.Equal(t, map[string]string{"App": "Photo, Pro", "Rating": "4.7", "Installs": "1,000+"}, rows[0].Fields)
	assert.Equal(t, 2, rows[0].Line)

	_, ok := rows[1].Fields["Installs"]
	assert.False(t, ok, "missing trailing columns are absent")
	assert.Equal(t, "10+", rows[2].Fields["Installs"])
	for _, r := range rows {
		assert.NoError(t, r.Err)
	}
}

func TestRead_EmptyInput(t *testing.T) {
	assert.Empty(t, collect(t, ""))
	assert.Empty(t, collect(t, "App,Rating\n"))
}

func TestRead_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := csvfile.Read(context.Background(), strings.NewReader("a\n1\n2\n"), nil, func(domain.Row) error {
		calls++
		return stop
	})
	assert.True(t, errors.Is(err, stop))
	assert.Equal(t, 1, calls)
}

func TestRead_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := csvfile.Read(ctx, strings.NewReader("a\n1\n"), nil, func(domain.Row) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSource_Rows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.csv")
	require.NoError(t, os.WriteFile(path, []byte("App\nA\nB\n"), 0o600))

	var names []string
	src := csvfile.New(path, 1000)
	require.NoError(t, src.Rows(context.Background(), func(r domain.Row) error {
		names = append(names, r.Fields["App"])
		return nil
	}))
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestSource_MissingFile(t *testing.T) {
	err := csvfile.New(filepath.Join(t.TempDir(), "nope.csv"), 0).Rows(context.Background(), func(domain.Row) error { return nil })
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
