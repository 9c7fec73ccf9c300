// Package csvfile reads delimited files as header-keyed rows.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"playstore/internal/domain"
)

// Source reads one CSV file. Rows are optionally throttled so a bulk load does
// not saturate a store that is also serving traffic.
type Source struct {
	path string
	rl   *rate.Limiter
}

// New returns a Source for path. rowsPerSec <= 0 disables throttling.
func New(path string, rowsPerSec int) *Source {
	s := &Source{path: path}
	if rowsPerSec > 0 {
		s.rl = rate.NewLimiter(rate.Limit(rowsPerSec), rowsPerSec)
	}
	return s
}

func (s *Source) Path() string { return s.path }

// Rows opens the file and calls fn for each data row. Failing to open the file
// is returned as is; malformed records are handed to fn with Row.Err set.
func (s *Source) Rows(ctx context.Context, fn func(domain.Row) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("csvfile: %w", err)
	}
	defer f.Close()
	return Read(ctx, f, s.rl, fn)
}

// Read is Rows over an arbitrary reader. rl may be nil.
//
// Short records yield only the columns present; extra trailing fields are
// dropped, the same way header-keyed readers usually behave.
func Read(ctx context.Context, r io.Reader, rl *rate.Limiter, fn func(domain.Row) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("csvfile: read header: %w", err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rl != nil {
			if err := rl.Wait(ctx); err != nil {
				return err
			}
		}

		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}

		var row domain.Row
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return fmt.Errorf("csvfile: %w", err)
			}
			row = domain.Row{Line: pe.StartLine, Err: err}
		} else {
			line, _ := cr.FieldPos(0)
			row = domain.Row{Line: line, Fields: zip(header, rec)}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func zip(header, rec []string) map[string]string {
	n := min(len(header), len(rec))
	m := make(map[string]string, n)
	for i := 0; i < n; i++ {
		m[header[i]] = rec[i]
	}
	return m
}
