// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

// Package seed loads the entity lists that drive an ingestion run: player,
// team, series and venue identifiers read from earlier outputs, or a fixed
// list of category names.
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/validation"
)

// Seed errors abort a run. Match them with errors.Is.
var (
	ErrSeedFileMissing    = errors.New("seed file missing")
	ErrSeedFileUnreadable = errors.New("seed file unreadable")
)

// Entity is one seed row. Attrs holds every column of the row by header name.
type Entity struct {
	ID    string `validate:"required,entityid"`
	Name  string
	Attrs map[string]string
}

// Attr returns the named column value, or "".
func (e Entity) Attr(name string) string {
	return e.Attrs[name]
}

// Source describes how to read a seed table.
type Source struct {
	// Path to the CSV file.
	Path string

	// IDColumn and NameColumn name the identifier and display-name columns,
	// e.g. "id"/"name" or "teamId"/"teamName".
	IDColumn   string
	NameColumn string

	// FilterColumn and FilterValue select rows whose column equals the value
	// exactly (after trimming). An empty FilterColumn keeps every row.
	FilterColumn string
	FilterValue  string

	// Dedupe keeps only the first row for each identifier.
	Dedupe bool
}

// String describes the source for logs.
func (s Source) String() string {
	if s.FilterColumn == "" {
		return s.Path
	}
	return fmt.Sprintf("%s[%s=%s]", s.Path, s.FilterColumn, s.FilterValue)
}

// Load reads, validates, filters and optionally dedupes a seed table.
//
// A missing file returns ErrSeedFileMissing. An unreadable file, a malformed
// CSV or missing required columns return ErrSeedFileUnreadable. Rows with an
// empty or unsafe identifier are skipped with a warning.
func Load(src Source) ([]Entity, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSeedFileMissing, src.Path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSeedFileUnreadable, src.Path, err)
	}
	defer f.Close()

	entities, err := Read(f, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSeedFileUnreadable, src.Path, err)
	}
	return entities, nil
}

// Read parses a seed table from r. See Load.
func Read(r io.Reader, src Source) ([]Entity, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	required := []string{src.IDColumn, src.NameColumn}
	if src.FilterColumn != "" {
		required = append(required, src.FilterColumn)
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %v (have %v)", missing, header)
	}

	var (
		entities []Entity
		seen     = make(map[string]struct{})
		line     = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		attrs := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(record) {
				attrs[name] = strings.TrimSpace(record[i])
			}
		}

		if src.FilterColumn != "" && attrs[src.FilterColumn] != src.FilterValue {
			continue
		}

		e := Entity{
			ID:    normalizeID(attrs[src.IDColumn]),
			Name:  attrs[src.NameColumn],
			Attrs: attrs,
		}
		if verr := validation.ValidateStruct(&e); verr != nil {
			logging.Warn().Int("line", line).Str("id", e.ID).Str("reason", verr.Error()).Msg("skipping seed row")
			continue
		}

		if src.Dedupe {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
		}
		entities = append(entities, e)
	}

	return entities, nil
}

// normalizeID turns spreadsheet-style integers ("1413.0") back into "1413".
func normalizeID(id string) string {
	if whole, frac, ok := strings.Cut(id, "."); ok && whole != "" && strings.Trim(frac, "0") == "" &&
		strings.Trim(whole, "0123456789") == "" {
		return whole
	}
	return id
}

// Static returns one entity per name, with the name as both identifier and
// display name. Used for category listings such as team types.
func Static(names ...string) []Entity {
	out := make([]Entity, 0, len(names))
	for _, n := range names {
		out = append(out, Entity{ID: n, Name: n, Attrs: map[string]string{}})
	}
	return out
}
