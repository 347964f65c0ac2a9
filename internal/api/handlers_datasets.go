// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/crease/internal/ingest"
	"github.com/tomtom215/crease/internal/logging"
	"github.com/tomtom215/crease/internal/models"
	"github.com/tomtom215/crease/internal/store"
)

// Datasets lists every dataset with the state of its output files.
//
// GET /api/v1/datasets
func (h *Handler) Datasets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	datasets := ingest.Datasets(h.cfg)
	infos := make([]models.DatasetInfo, 0, len(datasets))
	for _, ds := range datasets {
		info := models.DatasetInfo{
			Name:        ds.Name,
			Description: ds.Description,
			Seed:        ds.Seed.String(),
			Outputs:     make([]models.OutputInfo, 0, len(ds.Outputs)),
		}
		for _, out := range ds.Outputs {
			info.Outputs = append(info.Outputs, describeOutput(r, out.Path))
		}
		infos = append(infos, info)
	}

	respondSuccess(w, infos, start, false)
}

func describeOutput(r *http.Request, path string) models.OutputInfo {
	info := models.OutputInfo{File: filepath.Base(path)}
	fi, err := os.Stat(path)
	if err != nil {
		return info
	}
	mod := fi.ModTime().UTC()
	info.Exists = true
	info.SizeBytes = fi.Size()
	info.ModifiedAt = &mod
	if n, err := store.CountRows(path); err == nil {
		info.Rows = n
	} else {
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", path).Msg("Failed to count rows")
	}
	return info
}

// DatasetTable returns one page of a dataset's consolidated table. For
// datasets with several outputs the output query parameter picks one by
// table name; the first output is the default.
//
// GET /api/v1/datasets/{name}?output=&limit=&offset=
func (h *Handler) DatasetTable(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := getIntParam(r, "limit", defaultPageLimit)
	if !ok {
		invalidIntParam(w, "limit")
		return
	}
	offset, ok := getIntParam(r, "offset", 0)
	if !ok {
		invalidIntParam(w, "offset")
		return
	}
	req := TablePageRequest{
		Name:   chi.URLParam(r, "name"),
		Output: r.URL.Query().Get("output"),
		Limit:  limit,
		Offset: offset,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ds, err := ingest.Lookup(h.cfg, req.Name)
	if err != nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Unknown dataset: "+req.Name, nil)
		return
	}
	out, found := ds.Outputs[0], req.Output == ""
	for _, o := range ds.Outputs {
		if req.Output != "" && store.TableName(o.Path) == req.Output {
			out, found = o, true
		}
	}
	if !found {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Dataset "+req.Name+" has no output "+req.Output, nil)
		return
	}

	table, err := store.ReadCSV(out.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Dataset "+req.Name+" has not been ingested yet", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeRead, "Failed to read consolidated table", err)
		return
	}

	total := len(table.Rows)
	from := min(req.Offset, total)
	to := min(from+req.Limit, total)

	rows := make([]map[string]string, 0, to-from)
	for _, rec := range table.Rows[from:to] {
		row := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}

	respondSuccess(w, models.TablePage{
		Dataset: ds.Name,
		File:    filepath.Base(out.Path),
		Columns: table.Columns,
		Rows:    rows,
		Pagination: models.PaginationInfo{
			Limit:   req.Limit,
			Offset:  req.Offset,
			Total:   total,
			HasMore: to < total,
		},
	}, start, false)
}
