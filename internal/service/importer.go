package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/octobees/contacts-hub/internal/dto"
	"github.com/octobees/contacts-hub/internal/metrics"
	"github.com/octobees/contacts-hub/internal/repository"
)

const defaultImportBatchSize = 500

// ImportOptions tunes batch processing.
type ImportOptions struct {
	BatchSize int
	Workers   int
}

// ImportResult summarises one import run. Errors is nil when every row was
// imported.
type ImportResult struct {
	TotalImported int
	Errors        []string
}

// Importer runs batch imports of mapped spreadsheet rows.
type Importer struct {
	stages    *rowStages
	batchSize int
	workers   int
	logger    zerolog.Logger
}

// NewImporter wires an importer. Zero options fall back to sequential
// processing in batches of 500.
func NewImporter(repo repository.ContactsRepository, resolver *EntityResolver, writer *ContactWriter, opts ImportOptions, logger zerolog.Logger) *Importer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultImportBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Importer{
		stages:    &rowStages{repo: repo, resolver: resolver, writer: writer},
		batchSize: opts.BatchSize,
		workers:   opts.Workers,
		logger:    logger.With().Str("component", "importer").Logger(),
	}
}

// Import transforms and persists every row of every file that has a mapping.
// A failing row is reported as "File f, Row r: message" and does not stop the
// run. The run is not cancelled when ctx is.
func (imp *Importer) Import(ctx context.Context, owner uuid.UUID, req dto.ImportRequest) (ImportResult, error) {
	if req.Files == nil || req.Mappings == nil {
		return ImportResult{}, ValidationError{Message: "files and mappings are required"}
	}

	ctx = context.WithoutCancel(ctx)
	started := time.Now()

	for fi, m := range req.Mappings {
		imp.logger.Debug().
			Int("file", fi+1).
			Interface("mapping", m).
			Msg("import mapping")
	}

	rows := flatten(req)
	var result ImportResult
	for start := 0; start < len(rows); start += imp.batchSize {
		end := start + imp.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		outcomes := imp.stages.runChunk(ctx, chunk, owner, imp.workers)
		for i, err := range outcomes {
			if err == nil {
				result.TotalImported++
				metrics.ImportRowsTotal.WithLabelValues(metrics.OutcomeImported).Inc()
				continue
			}
			item := chunk[i]
			msg := fmt.Sprintf("File %d, Row %d: %s", item.fileIndex+1, item.rowIndex+1, err.Error())
			result.Errors = append(result.Errors, msg)
			metrics.ImportRowsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			imp.logger.Debug().
				Int("file", item.fileIndex+1).
				Int("row", item.rowIndex+1).
				Err(err).
				Msg("import row failed")
		}
	}

	elapsed := time.Since(started)
	metrics.ImportDuration.Observe(elapsed.Seconds())
	imp.logger.Info().
		Int("files", len(req.Files)).
		Int("rows", len(rows)).
		Int("imported", result.TotalImported).
		Int("failed", len(result.Errors)).
		Dur("duration", elapsed).
		Msg("import finished")

	return result, nil
}

// flatten lists (file, row) pairs in input order. Files without a mapping are
// skipped.
func flatten(req dto.ImportRequest) []importRow {
	var rows []importRow
	for fi, file := range req.Files {
		if fi >= len(req.Mappings) || req.Mappings[fi] == nil {
			continue
		}
		columns := req.Mappings[fi].Compile()
		for ri, row := range file {
			rows = append(rows, importRow{fileIndex: fi, rowIndex: ri, row: row, columns: columns})
		}
	}
	return rows
}
