/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package seeder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

// Source supplies the clean rows of a table.
type Source interface {
	// Load returns the clean dataset for def, or an error wrapping
	// fs.ErrNotExist when the table has no source data.
	Load(def schema.Table) (*dataset.Table, error)
}

// CSVDir loads `<dir>/<table>.csv`.
type CSVDir string

func (d CSVDir) Load(def schema.Table) (*dataset.Table, error) {
	path := filepath.Join(string(d), def.Name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ReadCSV(f, def.Name, def.DatasetColumns())
}

type Service struct {
	dbAdapter database.DBAdapter
	catalog   *schema.Catalog
	chain     *corrupt.Chain
	logger    *zap.Logger
	retry     RetryOptions
}

type Config struct {
	Logger *zap.Logger
	// Retry defaults to DefaultRetryOptions when MaxAttempts is zero.
	Retry RetryOptions
}

// NewService wires a seeder. chain may be nil, in which case every table is
// loaded clean.
func NewService(db database.DBAdapter, catalog *schema.Catalog, chain *corrupt.Chain, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryOptions
	}
	return &Service{
		dbAdapter: db,
		catalog:   catalog,
		chain:     chain,
		logger:    logger,
		retry:     retry,
	}
}

type SeedParams struct {
	// TableFilters as returned by utils.ParseTablesFlag; empty means all.
	TableFilters map[string][]string
	Source       Source
	// Reset drops the selected tables before creating them.
	Reset bool
	// Parallel corrupts tables concurrently. Results are identical to a
	// sequential run because every table gets its own derived seed.
	Parallel bool
	// RunID groups the audit rows; a new one is generated when empty.
	RunID string
}

type prepared struct {
	runID   string
	defs    []schema.Table
	rows    []*dataset.Table
	results []TableResult
}

// Preview loads and corrupts the selected tables exactly as Seed would,
// without touching the database.
func (s *Service) Preview(ctx context.Context, params SeedParams) ([]TableResult, error) {
	p, err := s.prepare(ctx, params)
	if err != nil {
		return nil, err
	}
	return p.results, nil
}

func (s *Service) prepare(ctx context.Context, params SeedParams) (*prepared, error) {
	if params.Source == nil {
		return nil, &ErrInvalidInput{Msg: "no source for clean table data"}
	}

	names, unknown := filterTables(s.catalog.Names(), params.TableFilters)
	if len(unknown) > 0 {
		return nil, &ErrInvalidInput{Msg: fmt.Sprintf("unknown tables in filter: %v", unknown)}
	}
	p := &prepared{runID: params.RunID}
	if p.runID == "" {
		p.runID = database.NewRunID()
	}
	p.defs = make([]schema.Table, len(names))
	for i, name := range names {
		p.defs[i], _ = s.catalog.Table(name)
	}

	p.results = make([]TableResult, len(p.defs))
	clean := make([]*dataset.Table, len(p.defs))
	for i, def := range p.defs {
		p.results[i].Table = def.Name
		t, err := params.Source.Load(def)
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("No clean data for table; it will be left empty", zap.String("table", def.Name))
			p.results[i].SourceMissing = true
			continue
		}
		if err != nil {
			return nil, &ErrInvalidInput{Msg: fmt.Sprintf("failed to load clean data for %s", def.Name), Err: err}
		}
		clean[i] = t
		p.results[i].RowsRead = t.Len()
	}

	rows, err := s.corruptAll(ctx, p.defs, clean, p.results, params.Parallel)
	if err != nil {
		return nil, err
	}
	p.rows = rows
	return p, nil
}

// Seed creates the selected tables, loads their clean rows, corrupts the
// tables the registry covers, inserts the result in creation order and
// records the corruption reports. Results follow catalog order.
func (s *Service) Seed(ctx context.Context, params SeedParams) ([]TableResult, error) {
	startTime := time.Now()
	if s.dbAdapter == nil {
		return nil, &ErrDatabaseConnection{Msg: "seeding needs a database", Err: errors.New("no database adapter")}
	}

	p, err := s.prepare(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(p.defs) == 0 {
		s.logger.Info("No tables match the provided filters (--tables).")
		return []TableResult{}, nil
	}
	results := p.results
	logger := s.logger.With(zap.String("run_id", p.runID))
	logger.Info("Starting seeding run", zap.Int("tables", len(p.defs)), zap.Bool("parallel", params.Parallel))

	if params.Reset {
		if err := s.exec(ctx, "drop tables", func(ctx context.Context) error {
			return s.dbAdapter.DropTables(ctx, p.defs)
		}); err != nil {
			return nil, err
		}
	}
	if err := s.exec(ctx, "create tables", func(ctx context.Context) error {
		return s.dbAdapter.CreateTables(ctx, p.defs)
	}); err != nil {
		return nil, err
	}
	if needsAudit(results) {
		if err := s.exec(ctx, "create audit table", s.dbAdapter.EnsureAuditTable); err != nil {
			return nil, err
		}
	}

	for i, def := range p.defs {
		if err := ctx.Err(); err != nil {
			return results, &ErrCancelled{Msg: "seeding cancelled", Err: err}
		}
		if rows := p.rows[i]; rows != nil {
			n, err := withRetry(ctx, logger, s.retry, func(ctx context.Context) (int64, error) {
				n, err := s.dbAdapter.InsertRows(ctx, def, rows)
				if err != nil {
					return 0, &ErrQueryExecution{Msg: fmt.Sprintf("insert into %s", def.Name), Err: err}
				}
				return n, nil
			})
			if err != nil {
				return results, err
			}
			results[i].RowsInserted = n
		}
		if results[i].Corrupted {
			reports := results[i].Reports
			if err := s.exec(ctx, "record reports for "+def.Name, func(ctx context.Context) error {
				return s.dbAdapter.RecordReports(ctx, p.runID, def.Name, reports)
			}); err != nil {
				return results, err
			}
		}
		logger.Info("Seeded table",
			zap.String("table", def.Name),
			zap.Int("rows_read", results[i].RowsRead),
			zap.Int64("rows_inserted", results[i].RowsInserted),
			zap.Bool("corrupted", results[i].Corrupted))
	}

	logger.Info("Seeding run finished", zap.Duration("duration", time.Since(startTime)))
	return results, nil
}

// corruptAll returns the rows to insert per table: the corrupted copy for
// registered tables, the clean table otherwise.
func (s *Service) corruptAll(ctx context.Context, defs []schema.Table, clean []*dataset.Table, results []TableResult, parallel bool) ([]*dataset.Table, error) {
	dirty := make([]*dataset.Table, len(defs))
	corruptOne := func(i int) error {
		if clean[i] == nil {
			return nil
		}
		if s.chain == nil || !s.chain.Registry().Has(defs[i].Name) {
			dirty[i] = clean[i]
			return nil
		}
		chain := s.chain.ForTable(defs[i].Name)
		out, reports, err := chain.Run(defs[i].Name, clean[i])
		if err != nil {
			return &ErrInvalidInput{Msg: "corruption failed", Err: err}
		}
		dirty[i] = out
		results[i].Corrupted = true
		results[i].Seed = chain.Seed()
		results[i].Reports = reports
		return nil
	}

	if !parallel {
		for i := range defs {
			if err := ctx.Err(); err != nil {
				return nil, &ErrCancelled{Msg: "corruption cancelled", Err: err}
			}
			if err := corruptOne(i); err != nil {
				return nil, err
			}
		}
		return dirty, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range defs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &ErrCancelled{Msg: "corruption cancelled", Err: err}
			}
			return corruptOne(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dirty, nil
}

func needsAudit(results []TableResult) bool {
	for _, r := range results {
		if r.Corrupted {
			return true
		}
	}
	return false
}

// exec runs a schema operation with retry, classifying failures as query
// errors so transient ones are retried.
func (s *Service) exec(ctx context.Context, what string, op func(context.Context) error) error {
	_, err := withRetry(ctx, s.logger, s.retry, func(ctx context.Context) (struct{}, error) {
		if err := op(ctx); err != nil {
			return struct{}{}, &ErrQueryExecution{Msg: what, Err: err}
		}
		return struct{}{}, nil
	})
	return err
}
