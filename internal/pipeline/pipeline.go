// Package pipeline fans HTML files out over the worker pool, runs the
// selected processor on each, and hands the records to an exporter.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/grobinson/webminer/internal/export"
	"github.com/grobinson/webminer/internal/pool"
	"github.com/grobinson/webminer/internal/processor"
	"github.com/grobinson/webminer/internal/query"
	"github.com/grobinson/webminer/internal/record"
)

// Config controls a pipeline run.
type Config struct {
	// InputDir is scanned non-recursively for .html files.
	InputDir string
	// Threads sizes the worker pool. Zero runs every file on the
	// calling goroutine.
	Threads int
}

// Pipeline processes a directory of HTML files into records.
type Pipeline struct {
	cfg      Config
	registry *processor.Registry
	chain    []string
	workers  *pool.Pool
	logger   *zap.Logger
}

// New builds a pipeline with the built-in processors and every
// registered plugin loaded.
func New(cfg Config, logger *zap.Logger) *Pipeline {
	registry := processor.NewRegistry()
	processor.RegisterBuiltins(registry)
	processor.LoadPlugins(registry, logger)

	p := &Pipeline{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
	}
	if cfg.Threads > 0 {
		p.workers = pool.New(cfg.Threads)
	}
	return p
}

// Registry exposes the pipeline's processor registry.
func (p *Pipeline) Registry() *processor.Registry {
	return p.registry
}

// AddProcessor appends name to the processor chain. Only the first
// entry in the chain is consulted when processing; later entries are
// held in reserve.
func (p *Pipeline) AddProcessor(name string) error {
	if _, ok := p.registry.Get(name); !ok {
		return fmt.Errorf("unknown processor %q", name)
	}
	p.chain = append(p.chain, name)
	return nil
}

// ConfigureProcessor hands opts to the named processor when it accepts
// configuration.
func (p *Pipeline) ConfigureProcessor(name string, opts processor.Options) error {
	proc, ok := p.registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown processor %q", name)
	}
	if c, ok := proc.(processor.Configurable); ok {
		c.Configure(opts)
	}
	return nil
}

// Close shuts down the worker pool.
func (p *Pipeline) Close() {
	if p.workers != nil {
		p.workers.Shutdown()
	}
}

// ProcessAll runs the active processor over every .html file directly
// under the input directory. Files that fail are logged and skipped.
// Records are collected in submission order, which follows the
// directory listing.
func (p *Pipeline) ProcessAll(ctx context.Context) ([]record.Record, error) {
	if len(p.chain) == 0 {
		return nil, fmt.Errorf("no processor configured")
	}
	proc, ok := p.registry.Get(p.chain[0])
	if !ok {
		return nil, fmt.Errorf("unknown processor %q", p.chain[0])
	}

	entries, err := os.ReadDir(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", p.cfg.InputDir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		paths = append(paths, filepath.Join(p.cfg.InputDir, e.Name()))
	}

	records := make([]record.Record, 0, len(paths))
	if p.workers == nil {
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return records, err
			}
			rec, err := p.processFile(proc, path)
			if err != nil {
				p.logger.Warn("file skipped", zap.String("path", path), zap.Error(err))
				fileErrors.Inc()
				continue
			}
			records = append(records, rec)
			filesProcessed.Inc()
		}
		return records, nil
	}

	handles := make([]*pool.Handle, 0, len(paths))
	for _, path := range paths {
		path := path
		h, err := p.workers.Submit(func() (any, error) {
			return p.processFile(proc, path)
		})
		if err != nil {
			return nil, fmt.Errorf("submit %s: %w", path, err)
		}
		handles = append(handles, h)
	}
	for i, h := range handles {
		v, err := h.Wait()
		if err != nil {
			p.logger.Warn("file skipped", zap.String("path", paths[i]), zap.Error(err))
			fileErrors.Inc()
			continue
		}
		records = append(records, v.(record.Record))
		filesProcessed.Inc()
	}
	return records, nil
}

// ProcessFiltered runs ProcessAll and keeps only the records matching
// q.
func (p *Pipeline) ProcessFiltered(ctx context.Context, q query.Query) ([]record.Record, error) {
	records, err := p.ProcessAll(ctx)
	if err != nil {
		return nil, err
	}
	kept := query.Filter(q, records)
	recordsFiltered.Add(float64(len(records) - len(kept)))
	return kept, nil
}

func (p *Pipeline) processFile(proc processor.Processor, path string) (record.Record, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return record.Record{}, fmt.Errorf("read %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return record.Record{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	return proc.Process("file://"+abs, body)
}

// ExportJSON writes records to path as JSON.
func (p *Pipeline) ExportJSON(records []record.Record, path string) error {
	if err := export.JSON(records, path); err != nil {
		exportFailures.Inc()
		return err
	}
	return nil
}

// ExportCSV writes records to path as CSV.
func (p *Pipeline) ExportCSV(records []record.Record, path string) error {
	if err := export.CSV(records, path); err != nil {
		exportFailures.Inc()
		return err
	}
	return nil
}

// ExportDatabase writes records to the sqlite file at path.
func (p *Pipeline) ExportDatabase(ctx context.Context, records []record.Record, path string) error {
	if err := export.Database(ctx, records, path); err != nil {
		exportFailures.Inc()
		return err
	}
	return nil
}
