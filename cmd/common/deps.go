// Package common provides shared dependency construction for commands.
package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/finscope/newscrawl/internal/config"
	"github.com/finscope/newscrawl/internal/database"
	"github.com/finscope/newscrawl/internal/dedup"
	"github.com/finscope/newscrawl/internal/logger"
	"github.com/finscope/newscrawl/internal/sink"
	"github.com/finscope/newscrawl/internal/sources"
)

// Deps bundles the dependencies every command starts from.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// Initialize loads the configuration and builds the logger.
func Initialize() (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Deps{Config: cfg, Logger: log}, nil
}

// LoadRegistry reads the source registry, optionally restricted to one
// named source.
func (d *Deps) LoadRegistry(only string) (*sources.Registry, error) {
	registry, err := sources.Load(d.Config.Crawler.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	if only != "" {
		return registry.Filter(only)
	}
	return registry, nil
}

// Pipeline is the persistence side of a crawl: the article sink, the
// dedup index that mirrors it, and the backing database when one exists.
type Pipeline struct {
	Sink  sink.Sink
	Store dedup.Store
	DB    *sqlx.DB
}

// Close releases the pipeline's resources.
func (p *Pipeline) Close() error {
	if err := p.Sink.Close(); err != nil {
		return err
	}
	if p.DB != nil {
		return p.DB.Close()
	}
	return nil
}

// OpenPipeline builds the sink and dedup store for the configured
// backend. The dedup index always reflects the sink's current contents:
// postgres reads the articles table directly, csv seeds an in-memory
// set from the file's link column.
func (d *Deps) OpenPipeline(ctx context.Context) (*Pipeline, error) {
	switch d.Config.Sink.Backend {
	case config.SinkPostgres:
		return d.openPostgresPipeline(ctx)
	default:
		return d.openCSVPipeline()
	}
}

func (d *Deps) openPostgresPipeline(ctx context.Context) (*Pipeline, error) {
	db, err := database.NewPostgresConnection(d.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if schemaErr := database.EnsureSchema(ctx, db); schemaErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", schemaErr)
	}

	return &Pipeline{
		Sink:  sink.NewPostgresSink(db),
		Store: dedup.NewPostgresStore(db),
		DB:    db,
	}, nil
}

func (d *Deps) openCSVPipeline() (*Pipeline, error) {
	path := d.Config.Sink.CSVPath

	links, err := sink.LoadLinks(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing sink %s: %w", path, err)
	}

	out, err := sink.NewCSVSink(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sink %s: %w", path, err)
	}

	store := dedup.NewMemoryStore()
	store.Seed(links)

	d.Logger.Info("csv sink opened", "path", path, "known_links", len(links))

	return &Pipeline{Sink: out, Store: store}, nil
}
