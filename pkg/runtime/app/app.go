// Package app wires the configured services into a ready-to-use pipeline.
// Both the CLI and the web server build one App at startup.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yjk624/shinryeong/pkg/services/analysis"
	"github.com/yjk624/shinryeong/pkg/services/calendar"
	"github.com/yjk624/shinryeong/pkg/services/compatibility"
	"github.com/yjk624/shinryeong/pkg/services/config"
	"github.com/yjk624/shinryeong/pkg/services/geocode"
	"github.com/yjk624/shinryeong/pkg/services/pillar"
	"github.com/yjk624/shinryeong/pkg/services/report"
	"github.com/yjk624/shinryeong/pkg/services/solartime"
	"github.com/yjk624/shinryeong/pkg/store/knowledge"
)

type App struct {
	Assembler report.Assembler
	Converter calendar.Converter
	// Gazetteer is the offline place list, also used to list known places
	Gazetteer *geocode.Gazetteer
	Knowledge knowledge.Store

	db *sql.DB
}

// New loads the knowledge base and builds every service from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	gazetteer := geocode.NewGazetteer(geocode.DefaultPlaces...)
	if cfg.Geocoder.GazetteerPath != "" {
		g, err := geocode.LoadGazetteer(cfg.Geocoder.GazetteerPath)
		if err != nil {
			return nil, err
		}
		gazetteer = g
	}

	corrector, err := solartime.NewCorrector(
		geocode.NewCache(resolver(cfg, gazetteer), cfg.Geocoder.CacheSize, cfg.Geocoder.Timeout),
		cfg.SolarTimeSettings(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create solar time corrector: %w", err)
	}

	source, db, err := knowledgeSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	kb := knowledge.NewStore(source)
	if err := kb.Load(ctx); err != nil {
		closeDB(ctx, db)
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	analysisSettings := cfg.AnalysisSettings()
	converter := calendar.NewConverter()
	a := &App{
		Assembler: report.NewAssembler(
			converter,
			corrector,
			pillar.NewCalculator(cfg.PillarSettings()),
			analysis.NewAnalyzer(kb, analysisSettings),
			compatibility.NewScorer(kb, compatibility.DefaultSettings(), analysisSettings),
		),
		Converter: converter,
		Gazetteer: gazetteer,
		Knowledge: kb,
		db:        db,
	}

	logger.Info().
		Str("geocoder", cfg.Geocoder.Provider).
		Str("knowledge", source.Name()).
		Float64("meridian", cfg.SolarTime.StandardMeridian).
		Msg("services ready")
	return a, nil
}

// Close releases the knowledge base database, if one was opened.
func (a *App) Close(ctx context.Context) {
	closeDB(ctx, a.db)
}

func resolver(cfg *config.Config, gazetteer *geocode.Gazetteer) geocode.Resolver {
	switch cfg.Geocoder.Provider {
	case config.ProviderGazetteer:
		return gazetteer
	case config.ProviderNominatim:
		return geocode.NewNominatim(cfg.NominatimSettings())
	default:
		return geocode.NewChain(gazetteer, geocode.NewNominatim(cfg.NominatimSettings()))
	}
}

func knowledgeSource(ctx context.Context, cfg *config.Config) (knowledge.Source, *sql.DB, error) {
	switch cfg.Knowledge.Source {
	case config.SourceDir:
		return knowledge.NewDirSource(cfg.Knowledge.Dir), nil, nil
	case config.SourceSQLite:
		db, err := knowledge.OpenSQLite(knowledge.SQLiteSettings{DbPath: cfg.Knowledge.SQLitePath})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open knowledge database: %w", err)
		}
		return knowledge.NewSQLSource(db), db, nil
	case config.SourceS3:
		client, err := knowledge.NewS3Client(ctx, cfg.S3Settings())
		if err != nil {
			return nil, nil, err
		}
		return knowledge.NewS3Source(client, cfg.S3Settings()), nil, nil
	default:
		return knowledge.NewEmbeddedSource(), nil, nil
	}
}

func closeDB(ctx context.Context, db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close knowledge database")
	}
}
