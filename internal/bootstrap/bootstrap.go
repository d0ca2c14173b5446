// Package bootstrap builds the long-lived components shared by the server
// and the import tool from a loaded config.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/aasthafoundation/careboard/internal/config"
	"github.com/aasthafoundation/careboard/internal/db"
	"github.com/aasthafoundation/careboard/internal/metrics"
	"github.com/aasthafoundation/careboard/internal/repository"
	"github.com/aasthafoundation/careboard/internal/sheetdata"
	"github.com/aasthafoundation/careboard/internal/workbook"
)

func Files(cfg *config.Config) sheetdata.Files {
	return sheetdata.Files{
		Donations: cfg.DonationsFile,
		CEP:       cfg.CEPFile,
		Medical:   cfg.MedicalFile,
	}
}

// Source returns the workbook source selected by CAREBOARD_DATA_SOURCE.
func Source(ctx context.Context, cfg *config.Config) (workbook.Source, error) {
	switch cfg.DataSource {
	case config.SourceDir:
		log.Info().Str("dir", cfg.DataDir).Msg("Reading workbooks from directory")
		return workbook.NewDirSource(cfg.DataDir), nil
	case config.SourceS3:
		src, err := workbook.NewS3Source(ctx, workbook.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			Prefix:          cfg.S3Prefix,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.S3Bucket).Str("prefix", cfg.S3Prefix).Msg("Reading workbooks from S3")
		return src, nil
	}
	return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
}

// Loader wires a fresh workbook cache to the spreadsheet loaders. m may be
// nil.
func Loader(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*sheetdata.Loader, *workbook.Cache, error) {
	src, err := Source(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	var (
		cacheOpts []workbook.Option
		loadOpts  []sheetdata.Option
	)
	if m != nil {
		cacheOpts = append(cacheOpts, workbook.WithObserver(m))
		loadOpts = append(loadOpts, sheetdata.WithReporter(m))
	}
	cache := workbook.NewCache(src, cacheOpts...)
	return sheetdata.New(cache, Files(cfg), loadOpts...), cache, nil
}

// Store opens the database and makes sure every table exists.
func Store(ctx context.Context, cfg *config.Config) (*repository.Store, *db.DB, error) {
	d, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBKeepalive)
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewStore(d)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = d.Close()
		return nil, nil, err
	}
	log.Info().Str("driver", string(d.Dialect)).Msg("Database ready")
	return store, d, nil
}
