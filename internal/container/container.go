package container

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"datacatalog/adapters/excel"
	"datacatalog/adapters/objectstore"
	"datacatalog/adapters/sqlstore"
	"datacatalog/app"
	"datacatalog/internal/api"
	"datacatalog/internal/config"
	"datacatalog/internal/dataset"
	"datacatalog/internal/errors"
	"datacatalog/internal/logger"
	"datacatalog/internal/sensitivity"
	"datacatalog/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Repositories and sources, nil when not configured
	Assets  ports.AssetRepository
	Objects ports.ObjectSource

	Analyzer *app.AnalysisService
	Storage  *dataset.LocalFileStorage

	log zerolog.Logger
}

// New configures logging and builds every component the configuration enables
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}

	logger.SetGlobal(logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	}))

	c := &Container{
		Config: cfg,
		log:    logger.Component("Container"),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initObjectStore(); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}

	analysisConfig, err := AnalysisConfig(cfg)
	if err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	c.Analyzer = app.NewAnalysisService(analysisConfig, c.Assets)
	c.Storage = dataset.NewLocalFileStorageWithPath(cfg.Upload.Dir)

	c.log.Info().
		Bool("database", c.DB != nil).
		Bool("object_store", c.Objects != nil).
		Str("upload_dir", cfg.Upload.Dir).
		Msg("container initialized")
	return c, nil
}

// AnalysisConfig translates the application config into the analysis pipeline config
func AnalysisConfig(cfg *config.Config) (app.AnalysisServiceConfig, error) {
	rules, err := sensitivity.LoadRules(cfg.Classifier.RulesFile)
	if err != nil {
		return app.AnalysisServiceConfig{}, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	excelConfig := excel.DefaultExcelConfig()
	excelConfig.ProfilingConfig.PreviewRows = cfg.Profiling.PreviewRows
	excelConfig.ProfilingConfig.TopValues = cfg.Profiling.TopValues
	excelConfig.ProfilingConfig.PIISampleSize = cfg.Profiling.PIISampleSize

	return app.AnalysisServiceConfig{
		Excel:       excelConfig,
		Rules:       rules,
		MaxFileSize: cfg.Upload.MaxFileSizeBytes(),
	}, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.log.Info().Msg("no DATABASE_URL configured, assets will not be persisted")
		return nil
	}

	db, err := sqlstore.Open(ctx, c.Config.Database.Driver, c.Config.Database.DSN, c.Config.Database.AutoMigrate)
	if err != nil {
		return errors.Wrap(err, "failed to initialize database")
	}
	repo, err := sqlstore.NewAssetRepository(db)
	if err != nil {
		db.Close()
		return err
	}
	c.DB = db
	c.Assets = repo
	return nil
}

func (c *Container) initObjectStore() error {
	if !c.Config.ObjectStore.Enabled() {
		return nil
	}
	source, err := objectstore.New(c.Config.ObjectStore)
	if err != nil {
		return err
	}
	c.Objects = source
	return nil
}

// HTTPServer builds the upload transport over the container's analyzer
func (c *Container) HTTPServer() *api.Server {
	return api.NewServer(c.Analyzer, c.Storage, api.Options{
		MaxConcurrent:  c.Config.Upload.MaxConcurrent,
		MaxFileSize:    c.Config.Upload.MaxFileSizeBytes(),
		UploadDir:      c.Config.Upload.Dir,
		KeepStagedFile: c.Config.Upload.KeepStagedFile,
	})
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	err := c.DB.Close()
	c.DB = nil
	if err != nil {
		return errors.DatabaseError("failed to close database", err)
	}
	return nil
}
