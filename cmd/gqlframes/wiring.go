package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gqlframes/internal/config"
	"github.com/kailas-cloud/gqlframes/internal/domain/interp"
	"github.com/kailas-cloud/gqlframes/internal/domain/query"
	"github.com/kailas-cloud/gqlframes/internal/transport/graphql"
	dsuc "github.com/kailas-cloud/gqlframes/internal/usecase/datasource"
	healthuc "github.com/kailas-cloud/gqlframes/internal/usecase/health"
)

// loadConfig reads --config when given, otherwise config/<ENV>.yaml.
func loadConfig() (config.Config, string, error) {
	env := config.GetEnv()
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		return cfg, env, err
	}
	cfg, err := config.Load(env)
	return cfg, env, err
}

func queryDefaults(c config.QueryDefaultsConfig) query.Query {
	return query.Query{
		QueryText:       c.QueryText,
		DataPath:        c.DataPath,
		GroupBy:         c.GroupBy,
		AliasBy:         c.AliasBy,
		AnnotationTitle: c.AnnotationTitle,
		AnnotationText:  c.AnnotationText,
		AnnotationTags:  c.AnnotationTags,
	}.WithDefaults(query.Default())
}

// buildService assembles transport, interpolator and service for one datasource.
func buildService(
	name string, ds config.DatasourceConfig, defaults query.Query, logger *zap.Logger,
) *dsuc.Service {
	client := graphql.NewClient(&graphql.Config{
		Name:            name,
		URL:             ds.URL,
		BasicAuth:       ds.BasicAuth,
		WithCredentials: ds.WithCredentials,
		Timeout:         time.Duration(ds.TimeoutSec) * time.Second,
		ValidateQuery:   ds.ValidateQuery,
		Logger:          logger,
	})
	logger.Debug("datasource configured",
		zap.String("datasource", name),
		zap.String("url", ds.URL),
		zap.Bool("credentials", client.IncludeCredentials()),
		zap.Bool("validate_query", ds.ValidateQuery),
	)
	return dsuc.New(name, client, interp.New(ds.Variables), logger).WithDefaults(defaults)
}

// buildRegistry wires every configured datasource plus a health service over them.
func buildRegistry(cfg config.Config, logger *zap.Logger) (*dsuc.Registry, *healthuc.Service) {
	defaults := queryDefaults(cfg.QueryDefaults)

	services := make([]*dsuc.Service, 0, len(cfg.Datasources))
	checkers := make([]healthuc.Checker, 0, len(cfg.Datasources))
	for name, ds := range cfg.Datasources {
		svc := buildService(name, ds, defaults, logger)
		services = append(services, svc)
		checkers = append(checkers, svc)
	}
	return dsuc.NewRegistry(services...), healthuc.New(checkers...)
}
