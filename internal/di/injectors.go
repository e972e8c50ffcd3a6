//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"pinstats/internal"
	"pinstats/internal/checkpoint"
	"pinstats/internal/controllers"
	"pinstats/internal/geo"
	"pinstats/internal/pipeline"
	"pinstats/internal/providers"
	"pinstats/internal/services"
	"pinstats/internal/source"
	"pinstats/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		checkpoint.NewZstdCompressor,
		checkpoint.NewKVProvider,
		checkpoint.NewStore,
		geo.NewResolver,
		source.NewFetcher,
		services.NewAggregationService,
		pipeline.NewDriver,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
