package internal

import (
	"net/http"
	"pinstats/internal/controllers"
	"pinstats/internal/providers"
	"pinstats/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/progress", http.HandlerFunc(apiController.GetProgress))
	routers.Post("/run", http.HandlerFunc(apiController.StartRun))
	return routers
}
