package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinstats/internal/controllers"
	"pinstats/internal/structures"
)

func TestInitRoutes(t *testing.T) {
	router := InitRoutes(&controllers.ApiController{}, &structures.Config{})

	routes := router.GetRoutes()
	require.Len(t, routes, 3)

	urls := make([]string, 0, len(routes))
	for _, route := range routes {
		urls = append(urls, route.Url)
		assert.NotNil(t, route.Handler)
	}
	assert.Equal(t, []string{"/stats", "/progress", "/run"}, urls)
}
