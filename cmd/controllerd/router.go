package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/lsf-controller/pkg/version"
)

// newRouter builds the gin HTTP control surface: /health, /debug/catalog/:type,
// /debug/pool, /debug/signals. Grounded on cmd/tarsy/main.go's minimal gin.Default() router.
func newRouter(app *application) *gin.Engine {
	router := gin.Default()

	router.GET("/health", app.healthHandler)
	router.GET("/debug/catalog/:type", app.debugCatalogHandler)
	router.GET("/debug/pool", app.debugPoolHandler)
	router.GET("/debug/signals", app.signalsWSHandler)

	return router
}

func (a *application) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   version.Full(),
		"device_id": a.cfg.Device.ID,
		"catalog": gin.H{
			"lamps":         a.catalog.Lamps.Len(),
			"groups":        a.catalog.Groups.Len(),
			"presets":       a.catalog.Presets.Len(),
			"scenes":        a.catalog.Scenes.Len(),
			"master_scenes": a.catalog.MasterScenes.Len(),
		},
		"pool": gin.H{
			"lamps": a.pool.Len(),
		},
	})
}

func (a *application) debugCatalogHandler(c *gin.Context) {
	switch c.Param("type") {
	case "lamps":
		c.JSON(http.StatusOK, a.catalog.Lamps.Snapshot())
	case "groups":
		c.JSON(http.StatusOK, a.catalog.Groups.Snapshot())
	case "presets":
		c.JSON(http.StatusOK, a.catalog.Presets.Snapshot())
	case "scenes":
		c.JSON(http.StatusOK, a.catalog.Scenes.Snapshot())
	case "master_scenes":
		c.JSON(http.StatusOK, a.catalog.MasterScenes.Snapshot())
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown catalog type"})
	}
}

func (a *application) debugPoolHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.pool.Snapshot())
}
