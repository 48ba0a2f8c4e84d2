package viewer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	app_middleware "github.com/lesiontracker/tracker-server/route/middleware"
	"github.com/lesiontracker/tracker-server/route/shared"
	S "github.com/lesiontracker/tracker-server/service"
)

func RegisterAPI(e *echo.Echo) {
	router := e.Group("/1")

	router.Use(app_middleware.BearerAuth(app_middleware.DefaultSkipPatterns))

	registerAPIs(router)
}

func registerAPIs(router *echo.Group) {
	// 疎通確認。
	router.GET("/health", shared.C(health))

	// セッション。
	router.POST("/sessions", shared.C(openSession))
	router.GET("/sessions/:session_id", shared.C(fetchSession))
	router.DELETE("/sessions/:session_id", shared.C(closeSession))
	router.POST("/sessions/:session_id/rendered", shared.C(markRendered))
	router.PUT("/sessions/:session_id/current-timepoint", shared.C(changeCurrentTimepoint))

	// タイムポイント。
	router.GET("/sessions/:session_id/timepoints", shared.C(listTimepoints))
	router.GET("/sessions/:session_id/studies/:study_uid/timepoint-type", shared.C(fetchStudyTimepointType))

	// 計測。
	router.GET("/sessions/:session_id/rows", shared.C(listRows))
	router.PUT("/sessions/:session_id/rows/:measurement_number/label", shared.C(updateLabel))
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// health godoc
// @summary 疎通確認。
// @tags [viewer] Health
// @produce json
// @success 200 {object} healthResponse "稼働中のセッション数。"
// @router /1/health [get]
func health(c *shared.Context) error {
	count := 0
	if registry := S.Sessions(); registry != nil {
		count = registry.Count()
	}

	return c.JSON(http.StatusOK, &healthResponse{"ok", count})
}
