package route

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	app_middleware "github.com/lesiontracker/tracker-server/route/middleware"
	"github.com/lesiontracker/tracker-server/route/shared"
	"github.com/lesiontracker/tracker-server/route/viewer"
)

func NewHandler() *echo.Echo {
	e := echo.New()

	e.HTTPErrorHandler = shared.APIErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Gzip())
	e.Use(middleware.RequestID())
	e.Use(app_middleware.SessionLogger)
	e.Use(app_middleware.I18n)
	e.Use(app_middleware.Transactional)

	viewer.RegisterAPI(e)

	return e
}
