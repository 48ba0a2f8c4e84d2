package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/route/shared"
)

func Transactional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		cc := &shared.Context{Context: c}

		defer func() {
			if e := recover(); e != nil {
				cc.Rollback()
				cc.Log().WithFields(log.Fields{
					"panic": e,
				}).Warning("panic occured")
				if pe, ok := e.(error); ok {
					err = pe
				} else {
					err = fmt.Errorf("%v", e)
				}
			}
		}()

		if err = next(cc); err != nil {
			cc.Rollback()
		} else if e := cc.Commit(); e != nil {
			cc.Rollback()
			err = e
		}
		return err
	}
}

func SessionLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := log.WithFields(log.Fields{"request_id": c.Response().Header().Get(echo.HeaderXRequestID)})
		c.Set(shared.ContextSessionLoggerKey, logger)
		return next(c)
	}
}

func I18n(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		acceptLang := c.Request().Header.Get(shared.HeaderAcceptLanguage)
		paramLang := c.QueryParam("lang")

		localizer := lib.NewLocalizer(paramLang, acceptLang)
		c.Set(shared.ContextI18NLangKey, localizer)

		return next(c)
	}
}
