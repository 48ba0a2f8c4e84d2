package shared

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/gorp.v2"

	"github.com/lesiontracker/tracker-server/lib"
)

const (
	contextTxDatabaseKey    string = "tx_db"
	contextReadDatabaseKey         = "read_db"
	ContextSessionLoggerKey        = "session_logger"
	ContextI18NLangKey             = "lang_key"
	ContextMeKey                   = "me"
)

const (
	HeaderAcceptLanguage = "Accept-Language"
)

type Context struct {
	echo.Context
}

type contextFunc func(c *Context) error

// C カスタマイズしたコンテキストをWrapする
func C(ctxFunc contextFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cc, ok := c.(*Context); ok {
			return ctxFunc(cc)
		}
		return ctxFunc(&Context{c})
	}
}

func (c *Context) GetTransaction() *gorp.Transaction {
	db := c.Get(contextTxDatabaseKey)
	if db != nil {
		return db.(*gorp.Transaction)
	}
	_db := lib.GetDB(lib.WriteDBKey)
	if tx, err := _db.Begin(); err != nil {
		return nil
	} else {
		c.Set(contextTxDatabaseKey, tx)
		return tx
	}
}

func (c *Context) GetReadDB() *gorp.DbMap {
	db := c.Get(contextReadDatabaseKey)
	if db != nil {
		return db.(*gorp.DbMap)
	}
	_db := lib.GetDB(lib.ReadDBKey)
	c.Set(contextReadDatabaseKey, _db)
	return _db
}

// トランザクションを確定する。以降のGetTransactionは新たなトランザクションを開始する。
func (c *Context) Commit() error {
	db := c.Get(contextTxDatabaseKey)
	if db != nil {
		if _db, ok := db.(*gorp.Transaction); ok {
			c.Set(contextTxDatabaseKey, nil)
			return _db.Commit()
		}
	}
	return nil
}

func (c *Context) Rollback() {
	db := c.Get(contextTxDatabaseKey)
	if db != nil {
		if _db, ok := db.(*gorp.Transaction); ok {
			c.Set(contextTxDatabaseKey, nil)
			_db.Rollback()
		}
	}
}

// パスパラメータを整数として取得する。
func (c *Context) IntParam(key string) (int, bool) {
	param := c.Param(key)
	if len(param) == 0 {
		return 0, false
	}
	if intParam, err := strconv.Atoi(param); err != nil {
		return 0, false
	} else {
		return intParam, true
	}
}

// 認証済みのトークンのサブジェクト。
func (c *Context) Me() string {
	if me, ok := c.Get(ContextMeKey).(string); ok {
		return me
	}
	return ""
}

func (c *Context) Localizer() *lib.Localizer {
	if l, ok := c.Get(ContextI18NLangKey).(*lib.Localizer); ok {
		return l
	}
	return lib.NewLocalizer()
}

func (c *Context) Log() *logrus.Entry {
	if l, ok := c.Get(ContextSessionLoggerKey).(*logrus.Entry); ok {
		return l
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
