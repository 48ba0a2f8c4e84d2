package test

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/gorp.v2"

	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/model"
)

// テスト毎に独立したインメモリのSQLiteデータベースを作成し、読み書き両方のキーに登録する。
func SetupDatabase(t *testing.T) *gorp.DbMap {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	conn, err := sql.Open(lib.DriverSqlite3, dsn)
	require.NoError(t, err)

	// 共有キャッシュのロック競合を避ける。
	conn.SetMaxOpenConns(1)

	db := &gorp.DbMap{Db: conn, Dialect: gorp.SqliteDialect{}, ExpandSliceArgs: true}

	require.NoError(t, model.CreateTables(db))

	lib.RegisterDatabase(lib.WriteDBKey, db)
	lib.RegisterDatabase(lib.ReadDBKey, db)

	t.Cleanup(func() {
		conn.Close()
	})

	return db
}
