package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/gorp.v2"

	"github.com/lesiontracker/tracker-server/lib"
)

// gorpのDbMap、Transactionの共通インタフェース。
type QueryExecutor interface {
	gorp.SqlExecutor
}

// 登録済みの全データベースにテーブルをマッピングする。
func SetupModels() {
	for _, key := range []string{lib.WriteDBKey, lib.ReadDBKey} {
		if db := lib.GetDB(key); db != nil {
			MapTables(db)
		}
	}
}

func MapTables(db *gorp.DbMap) {
	if _, e := db.TableFor(reflect.TypeOf(Timepoint{}), false); e == nil {
		return
	}

	tt := db.AddTableWithName(Timepoint{}, "timepoint").SetKeys(false, "TimepointId")
	tt.ColMap("StudyInstanceUids").SetMaxSize(4096)

	mt := db.AddTableWithName(Measurement{}, "measurement").SetKeys(false, "Id")
	mt.ColMap("Location").SetMaxSize(1024)
	mt.ColMap("Description").SetMaxSize(2048)
}

// マッピング済みのテーブルを作成する。
func CreateTables(db *gorp.DbMap) error {
	MapTables(db)
	return db.CreateTablesIfNotExists()
}

// JSON配列として保存される文字列リスト。
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, e := json.Marshal([]string(l))
	if e != nil {
		return nil, e
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var b []byte

	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}

	values := []string{}
	if e := json.Unmarshal(b, &values); e != nil {
		return e
	}
	*l = values

	return nil
}

func (l StringList) Contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}
	return false
}
