package lib

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/gorp.v2"
)

const (
	WriteDBKey string = "write_db"
	ReadDBKey         = "read_db"
)

const (
	DriverPostgres string = "postgres"
	DriverSqlite3         = "sqlite3"
)

// Database データース設定。
// Driverがsqlite3の場合、Nameはデータソース名としてそのまま扱う。
type DatabaseConfiguration struct {
	Driver   string `default:"postgres"`
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Maxconns int `envconfig:"MAX_CONNS"`
	Maxidles int `envconfig:"MAX_IDLES"`
	Lifetime int
	Debug    bool
}

func (db *DatabaseConfiguration) String() string {
	return fmt.Sprintf(`[Database]
Driver:         %v
Host:           %v
Port:           %v
Dbname:         %v
MaxConnections: %v
MaxIdles:       %v`, db.Driver, db.Host, db.Port, db.Name, db.Maxconns, db.Maxidles)
}

func (db *DatabaseConfiguration) driver() string {
	if db.Driver == "" {
		return DriverPostgres
	}
	return db.Driver
}

func (db *DatabaseConfiguration) connection() string {
	if db.driver() == DriverSqlite3 {
		return db.Name
	}
	return fmt.Sprintf(
		"host=%v port=%v user=%v password=%v dbname=%v sslmode=disable",
		db.Host, db.Port, db.User, db.Password, db.Name,
	)
}

func (db *DatabaseConfiguration) dialect() gorp.Dialect {
	if db.driver() == DriverSqlite3 {
		return gorp.SqliteDialect{}
	}
	return gorp.PostgresDialect{}
}

var databases = map[string]*gorp.DbMap{}

func SetupDatabase(name string, db *DatabaseConfiguration) error {
	if _, ok := databases[name]; ok {
		return nil
	}

	conn, err := sql.Open(db.driver(), db.connection())
	if err != nil {
		return err
	}
	if db.Maxconns > 0 {
		conn.SetMaxOpenConns(db.Maxconns)
	}
	if db.Maxidles > 0 {
		conn.SetMaxIdleConns(db.Maxidles)
	}
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("database connection error: %v", err)
	}

	dbmap := &gorp.DbMap{Db: conn, Dialect: db.dialect(), ExpandSliceArgs: true}

	if db.Debug {
		dbmap.TraceOn("", log.New(os.Stdout, "[Gorp] ", log.Ltime))
	}

	databases[name] = dbmap

	return nil
}

// 既に接続済みのDbMapを登録する。
func RegisterDatabase(name string, dbmap *gorp.DbMap) {
	databases[name] = dbmap
}

func GetDB(name string) *gorp.DbMap {
	return databases[name]
}
