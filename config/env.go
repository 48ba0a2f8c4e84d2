package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/service"
)

const (
	// dataBasePath 設定ファイルのベースパス。
	dataBasePath = "data/config"
)

var appConfig *configuration

// appConfiguration アプリケーション設定
//  `.env.{SERVER_ENV}` ファイルに含まれる設定値を取得し管理する
type configuration struct {
	Server   ServerConfiguration
	DB       lib.DatabaseConfiguration
	ReadDB   lib.DatabaseConfiguration
	Lang     lib.LanguageConfiguration
	JWT      lib.JWTConfiguration
	InfluxDB lib.InfluxDBConfiguration
	Viewer   ViewerConfiguration
}

// ServerConfig サーバ設定情報。
type ServerConfiguration struct {
	Port       string
	Dump       bool
	ApiVersion string `envconfig:"API_VERSION"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"debug"`
	LogSource  bool   `envconfig:"LOG_SOURCE"`
	Migrate    bool
}

// ViewerConfiguration ビューアセッション設定。
type ViewerConfiguration struct {
	MeasurementTools string        `envconfig:"MEASUREMENT_TOOLS" default:"data/config/measurement_tools.json"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL"`
	PatientCacheTTL  time.Duration `envconfig:"PATIENT_CACHE_TTL"`
}

func (cfg *ViewerConfiguration) String() string {
	return fmt.Sprintf(`[Viewer]
MeasurementTools: %v
SessionTTL:       %v
PatientCacheTTL:  %v`, cfg.MeasurementTools, cfg.SessionTTL, cfg.PatientCacheTTL)
}

func (cfg *ViewerConfiguration) sessionTTL() time.Duration {
	if cfg.SessionTTL <= 0 {
		return C.SessionDefaultTTL
	}
	return cfg.SessionTTL
}

func (cfg *ViewerConfiguration) patientCacheTTL() time.Duration {
	if cfg.PatientCacheTTL <= 0 {
		return C.PatientCacheDefaultTTL
	}
	return cfg.PatientCacheTTL
}

func SetupAll() {
	if appConfig == nil {
		env := strings.ToLower(os.Getenv("SERVER_ENV"))
		if len(env) == 0 {
			env = "test"
		}

		root := os.Getenv("SERVER_ROOT")

		paths := []string{path.Join(root, dataBasePath, ".env."+env)}
		if env != "test" {
			paths = append(paths, path.Join(root, dataBasePath, ".env.local"))
		} else {
			paths = append(paths, path.Join(root, dataBasePath, ".env.local.test"))
		}
		// .env.localは任意。
		if err := godotenv.Load(paths[0]); err != nil {
			log.Fatalf("Failed to load %v: %v\n", paths[0], err)
		}
		if _, err := os.Stat(paths[1]); err == nil {
			if err := godotenv.Load(paths[1]); err != nil {
				log.Fatalf("Failed to load %v: %v\n", paths[1], err)
			}
		}

		load := func(prefix string, config interface{}) {
			err := envconfig.Process(prefix, config)
			if err != nil {
				log.Printf("An error occured during loading %#v\n", err)
			}
		}

		appConfig = &configuration{}
		load("server", &appConfig.Server)
		load("db", &appConfig.DB)
		load("read_db", &appConfig.ReadDB)
		load("lang", &appConfig.Lang)
		load("jwt", &appConfig.JWT)
		load("influxdb", &appConfig.InfluxDB)
		load("viewer", &appConfig.Viewer)

		setLogger(&appConfig.Server)

		if env != "test" {
			log.Println(&appConfig.DB)
			log.Println(&appConfig.ReadDB)
			log.Println(&appConfig.JWT)
			log.Println(&appConfig.InfluxDB)
			log.Println(&appConfig.Viewer)
		}

		// Read/Write用DBの設定
		if err := lib.SetupDatabase(lib.WriteDBKey, &appConfig.DB); err != nil {
			log.Fatalf("Failed to setup default database %v\n", err.Error())
		}
		// Read用DBの設定
		if err := lib.SetupDatabase(lib.ReadDBKey, &appConfig.ReadDB); err != nil {
			log.Fatalf("Failed to setup read database %v\n", err.Error())
		}

		if err := lib.SetupInfluxDB(&appConfig.InfluxDB); err != nil {
			log.Fatalf("Failed to setup influxDB %v\n", err.Error())
		}
		if err := lib.SetupAuthentication(&appConfig.JWT); err != nil {
			log.Fatalf("Failed to setup authentication %v\n", err.Error())
		}

		if err := lib.SetupI18n(&appConfig.Lang); err != nil {
			log.Fatalf("Failed to setup i18n %v\n", err.Error())
		}

		model.SetupModels()

		if appConfig.Server.Migrate {
			if err := model.CreateTables(lib.GetDB(lib.WriteDBKey)); err != nil {
				log.Fatalf("Failed to create tables %v\n", err.Error())
			}
		}

		tools, err := model.LoadMeasurementConfiguration(path.Join(root, appConfig.Viewer.MeasurementTools))
		if err != nil {
			log.Fatalf("Failed to load measurement tools %v\n", err.Error())
		}

		service.SetupViewer(tools, appConfig.Viewer.sessionTTL(), appConfig.Viewer.patientCacheTTL())
	}
}

type ContextHook struct{}

func (hook ContextHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook ContextHook) Fire(entry *logrus.Entry) error {
	if pc, file, line, ok := runtime.Caller(10); ok {
		funcName := runtime.FuncForPC(pc).Name()
		entry.Data["source"] = fmt.Sprintf("%s:%v:%s", path.Base(file), line, path.Base(funcName))
	}

	return nil
}

func setLogger(cfg *ServerConfiguration) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	if level, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(level)
	}

	if cfg.LogSource {
		logrus.AddHook(ContextHook{})
	}
}

func ServerConfig() *ServerConfiguration {
	return &appConfig.Server
}

func ViewerConfig() *ViewerConfiguration {
	return &appConfig.Viewer
}
