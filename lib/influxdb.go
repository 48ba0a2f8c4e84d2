package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2"
	influxdb_log "github.com/influxdata/influxdb-client-go/v2/log"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

//----------------------------------------------------------------
// 設定関連
//----------------------------------------------------------------
type InfluxDBConfiguration struct {
	Url          string
	Token        string
	Organization string
	LogLevel     int
}

func (cfg *InfluxDBConfiguration) String() string {
	return fmt.Sprintf(`[InfluxDB]
Url:          %v
Organization: %v
LogLevel:     %v`, cfg.Url, cfg.Organization, cfg.LogLevel)
}

type configuredClient struct {
	influxdb2.Client
	configuration *InfluxDBConfiguration
}

var defaultClient *configuredClient

// InfluxDBクライアントを初期化する。
// URLが未設定の場合は何もせず、GetInfluxDBはnilを返す。
func SetupInfluxDB(cfg *InfluxDBConfiguration) error {
	if cfg.Url == "" {
		return nil
	}

	options := influxdb2.DefaultOptions()

	switch uint(cfg.LogLevel) {
	case influxdb_log.ErrorLevel, influxdb_log.WarningLevel, influxdb_log.InfoLevel, influxdb_log.DebugLevel:
		options.SetLogLevel(uint(cfg.LogLevel))
	}

	client := influxdb2.NewClientWithOptions(cfg.Url, cfg.Token, options)

	if isReady, e := client.Ready(context.Background()); e != nil {
		return e
	} else if isReady == nil || isReady.Status == nil {
		return fmt.Errorf("InfluxDB is not ready yet")
	}

	defaultClient = &configuredClient{client, cfg}

	return nil
}

func GetInfluxDB() InfluxDBClient {
	if defaultClient == nil {
		return nil
	}
	return defaultClient
}

//----------------------------------------------------------------
// InfluxDBアクセサ
//----------------------------------------------------------------
type SchemaRecord struct {
	Tags      map[string]string
	Fields    map[string]interface{}
	Timestamp time.Time
}

type Point interface {
	Measurement() string
	ToRecord(*SchemaRecord)
}

type InfluxDBClient interface {
	Insert(ctx context.Context, bucket string, points ...Point) error
}

func toWritePoint(p Point) *write.Point {
	record := SchemaRecord{map[string]string{}, map[string]interface{}{}, time.Unix(0, 0)}

	p.ToRecord(&record)

	return influxdb2.NewPoint(p.Measurement(), record.Tags, record.Fields, record.Timestamp)
}

func (c *configuredClient) Insert(ctx context.Context, bucket string, points ...Point) error {
	api := c.Client.WriteAPIBlocking(c.configuration.Organization, bucket)

	wps := make([]*write.Point, 0, len(points))
	for _, p := range points {
		wps = append(wps, toWritePoint(p))
	}

	return api.WritePoint(ctx, wps...)
}
