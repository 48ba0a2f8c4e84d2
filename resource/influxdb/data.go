package influxdb

import (
	"context"
	"time"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/lib"
)

// 最初の計測の自動表示イベント。
type ActivationPoint struct {
	SessionId         string
	PatientId         string
	ToolType          string
	MeasurementNumber int
	TimepointCount    int
	Timestamp         time.Time
}

func (p *ActivationPoint) Measurement() string {
	return C.ActivationPointMeasurement
}

func (p *ActivationPoint) ToRecord(r *lib.SchemaRecord) {
	r.Tags["session_id"] = p.SessionId
	r.Tags["patient_id"] = p.PatientId
	r.Tags["tool_type"] = p.ToolType
	r.Fields["measurement_number"] = p.MeasurementNumber
	r.Fields["timepoints"] = p.TimepointCount
	r.Timestamp = p.Timestamp
}

// 自動表示イベントを記録する。
func RecordActivation(
	ctx context.Context,
	influx lib.InfluxDBClient,
	point *ActivationPoint,
) error {
	if e := influx.Insert(ctx, C.ActivationPointBucket, point); e != nil {
		return C.INFLUXDB_OPERATION_ERROR(e)
	}
	return nil
}
