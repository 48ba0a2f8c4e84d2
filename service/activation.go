package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/resource/influxdb"
)

const (
	activationRecordTimeout = time.Duration(5) * time.Second
)

// 最初の計測の表示先。表示先そのものはクライアントがセッションの結果から取得する。
// InfluxDBが設定されている場合は自動表示イベントを記録する。
type NavigationSink struct {
	*Service
	Influx    lib.InfluxDBClient
	SessionId string
	PatientId string
}

func (s *NavigationSink) Activate(row *model.Row, timepoints []*model.Timepoint) {
	timepointIds := model.TimepointIds(timepoints)

	s.logger().WithFields(logrus.Fields{
		"measurement_type":   row.MeasurementTypeId,
		"measurement_number": row.MeasurementNumber,
		"entries":            len(row.Entries),
		"timepoints":         timepointIds,
	}).Info("jump to measurement row")

	if s.Influx == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), activationRecordTimeout)
	defer cancel()

	if e := influxdb.RecordActivation(ctx, s.Influx, &influxdb.ActivationPoint{
		SessionId:         s.SessionId,
		PatientId:         s.PatientId,
		ToolType:          row.MeasurementTypeId,
		MeasurementNumber: row.MeasurementNumber,
		TimepointCount:    len(timepoints),
		Timestamp:         time.Now(),
	}); e != nil {
		s.logger().WithError(e).Warn("failed to record activation")
	}
}
