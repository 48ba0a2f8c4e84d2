package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/resource/influxdb"
	F "github.com/lesiontracker/tracker-server/test/fixture"
)

type recordingInflux struct {
	bucket string
	points []lib.Point
	err    error
}

func (r *recordingInflux) Insert(ctx context.Context, bucket string, points ...lib.Point) error {
	r.bucket = bucket
	r.points = append(r.points, points...)
	return r.err
}

func TestNavigationSink_Activate(t *testing.T) {
	tps := F.Timepoints("p1", 2, nil)
	rows := model.GroupRows(C.ToolTypeBidirectional, F.Measurements(tps[1], C.ToolTypeBidirectional, 5))

	influx := &recordingInflux{}
	sink := &NavigationSink{Influx: influx, SessionId: "s1", PatientId: "p1"}

	sink.Activate(rows[0], []*model.Timepoint{tps[1], tps[0]})

	assert.Equal(t, C.ActivationPointBucket, influx.bucket)
	require.Len(t, influx.points, 1)

	point := influx.points[0].(*influxdb.ActivationPoint)
	assert.Equal(t, "s1", point.SessionId)
	assert.Equal(t, "p1", point.PatientId)
	assert.Equal(t, C.ToolTypeBidirectional, point.ToolType)
	assert.Equal(t, 5, point.MeasurementNumber)
	assert.Equal(t, 2, point.TimepointCount)
}

func TestNavigationSink_WithoutInflux(t *testing.T) {
	tps := F.Timepoints("p1", 1, nil)
	rows := model.GroupRows(C.ToolTypeBidirectional, F.Measurements(tps[0], C.ToolTypeBidirectional, 1))

	sink := &NavigationSink{SessionId: "s1", PatientId: "p1"}

	assert.NotPanics(t, func() {
		sink.Activate(rows[0], tps)
	})
}

func TestNavigationSink_InfluxFailure(t *testing.T) {
	tps := F.Timepoints("p1", 1, nil)
	rows := model.GroupRows(C.ToolTypeBidirectional, F.Measurements(tps[0], C.ToolTypeBidirectional, 1))

	influx := &recordingInflux{err: errors.New("unavailable")}
	sink := &NavigationSink{Influx: influx, SessionId: "s1", PatientId: "p1"}

	// 記録の失敗は表示に影響しない。
	assert.NotPanics(t, func() {
		sink.Activate(rows[0], tps)
	})
	assert.Len(t, influx.points, 1)
}
