package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gorp.v2"

	C "github.com/lesiontracker/tracker-server/constant"
	S "github.com/lesiontracker/tracker-server/service"
	"github.com/lesiontracker/tracker-server/test"
	F "github.com/lesiontracker/tracker-server/test/fixture"
)

func newViewerService(db *gorp.DbMap) *S.ViewerService {
	return &S.ViewerService{
		DB:       db,
		Config:   F.MeasurementConfiguration(),
		Registry: S.NewSessionRegistry(time.Hour, time.Hour),
	}
}

func TestFirstMeasurement_Run(t *testing.T) {
	db := test.SetupDatabase(t)

	tps := F.Timepoints("p1", 2, nil)
	F.InsertTimepoints(t, db, tps...)
	F.InsertMeasurements(t, db, F.Measurements(tps[1], C.ToolTypeBidirectional, 3, 1, 5)...)

	t.Run("最初の計測を表示", func(t *testing.T) {
		service := newViewerService(db)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		assert.Equal(t, 0, run(service, "p1", "p1-tp2", nil, 5*time.Second, stdout, stderr))

		result := S.ActivationResult{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.EqualValues(t, S.ActivationActivated, result.Status)
		assert.Equal(t, 5, result.Row.MeasurementNumber)

		assert.Equal(t, 0, service.Registry.Count())
	})

	t.Run("現在のタイムポイントが無い", func(t *testing.T) {
		service := newViewerService(db)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		assert.Equal(t, 1, run(service, "p1", "", nil, 5*time.Second, stdout, stderr))
		assert.Contains(t, stderr.String(), string(S.SkipNoCurrentTimepoint))

		assert.Equal(t, 0, service.Registry.Count())
	})
}

func TestFirstMeasurement_RunLoadFailure(t *testing.T) {
	db := test.SetupDatabase(t)

	// 読み込みに失敗してもセッションは終了する。
	require.NoError(t, db.Db.Close())

	service := newViewerService(db)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	assert.Equal(t, 1, run(service, "p1", "p1-tp2", nil, 5*time.Second, stdout, stderr))
	assert.Contains(t, stderr.String(), "Failed to load session")
	assert.Empty(t, stdout.String())

	assert.Equal(t, 0, service.Registry.Count())
}
