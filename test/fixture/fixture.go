package fixture

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/gorp.v2"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/model"
)

// フィクスチャの基準日時。
var BaseDate = time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC)

func If(cond bool, a interface{}, b interface{}) interface{} {
	if cond {
		return a
	} else {
		return b
	}
}

// 患者のタイムポイントを作成する。
// 1番目がベースライン、以降がフォローアップで、iが大きいほど新しい。
func Timepoints(patientId string, n int, modifier func(int, *model.Timepoint)) []*model.Timepoint {
	results := []*model.Timepoint{}

	for i := 1; i <= n; i++ {
		t := &model.Timepoint{
			TimepointId:       fmt.Sprintf("%s-tp%d", patientId, i),
			PatientId:         patientId,
			TimepointType:     If(i == 1, string(C.TimepointTypeBaseline), string(C.TimepointTypeFollowup)).(string),
			LatestDate:        BaseDate.AddDate(0, 3*(i-1), 0),
			StudyInstanceUids: model.StringList{fmt.Sprintf("%s-study%d", patientId, i)},
		}
		if modifier != nil {
			modifier(i, t)
		}
		results = append(results, t)
	}

	return results
}

// タイムポイントの計測を作成する。
func Measurements(timepoint *model.Timepoint, toolType string, numbers ...int) []*model.Measurement {
	results := []*model.Measurement{}

	for i, n := range numbers {
		results = append(results, &model.Measurement{
			Id:                fmt.Sprintf("%s-%s-%d", timepoint.TimepointId, toolType, n),
			PatientId:         timepoint.PatientId,
			TimepointId:       timepoint.TimepointId,
			ToolType:          toolType,
			MeasurementNumber: n,
			Location:          fmt.Sprintf("location %d", n),
			CreatedAt:         timepoint.LatestDate.Add(time.Duration(i) * time.Minute),
			ModifiedAt:        timepoint.LatestDate.Add(time.Duration(i) * time.Minute),
		})
	}

	return results
}

func InsertTimepoints(t *testing.T, db *gorp.DbMap, timepoints ...*model.Timepoint) {
	for _, tp := range timepoints {
		require.NoError(t, db.Insert(tp))
	}
}

func InsertMeasurements(t *testing.T, db *gorp.DbMap, measurements ...*model.Measurement) {
	for _, m := range measurements {
		require.NoError(t, db.Insert(m))
	}
}

// 標準の計測ツール設定。
func MeasurementConfiguration() *model.MeasurementConfiguration {
	return &model.MeasurementConfiguration{
		MeasurementTools: []model.MeasurementToolGroup{
			{
				Id:   "targets",
				Name: "Targets",
				ChildTools: []model.MeasurementTool{
					{Id: C.ToolTypeBidirectional, Name: "Target"},
					{Id: C.ToolTypeNonTarget, Name: "Non-Target"},
				},
			},
			{
				Id:   "temp",
				Name: "Temporary",
				ChildTools: []model.MeasurementTool{
					{Id: C.ToolTypeLength, Name: "Temp"},
				},
			},
		},
	}
}

// FromJsonResponse レスポンスボディをdestにデコードして返す。
func FromJsonResponse(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) interface{} {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
	return dest
}
