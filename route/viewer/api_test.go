package viewer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gorp.v2"

	"github.com/lesiontracker/tracker-server/config"
	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/model"
	app_middleware "github.com/lesiontracker/tracker-server/route/middleware"
	"github.com/lesiontracker/tracker-server/route/shared"
	S "github.com/lesiontracker/tracker-server/service"
	"github.com/lesiontracker/tracker-server/test"
	F "github.com/lesiontracker/tracker-server/test/fixture"
)

const (
	testReader = "reader-1"
)

func init() {
	os.Setenv("SERVER_ENV", "test")
	if os.Getenv("SERVER_ROOT") == "" {
		os.Setenv("SERVER_ROOT", "../..")
	}
	config.SetupAll()
}

func testHandler() *echo.Echo {
	e := echo.New()

	e.HTTPErrorHandler = shared.APIErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(app_middleware.SessionLogger)
	e.Use(app_middleware.I18n)
	e.Use(app_middleware.Transactional)

	RegisterAPI(e)

	return e
}

func token(t *testing.T, subject string) string {
	token, err := lib.CreateToken(subject)
	require.NoError(t, err)
	return token
}

func studyUid(i int) string {
	return fmt.Sprintf("1.2.392.200036.%d", i)
}

// 患者のタイムポイント3件と計測を登録する。
// p-tp3(最新)とp-tp2に双方向計測1, 3, 5、p-tp2に非ターゲット1、長さ計測2。
func insertPatient(t *testing.T, db *gorp.DbMap, patientId string) []*model.Timepoint {
	tps := F.Timepoints(patientId, 3, func(i int, tp *model.Timepoint) {
		tp.StudyInstanceUids = model.StringList{studyUid(i)}
	})
	F.InsertTimepoints(t, db, tps...)

	F.InsertMeasurements(t, db, F.Measurements(tps[2], C.ToolTypeBidirectional, 3, 1, 5)...)
	F.InsertMeasurements(t, db, F.Measurements(tps[1], C.ToolTypeBidirectional, 3, 1, 5)...)
	F.InsertMeasurements(t, db, F.Measurements(tps[1], C.ToolTypeNonTarget, 1)...)
	F.InsertMeasurements(t, db, F.Measurements(tps[1], C.ToolTypeLength, 2)...)

	return tps
}

// セッションを開き、読み込み完了まで待つ。
func openLoadedSession(t *testing.T, owner string, patientId string, currentTimepointId string, studyUids ...string) *S.ViewerSession {
	service := &S.ViewerService{
		DB:       lib.GetDB(lib.ReadDBKey),
		Config:   S.MeasurementConfig(),
		Registry: S.Sessions(),
	}

	session, done := service.Open(owner, patientId, currentTimepointId, studyUids)
	require.NoError(t, <-done)

	t.Cleanup(func() {
		S.Sessions().Close(session.Id)
	})

	return session
}

func TestViewerHealth(t *testing.T) {
	test.SetupDatabase(t)

	httpTests := test.HttpTests{
		{
			Name:   "認証不要",
			Method: http.MethodGet,
			Path:   "/1/health",
			Check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				res := F.FromJsonResponse(t, rec, &healthResponse{}).(*healthResponse)
				assert.Equal(t, "ok", res.Status)
			},
		},
	}

	httpTests.Run(testHandler(), t, nil)
}

func TestViewerAuthentication(t *testing.T) {
	test.SetupDatabase(t)

	httpTests := test.HttpTests{
		{
			Name:   "トークン無し",
			Method: http.MethodGet,
			Path:   "/1/sessions/unknown",
			Check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				res := F.FromJsonResponse(t, rec, &shared.ErrorResponse{}).(*shared.ErrorResponse)
				assert.Equal(t, "token_not_found", res.Code)
			},
		},
		{
			Name:   "不正なトークン",
			Method: http.MethodGet,
			Token:  "invalid",
			Path:   "/1/sessions/unknown",
			Check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				res := F.FromJsonResponse(t, rec, &shared.ErrorResponse{}).(*shared.ErrorResponse)
				assert.Equal(t, "invalid_token", res.Code)
			},
		},
		{
			Name:   "認証成功",
			Method: http.MethodGet,
			Token:  token(t, testReader),
			Path:   "/1/sessions/unknown",
			Check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusNotFound, rec.Code)
				res := F.FromJsonResponse(t, rec, &shared.ErrorResponse{}).(*shared.ErrorResponse)
				assert.Equal(t, "session_not_found", res.Code)
				assert.Equal(t, "Viewer session unknown is not found", res.Message)
			},
		},
		{
			Name:   "日本語",
			Method: http.MethodGet,
			Token:  token(t, testReader),
			Path:   "/1/sessions/unknown",
			Header: func(h map[string]string) {
				h[shared.HeaderAcceptLanguage] = "ja"
			},
			Check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusNotFound, rec.Code)
				res := F.FromJsonResponse(t, rec, &shared.ErrorResponse{}).(*shared.ErrorResponse)
				assert.Equal(t, "ビューアセッションunknownが見つかりません", res.Message)
			},
		},
	}

	httpTests.Run(testHandler(), t, nil)
}
