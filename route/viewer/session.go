package viewer

import (
	"net/http"

	v "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/route/shared"
	S "github.com/lesiontracker/tracker-server/service"
)

type sessionResponse struct {
	Id               string                  `json:"id"`
	PatientId        string                  `json:"patientId"`
	Flags            model.ReadinessFlags    `json:"flags"`
	DataSourcesReady bool                    `json:"dataSourcesReady"`
	Latch            S.LatchState            `json:"latch"`
	Outcome          *S.ActivationResult     `json:"outcome"`
	Target           *model.NavigationTarget `json:"target"`
	Studies          []S.Study               `json:"studies"`
}

func newSessionResponse(session *S.ViewerSession) *sessionResponse {
	flags := session.Flags()
	outcome := session.Outcome()

	var target *model.NavigationTarget
	if outcome != nil && outcome.Activated() {
		target = &model.NavigationTarget{Row: outcome.Row, Timepoints: outcome.Timepoints}
	}

	return &sessionResponse{
		Id:               session.Id,
		PatientId:        session.PatientId,
		Flags:            flags,
		DataSourcesReady: flags.DataSourcesReady(),
		Latch:            session.Latch(),
		Outcome:          outcome,
		Target:           target,
		Studies:          session.Studies(),
	}
}

type openSessionBody struct {
	PatientId          string   `json:"patientId"`
	CurrentTimepointId string   `json:"currentTimepointId"`
	StudyInstanceUids  []string `json:"studyInstanceUids"`
}

func (b openSessionBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.PatientId, shared.IdentifierRules...),
		v.Field(&b.CurrentTimepointId, v.Length(0, 128)),
		v.Field(&b.StudyInstanceUids, v.Each(shared.StudyInstanceUidRules...)),
	)
}

// openSession godoc
// @summary ビューアセッションを開始する。
// @description タイムポイントと計測の読み込みはバックグラウンドで行われる。
// @tags [viewer] Session
// @accept json
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param body body openSessionBody true "患者と表示する検査。"
// @success 201 {object} sessionResponse "開始したセッション。"
// @failure 400 {object} shared.ErrorResponse "バリデーションエラー。"
// @router /1/sessions [post]
func openSession(c *shared.Context) error {
	body := &openSessionBody{}

	if e := c.Bind(body); e != nil {
		return e
	}

	if e := body.Validate(); e != nil {
		return e
	}

	session, _ := viewerService(c).Open(c.Me(), body.PatientId, body.CurrentTimepointId, body.StudyInstanceUids)

	return c.JSON(http.StatusCreated, newSessionResponse(session))
}

// fetchSession godoc
// @summary セッションの読み込み状態と自動表示の結果を取得する。
// @tags [viewer] Session
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @success 200 {object} sessionResponse "セッション。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない。"
// @router /1/sessions/{session_id} [get]
func fetchSession(c *shared.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newSessionResponse(session))
}

// closeSession godoc
// @summary セッションを終了する。
// @tags [viewer] Session
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @success 204 "終了した。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない。"
// @router /1/sessions/{session_id} [delete]
func closeSession(c *shared.Context) error {
	if e := viewerService(c).Close(c.Me(), c.Param("session_id")); e != nil {
		return e
	}

	return c.NoContent(http.StatusNoContent)
}

// markRendered godoc
// @summary ビューアの描画完了を通知する。
// @description 全ての読み込みが完了していれば最初の計測が選ばれる。
// @tags [viewer] Session
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @success 200 {object} S.ActivationResult "評価結果。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない。"
// @router /1/sessions/{session_id}/rendered [post]
func markRendered(c *shared.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session.SetViewerMainReady())
}

type changeCurrentTimepointBody struct {
	TimepointId string `json:"timepointId"`
}

// changeCurrentTimepoint godoc
// @summary 現在のタイムポイントを切り替え、自動表示を再評価する。
// @tags [viewer] Session
// @accept json
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @param body body changeCurrentTimepointBody true "タイムポイント。"
// @success 200 {object} S.ActivationResult "評価結果。"
// @failure 400 {object} shared.ErrorResponse "バリデーションエラー。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない。"
// @router /1/sessions/{session_id}/current-timepoint [put]
func changeCurrentTimepoint(c *shared.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	body := &changeCurrentTimepointBody{}

	if e := c.Bind(body); e != nil {
		return e
	}

	if e := (v.Errors{
		"timepointId": v.Validate(body.TimepointId, shared.IdentifierRules...),
	}).Filter(); e != nil {
		return e
	}

	return c.JSON(http.StatusOK, session.SetCurrentTimepoint(body.TimepointId))
}
