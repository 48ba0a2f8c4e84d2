package viewer

import (
	"net/http"

	v "github.com/go-ozzo/ozzo-validation/v4"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/route/shared"
	S "github.com/lesiontracker/tracker-server/service"
)

type listRowsQuery struct {
	Type string `query:"type"`
}

type listRowsResponse struct {
	MeasurementTypeId string       `json:"measurementTypeId"`
	Rows              []*model.Row `json:"rows"`
}

// listRows godoc
// @summary 計測種別の計測テーブルの行を計測番号の降順で取得する。
// @description `type`を省略した場合は最初のグループの最初の計測種別。
// @tags [viewer] Measurement
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @param type query string false "計測種別。"
// @success 200 {object} listRowsResponse "行一覧。"
// @failure 400 {object} shared.ErrorResponse "未知の計測種別。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない。"
// @router /1/sessions/{session_id}/rows [get]
func listRows(c *shared.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	query := &listRowsQuery{}

	if e := c.Bind(query); e != nil {
		return e
	}

	toolType := query.Type
	if toolType == "" {
		if t, e := session.Config().FirstMeasurementType(); e != nil {
			return e
		} else {
			toolType = t
		}
	} else if !session.Config().HasTool(toolType) {
		return C.UNKNOWN_TOOL_TYPE(toolType)
	}

	return c.JSON(http.StatusOK, &listRowsResponse{
		MeasurementTypeId: toolType,
		Rows:              session.Rows(toolType),
	})
}

type updateLabelBody struct {
	ToolType    string `json:"toolType"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (b updateLabelBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.ToolType, shared.IdentifierRules...),
		v.Field(&b.Location, v.Length(0, 1024)),
		v.Field(&b.Description, v.Length(0, 2048)),
	)
}

type updateLabelResponse struct {
	ToolTypes         []string `json:"toolTypes"`
	MeasurementNumber int      `json:"measurementNumber"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
}

// updateLabel godoc
// @summary 計測の部位と説明を更新する。
// @description 計測種別が属するグループの全計測種別について、同じ計測番号の計測を更新する。
// @tags [viewer] Measurement
// @accept json
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @param measurement_number path int true "計測番号。"
// @param body body updateLabelBody true "ラベル。"
// @success 200 {object} updateLabelResponse "更新した計測種別。"
// @failure 400 {object} shared.ErrorResponse "バリデーションエラー。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない。"
// @router /1/sessions/{session_id}/rows/{measurement_number}/label [put]
func updateLabel(c *shared.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	number, ok := c.IntParam("measurement_number")
	if !ok || number < 0 {
		return C.INVALID_NUMBER(c.Param("measurement_number"))
	}

	body := &updateLabelBody{}

	if e := c.Bind(body); e != nil {
		return e
	}

	if e := body.Validate(); e != nil {
		return e
	}

	service := shared.CreateService(S.MeasurementTxService{}, c).(*S.MeasurementTxService)

	toolTypes, err := service.UpdateLabel(session.PatientId, body.ToolType, number, body.Location, body.Description)
	if err != nil {
		return err
	}

	if e := c.Commit(); e != nil {
		return C.DB_OPERATION_ERROR(e)
	}

	session.ApplyLabel(toolTypes, number, body.Location, body.Description)

	return c.JSON(http.StatusOK, &updateLabelResponse{
		ToolTypes:         toolTypes,
		MeasurementNumber: number,
		Location:          body.Location,
		Description:       body.Description,
	})
}
