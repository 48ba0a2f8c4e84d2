package viewer

import (
	"net/http"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/route/shared"
	S "github.com/lesiontracker/tracker-server/service"
)

type timepointEntity struct {
	*model.Timepoint
	Name           string `json:"name"`
	FollowupNumber int    `json:"followupNumber"`
}

type listTimepointsResponse struct {
	Timepoints []*timepointEntity `json:"timepoints"`
}

func newTimepointEntities(session *S.ViewerSession, timepoints []*model.Timepoint) []*timepointEntity {
	results := make([]*timepointEntity, 0, len(timepoints))
	for _, t := range timepoints {
		results = append(results, &timepointEntity{
			Timepoint:      t,
			Name:           session.TimepointName(t),
			FollowupNumber: session.FollowupNumber(t),
		})
	}
	return results
}

// listTimepoints godoc
// @summary 現在のタイムポイントと、あれば前回のタイムポイントを取得する。
// @tags [viewer] Timepoint
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @success 200 {object} listTimepointsResponse "タイムポイント一覧。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない。"
// @router /1/sessions/{session_id}/timepoints [get]
func listTimepoints(c *shared.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &listTimepointsResponse{
		Timepoints: newTimepointEntities(session, session.CurrentAndPrior()),
	})
}

type studyTimepointTypeResponse struct {
	StudyInstanceUid string `json:"studyInstanceUid"`
	TimepointType    string `json:"timepointType"`
}

// fetchStudyTimepointType godoc
// @summary 検査が属するタイムポイントの種別を取得する。
// @tags [viewer] Timepoint
// @produce json
// @param Authorization header string true "Bearerトークン。"
// @param session_id path string true "セッションID。"
// @param study_uid path string true "StudyInstanceUID。"
// @success 200 {object} studyTimepointTypeResponse "タイムポイント種別。"
// @failure 404 {object} shared.ErrorResponse "セッションが存在しない、もしくは患者のタイムポイントに検査が無い。"
// @router /1/sessions/{session_id}/studies/{study_uid}/timepoint-type [get]
func fetchStudyTimepointType(c *shared.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	uid := c.Param("study_uid")

	if tt, ok := session.StudyTimepointType(uid); !ok {
		return C.STUDY_NOT_FOUND(uid)
	} else {
		return c.JSON(http.StatusOK, &studyTimepointTypeResponse{uid, tt})
	}
}
