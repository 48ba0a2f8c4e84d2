package model

import (
	"fmt"
	"time"

	C "github.com/lesiontracker/tracker-server/constant"
)

// タイムポイント。患者の撮像履歴上の一時点で、1つ以上の検査をまとめる。
type Timepoint struct {
	TimepointId       string     `db:"timepoint_id" json:"timepointId"`
	PatientId         string     `db:"patient_id" json:"patientId"`
	TimepointType     string     `db:"timepoint_type" json:"timepointType"`
	LatestDate        time.Time  `db:"latest_date" json:"latestDate"`
	StudyInstanceUids StringList `db:"study_instance_uids" json:"studyInstanceUids"`
}

func TimepointIds(timepoints []*Timepoint) []string {
	ids := make([]string, 0, len(timepoints))
	for _, t := range timepoints {
		ids = append(ids, t.TimepointId)
	}
	return ids
}

// フォローアップの通し番号。ベースラインは0。
func FollowupNumber(timepoints []*Timepoint, timepoint *Timepoint) int {
	if timepoint.TimepointType != string(C.TimepointTypeFollowup) {
		return 0
	}

	n := 0
	for _, t := range timepoints {
		if t.TimepointType == string(C.TimepointTypeFollowup) && !t.LatestDate.After(timepoint.LatestDate) {
			n++
		}
	}
	return n
}

// タイムポイントの表示名。
func TimepointName(timepoints []*Timepoint, timepoint *Timepoint) string {
	switch timepoint.TimepointType {
	case string(C.TimepointTypeBaseline):
		return "Baseline"
	case string(C.TimepointTypeFollowup):
		return fmt.Sprintf("Follow-up %d", FollowupNumber(timepoints, timepoint))
	default:
		return timepoint.TimepointType
	}
}
