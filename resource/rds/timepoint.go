package rds

import (
	"fmt"

	"github.com/lesiontracker/tracker-server/model"
)

// 患者のタイムポイントを新しい順に取得する。
func ListTimepoints(
	db model.QueryExecutor,
	patientId string,
) ([]*model.Timepoint, error) {
	where, params := andQuery().add("patient_id = :patient_id", "patient_id", patientId).where()

	records := []*model.Timepoint{}

	if _, e := db.Select(&records, fmt.Sprintf(
		`SELECT * FROM timepoint %s ORDER BY latest_date DESC, timepoint_id ASC`, where,
	), params); e != nil {
		return nil, e
	}

	return records, nil
}
