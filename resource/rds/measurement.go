package rds

import (
	"fmt"
	"time"

	"github.com/lesiontracker/tracker-server/model"
)

// 患者の指定タイムポイントにおける計測を取得する。
// 計測種別ごと、計測番号の降順に並ぶ。
func ListMeasurements(
	db model.QueryExecutor,
	patientId string,
	timepointIds []string,
) ([]*model.Measurement, error) {
	where, params := andQuery().
		add("patient_id = :patient_id", "patient_id", patientId).
		add("timepoint_id IN (:timepoint_ids)", "timepoint_ids", timepointIds).
		where()

	records := []*model.Measurement{}

	if _, e := db.Select(&records, fmt.Sprintf(
		`SELECT * FROM measurement %s ORDER BY tool_type ASC, measurement_number DESC, created_at ASC`, where,
	), params); e != nil {
		return nil, e
	}

	return records, nil
}

// 同一グループの計測ツールに属し、同じ計測番号を持つ全計測のラベルを更新する。
func UpdateMeasurementLabels(
	db model.QueryExecutor,
	patientId string,
	toolTypes []string,
	measurementNumber int,
	location string,
	description string,
	now time.Time,
) (int64, error) {
	where, params := andQuery().
		add("patient_id = :patient_id", "patient_id", patientId).
		add("measurement_number = :measurement_number", "measurement_number", measurementNumber).
		add("tool_type IN (:tool_types)", "tool_types", toolTypes).
		where()

	params["location"] = location
	params["description"] = description
	params["now"] = now

	result, e := db.Exec(fmt.Sprintf(
		`UPDATE measurement SET location = :location, description = :description, modified_at = :now %s`, where,
	), params)
	if e != nil {
		return 0, e
	}

	return result.RowsAffected()
}
