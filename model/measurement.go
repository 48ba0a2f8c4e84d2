package model

import (
	"time"
)

// 計測。同一ターゲットの計測はタイムポイントをまたいで同じMeasurementNumberを持つ。
type Measurement struct {
	Id                string    `db:"id" json:"id"`
	PatientId         string    `db:"patient_id" json:"patientId"`
	TimepointId       string    `db:"timepoint_id" json:"timepointId"`
	ToolType          string    `db:"tool_type" json:"toolType"`
	MeasurementNumber int       `db:"measurement_number" json:"measurementNumber"`
	Location          string    `db:"location" json:"location"`
	Description       string    `db:"description" json:"description"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	ModifiedAt        time.Time `db:"modified_at" json:"modifiedAt"`
}

// 計測テーブルの行。同じ計測番号を持つ計測をまとめたもの。
type Row struct {
	MeasurementTypeId string         `json:"measurementTypeId"`
	MeasurementNumber int            `json:"measurementNumber"`
	Entries           []*Measurement `json:"entries"`
}

// 計測を計測番号ごとにまとめる。行の順序は各番号が最初に現れた順。
func GroupRows(measurementTypeId string, measurements []*Measurement) []*Row {
	rows := []*Row{}
	index := map[int]*Row{}

	for _, m := range measurements {
		row, ok := index[m.MeasurementNumber]
		if !ok {
			row = &Row{
				MeasurementTypeId: measurementTypeId,
				MeasurementNumber: m.MeasurementNumber,
				Entries:           []*Measurement{},
			}
			index[m.MeasurementNumber] = row
			rows = append(rows, row)
		}
		row.Entries = append(row.Entries, m)
	}

	return rows
}
