package model

// 非同期ロードの完了を表す3つのフラグ。いずれもfalseからtrueへ一度だけ変化する。
type ReadinessFlags struct {
	TimepointsReady   bool `json:"timepointsReady"`
	MeasurementsReady bool `json:"measurementsReady"`
	ViewerMainReady   bool `json:"viewerMainReady"`
}

func (f ReadinessFlags) DataSourcesReady() bool {
	return f.TimepointsReady && f.MeasurementsReady
}

func (f ReadinessFlags) AllReady() bool {
	return f.DataSourcesReady() && f.ViewerMainReady
}

// 最初の計測へのナビゲーション先。
type NavigationTarget struct {
	Row        *Row         `json:"row"`
	Timepoints []*Timepoint `json:"timepoints"`
}
