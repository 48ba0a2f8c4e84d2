package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lesiontracker/tracker-server/model"
)

// タイムポイントの取得元。
type TimepointStore interface {
	RetrieveTimepoints(ctx context.Context, patientId string) error
	All() []*model.Timepoint
	Current() *model.Timepoint
	Prior() *model.Timepoint
	CurrentAndPrior() []*model.Timepoint
	Study(studyInstanceUid string) []*model.Timepoint
	Name(timepoint *model.Timepoint) string
	SetCurrentTimepointId(id string)
}

// 計測の取得元。
type MeasurementStore interface {
	RetrieveMeasurements(ctx context.Context, patientId string, timepointIds []string) error
	FindByType(toolType string) []*model.Measurement
	SyncMeasurementsAndToolData() error
}

// 最初の計測の表示先。
type ActivationSink interface {
	Activate(row *model.Row, timepoints []*model.Timepoint)
}

// 自動表示の一回限りのラッチ。
type LatchState int

const (
	LatchPending LatchState = iota
	LatchFired
)

func (l LatchState) String() string {
	if l == LatchFired {
		return "fired"
	}
	return "pending"
}

func (l LatchState) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *LatchState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending":
		*l = LatchPending
	case "fired":
		*l = LatchFired
	default:
		return fmt.Errorf("unknown latch state: %s", text)
	}
	return nil
}

type ActivationStatus string

const (
	ActivationActivated ActivationStatus = "activated"
	ActivationSkipped   ActivationStatus = "skipped"
)

type SkipReason string

const (
	SkipNotReady           SkipReason = "not_ready"
	SkipAlreadyFired       SkipReason = "already_fired"
	SkipNoCurrentTimepoint SkipReason = "no_current_timepoint"
	SkipNoMeasurements     SkipReason = "no_measurements"
	SkipSessionDestroyed   SkipReason = "session_destroyed"
	SkipConfigurationError SkipReason = "configuration_error"
)

// ゲート評価の結果。
type ActivationResult struct {
	Status     ActivationStatus   `json:"status"`
	Reason     SkipReason         `json:"reason,omitempty"`
	Row        *model.Row         `json:"row,omitempty"`
	Timepoints []*model.Timepoint `json:"timepoints,omitempty"`
}

func (r ActivationResult) Activated() bool {
	return r.Status == ActivationActivated
}

func skipped(reason SkipReason) ActivationResult {
	return ActivationResult{Status: ActivationSkipped, Reason: reason}
}

// セッションで開いている検査。
type Study struct {
	StudyInstanceUid string `json:"studyInstanceUid"`
	TimepointType    string `json:"timepointType,omitempty"`
}

type SessionParams struct {
	Id                string
	Owner             string
	PatientId         string
	StudyInstanceUids []string
	Config            *model.MeasurementConfiguration
	Timepoints        TimepointStore
	Measurements      MeasurementStore
	Sink              ActivationSink
}

// ビューアセッション。読み込み状態と自動表示のラッチを保持する。
type ViewerSession struct {
	*Service
	Id        string
	Owner     string
	PatientId string

	config       *model.MeasurementConfiguration
	timepoints   TimepointStore
	measurements MeasurementStore
	sink         ActivationSink

	mu        sync.Mutex
	flags     model.ReadinessFlags
	latch     LatchState
	destroyed bool
	outcome   *ActivationResult
	studies   []*Study
}

func NewViewerSession(base *Service, params SessionParams) *ViewerSession {
	log := base.logger().WithFields(logrus.Fields{
		"session_id": params.Id,
		"patient_id": params.PatientId,
	})

	studies := []*Study{}
	for _, uid := range params.StudyInstanceUids {
		studies = append(studies, &Study{StudyInstanceUid: uid})
	}

	return &ViewerSession{
		Service:      &Service{Log: log},
		Id:           params.Id,
		Owner:        params.Owner,
		PatientId:    params.PatientId,
		config:       params.Config,
		timepoints:   params.Timepoints,
		measurements: params.Measurements,
		sink:         params.Sink,
		latch:        LatchPending,
		studies:      studies,
	}
}

//----------------------------------------------------------------
// 読み込み
//----------------------------------------------------------------

// タイムポイント、計測の順に取得する。
// 取得に失敗した場合、対応するフラグは立たない。
func (s *ViewerSession) Load(ctx context.Context) error {
	if e := s.timepoints.RetrieveTimepoints(ctx, s.PatientId); e != nil {
		s.Log.WithError(e).Warn("failed to retrieve timepoints")
		return e
	}

	timepoints := s.timepoints.All()

	s.annotateStudies(timepoints)

	if r := s.SetTimepointsReady(); r.Reason == SkipSessionDestroyed {
		return nil
	}

	if e := s.measurements.RetrieveMeasurements(ctx, s.PatientId, model.TimepointIds(timepoints)); e != nil {
		s.Log.WithError(e).Warn("failed to retrieve measurements")
		return e
	}

	s.SetMeasurementsReady()

	if e := s.measurements.SyncMeasurementsAndToolData(); e != nil {
		s.Log.WithError(e).Warn("failed to synchronize measurements")
		return e
	}

	return nil
}

// 読み込みを開始する。結果は返り値のチャネルに1度だけ送られる。
func (s *ViewerSession) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- s.Load(ctx)
		close(done)
	}()

	return done
}

// 検査にタイムポイント種別を設定する。
func (s *ViewerSession) annotateStudies(timepoints []*model.Timepoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range timepoints {
		for _, uid := range t.StudyInstanceUids {
			for _, study := range s.studies {
				if study.StudyInstanceUid == uid {
					study.TimepointType = t.TimepointType
				}
			}
		}
	}
}

// 検査のタイムポイント種別。セッションで開いていない過去の検査も患者のタイムポイントから引く。
func (s *ViewerSession) StudyTimepointType(studyInstanceUid string) (string, bool) {
	timepoints := s.timepoints.Study(studyInstanceUid)
	if len(timepoints) == 0 {
		return "", false
	}
	return timepoints[0].TimepointType, true
}

// セッションで開いている検査。
func (s *ViewerSession) Studies() []Study {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]Study, 0, len(s.studies))
	for _, study := range s.studies {
		results = append(results, *study)
	}
	return results
}

//----------------------------------------------------------------
// フラグ
//----------------------------------------------------------------

func (s *ViewerSession) SetTimepointsReady() ActivationResult {
	return s.setFlag(func(f *model.ReadinessFlags) { f.TimepointsReady = true })
}

func (s *ViewerSession) SetMeasurementsReady() ActivationResult {
	return s.setFlag(func(f *model.ReadinessFlags) { f.MeasurementsReady = true })
}

func (s *ViewerSession) SetViewerMainReady() ActivationResult {
	return s.setFlag(func(f *model.ReadinessFlags) { f.ViewerMainReady = true })
}

// 現在のタイムポイントを切り替え、ゲートを再評価する。
func (s *ViewerSession) SetCurrentTimepoint(timepointId string) ActivationResult {
	s.timepoints.SetCurrentTimepointId(timepointId)
	return s.Evaluate()
}

func (s *ViewerSession) setFlag(set func(*model.ReadinessFlags)) ActivationResult {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return skipped(SkipSessionDestroyed)
	}
	set(&s.flags)
	s.mu.Unlock()

	return s.Evaluate()
}

func (s *ViewerSession) Flags() model.ReadinessFlags {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flags
}

func (s *ViewerSession) Latch() LatchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latch
}

// 直近の評価結果。ラッチ消費後はラッチを消費した評価の結果を返す。
func (s *ViewerSession) Outcome() *ActivationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome == nil {
		return nil
	}
	r := *s.outcome
	return &r
}

//----------------------------------------------------------------
// ゲート
//----------------------------------------------------------------

// 全フラグが立っていれば最初の計測を選び、表示先へ渡す。
// 表示先の呼び出しはセッション中に高々1回。
func (s *ViewerSession) Evaluate() ActivationResult {
	result := s.evaluate()

	if result.Activated() {
		s.Log.WithFields(logrus.Fields{
			"measurement_type":   result.Row.MeasurementTypeId,
			"measurement_number": result.Row.MeasurementNumber,
		}).Info("first measurement activated")

		s.sink.Activate(result.Row, result.Timepoints)
	}

	return result
}

func (s *ViewerSession) evaluate() ActivationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.destroyed:
		return skipped(SkipSessionDestroyed)
	case s.latch == LatchFired:
		return skipped(SkipAlreadyFired)
	case !s.flags.AllReady():
		return s.record(skipped(SkipNotReady))
	}

	measurementTypeId, err := s.config.FirstMeasurementType()
	if err != nil {
		s.Log.WithError(err).Error("measurement configuration is not usable")
		return s.record(skipped(SkipConfigurationError))
	}

	data := s.measurements.FindByType(measurementTypeId)

	// 現在のタイムポイントが無い場合はラッチを消費しない。
	current := s.timepoints.Current()
	if current == nil {
		return s.record(skipped(SkipNoCurrentTimepoint))
	}

	timepoints := []*model.Timepoint{current}
	if prior := s.timepoints.Prior(); prior != nil {
		timepoints = append(timepoints, prior)
	}

	rows := model.GroupRows(measurementTypeId, data)

	s.latch = LatchFired

	if len(rows) == 0 {
		return s.record(skipped(SkipNoMeasurements))
	}

	return s.record(ActivationResult{
		Status:     ActivationActivated,
		Row:        rows[0],
		Timepoints: timepoints,
	})
}

func (s *ViewerSession) record(result ActivationResult) ActivationResult {
	s.outcome = &result
	return result
}

// セッションを破棄する。以降のフラグ更新は無視される。
func (s *ViewerSession) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}

	s.destroyed = true
	s.flags = model.ReadinessFlags{}

	s.Log.Info("viewer session destroyed")
}

func (s *ViewerSession) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.destroyed
}

// 計測種別の行。計測番号の降順。
func (s *ViewerSession) Rows(toolType string) []*model.Row {
	return model.GroupRows(toolType, s.measurements.FindByType(toolType))
}

// 現在と前回のタイムポイント。
func (s *ViewerSession) CurrentAndPrior() []*model.Timepoint {
	return s.timepoints.CurrentAndPrior()
}

func (s *ViewerSession) TimepointName(timepoint *model.Timepoint) string {
	return s.timepoints.Name(timepoint)
}

func (s *ViewerSession) FollowupNumber(timepoint *model.Timepoint) int {
	return model.FollowupNumber(s.timepoints.All(), timepoint)
}

type labelApplier interface {
	ApplyLabel(toolTypes []string, measurementNumber int, location string, description string)
}

// 保存済みのラベル変更をセッション内の計測に反映する。
func (s *ViewerSession) ApplyLabel(toolTypes []string, measurementNumber int, location string, description string) {
	if a, ok := s.measurements.(labelApplier); ok {
		a.ApplyLabel(toolTypes, measurementNumber, location, description)
	}
}

func (s *ViewerSession) Config() *model.MeasurementConfiguration {
	return s.config
}
