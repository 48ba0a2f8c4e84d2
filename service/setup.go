package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gopkg.in/gorp.v2"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/model"
)

var (
	defaultRegistry     *SessionRegistry
	defaultPatientCache *cache.Cache
	measurementConfig   *model.MeasurementConfiguration
)

// ビューアセッションの共有資源を初期化する。
func SetupViewer(config *model.MeasurementConfiguration, sessionTTL time.Duration, patientCacheTTL time.Duration) {
	measurementConfig = config
	defaultRegistry = NewSessionRegistry(sessionTTL, sessionTTL/4+time.Minute)
	defaultPatientCache = cache.New(patientCacheTTL, patientCacheTTL*2)
}

func Sessions() *SessionRegistry {
	return defaultRegistry
}

func PatientCache() *cache.Cache {
	return defaultPatientCache
}

func MeasurementConfig() *model.MeasurementConfiguration {
	return measurementConfig
}

// ビューアセッションの開始と取得。
type ViewerService struct {
	*Service
	DB       *gorp.DbMap
	Influx   lib.InfluxDBClient
	Config   *model.MeasurementConfiguration
	Registry *SessionRegistry
	Cache    *cache.Cache
}

// セッションを開始し、バックグラウンドで読み込みを開始する。
func (s *ViewerService) Open(
	owner string,
	patientId string,
	currentTimepointId string,
	studyInstanceUids []string,
) (*ViewerSession, <-chan error) {
	id := uuid.NewString()

	session := NewViewerSession(s.Service, SessionParams{
		Id:                id,
		Owner:             owner,
		PatientId:         patientId,
		StudyInstanceUids: studyInstanceUids,
		Config:            s.Config,
		Timepoints:        NewTimepointService(s.Service, s.DB, s.Cache, currentTimepointId),
		Measurements:      NewMeasurementService(s.Service, s.DB, s.Config),
		Sink: &NavigationSink{
			Service:   s.Service,
			Influx:    s.Influx,
			SessionId: id,
			PatientId: patientId,
		},
	})

	s.Registry.Put(session)

	session.Log.Info("viewer session opened")

	// リクエストの終了とは独立して読み込む。
	return session, session.Start(context.Background())
}

// 利用者が開いたセッションを取得する。他の利用者のセッションは存在しないものとして扱う。
func (s *ViewerService) Get(owner string, id string) (*ViewerSession, error) {
	session, err := s.Registry.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Owner != owner {
		return nil, C.SESSION_NOT_FOUND(id)
	}
	return session, nil
}

func (s *ViewerService) Close(owner string, id string) error {
	if _, err := s.Get(owner, id); err != nil {
		return err
	}
	return s.Registry.Close(id)
}
