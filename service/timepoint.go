package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gopkg.in/gorp.v2"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/resource/rds"
)

// セッション内で患者のタイムポイントを保持する。
type TimepointService struct {
	*Service
	DB    *gorp.DbMap
	Cache *cache.Cache

	mu                 sync.RWMutex
	currentTimepointId string
	timepoints         []*model.Timepoint
}

func NewTimepointService(
	base *Service,
	db *gorp.DbMap,
	patientCache *cache.Cache,
	currentTimepointId string,
) *TimepointService {
	return &TimepointService{
		Service:            base,
		DB:                 db,
		Cache:              patientCache,
		currentTimepointId: currentTimepointId,
		timepoints:         []*model.Timepoint{},
	}
}

func patientCacheKey(patientId string) string {
	return fmt.Sprintf("timepoints:%s", patientId)
}

// 患者のタイムポイントを取得し、新しい順に保持する。
func (s *TimepointService) RetrieveTimepoints(ctx context.Context, patientId string) error {
	var timepoints []*model.Timepoint

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(patientCacheKey(patientId)); ok {
			timepoints = cached.([]*model.Timepoint)
		}
	}

	if timepoints == nil {
		if r, e := rds.ListTimepoints(s.DB.WithContext(ctx), patientId); e != nil {
			return C.DB_OPERATION_ERROR(e)
		} else {
			timepoints = r
		}

		if s.Cache != nil {
			s.Cache.SetDefault(patientCacheKey(patientId), timepoints)
		}
	}

	s.mu.Lock()
	s.timepoints = timepoints
	s.mu.Unlock()

	s.logger().WithFields(logrus.Fields{
		"patient_id": patientId,
		"count":      len(timepoints),
	}).Debug("timepoints retrieved")

	return nil
}

func (s *TimepointService) All() []*model.Timepoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Timepoint{}, s.timepoints...)
}

func (s *TimepointService) SetCurrentTimepointId(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentTimepointId = id
}

func (s *TimepointService) Current() *model.Timepoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current()
}

func (s *TimepointService) current() *model.Timepoint {
	if s.currentTimepointId == "" {
		return nil
	}
	for _, t := range s.timepoints {
		if t.TimepointId == s.currentTimepointId {
			return t
		}
	}
	return nil
}

// 現在のタイムポイントより前で最も新しいタイムポイントを返す。
func (s *TimepointService) Prior() *model.Timepoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.current()
	if current == nil {
		return nil
	}

	// timepointsは新しい順。
	for _, t := range s.timepoints {
		if t.LatestDate.Before(current.LatestDate) {
			return t
		}
	}
	return nil
}

func (s *TimepointService) CurrentAndPrior() []*model.Timepoint {
	results := []*model.Timepoint{}

	if current := s.Current(); current != nil {
		results = append(results, current)
		if prior := s.Prior(); prior != nil {
			results = append(results, prior)
		}
	}

	return results
}

// 検査を含むタイムポイントを返す。
func (s *TimepointService) Study(studyInstanceUid string) []*model.Timepoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*model.Timepoint{}
	for _, t := range s.timepoints {
		if t.StudyInstanceUids.Contains(studyInstanceUid) {
			results = append(results, t)
		}
	}
	return results
}

func (s *TimepointService) Name(timepoint *model.Timepoint) string {
	return model.TimepointName(s.All(), timepoint)
}
