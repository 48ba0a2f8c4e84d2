package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gorp.v2"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/model"
	"github.com/lesiontracker/tracker-server/resource/rds"
)

// セッション内で計測を計測種別ごとのコレクションとして保持する。
type MeasurementService struct {
	*Service
	DB     *gorp.DbMap
	Config *model.MeasurementConfiguration

	mu          sync.RWMutex
	collections map[string][]*model.Measurement
}

type MeasurementTxService struct {
	*Service
	DB     *gorp.Transaction
	Config *model.MeasurementConfiguration
}

func NewMeasurementService(
	base *Service,
	db *gorp.DbMap,
	config *model.MeasurementConfiguration,
) *MeasurementService {
	return &MeasurementService{
		Service:     base,
		DB:          db,
		Config:      config,
		collections: map[string][]*model.Measurement{},
	}
}

// 患者の指定タイムポイントの計測を取得する。
// タイムポイントが1つも無い場合は問い合わせを行わず、空のコレクションとなる。
func (s *MeasurementService) RetrieveMeasurements(
	ctx context.Context,
	patientId string,
	timepointIds []string,
) error {
	measurements := []*model.Measurement{}

	if len(timepointIds) > 0 {
		if r, e := rds.ListMeasurements(s.DB.WithContext(ctx), patientId, timepointIds); e != nil {
			return C.DB_OPERATION_ERROR(e)
		} else {
			measurements = r
		}
	}

	collections := map[string][]*model.Measurement{}
	for _, m := range measurements {
		collections[m.ToolType] = append(collections[m.ToolType], m)
	}

	s.mu.Lock()
	s.collections = collections
	s.mu.Unlock()

	s.logger().WithFields(logrus.Fields{
		"patient_id": patientId,
		"timepoints": len(timepointIds),
		"count":      len(measurements),
	}).Debug("measurements retrieved")

	return nil
}

// 計測種別の計測を計測番号の降順で返す。
func (s *MeasurementService) FindByType(toolType string) []*model.Measurement {
	s.mu.RLock()
	results := append([]*model.Measurement{}, s.collections[toolType]...)
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MeasurementNumber > results[j].MeasurementNumber
	})

	return results
}

// 設定に存在しない計測種別のコレクションを破棄する。
func (s *MeasurementService) SyncMeasurementsAndToolData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for toolType, ms := range s.collections {
		if s.Config != nil && !s.Config.HasTool(toolType) {
			dropped += len(ms)
			delete(s.collections, toolType)
		}
	}

	if dropped > 0 {
		s.logger().WithField("dropped", dropped).Warn("measurements of unknown tool types were dropped")
	}

	return nil
}

// 保持している計測のラベルを更新する。
// FindByTypeで返した計測は書き換えず、更新した計測の複製に置き換える。
func (s *MeasurementService) ApplyLabel(
	toolTypes []string,
	measurementNumber int,
	location string,
	description string,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, toolType := range toolTypes {
		ms, ok := s.collections[toolType]
		if !ok {
			continue
		}

		updated := make([]*model.Measurement, 0, len(ms))
		for _, m := range ms {
			if m.MeasurementNumber == measurementNumber {
				c := *m
				c.Location = location
				c.Description = description
				m = &c
			}
			updated = append(updated, m)
		}
		s.collections[toolType] = updated
	}
}

// 計測種別が属するグループの全ツールについて、同じ計測番号の計測のラベルを更新する。
// 更新したツール種別の一覧を返す。
func (s *MeasurementTxService) UpdateLabel(
	patientId string,
	toolType string,
	measurementNumber int,
	location string,
	description string,
) ([]string, error) {
	group := s.Config.GroupOf(toolType)
	if group == nil {
		return nil, C.UNKNOWN_TOOL_TYPE(toolType)
	}

	toolTypes := group.ToolIds()

	if n, e := rds.UpdateMeasurementLabels(
		s.DB, patientId, toolTypes, measurementNumber, location, description, time.Now(),
	); e != nil {
		return nil, C.DB_OPERATION_ERROR(e)
	} else {
		s.logger().WithFields(logrus.Fields{
			"patient_id":         patientId,
			"group":              group.Id,
			"measurement_number": measurementNumber,
			"updated":            n,
		}).Info("measurement labels updated")
	}

	return toolTypes, nil
}
