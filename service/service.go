package service

import (
	"github.com/sirupsen/logrus"
)

// 各サービスの共通部分。
type Service struct {
	Log *logrus.Entry
}

// ロガーを返す。Serviceがnilの場合は標準ロガーを利用する。
func (s *Service) logger() *logrus.Entry {
	if s == nil || s.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return s.Log
}
