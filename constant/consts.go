package constant

import (
	"time"
)

// Language 言語。
type Language string

const (
	LanguageJa Language = "ja" // 日本語。
	LanguageEn Language = "en" // 英語。
)

// タイムポイント種別。
type TimepointType string

const (
	TimepointTypeBaseline TimepointType = "baseline"
	TimepointTypeFollowup TimepointType = "followup"
)

// 計測ツール種別。
const (
	ToolTypeBidirectional string = "bidirectional"
	ToolTypeNonTarget     string = "nonTarget"
	ToolTypeLength        string = "length"
)

// ビューアセッション関連。
const (
	SessionDefaultTTL          time.Duration = time.Duration(8) * time.Hour
	SessionCleanupInterval     time.Duration = time.Duration(10) * time.Minute
	PatientCacheDefaultTTL     time.Duration = time.Duration(1) * time.Minute
	ActivationPointBucket      string        = "viewer"
	ActivationPointMeasurement string        = "viewer_activation"
)
