package recorder

import (
	"time"

	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/trainer"
)

// ScanRecord holds everything worth keeping from one screening run.
type ScanRecord struct {
	UniverseSize int
	Fetched      int
	Failed       int
	Results      []model.ScreeningResult
	Matches      []model.PatternMatch
	Duration     time.Duration
}

// TrainingRecord holds the outcome of one training run.
type TrainingRecord struct {
	Report       trainer.Report
	ModelPath    string
	UniverseSize int
	Duration     time.Duration
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordScan(rec *ScanRecord) error
	RecordTraining(rec *TrainingRecord) error
	Close() error
}
