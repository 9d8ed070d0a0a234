// Package scheduler drives the scan and training pipelines on cron
// schedules. The worker pool lives inside the collector; everything after
// the fetch runs synchronously over the in-memory store.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/classifier"
	"BreakoutSentinel/internal/collector"
	"BreakoutSentinel/internal/config"
	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/notifier"
	"BreakoutSentinel/internal/pattern"
	"BreakoutSentinel/internal/recorder"
	"BreakoutSentinel/internal/screener"
	"BreakoutSentinel/internal/trainer"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Cfg       *config.Config
	Universe  collector.UniverseProvider
	Collector *collector.Collector
	Notifier  *notifier.DiscordNotifier
	Recorder  recorder.Recorder
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, universe collector.UniverseProvider,
	col *collector.Collector, dn *notifier.DiscordNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Cfg:       cfg,
		Universe:  universe,
		Collector: col,
		Notifier:  dn,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the scan and training tasks.
func (s *Scheduler) RegisterAll(scanCron, trainCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(trainCron, s.trainTask); err != nil {
		return fmt.Errorf("register training task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunScanNow() { s.scanTask() }

// RunTrainNow executes the training task immediately.
func (s *Scheduler) RunTrainNow() { s.trainTask() }

// fetchStore lists the universe and bulk-fetches its price history.
func (s *Scheduler) fetchStore() ([]string, *collector.Batch, error) {
	universe, err := s.Universe.ListTickers(s.Ctx)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[INFO] universe: %d tickers from %s", len(universe), s.Universe.Name())

	end := time.Now()
	start := end.AddDate(0, 0, -s.Cfg.Fetch.LookbackDays)
	batch := s.Collector.FetchBatch(s.Ctx, universe, start, end)
	log.Printf("[INFO] fetched %d series, %d failures", len(batch.Series), len(batch.Failures))
	return universe, batch, nil
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scan task")
	started := time.Now()

	universe, batch, err := s.fetchStore()
	if err != nil {
		// Only universe-level failures abort the run.
		log.Printf("[ERROR] scan: %v", err)
		s.trySend(notifier.FormatRunFailure("scan", err))
		return
	}

	frames := calculator.ComputeAll(batch.Series)

	var artifact *classifier.Artifact
	mode := screener.Mode(s.Cfg.Screen.Mode)
	if mode == screener.ModeModel || mode == screener.ModeBoth {
		artifact, err = classifier.Load(s.Cfg.Model.Path)
		if err != nil {
			if errors.Is(err, model.ErrModelUnavailable) {
				log.Printf("[WARN] %v", err)
			} else {
				log.Printf("[ERROR] load model: %v", err)
			}
			artifact = nil
		}
	}

	rules := screener.RuleSet{
		SwingWindow:  s.Cfg.Screen.SwingWindow,
		SwingRatio:   s.Cfg.Screen.SwingRatio,
		WilliamsRMax: s.Cfg.Screen.WilliamsRMax,
		RSIMax:       s.Cfg.Screen.RSIMax,
	}
	engine := screener.NewEngine(rules, mode, artifact, s.Cfg.Screen.TopN)
	results := engine.Screen(batch.Series, frames)

	matches, headline := pattern.Scan(batch.Series)
	log.Printf("[INFO] scan done: %d candidates, %d pattern matches", len(results), len(matches))

	rec := &recorder.ScanRecord{
		UniverseSize: len(universe),
		Fetched:      len(batch.Series),
		Failed:       len(batch.Failures),
		Results:      results,
		Matches:      matches,
		Duration:     time.Since(started),
	}
	if err := s.Recorder.RecordScan(rec); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}

	report := notifier.FormatScanReport(results, matches, headline, len(universe), len(batch.Failures))
	s.trySend(report)
}

func (s *Scheduler) trainTask() {
	log.Println("[INFO] running training task")
	started := time.Now()

	universe, batch, err := s.fetchStore()
	if err != nil {
		log.Printf("[ERROR] training: %v", err)
		s.trySend(notifier.FormatRunFailure("training", err))
		return
	}

	artifact, report, err := trainer.Train(batch.Series, trainer.DefaultConfig())
	if err != nil {
		log.Printf("[ERROR] training: %v", err)
		s.trySend(notifier.FormatRunFailure("training", err))
		return
	}
	if err := artifact.Save(s.Cfg.Model.Path); err != nil {
		log.Printf("[ERROR] save model: %v", err)
		s.trySend(notifier.FormatRunFailure("model save", err))
		return
	}
	log.Printf("[INFO] model saved to %s", s.Cfg.Model.Path)

	rec := &recorder.TrainingRecord{
		Report:       report,
		ModelPath:    s.Cfg.Model.Path,
		UniverseSize: len(universe),
		Duration:     time.Since(started),
	}
	if err := s.Recorder.RecordTraining(rec); err != nil {
		log.Printf("[ERROR] record training: %v", err)
	}

	s.trySend(notifier.FormatTrainingReport(report))
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] notify: %v", err)
	}
}
