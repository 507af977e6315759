package scheduler

import (
	"context"
	"fmt"
	"log"

	"SMACrossover/internal/collector"
	"SMACrossover/internal/model"
	"SMACrossover/internal/notifier"
	"SMACrossover/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Options selects what the scheduled analysis run covers.
type Options struct {
	Mode             string // "single" or "multi"
	Symbol           string
	PrimarySymbol    string
	ProtectiveSymbol string
	ReferenceSymbol  string
}

// Scheduler runs the analysis pipeline on a cron schedule and routes results
// and failures to the configured notifiers.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Comparator  *strategy.Comparator
	MultiEngine *strategy.MultiEngine
	Notifiers   []notifier.Notifier
	Opts        Options
	Ctx         context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, cmp *strategy.Comparator, multi *strategy.MultiEngine, notifiers []notifier.Notifier, opts Options) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   col,
		Comparator:  cmp,
		MultiEngine: multi,
		Notifiers:   notifiers,
		Opts:        opts,
		Ctx:         ctx,
	}
}

// Register registers the daily analysis task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.RunAnalysis); err != nil {
		return fmt.Errorf("register daily task: %w", err)
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

// RunAnalysis executes one full analysis run (also used for manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunAnalysis() {
	log.Println("[INFO] running analysis")
	if s.Opts.Mode == "multi" {
		s.runMulti()
		return
	}
	s.runSingle()
}

func (s *Scheduler) runSingle() {
	obs, err := s.Collector.Snapshot(s.Opts.Symbol)
	if err != nil {
		log.Printf("[ERROR] snapshot %s: %v", s.Opts.Symbol, err)
		s.notifyError(s.Opts.Symbol, err)
		return
	}

	result, err := s.Comparator.GenerateComparisonResult(obs.Symbol, obs.Price, obs.SMA, obs.Date)
	if err != nil {
		log.Printf("[ERROR] comparison for %s: %v", obs.Symbol, err)
		s.notifyError(obs.Symbol, err)
		return
	}
	analysis, err := s.Comparator.Analyze(obs.Price, obs.SMA)
	if err != nil {
		log.Printf("[ERROR] analysis for %s: %v", obs.Symbol, err)
		s.notifyError(obs.Symbol, err)
		return
	}
	recommendation := strategy.Recommendation(analysis)

	subject := notifier.FormatComparisonSubject(result)
	text := notifier.FormatComparisonText(result, analysis, recommendation)
	html := notifier.FormatComparisonHTML(result, analysis, recommendation)
	s.notify(subject, text, html)
}

func (s *Scheduler) runMulti() {
	primary, err := s.Collector.Snapshot(s.Opts.PrimarySymbol)
	if err != nil {
		log.Printf("[ERROR] snapshot %s: %v", s.Opts.PrimarySymbol, err)
		s.notifyError(s.Opts.PrimarySymbol, err)
		return
	}
	protective, err := s.Collector.Snapshot(s.Opts.ProtectiveSymbol)
	if err != nil {
		log.Printf("[ERROR] snapshot %s: %v", s.Opts.ProtectiveSymbol, err)
		s.notifyError(s.Opts.ProtectiveSymbol, err)
		return
	}

	if primary.Date != protective.Date {
		err := &model.SyncError{
			Msg:        fmt.Sprintf("primary and protective observations are not date-aligned: %s=%s, %s=%s", primary.Symbol, primary.Date, protective.Symbol, protective.Date),
			PriceDates: model.DateSetSummary{Count: 1, Min: primary.Date, Max: primary.Date},
			SMADates:   model.DateSetSummary{Count: 1, Min: protective.Date, Max: protective.Date},
		}
		log.Printf("[ERROR] multi-ticker alignment: %v", err)
		s.notifyError(s.Opts.PrimarySymbol, err)
		return
	}

	// The reference ticker is display-only; a failed fetch downgrades the
	// report instead of aborting it.
	var reference *model.Observation
	if s.Opts.ReferenceSymbol != "" {
		if obs, err := s.Collector.Snapshot(s.Opts.ReferenceSymbol); err != nil {
			log.Printf("[WARN] reference snapshot %s: %v, omitting from report", s.Opts.ReferenceSymbol, err)
		} else {
			reference = obs
		}
	}

	assessment, err := s.MultiEngine.Analyze(*primary, *protective, reference, primary.Date)
	if err != nil {
		log.Printf("[ERROR] multi-ticker analysis: %v", err)
		s.notifyError(s.Opts.PrimarySymbol, err)
		return
	}

	subject := notifier.FormatAssessmentSubject(assessment)
	text := notifier.FormatAssessmentText(assessment)
	html := notifier.FormatAssessmentHTML(assessment)
	s.notify(subject, text, html)
}

func (s *Scheduler) notify(subject, text, html string) {
	for _, n := range s.Notifiers {
		if err := n.Notify(s.Ctx, subject, text, html); err != nil {
			log.Printf("[ERROR] %s notification: %v", n.Name(), err)
		}
	}
}

func (s *Scheduler) notifyError(symbol string, cause error) {
	subject := notifier.FormatErrorSubject(symbol, cause)
	text := notifier.FormatErrorText(symbol, cause)
	for _, n := range s.Notifiers {
		if err := n.Notify(s.Ctx, subject, text, ""); err != nil {
			log.Printf("[ERROR] %s error notification: %v", n.Name(), err)
		}
	}
}
