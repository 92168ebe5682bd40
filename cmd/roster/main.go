package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	rosterv1alpha1 "github.com/perdasilva/dutyroster/api/v1alpha1"
	"github.com/perdasilva/dutyroster/controllers"
	"github.com/perdasilva/dutyroster/pkg/calendar"
	"github.com/perdasilva/dutyroster/pkg/config"
	"github.com/perdasilva/dutyroster/pkg/export"
	"github.com/perdasilva/dutyroster/pkg/logger"
	"github.com/perdasilva/dutyroster/pkg/metrics"
	"github.com/perdasilva/dutyroster/pkg/model"
	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/schedule"
	"github.com/perdasilva/dutyroster/pkg/solver"
	"github.com/perdasilva/dutyroster/pkg/source"
)

const (
	exitOK = iota
	exitError
	exitInvalidConfiguration
	exitNoRoster
)

var errInvalidDocument = errors.New("invalid roster document")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return exitInvalidConfiguration
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return exitError
	}
	defer logr.Sync() //nolint:errcheck

	runID := uuid.NewString()
	logr = logr.With(zap.String("run", runID))

	if err := generate(ctx, cfg, logr, runID, stdout); err != nil {
		var configErr *roster.ConfigurationError
		var exhausted *controllers.RelaxationExhausted
		switch {
		case errors.Is(err, errInvalidDocument), errors.As(err, &configErr):
			logr.Error("invalid roster", zap.Error(err))
			return exitInvalidConfiguration
		case errors.As(err, &exhausted):
			logr.Error("no roster found", zap.Error(err), zap.Strings("order", exhausted.Order), zap.Int("attempts", len(exhausted.Attempts)))
			return exitNoRoster
		default:
			logr.Error("roster generation failed", zap.Error(err))
			return exitError
		}
	}
	return exitOK
}

func generate(ctx context.Context, cfg *config.Config, logr *zap.Logger, runID string, stdout io.Writer) error {
	doc, err := source.NewFileSource(cfg.Roster.File).GetRoster(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidDocument, err)
	}
	employees, err := source.NewResolver(nil, logr).Resolve(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidDocument, err)
	}
	slots, period, err := resolveSlots(cfg, doc)
	if err != nil {
		return err
	}
	spec, err := roster.NewSpec(employees, slots)
	if err != nil {
		return err
	}
	logr.Info("roster loaded",
		zap.String("file", cfg.Roster.File),
		zap.Int("employees", len(employees)),
		zap.Int("slots", spec.SlotCount()),
		zap.Int("targetDutyDays", spec.TargetDutyDays()))

	recorder := metrics.NewRecorder()
	builder := model.NewBuilder(
		model.WithCrossSites(crossSites(cfg, doc)...),
		model.WithLogger(logr),
	)
	engine := solver.New(
		solver.WithTimeout(cfg.Solver.Timeout),
		solver.WithLogger(logr),
	)
	controller := controllers.NewRelaxationController(builder, engine,
		controllers.WithSeed(cfg.Solver.Seed),
		controllers.WithLogger(logr),
		controllers.WithRecorder(recorder),
	)

	outcome, runErr := controller.Run(ctx, spec)
	if cfg.Output.MetricsFile != "" {
		if err := recorder.WriteFile(cfg.Output.MetricsFile); err != nil {
			logr.Warn("failed to write metrics", zap.String("path", cfg.Output.MetricsFile), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	table := schedule.Assemble(outcome.Spec, outcome.Assignment)
	title := rosterTitle(doc, period)
	if err := export.NewTextRenderer().Render(stdout, table, title); err != nil {
		return fmt.Errorf("render roster: %w", err)
	}

	if len(cfg.Output.Formats) == 0 {
		return nil
	}
	writer := &export.FileWriter{
		Dir:     cfg.Output.Dir,
		Base:    outputBase(period),
		Formats: cfg.Output.Formats,
		Title:   title,
		Notes:   notes(runID, outcome),
		Logger:  logr,
	}
	_, err = writer.Write(ctx, table)
	return err
}

// resolveSlots picks the weekends to plan: a calendar month from the
// configuration, then from the document, then a bare slot count from
// either. The returned period is empty when no month is known.
func resolveSlots(cfg *config.Config, doc *rosterv1alpha1.Roster) ([]roster.WeekendSlot, string, error) {
	year, month := cfg.Roster.Year, cfg.Roster.Month
	if year == 0 || month == 0 {
		year, month = doc.Year, doc.Month
	}
	if year != 0 && month != 0 {
		slots, err := calendar.Weekends(year, time.Month(month))
		if err != nil {
			return nil, "", &roster.ConfigurationError{Reason: err.Error()}
		}
		return slots, fmt.Sprintf("%04d-%02d", year, month), nil
	}

	count := cfg.Roster.Slots
	if count == 0 {
		count = doc.Slots
	}
	if count == 0 {
		return nil, "", &roster.ConfigurationError{Reason: "no calendar month or slot count given"}
	}
	return calendar.Uniform(count), "", nil
}

func crossSites(cfg *config.Config, doc *rosterv1alpha1.Roster) []string {
	if len(cfg.Roster.CrossSites) > 0 {
		return cfg.Roster.CrossSites
	}
	return doc.CrossSites
}

func rosterTitle(doc *rosterv1alpha1.Roster, period string) string {
	title := doc.Name
	if title == "" {
		title = "Weekend duty roster"
	}
	if period != "" {
		title = fmt.Sprintf("%s %s", title, period)
	}
	return title
}

func outputBase(period string) string {
	if period == "" {
		return "roster"
	}
	return "roster-" + period
}

func notes(runID string, outcome *controllers.Outcome) []string {
	out := []string{fmt.Sprintf("Run %s", runID)}
	if len(outcome.Relaxed) > 0 {
		out = append(out, fmt.Sprintf("Carry-over exclusion lifted for: %s", strings.Join(outcome.Relaxed, ", ")))
	}
	return out
}
