package initialize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/logger"
)

// Step is one unit of the provisioning sequence. A fatal step aborts the
// sequence on error; a non-fatal step is logged and skipped.
type Step struct {
	Order int
	Name  string
	Fatal bool
	run   func(ctx context.Context, store Store) error
}

// StepError reports the fatal step that aborted provisioning
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("startup step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepResult records the outcome of one executed step
type StepResult struct {
	Order    int
	Name     string
	Fatal    bool
	Err      error
	Duration time.Duration
}

// Report is the outcome of one provisioning run
type Report struct {
	RunID string
	Steps []StepResult
}

// Degraded reports whether a non-fatal step failed
func (r *Report) Degraded() bool {
	for _, s := range r.Steps {
		if !s.Fatal && s.Err != nil {
			return true
		}
	}
	return false
}

// Failed returns the names of the steps that returned an error
func (r *Report) Failed() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Err != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

// Initializer brings a database to the expected schema and seed state
type Initializer struct {
	logger  logger.LoggerInterface
	config  *config.Config
	metrics *Metrics
}

// New creates an initializer. A nil config reads nothing but defaults.
func New(log *logger.Logger, cfg *config.Config) *Initializer {
	if cfg == nil {
		cfg = config.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Initializer{
		logger: log.WithPrefix("STARTUP"),
		config: cfg,
	}
}

// WithMetrics records per-step outcomes in m
func (i *Initializer) WithMetrics(m *Metrics) *Initializer {
	i.metrics = m
	return i
}

// Steps returns the provisioning sequence in execution order
func (i *Initializer) Steps() []Step {
	return []Step{
		{Order: 1, Name: "migration", Fatal: true, run: i.runMigration},
		{Order: 2, Name: "default_business", Fatal: true, run: i.ensureDefaultBusiness},
		{Order: 3, Name: "plans", Fatal: true, run: i.ensurePlans},
		{Order: 4, Name: "super_admin", Fatal: true, run: i.ensureSuperAdmin},
		{Order: 5, Name: "demo_account", Fatal: true, run: i.ensureDemoAccount},
		{Order: 6, Name: "landing_page", Fatal: false, run: i.ensureLandingPageConfig},
		{Order: 7, Name: "audit_logging", Fatal: false, run: i.ensureAuditInfrastructure},
		{Order: 8, Name: "settings", Fatal: false, run: i.ensureSettings},
	}
}

// Initialize provisions the database behind db
func (i *Initializer) Initialize(ctx context.Context, db DBTX) (*Report, error) {
	return i.Run(ctx, NewPostgresStore(db))
}

// Run executes every step in order against store. The first fatal failure
// stops the sequence and is returned as a *StepError alongside the partial
// report.
func (i *Initializer) Run(ctx context.Context, store Store) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	i.logger.Infof("Beginning initialization sequence (run %s)...", report.RunID)

	for _, step := range i.Steps() {
		if err := ctx.Err(); err != nil {
			return report, &StepError{Step: step.Name, Err: err}
		}

		started := time.Now()
		err := step.run(ctx, store)
		result := StepResult{
			Order:    step.Order,
			Name:     step.Name,
			Fatal:    step.Fatal,
			Err:      err,
			Duration: time.Since(started),
		}
		report.Steps = append(report.Steps, result)
		i.metrics.observe(result)

		if err == nil {
			continue
		}
		if step.Fatal {
			i.logger.Errorf("Initialization failed at %s: %v", step.Name, err)
			return report, &StepError{Step: step.Name, Err: err}
		}
		i.logger.Warnf("Step %s failed, continuing: %v", step.Name, err)
	}

	if report.Degraded() {
		i.logger.Warnf("Initialization completed with degraded steps: %v", report.Failed())
	} else {
		i.logger.Info("All initialization tasks completed successfully!")
	}
	return report, nil
}

// bestEffort runs a defensive statement whose failure never matters
func (i *Initializer) bestEffort(ctx context.Context, store Store, sql string) {
	if err := store.Exec(ctx, sql); err != nil {
		if !isAlreadyExists(err) {
			i.logger.Debugf("Ignoring statement error: %v", err)
		}
	}
}

// firstBusinessID returns the lowest business id, or nil when there is none
func firstBusinessID(ctx context.Context, store Store) (*int64, error) {
	id, found, err := store.FirstBusinessID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up first business: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &id, nil
}

// IsStepError reports whether err came from a fatal provisioning step
func IsStepError(err error) bool {
	var stepErr *StepError
	return errors.As(err, &stepErr)
}
