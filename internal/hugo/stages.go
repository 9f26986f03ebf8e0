package hugo

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{defs: make([]StageDef, 0, 6)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.defs))
	copy(out, p.defs)
	return out
}

// stageOutcome is the normalized result of one stage execution.
type stageOutcome struct {
	err      *StageError
	result   StageResult
	code     ReportIssueCode
	severity IssueSeverity
	abort    bool
}

// classifyStageResult converts a raw stage error into an outcome. Errors that
// are not StageErrors are fatal unless they are classified below fatal
// severity, in which case they become warnings.
func classifyStageResult(stage StageName, err error) stageOutcome {
	if err == nil {
		return stageOutcome{result: StageResultSuccess}
	}

	var se *StageError
	if !stderrors.As(err, &se) {
		switch {
		case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
			se = newCanceledStageError(stage, err)
		case errors.IsClassified(err) && errors.GetSeverity(err) == errors.SeverityWarning:
			se = newWarnStageError(stage, err)
		default:
			se = newFatalStageError(stage, err)
		}
	}

	switch se.Kind {
	case StageErrorCanceled:
		return stageOutcome{err: se, result: StageResultCanceled, code: IssueCanceled, severity: SeverityError, abort: true}
	case StageErrorWarning:
		return stageOutcome{err: se, result: StageResultWarning, code: issueCodeFor(se), severity: SeverityWarning}
	default:
		return stageOutcome{err: se, result: StageResultFatal, code: issueCodeFor(se), severity: SeverityError, abort: true}
	}
}

func issueCodeFor(se *StageError) ReportIssueCode {
	switch errors.GetCategory(se.Err) {
	case errors.CategoryQuery:
		return IssueQueryFailure
	case errors.CategorySchema:
		return IssueSchemaFailure
	case errors.CategoryBundler:
		return IssueBundlerFailure
	case errors.CategoryIndex:
		return IssueIndexFailure
	}
	switch se.Stage {
	case StageSourceContent:
		return IssueSourceFailure
	case StageWriteOutput, StagePrepareOutput:
		return IssueWriteFailure
	}
	return IssueGenericStageError
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	obs := bs.Generator.observer
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.AddIssue(IssueCanceled, st.Name, SeverityError, se.Error(), se)
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, bs.Generator.recorder)
			obs.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		obs.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur

		out := classifyStageResult(st.Name, err)
		if out.err != nil {
			bs.Report.StageErrorKinds[st.Name] = out.err.Kind
			bs.Report.AddIssue(out.code, st.Name, out.severity, out.err.Error(), out.err)
		}
		bs.Report.RecordStageResult(st.Name, out.result, bs.Generator.recorder)
		obs.OnStageComplete(st.Name, dur, out.result)

		slog.Debug("Stage finished",
			logfields.BuildID(bs.Report.BuildID),
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			slog.String("result", string(out.result)))

		if out.abort {
			return out.err
		}
	}
	return nil
}

// recordResultLabel maps a StageResult onto the metrics label.
func recordResultLabel(res StageResult) metrics.ResultLabel {
	switch res {
	case StageResultWarning:
		return metrics.ResultWarning
	case StageResultFatal:
		return metrics.ResultFatal
	case StageResultCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultSuccess
	}
}
