package hugo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// ReportFile is the name of the JSON report in the output directory.
const ReportFile = "build-report.json"

// BuildOutcome is the final build result.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers. Codes are
// only ever appended.
type ReportIssueCode string

const (
	IssueSourceFailure     ReportIssueCode = "SOURCE_FAILURE"
	IssueSchemaFailure     ReportIssueCode = "SCHEMA_FAILURE"
	IssueQueryFailure      ReportIssueCode = "QUERY_FAILURE"
	IssueIndexFailure      ReportIssueCode = "INDEX_FAILURE"
	IssueBundlerFailure    ReportIssueCode = "BUNDLER_FAILURE"
	IssueWriteFailure      ReportIssueCode = "WRITE_FAILURE"
	IssueMissingNode       ReportIssueCode = "MISSING_NODE"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is one structured problem encountered during a build.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
}

// StageCount aggregates outcome counts for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport captures what a build did and how it ended.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Start           time.Time
	End             time.Time
	Sources         int
	Nodes           int // Content nodes ingested
	Pages           int // Page requests after path de-duplication
	DefaultPages    int // Pages created for default_pages sources
	Redirects       int
	RedirectStubs   int
	BundlerStages   int
	Errors          []error
	Warnings        []error
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Issues          []ReportIssue
	Outcome         BuildOutcome
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         uuid.NewString(),
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

// AddIssue appends a structured issue and mirrors it into Errors or Warnings.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg})
	if err == nil {
		return
	}
	switch severity {
	case SeverityError:
		r.Errors = append(r.Errors, err)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, err)
	}
}

// RecordStageResult updates per-stage counters and emits the stage metric.
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
	case StageResultWarning:
		sc.Warning++
	case StageResultFatal:
		sc.Fatal++
	case StageResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	if recorder != nil {
		recorder.IncStageResult(string(stage), recordResultLabel(res))
	}
}

func (r *BuildReport) finish() { r.End = time.Now() }

// deriveOutcome sets Outcome from the recorded errors and warnings.
func (r *BuildReport) deriveOutcome() {
	for _, e := range r.Errors {
		if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Duration returns the wall time of the build.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("nodes=%d pages=%d redirects=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Nodes, r.Pages, r.Redirects, r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes build-report.json atomically into root.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
		r.deriveOutcome()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	data, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	path := filepath.Join(root, ReportFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON.
type BuildReportSerializable struct {
	SchemaVersion   int                   `json:"schema_version"`
	BuildID         string                `json:"build_id"`
	Start           time.Time             `json:"start"`
	End             time.Time             `json:"end"`
	DurationMS      int64                 `json:"duration_ms"`
	Sources         int                   `json:"sources"`
	Nodes           int                   `json:"nodes"`
	Pages           int                   `json:"pages"`
	DefaultPages    int                   `json:"default_pages"`
	Redirects       int                   `json:"redirects"`
	RedirectStubs   int                   `json:"redirect_stubs"`
	BundlerStages   int                   `json:"bundler_stages"`
	Errors          []string              `json:"errors"`
	Warnings        []string              `json:"warnings"`
	StageDurations  map[string]int64      `json:"stage_durations_ms"`
	StageErrorKinds map[string]string     `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount `json:"stage_counts"`
	Issues          []ReportIssue         `json:"issues"`
	Outcome         BuildOutcome          `json:"outcome"`
}

func (r *BuildReport) serializable() *BuildReportSerializable {
	s := &BuildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		Start:           r.Start,
		End:             r.End,
		DurationMS:      r.Duration().Milliseconds(),
		Sources:         r.Sources,
		Nodes:           r.Nodes,
		Pages:           r.Pages,
		DefaultPages:    r.DefaultPages,
		Redirects:       r.Redirects,
		RedirectStubs:   r.RedirectStubs,
		BundlerStages:   r.BundlerStages,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  make(map[string]int64, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:     make(map[string]StageCount, len(r.StageCounts)),
		Issues:          r.Issues,
		Outcome:         r.Outcome,
	}
	if s.Issues == nil {
		s.Issues = []ReportIssue{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.StageDurations {
		s.StageDurations[k] = v.Milliseconds()
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	return s
}
