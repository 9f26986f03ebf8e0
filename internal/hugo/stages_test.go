package hugo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

func noopStage(context.Context, *BuildState) error { return nil }

func TestPipeline_AddIf(t *testing.T) {
	defs := NewPipeline().
		Add(StagePrepareOutput, noopStage).
		AddIf(false, StageCustomizeSchema, noopStage).
		AddIf(true, StageWriteOutput, noopStage).
		Build()

	require.Len(t, defs, 2)
	assert.Equal(t, StagePrepareOutput, defs[0].Name)
	assert.Equal(t, StageWriteOutput, defs[1].Name)
}

func TestBuildStages(t *testing.T) {
	names := func(defs []StageDef) []StageName {
		out := make([]StageName, 0, len(defs))
		for _, d := range defs {
			out = append(out, d.Name)
		}
		return out
	}

	assert.Equal(t, []StageName{
		StagePrepareOutput, StageCustomizeSchema, StageSourceContent,
		StageCreatePages, StageConfigureBundler, StageWriteOutput,
	}, names(buildStages(true)))
	assert.Equal(t, []StageName{
		StageCustomizeSchema, StageSourceContent, StageCreatePages, StageConfigureBundler,
	}, names(buildStages(false)))
}

func TestClassifyStageResult(t *testing.T) {
	tests := []struct {
		name     string
		stage    StageName
		err      error
		result   StageResult
		code     ReportIssueCode
		severity IssueSeverity
		abort    bool
	}{
		{
			name: "success", stage: StageCreatePages,
			result: StageResultSuccess,
		},
		{
			name: "canceled", stage: StageSourceContent, err: fmt.Errorf("walk: %w", context.Canceled),
			result: StageResultCanceled, code: IssueCanceled, severity: SeverityError, abort: true,
		},
		{
			name: "query failure", stage: StageCreatePages, err: errors.QueryError("bad query").Fatal().Build(),
			result: StageResultFatal, code: IssueQueryFailure, severity: SeverityError, abort: true,
		},
		{
			name: "classified warning", stage: StageConfigureBundler,
			err:    errors.BundlerError("alias missing").WithSeverity(errors.SeverityWarning).Build(),
			result: StageResultWarning, code: IssueBundlerFailure, severity: SeverityWarning,
		},
		{
			name: "plain error in source stage", stage: StageSourceContent, err: assert.AnError,
			result: StageResultFatal, code: IssueSourceFailure, severity: SeverityError, abort: true,
		},
		{
			name: "plain error elsewhere", stage: StageCustomizeSchema, err: assert.AnError,
			result: StageResultFatal, code: IssueGenericStageError, severity: SeverityError, abort: true,
		},
		{
			name: "explicit warning", stage: StageWriteOutput, err: newWarnStageError(StageWriteOutput, assert.AnError),
			result: StageResultWarning, code: IssueWriteFailure, severity: SeverityWarning,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := classifyStageResult(tt.stage, tt.err)
			assert.Equal(t, tt.result, out.result)
			assert.Equal(t, tt.code, out.code)
			assert.Equal(t, tt.severity, out.severity)
			assert.Equal(t, tt.abort, out.abort)
			if tt.err != nil {
				require.NotNil(t, out.err)
				assert.ErrorIs(t, out.err, tt.err)
			}
		})
	}
}
