package aggregator

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// memoryStore records saved attachments without touching the disk
type memoryStore struct {
	mu    sync.Mutex
	saved map[string][]byte
	next  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: make(map[string][]byte)}
}

func (m *memoryStore) Save(baseName string, data []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := fmt.Sprintf("screenshot/%s%d.png", baseName, m.next)
	m.saved[ref] = data
	return ref
}

func (m *memoryStore) Wait() []error { return nil }

func step(status types.StepStatus) types.Step {
	return types.Step{Keyword: "Given ", Name: "a step", Result: &types.StepResult{Status: status}}
}

func scenario(statuses ...types.StepStatus) types.Element {
	steps := make([]types.Step, 0, len(statuses))
	for _, s := range statuses {
		steps = append(steps, step(s))
	}
	return types.Element{Name: "scenario", Keyword: "Scenario", Steps: steps}
}

func newTestAggregator(store AttachmentStore) *Aggregator {
	return New(log.NewLogger(log.DiscardHandler()), store)
}

func aggregate(t *testing.T, doc types.ResultDocument, cfg Config) *types.Suite {
	t.Helper()
	info := RunInfo{RunID: "run", Name: "project", Version: "1.0.0", Time: time.Unix(0, 0)}
	suite := newTestAggregator(newMemoryStore()).Aggregate(context.Background(), doc, cfg, info)
	require.NotNil(t, suite)
	return suite
}

func TestClassifyScenario(t *testing.T) {
	tests := []struct {
		name   string
		counts types.StepCounts
		want   types.ScenarioOutcome
	}{
		{name: "all zero", counts: types.StepCounts{}, want: types.ScenarioUncounted},
		{name: "passed only", counts: types.StepCounts{Passed: 3}, want: types.ScenarioPassed},
		{name: "skipped beats passed", counts: types.StepCounts{Passed: 3, Skipped: 1}, want: types.ScenarioSkipped},
		{name: "failed beats skipped", counts: types.StepCounts{Passed: 1, Skipped: 1, Failed: 1}, want: types.ScenarioFailed},
		{name: "undefined beats failed", counts: types.StepCounts{Failed: 5, NotDefined: 1}, want: types.ScenarioNotDefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyScenario(tt.counts))
		})
	}
}

func TestAggregateStepClassification(t *testing.T) {
	doc := types.ResultDocument{
		{
			URI: "features/a.feature",
			Elements: []types.Element{
				{
					Steps: []types.Step{
						step(types.StepStatusPassed),
						step(types.StepStatusFailed),
						step(types.StepStatusUndefined),
						step(types.StepStatusPending),
						step(types.StepStatusSkipped),
						step(""),
						{Keyword: "When ", Name: "no result"},
					},
				},
			},
		},
	}

	suite := aggregate(t, doc, Config{})
	counts := suite.Features[0].Elements[0].Counts
	assert.Equal(t, types.StepCounts{Passed: 1, Failed: 1, NotDefined: 1, Skipped: 3}, counts)
}

func TestAggregateTwoFeatures(t *testing.T) {
	doc := types.ResultDocument{
		{
			URI:      "/work/project/features/a.feature",
			Elements: []types.Element{scenario(types.StepStatusPassed, types.StepStatusPassed)},
		},
		{
			URI:      "/work/project/features/b.feature",
			Elements: []types.Element{scenario(types.StepStatusUndefined, types.StepStatusPassed)},
		},
	}

	suite := aggregate(t, doc, Config{})

	first := suite.Features[0]
	assert.Equal(t, 1, first.Scenarios.Passed)
	assert.False(t, first.IsFailed)

	second := suite.Features[1]
	assert.Equal(t, 1, second.Scenarios.NotDefined)
	assert.False(t, second.IsFailed, "undefined scenarios do not fail the feature")

	assert.Equal(t, types.ScenarioCounts{Passed: 1, NotDefined: 1}, suite.Scenarios)
	assert.Equal(t, 2, suite.Passed)
	assert.Equal(t, 0, suite.Failed)
	assert.Equal(t, types.FeatureSummary{Passed: 2}, suite.Summary)
}

func TestAggregateFailedScenarioFailsFeature(t *testing.T) {
	doc := types.ResultDocument{
		{
			URI: "features/checkout.feature",
			Elements: []types.Element{
				scenario(types.StepStatusPassed),
				scenario(types.StepStatusPassed, types.StepStatusFailed, types.StepStatusSkipped),
				scenario(types.StepStatusSkipped),
			},
		},
	}

	suite := aggregate(t, doc, Config{})
	feature := suite.Features[0]
	assert.True(t, feature.IsFailed)
	assert.Equal(t, types.ScenarioCounts{Passed: 1, Failed: 1, Skipped: 1}, feature.Scenarios)
	assert.Equal(t, 1, suite.Failed)
	assert.Equal(t, 0, suite.Passed)
	assert.Equal(t, types.FeatureSummary{Failed: 1}, suite.Summary)
}

func TestAggregateFailedFlagResetsPerFeature(t *testing.T) {
	doc := types.ResultDocument{
		{URI: "f/a.feature", Elements: []types.Element{scenario(types.StepStatusFailed)}},
		{URI: "f/b.feature", Elements: []types.Element{scenario(types.StepStatusPassed)}},
	}

	suite := aggregate(t, doc, Config{})
	assert.True(t, suite.Features[0].IsFailed)
	assert.False(t, suite.Features[1].IsFailed)
	assert.Equal(t, 1, suite.Failed)
	assert.Equal(t, 1, suite.Passed)
}

func TestAggregateEmptyFeatureIsNotCounted(t *testing.T) {
	doc := types.ResultDocument{
		{URI: "/a/b/empty.feature"},
		{URI: "/a/b/c/also-empty.feature", Elements: []types.Element{}},
	}

	suite := aggregate(t, doc, Config{})
	require.Len(t, suite.Features, 2)
	assert.Equal(t, 0, suite.Passed)
	assert.Equal(t, 0, suite.Failed)
	assert.Equal(t, types.FeatureSummary{}, suite.Summary)
	assert.False(t, suite.Features[0].Counted)
	// relative folders are still derived for uncounted features
	assert.Equal(t, "empty.feature", suite.Features[0].RelativeFolder)
	assert.Equal(t, "c/also-empty.feature", suite.Features[1].RelativeFolder)
}

func TestAggregateUncountedScenarios(t *testing.T) {
	doc := types.ResultDocument{
		{
			URI: "features/a.feature",
			Elements: []types.Element{
				{Name: "no steps"},
				{Name: "no results", Steps: []types.Step{{Keyword: "Given "}, {Keyword: "Then "}}},
				scenario(types.StepStatusPassed),
			},
		},
	}

	suite := aggregate(t, doc, Config{})
	assert.Equal(t, 1, suite.Scenarios.Total(), "only scenarios with a classified step are counted")
	assert.Equal(t, types.ScenarioUncounted, suite.Features[0].Elements[0].Outcome)
	assert.Equal(t, types.ScenarioUncounted, suite.Features[0].Elements[1].Outcome)
	// the feature still counts as passed
	assert.Equal(t, 1, suite.Passed)
}

func TestAggregateRelativeFolder(t *testing.T) {
	doc := types.ResultDocument{
		{URI: "/a/b/c/feat.feature", Elements: []types.Element{scenario(types.StepStatusPassed)}},
		{URI: "/a/b/d/other.feature", Elements: []types.Element{scenario(types.StepStatusPassed)}},
	}

	suite := aggregate(t, doc, Config{})
	assert.Equal(t, "c/feat.feature", suite.Features[0].RelativeFolder)
	assert.Equal(t, "d/other.feature", suite.Features[1].RelativeFolder)
}

func TestAggregateReportSuiteAsScenarios(t *testing.T) {
	doc := types.ResultDocument{
		{
			URI: "features/a.feature",
			Elements: []types.Element{
				scenario(types.StepStatusPassed),
				scenario(types.StepStatusPassed),
				scenario(types.StepStatusFailed),
			},
		},
		{
			URI: "features/b.feature",
			Elements: []types.Element{
				scenario(types.StepStatusPassed),
				scenario(types.StepStatusUndefined),
			},
		},
	}

	t.Run("feature granularity by default", func(t *testing.T) {
		suite := aggregate(t, doc, Config{})
		assert.Equal(t, 1, suite.Passed)
		assert.Equal(t, 1, suite.Failed)
	})

	t.Run("scenario granularity when enabled", func(t *testing.T) {
		suite := aggregate(t, doc, Config{ReportSuiteAsScenarios: true})
		assert.Equal(t, suite.Scenarios.Passed, suite.Passed)
		assert.Equal(t, suite.Scenarios.Failed, suite.Failed)
		assert.Equal(t, 3, suite.Passed)
		assert.Equal(t, 1, suite.Failed)
		// the feature summary keeps feature granularity
		assert.Equal(t, types.FeatureSummary{Passed: 1, Failed: 1}, suite.Summary)
	})
}

func TestAggregateIsIdempotent(t *testing.T) {
	doc := types.ResultDocument{
		{
			URI: "features/a.feature",
			Elements: []types.Element{
				scenario(types.StepStatusPassed, types.StepStatusFailed),
				scenario(types.StepStatusUndefined),
			},
		},
		{URI: "features/b.feature"},
	}

	first := aggregate(t, doc, Config{})
	second := aggregate(t, doc, Config{})
	assert.Equal(t, first.Scenarios, second.Scenarios)
	assert.Equal(t, first.Passed, second.Passed)
	assert.Equal(t, first.Failed, second.Failed)
	assert.Equal(t, first.Summary, second.Summary)
	for i := range first.Features {
		assert.Equal(t, first.Features[i].Scenarios, second.Features[i].Scenarios)
	}
}

func TestAggregateTextEmbeddings(t *testing.T) {
	encode := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	doc := types.ResultDocument{
		{
			URI: "features/a.feature",
			Elements: []types.Element{
				{
					Steps: []types.Step{
						{
							Keyword: "Given ",
							Name:    "logs",
							Result:  &types.StepResult{Status: types.StepStatusPassed},
							Embeddings: []types.Embedding{
								{MimeType: "text/plain", Data: encode("first")},
								{MimeType: "text/plain", Data: encode("\x1b[31msecond\x1b[0m")},
								{Media: &types.EmbeddingMedia{Type: "text/plain"}, Data: encode("third")},
							},
						},
					},
				},
			},
		},
	}

	suite := aggregate(t, doc, Config{})
	reportStep := suite.Features[0].Elements[0].Steps[0]
	assert.Equal(t, "first<br>second<br>third", reportStep.Text)
	assert.Empty(t, reportStep.Image)
}

func TestAggregateBinaryEmbeddings(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	doc := types.ResultDocument{
		{
			URI: "features/a.feature",
			Elements: []types.Element{
				{
					Steps: []types.Step{
						{
							Keyword: "Then ",
							Name:    "I see the page",
							Result:  &types.StepResult{Status: types.StepStatusFailed},
							Embeddings: []types.Embedding{
								{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(png)},
							},
						},
						{
							Keyword: "After ",
							Embeddings: []types.Embedding{
								{MimeType: "image/png", Data: "!!! not base64 !!!"},
							},
						},
					},
				},
			},
		},
	}

	store := newMemoryStore()
	info := RunInfo{RunID: "run", Time: time.Unix(0, 0)}
	suite := newTestAggregator(store).Aggregate(context.Background(), doc, Config{}, info)

	steps := suite.Features[0].Elements[0].Steps
	assert.Equal(t, "screenshot/I_see_the_page1.png", steps[0].Image)
	assert.Equal(t, png, store.saved[steps[0].Image])
	assert.Empty(t, steps[1].Image, "undecodable data is skipped")
	assert.Len(t, store.saved, 1)

	// the failed step still drives classification
	assert.Equal(t, 1, suite.Scenarios.Failed)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	doc := types.ResultDocument{
		{
			URI: "/x/y/a.feature",
			Elements: []types.Element{
				{
					Steps: []types.Step{
						{
							Keyword:    "Given ",
							Result:     &types.StepResult{Status: types.StepStatusPassed},
							Embeddings: []types.Embedding{{MimeType: "text/plain", Data: "aGk="}},
						},
					},
				},
			},
		},
	}
	snapshot := fmt.Sprintf("%+v", doc)

	_ = aggregate(t, doc, Config{})
	assert.Equal(t, snapshot, fmt.Sprintf("%+v", doc))
}

func TestAggregateEmptyDocument(t *testing.T) {
	suite := aggregate(t, types.ResultDocument{}, Config{ReportSuiteAsScenarios: true})
	assert.Empty(t, suite.Features)
	assert.Equal(t, 0, suite.Passed)
	assert.Equal(t, 0, suite.Failed)
	assert.Equal(t, "project", suite.Name)
	assert.Equal(t, "1.0.0", suite.Version)
}
