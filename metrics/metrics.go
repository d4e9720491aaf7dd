package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

const (
	MetricsNamespace = "cukereport"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "steps_total",
		Help:      "Count of classified steps",
	}, []string{
		"status",
	})

	attachmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "attachments_total",
		Help:      "Count of processed step embeddings",
	}, []string{
		"kind",
		"result",
	})

	scenarioResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "scenario_results",
		Help:      "Scenarios per outcome in the last generated report",
	}, []string{
		"project",
		"run_id",
		"result",
	})

	featureResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "feature_results",
		Help:      "Features per outcome in the last generated report",
	}, []string{
		"project",
		"run_id",
		"result",
	})

	reportDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "report_duration_seconds",
		Help:      "Time taken to aggregate and render a report",
	}, []string{
		"project",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordStep counts a classified step. Steps without a result are not recorded.
func RecordStep(status types.StepStatus) {
	switch status {
	case types.StepStatusPassed, types.StepStatusFailed, types.StepStatusUndefined:
	default:
		status = types.StepStatusSkipped
	}
	stepsTotal.WithLabelValues(string(status)).Inc()
}

// RecordAttachment counts an embedding by kind ("text" or "binary")
func RecordAttachment(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	attachmentsTotal.WithLabelValues(kind, result).Inc()
}

// RecordSuite publishes the aggregated counters of a finished report
func RecordSuite(suite *types.Suite, duration time.Duration) {
	if suite == nil {
		return
	}
	if Debug {
		log.Debug("metric set",
			"m", "scenario_results",
			"project", suite.Name,
			"run_id", suite.RunID,
			"passed", suite.Scenarios.Passed,
			"failed", suite.Scenarios.Failed)
	}
	scenarioResults.WithLabelValues(suite.Name, suite.RunID, string(types.ScenarioPassed)).Set(float64(suite.Scenarios.Passed))
	scenarioResults.WithLabelValues(suite.Name, suite.RunID, string(types.ScenarioFailed)).Set(float64(suite.Scenarios.Failed))
	scenarioResults.WithLabelValues(suite.Name, suite.RunID, string(types.ScenarioSkipped)).Set(float64(suite.Scenarios.Skipped))
	scenarioResults.WithLabelValues(suite.Name, suite.RunID, string(types.ScenarioNotDefined)).Set(float64(suite.Scenarios.NotDefined))
	// Summary always counts features; Passed/Failed may hold scenario totals
	featureResults.WithLabelValues(suite.Name, suite.RunID, "passed").Set(float64(suite.Summary.Passed))
	featureResults.WithLabelValues(suite.Name, suite.RunID, "failed").Set(float64(suite.Summary.Failed))
	reportDuration.WithLabelValues(suite.Name, suite.RunID).Set(duration.Seconds())
}

// WriteTextfile dumps the default registry in the node_exporter textfile format
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
