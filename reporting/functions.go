package reporting

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// TemplateFuncs returns the functions available to report templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": func(nanos types.StepDuration) string {
			d := time.Duration(nanos)
			if d < time.Second {
				return fmt.Sprintf("%dms", d.Milliseconds())
			}
			return d.Truncate(time.Millisecond).String()
		},
		"formatTime": func(t time.Time) string {
			return t.Format(time.RFC1123)
		},
		"stepStatus": func(step types.ReportStep) string {
			if step.Result == nil {
				return "unknown"
			}
			return getStatusString(step.Result.Status)
		},
		"stepText": func(text string) template.HTML {
			parts := strings.Split(text, types.TextSeparator)
			for i, p := range parts {
				parts[i] = template.HTMLEscapeString(p)
			}
			return template.HTML(strings.Join(parts, types.TextSeparator))
		},
		"scenarioClass": func(outcome types.ScenarioOutcome) string {
			if outcome == types.ScenarioUncounted {
				return "unknown"
			}
			return string(outcome)
		},
		"featureClass": featureStatus,
		"percent": func(part, total int) string {
			if total == 0 {
				return "0.00"
			}
			return fmt.Sprintf("%.2f", float64(part)*100/float64(total))
		},
		"add": func(a, b int) int {
			return a + b
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},
		"safeJS": func(s string) template.JS {
			return template.JS(s)
		},
	}
}

// getStatusString returns a consistent lowercase status string
func getStatusString(status types.StepStatus) string {
	switch status {
	case types.StepStatusPassed:
		return "passed"
	case types.StepStatusFailed:
		return "failed"
	case types.StepStatusUndefined:
		return "undefined"
	default:
		return "skipped"
	}
}
