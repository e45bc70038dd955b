// Package threshold evaluates pass/fail assertions against run statistics,
// letting scripted runs gate on failure counts or latency.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"apidash/internal/metrics"
)

// Threshold is an assertion over a run metric, such as "api_call_failed:count == 0".
type Threshold struct {
	Metric    string
	Aggregate string
	Operator  string
	Value     float64
	Raw       string
}

// Result is the outcome of evaluating one threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string of the form "metric:aggregate operator value".
// Supported:
//   - "api_call_duration:p50|p90|p99|avg|min|max < 500"  (milliseconds)
//   - "api_call_failed:count|rate == 0"
//   - "api_calls:count|rate > 10"
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'api_call_failed:count == 0')", s)
	}

	value, err := strconv.ParseFloat(matches[4], 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", matches[4], err)
	}

	t := Threshold{
		Metric:    matches[1],
		Aggregate: matches[2],
		Operator:  matches[3],
		Value:     value,
		Raw:       s,
	}
	if _, ok := resolvers[t.Metric]; !ok {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: api_call_duration, api_call_failed, api_calls)", t.Metric)
	}
	switch t.Operator {
	case "<", "<=", ">", ">=", "==":
	default:
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", t.Operator)
	}
	return t, nil
}

// ParseMultiple parses a list of threshold strings, collecting all errors.
func ParseMultiple(specs []string) ([]Threshold, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	parsed := make([]Threshold, 0, len(specs))
	var errs []string
	for i, s := range specs {
		t, err := Parse(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		parsed = append(parsed, t)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errs, "; "))
	}
	return parsed, nil
}

// Evaluate checks every threshold against the provided stats.
func Evaluate(thresholds []Threshold, stats metrics.Stats) []Result {
	if len(thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(thresholds))
	for _, t := range thresholds {
		results = append(results, evaluateOne(t, stats))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func evaluateOne(t Threshold, stats metrics.Stats) Result {
	actual, err := resolvers[t.Metric](t.Aggregate, stats)
	if err != nil {
		return Result{
			Threshold: t,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compare(actual, t.Operator, t.Value)
	status := "PASS"
	if !pass {
		status = "FAIL"
	}
	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("[%s] %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

type resolver func(aggregate string, stats metrics.Stats) (float64, error)

var resolvers = map[string]resolver{
	"api_call_duration": resolveDuration,
	"api_call_failed":   resolveFailed,
	"api_calls":         resolveCalls,
}

func resolveDuration(aggregate string, stats metrics.Stats) (float64, error) {
	switch aggregate {
	case "p50":
		return stats.P50LatencyMs, nil
	case "p90":
		return stats.P90LatencyMs, nil
	case "p99":
		return stats.P99LatencyMs, nil
	case "avg", "mean":
		return stats.MeanLatencyMs, nil
	case "min":
		return stats.MinLatencyMs, nil
	case "max":
		return stats.MaxLatencyMs, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for api_call_duration", aggregate)
	}
}

func resolveFailed(aggregate string, stats metrics.Stats) (float64, error) {
	switch aggregate {
	case "count":
		return float64(stats.Failures), nil
	case "rate":
		if stats.Total == 0 {
			return 0, nil
		}
		return float64(stats.Failures) / float64(stats.Total), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for api_call_failed (use 'count' or 'rate')", aggregate)
	}
}

func resolveCalls(aggregate string, stats metrics.Stats) (float64, error) {
	switch aggregate {
	case "count":
		return float64(stats.Total), nil
	case "rate":
		return stats.RequestsPerSec, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for api_calls (use 'count' or 'rate')", aggregate)
	}
}

func compare(actual float64, operator string, expected float64) bool {
	const epsilon = 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
