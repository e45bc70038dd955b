// Package runner executes catalog categories against their targets and
// collects one normalized result record per call. Calls within a category
// run strictly sequentially so result order always matches catalog order.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"apidash/internal/auth"
	"apidash/internal/catalog"
	"apidash/internal/httpclient"
	"apidash/internal/metrics"
)

const defaultMaxBodyBytes = 1 << 20

// FailureLogger receives each failed call as it happens.
type FailureLogger interface {
	LogFailure(name string, err error)
}

// Options configure the Runner.
type Options struct {
	Catalog *catalog.Catalog
	Store   *Store
	Client  httpclient.Doer

	// ProxyPrefix, when set, is prepended to a custom call's URL for the
	// single retry after a transport-level failure. Best effort only; it
	// exists to dodge cross-origin style connectivity problems, not as a
	// general retry policy.
	ProxyPrefix string

	// Pacer spaces out sequential calls when set. Ordering is unaffected.
	Pacer *rate.Limiter

	Collector     *metrics.Collector
	Auth          auth.Provider
	Tracer        trace.Tracer
	FailureLogger FailureLogger
	MaxBodyBytes  int64
}

func (o *Options) normalize() {
	if o.Store == nil {
		o.Store = NewStore()
	}
	if o.Client == nil {
		o.Client = httpclient.NewClient(30 * time.Second)
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
}

// Runner executes catalog entries and writes results to the store.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Store returns the result store the runner writes to.
func (r *Runner) Store() *Store {
	return r.opt.Store
}

// RunCategory executes a category's definitions in catalog order and
// replaces the category's records in the store. A failing call never
// aborts the rest of the category; it only poisons its own record.
func (r *Runner) RunCategory(ctx context.Context, category string) error {
	defs, ok := r.opt.Catalog.Definitions(category)
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}

	records := make([]ResultRecord, 0, len(defs))
	for _, def := range defs {
		record, _ := r.call(ctx, category, def.Name, def.Method, def.URL, def.Body)
		records = append(records, record)
	}
	r.opt.Store.SetCategory(category, records)
	return nil
}

// RunAll runs every category sequentially. Individual call failures are
// recorded, never propagated.
func (r *Runner) RunAll(ctx context.Context) error {
	for _, category := range r.opt.Catalog.Names() {
		if err := r.RunCategory(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

// RunCustom executes a single ad-hoc call and stores it in the custom
// slot. The body text is parsed as JSON only for methods that carry one;
// a parse failure is recorded without touching the network. A transport
// failure triggers exactly one retry through the proxy prefix.
func (r *Runner) RunCustom(ctx context.Context, method, url, rawBody string) {
	const name = "Custom API"
	method = strings.ToUpper(strings.TrimSpace(method))

	var body []byte
	if methodTakesBody(method) {
		trimmed := strings.TrimSpace(rawBody)
		if trimmed == "" {
			body = []byte("{}")
		} else if !json.Valid([]byte(trimmed)) {
			r.opt.Store.SetCustom(ResultRecord{
				Name:    name,
				Status:  StatusText(StatusSentinelInvalidJSON),
				Success: false,
				Err:     "invalid JSON body",
			})
			return
		} else {
			body = []byte(trimmed)
		}
	}

	record, transportFailed := r.call(ctx, "custom", name, method, url, body)
	if transportFailed && r.opt.ProxyPrefix != "" {
		record, _ = r.call(ctx, "custom", name, method, r.opt.ProxyPrefix+url, body)
	}
	r.opt.Store.SetCustom(record)
}

// call performs one HTTP call and normalizes its outcome. The second
// return value reports a transport-level failure: no response was
// received at all, as opposed to a response carrying a failure status.
func (r *Runner) call(ctx context.Context, category, name, method, url string, body []byte) (ResultRecord, bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	if r.opt.Tracer == nil {
		return r.doCall(ctx, category, name, method, url, body)
	}

	ctx, span := r.opt.Tracer.Start(ctx, "apidash.call", trace.WithAttributes(
		attribute.String("apidash.category", category),
		attribute.String("apidash.endpoint", name),
		attribute.String("http.request.method", method),
		attribute.String("url.full", url),
	))
	defer span.End()

	record, transport := r.doCall(ctx, category, name, method, url, body)
	if record.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, record.Err)
	}
	if record.Status.Code > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", record.Status.Code))
	}
	return record, transport
}

func (r *Runner) doCall(ctx context.Context, category, name, method, url string, body []byte) (ResultRecord, bool) {
	if r.opt.Pacer != nil {
		if err := r.opt.Pacer.Wait(ctx); err != nil {
			return r.failure(category, name, StatusText(StatusSentinelError), err, 0), true
		}
	}

	req, err := httpclient.NewJSONRequest(ctx, method, url, body)
	if err != nil {
		return r.failure(category, name, StatusText(StatusSentinelError), err, 0), true
	}
	if r.opt.Auth != nil {
		if err := r.opt.Auth.InjectHeader(ctx, req); err != nil {
			return r.failure(category, name, StatusText(StatusSentinelError), err, 0), true
		}
	}

	start := time.Now()
	resp, err := r.opt.Client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return r.failure(category, name, StatusText(StatusSentinelError), err, latency), true
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, r.opt.MaxBodyBytes))
	if readErr != nil {
		return r.failure(category, name, StatusCode(resp.StatusCode), readErr, latency), false
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &HTTPError{StatusCode: resp.StatusCode}
		return r.failure(category, name, StatusCode(resp.StatusCode), err, latency), false
	}

	r.record(category, latency, true)
	return ResultRecord{
		Name:    name,
		Status:  StatusCode(resp.StatusCode),
		Success: true,
		Data:    normalizeJSON(data),
	}, false
}

func (r *Runner) failure(category, name string, status Status, err error, latency time.Duration) ResultRecord {
	r.record(category, latency, false)
	if r.opt.FailureLogger != nil {
		r.opt.FailureLogger.LogFailure(name, err)
	}
	return ResultRecord{
		Name:    name,
		Status:  status,
		Success: false,
		Err:     err.Error(),
	}
}

func (r *Runner) record(category string, latency time.Duration, success bool) {
	if r.opt.Collector != nil {
		r.opt.Collector.Record(category, latency, success)
	}
}

func methodTakesBody(method string) bool {
	return method != http.MethodGet && method != http.MethodDelete
}

// normalizeJSON keeps valid JSON bodies verbatim and wraps anything else
// as a JSON string so records always marshal cleanly. Empty bodies become
// JSON null.
func normalizeJSON(data []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	wrapped, err := json.Marshal(trimmed)
	if err != nil {
		return json.RawMessage("null")
	}
	return wrapped
}
