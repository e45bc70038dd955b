package runner_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"apidash/internal/catalog"
	"apidash/internal/metrics"
	"apidash/internal/runner"
)

func testCatalog(t *testing.T, base string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Category{
		{
			Name: "SIM",
			Definitions: []catalog.Definition{
				{Name: "SIM Info Success", Method: http.MethodGet, URL: base + "/ok"},
				{Name: "SIM Info Fail", Method: http.MethodGet, URL: base + "/missing"},
			},
		},
		{
			Name: "OTP",
			Definitions: []catalog.Definition{
				{Name: "Send OTP", Method: http.MethodPost, URL: base + "/echo",
					Body: json.RawMessage(`{"phone":"1234567890"}`)},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":1,"title":"ok"}`)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"echoed":true}`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// Every completed category run holds exactly one record per definition,
// in catalog order.
func TestRunCategoryPreservesCatalogOrder(t *testing.T) {
	backend := newBackend(t)
	cat := testCatalog(t, backend.URL)
	r := runner.New(runner.Options{Catalog: cat})

	if err := r.RunCategory(context.Background(), "SIM"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	records, ok := r.Store().Category("SIM")
	if !ok {
		t.Fatal("expected SIM results in store")
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "SIM Info Success" || records[1].Name != "SIM Info Fail" {
		t.Fatalf("records out of catalog order: %q, %q", records[0].Name, records[1].Name)
	}
}

// Exactly one of Data/Err is populated, gated by Success.
func TestResultRecordsDataErrorExclusive(t *testing.T) {
	backend := newBackend(t)
	cat := testCatalog(t, backend.URL)
	r := runner.New(runner.Options{Catalog: cat})

	if err := r.RunAll(context.Background()); err != nil {
		t.Fatalf("run all failed: %v", err)
	}

	snap := r.Store().Snapshot()
	for _, category := range snap.Categories {
		for _, rec := range category.Records {
			if rec.Success {
				if len(rec.Data) == 0 || rec.Err != "" {
					t.Fatalf("%s/%s: success record must carry data only: %+v", category.Category, rec.Name, rec)
				}
			} else {
				if rec.Err == "" || len(rec.Data) != 0 {
					t.Fatalf("%s/%s: failure record must carry error only: %+v", category.Category, rec.Name, rec)
				}
			}
		}
	}
}

func TestRunCategoryRecordsFailureStatus(t *testing.T) {
	backend := newBackend(t)
	cat := testCatalog(t, backend.URL)
	r := runner.New(runner.Options{Catalog: cat})

	if err := r.RunCategory(context.Background(), "SIM"); err != nil {
		t.Fatal(err)
	}

	records, _ := r.Store().Category("SIM")
	fail := records[1]
	if fail.Success {
		t.Fatal("expected /missing call to fail")
	}
	if fail.Status.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %s", fail.Status)
	}
	if !strings.Contains(fail.Err, "404") {
		t.Fatalf("expected error message to carry the status, got %q", fail.Err)
	}
}

// Re-running a category overwrites its records rather than appending.
func TestRerunOverwritesResults(t *testing.T) {
	backend := newBackend(t)
	cat := testCatalog(t, backend.URL)
	r := runner.New(runner.Options{Catalog: cat})

	ctx := context.Background()
	if err := r.RunCategory(ctx, "SIM"); err != nil {
		t.Fatal(err)
	}
	first := r.Store().Snapshot().Categories[0]

	if err := r.RunCategory(ctx, "SIM"); err != nil {
		t.Fatal(err)
	}
	records, _ := r.Store().Category("SIM")
	if len(records) != 2 {
		t.Fatalf("expected 2 records after rerun, got %d", len(records))
	}

	second := r.Store().Snapshot().Categories[0]
	if first.RunID == second.RunID {
		t.Fatal("expected a fresh run ID after rerun")
	}
}

// RunAll leaves every declared category present, even with failures inside.
func TestRunAllCoversAllCategories(t *testing.T) {
	backend := newBackend(t)
	cat := testCatalog(t, backend.URL)
	r := runner.New(runner.Options{Catalog: cat})

	if err := r.RunAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, name := range cat.Names() {
		if _, ok := r.Store().Category(name); !ok {
			t.Fatalf("category %s missing after RunAll", name)
		}
	}
}

func TestRunCategoryUnknownCategory(t *testing.T) {
	backend := newBackend(t)
	cat := testCatalog(t, backend.URL)
	r := runner.New(runner.Options{Catalog: cat})

	if err := r.RunCategory(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestTransportFailureUsesErrorSentinel(t *testing.T) {
	c, err := catalog.New([]catalog.Category{
		{Name: "Down", Definitions: []catalog.Definition{
			{Name: "Unreachable", Method: http.MethodGet, URL: "http://127.0.0.1:1/nothing"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := runner.New(runner.Options{Catalog: c})

	if err := r.RunCategory(context.Background(), "Down"); err != nil {
		t.Fatal(err)
	}
	records, _ := r.Store().Category("Down")
	if records[0].Status.String() != runner.StatusSentinelError {
		t.Fatalf("expected Error sentinel, got %s", records[0].Status)
	}
	if records[0].Err == "" {
		t.Fatal("expected error message on transport failure")
	}
}

// spyTransport counts calls without touching the network.
type spyTransport struct {
	calls int32
}

func (s *spyTransport) Do(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&s.calls, 1)
	return nil, fmt.Errorf("dial tcp: connection refused")
}

// An unparseable custom body is reported without any transport call.
func TestRunCustomInvalidJSONSkipsNetwork(t *testing.T) {
	spy := &spyTransport{}
	r := runner.New(runner.Options{Catalog: catalog.Default(), Client: spy})

	r.RunCustom(context.Background(), http.MethodPost, "http://example.com/api", "{bad json")

	record, ok := r.Store().Custom()
	if !ok {
		t.Fatal("expected a custom result")
	}
	if record.Status.String() != runner.StatusSentinelInvalidJSON {
		t.Fatalf("expected Invalid JSON sentinel, got %s", record.Status)
	}
	if record.Success {
		t.Fatal("expected failure record")
	}
	if got := atomic.LoadInt32(&spy.calls); got != 0 {
		t.Fatalf("expected zero transport calls, got %d", got)
	}
}

func TestRunCustomEmptyBodyBecomesEmptyObject(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 16)
		n, _ := r.Body.Read(buf)
		captured = buf[:n]
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	r := runner.New(runner.Options{Catalog: catalog.Default()})
	r.RunCustom(context.Background(), http.MethodPost, srv.URL, "")

	record, _ := r.Store().Custom()
	if !record.Success {
		t.Fatalf("expected success, got %+v", record)
	}
	if string(captured) != "{}" {
		t.Fatalf("expected empty-object body, got %q", captured)
	}
}

func TestRunCustomGETIgnoresBodyText(t *testing.T) {
	spy := &spyTransport{}
	r := runner.New(runner.Options{Catalog: catalog.Default(), Client: spy})

	// Body text is not JSON but GET carries no body, so the call proceeds.
	r.RunCustom(context.Background(), http.MethodGet, "http://example.com/api", "{bad json")

	if got := atomic.LoadInt32(&spy.calls); got != 1 {
		t.Fatalf("expected one transport call, got %d", got)
	}
}

// A transport-level failure triggers exactly one retry through the proxy
// prefix; a response with a failure status does not.
func TestRunCustomProxyRetry(t *testing.T) {
	var direct, proxied int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/relay/") {
			atomic.AddInt32(&proxied, 1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"via":"proxy"}`)
			return
		}
		atomic.AddInt32(&direct, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	t.Run("transport failure retries once", func(t *testing.T) {
		atomic.StoreInt32(&proxied, 0)
		r := runner.New(runner.Options{
			Catalog:     catalog.Default(),
			ProxyPrefix: srv.URL + "/relay/",
		})
		// Unroutable target: the direct attempt never gets a response.
		r.RunCustom(context.Background(), http.MethodGet, "http://127.0.0.1:1/x", "")

		record, _ := r.Store().Custom()
		if !record.Success {
			t.Fatalf("expected proxied retry to succeed, got %+v", record)
		}
		if got := atomic.LoadInt32(&proxied); got != 1 {
			t.Fatalf("expected exactly one proxied call, got %d", got)
		}
	})

	t.Run("remote failure is not retried", func(t *testing.T) {
		atomic.StoreInt32(&direct, 0)
		atomic.StoreInt32(&proxied, 0)
		r := runner.New(runner.Options{
			Catalog:     catalog.Default(),
			ProxyPrefix: srv.URL + "/relay/",
		})
		r.RunCustom(context.Background(), http.MethodGet, srv.URL+"/direct", "")

		record, _ := r.Store().Custom()
		if record.Success {
			t.Fatal("expected 404 failure record")
		}
		if record.Status.Code != http.StatusNotFound {
			t.Fatalf("expected 404 status, got %s", record.Status)
		}
		if got := atomic.LoadInt32(&proxied); got != 0 {
			t.Fatalf("non-2xx must not be retried, got %d proxied calls", got)
		}
	})
}

func TestRunnerFeedsCollector(t *testing.T) {
	backend := newBackend(t)
	cat := testCatalog(t, backend.URL)
	collector := metrics.NewCollector()
	r := runner.New(runner.Options{Catalog: cat, Collector: collector})

	if err := r.RunAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	stats := collector.Stats(collector.Elapsed())
	if stats.Total != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", stats.Total)
	}
	if stats.Successes != 2 || stats.Failures != 1 {
		t.Fatalf("expected 2/1 outcome split, got %d/%d", stats.Successes, stats.Failures)
	}
}

func TestNonJSONBodyIsWrappedAsString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "plain text payload")
	}))
	defer srv.Close()

	c, err := catalog.New([]catalog.Category{
		{Name: "Text", Definitions: []catalog.Definition{
			{Name: "Plain", Method: http.MethodGet, URL: srv.URL},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := runner.New(runner.Options{Catalog: c})
	if err := r.RunCategory(context.Background(), "Text"); err != nil {
		t.Fatal(err)
	}

	records, _ := r.Store().Category("Text")
	var decoded string
	if err := json.Unmarshal(records[0].Data, &decoded); err != nil {
		t.Fatalf("expected data to be a JSON string, got %s", records[0].Data)
	}
	if decoded != "plain text payload" {
		t.Fatalf("unexpected wrapped payload %q", decoded)
	}
}
