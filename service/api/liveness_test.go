package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pioloLlanos/live/service/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

// failKey makes fakeDB fail the acquisition for a single request.
type failKey struct{}

// fakeDB counts handles going in and out of the pool.
type fakeDB struct {
	fail     bool
	acquired atomic.Int64
	released atomic.Int64
}

func (f *fakeDB) Acquire(ctx context.Context) (database.Conn, error) {
	if f.fail || ctx.Value(failKey{}) != nil {
		return nil, fmt.Errorf("%w: connection refused", database.ErrAcquire)
	}
	f.acquired.Add(1)
	return fakeConn{f}, nil
}

func (f *fakeDB) Close() error { return nil }

func (f *fakeDB) outstanding() int64 {
	return f.acquired.Load() - f.released.Load()
}

type fakeConn struct{ db *fakeDB }

func (c fakeConn) Release() { c.db.released.Add(1) }

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestHandler(t *testing.T, db database.AppDatabase, reg prometheus.Registerer) (http.Handler, *_router) {
	t.Helper()
	router, err := New(Config{Logger: testLogger(), Database: db, Registerer: reg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = router.Close() })
	return router.Handler(), router.(*_router)
}

func get(ctx context.Context, h http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/live", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Config{Database: &fakeDB{}}); err == nil {
		t.Error("expected an error without a logger")
	}
	if _, err := New(Config{Logger: testLogger()}); err == nil {
		t.Error("expected an error without a database")
	}
}

func TestLiveness(t *testing.T) {
	tests := []struct {
		name string
		fail bool
		want string
	}{
		{name: "database up", fail: false, want: "Well done"},
		{name: "database down", fail: true, want: "Maintenance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{fail: tt.fail}
			h, _ := newTestHandler(t, db, nil)

			rec := get(context.Background(), h)
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			if n := db.outstanding(); n != 0 {
				t.Errorf("%d connections not released", n)
			}
		})
	}
}

func TestLivenessReleasesEveryHandle(t *testing.T) {
	db := &fakeDB{}
	h, _ := newTestHandler(t, db, nil)

	for i := 0; i < 50; i++ {
		get(context.Background(), h)
	}
	if got := db.acquired.Load(); got != 50 {
		t.Errorf("acquired %d connections, want 50", got)
	}
	if n := db.outstanding(); n != 0 {
		t.Errorf("%d connections leaked", n)
	}
}

func TestLivenessConcurrent(t *testing.T) {
	db := &fakeDB{}
	h, _ := newTestHandler(t, db, nil)

	const n = 100
	bodies := make([]string, n)
	codes := make([]int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := context.Background()
			if i%2 == 1 {
				ctx = context.WithValue(ctx, failKey{}, true)
			}
			rec := get(ctx, h)
			codes[i] = rec.Code
			bodies[i] = rec.Body.String()
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		want := "Well done"
		if i%2 == 1 {
			want = "Maintenance"
		}
		if codes[i] != http.StatusOK || bodies[i] != want {
			t.Errorf("request %d: got %d %q, want 200 %q", i, codes[i], bodies[i], want)
		}
	}
	if got := db.acquired.Load(); got != n/2 {
		t.Errorf("acquired %d connections, want %d", got, n/2)
	}
	if left := db.outstanding(); left != 0 {
		t.Errorf("%d connections leaked", left)
	}
}

func TestLivenessOtherMethods(t *testing.T) {
	h, _ := newTestHandler(t, &fakeDB{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/live", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /live: status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}

	req = httptest.NewRequest(http.MethodGet, "/liveness", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /liveness: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestLivenessMetrics(t *testing.T) {
	db := &fakeDB{}
	reg := prometheus.NewRegistry()
	h, rt := newTestHandler(t, db, reg)

	get(context.Background(), h)
	get(context.Background(), h)
	get(context.WithValue(context.Background(), failKey{}, true), h)

	if got := testutil.ToFloat64(rt.probes.WithLabelValues(outcomeUp)); got != 2 {
		t.Errorf("up probes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rt.probes.WithLabelValues(outcomeMaintenance)); got != 1 {
		t.Errorf("maintenance probes = %v, want 1", got)
	}
	if got, err := testutil.GatherAndCount(reg, "liveness_probes_total"); err != nil || got != 2 {
		t.Errorf("exported %d series (err %v), want 2", got, err)
	}

	// A second router can't register the same metrics twice
	_, err := New(Config{Logger: testLogger(), Database: db, Registerer: reg})
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		t.Errorf("expected AlreadyRegisteredError, got %v", err)
	}
}
