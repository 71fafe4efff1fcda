package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/legalize"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ranks := []workload.Rank{{Name: "W", Dims: []string{"W"}, Coefficients: []int{1}}}
	dataspaces := []workload.Dataspace{{Name: "DS", Ranks: []string{"W"}, Keep: []bool{true}}}
	ctx, err := workload.NewContext(ranks, dataspaces, map[string]int{"W": 32})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	nest := mapping.LoopNest{
		Loops:                   []mapping.Loop{{Dim: "W", End: 32, Spacetime: mapping.SpatialX}},
		StorageTilingBoundaries: []int{1},
	}
	arch := archspec.List{{Name: "Buf", LineCapacitySpec: 8}}

	lg := legalize.New(ctx, arch, nest)
	if err := lg.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return New(lg, ctx, arch)
}

func TestServerHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServerSizes(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sizes", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body sizesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if body.SplittingCandidates == 0 {
		t.Error("SplittingCandidates = 0, want non-zero for an overflowing slot")
	}
}

func TestServerCatalog(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var entries []catalogEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Dataspace != "DS" {
		t.Errorf("Dataspace = %q, want %q", entries[0].Dataspace, "DS")
	}
}

func TestServerConstruct(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/construct?splitting_id=0&packing_id=0", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServerConstructBadID(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/construct?splitting_id=not-a-number&packing_id=0", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServerConstructOutOfRange(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/construct?splitting_id=999999999&packing_id=0", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServerSequential(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sequential", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
