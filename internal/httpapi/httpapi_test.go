package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ledgerforge/datasynth/internal/docflow"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/orchestrator"
	"github.com/ledgerforge/datasynth/internal/streaming"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() orchestrator.Config {
	return orchestrator.Config{
		Seed: 11,
		MasterData: masterdata.Config{
			CompanyCode:       "1000",
			VendorCount:       5,
			CustomerCount:     5,
			MaterialCount:     5,
			EmployeeCount:     10,
			VendorTypeWeights: [4]float64{0.4, 0.3, 0.2, 0.1},
		},
		Journal: journal.Config{
			Companies: []journal.CompanyWeight{{Code: "1000", Weight: 1}},
			Approval: journal.ApprovalConfig{
				Enabled:              true,
				AutoApproveThreshold: money.FromInt(1000),
				Thresholds:           []money.Money{money.FromInt(5000)},
			},
		},
		DocFlow: docflow.Config{
			GoodsReceiptProbability: 0.9,
			InvoiceProbability:      0.8,
			PaymentProbability:      0.7,
		},
		DocFlowChainCount:    5,
		JournalDocumentCount: 20,
	}
}

func newTestServer() *Server {
	svc := streaming.NewService(testConfig(), nil)
	return NewServer(svc, nil)
}

func TestHandleBulkGenerate(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(bulkGenerateRequest{EntryCount: 10})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp streaming.BulkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if len(resp.Documents) != 10 {
		t.Fatalf("expected 10 documents, got %d", len(resp.Documents))
	}
}

func TestHandleBulkGenerateRejectsOutOfRange(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(bulkGenerateRequest{EntryCount: 2_000_000})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleControlUnknownSession(t *testing.T) {
	s := newTestServer()
	body, _ := json.Marshal(controlRequest{Action: "pause"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stream/does-not-exist/control", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown session, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleGetSetConfigRoundTrip(t *testing.T) {
	s := newTestServer()

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	getRec := httptest.NewRecorder()
	s.Engine().ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from GET /config, got %d", getRec.Code)
	}

	putReq := httptest.NewRequest(http.MethodPut, "/api/v1/config", bytes.NewReader(getRec.Body.Bytes()))
	putReq.Header.Set("Content-Type", "application/json")
	putRec := httptest.NewRecorder()
	s.Engine().ServeHTTP(putRec, putReq)
	if putRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from PUT /config, got %d: %s", putRec.Code, putRec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
