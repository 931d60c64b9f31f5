package streaming

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerforge/datasynth/internal/docflow"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/orchestrator"
)

func testOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Seed: 7,
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

func TestBulkGenerateRejectsOutOfRangeEntryCount(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	_, err := svc.BulkGenerate(context.Background(), BulkRequest{EntryCount: 1_000_001})
	if err == nil {
		t.Fatalf("expected an error for entry_count above 1,000,000")
	}
}

func TestBulkGenerateProducesBalancedDocuments(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	resp, err := svc.BulkGenerate(context.Background(), BulkRequest{EntryCount: 20, IncludeMasterData: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Documents) != 20 {
		t.Fatalf("expected 20 documents, got %d", len(resp.Documents))
	}
	if len(resp.Pools) == 0 {
		t.Fatalf("expected master data pools when IncludeMasterData is set")
	}
	for _, doc := range resp.Documents {
		if !doc.Balances() {
			t.Fatalf("expected every document to balance")
		}
	}
}

func TestStartStreamRejectsInvalidEventsPerSecond(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	if _, _, err := svc.StartStream(StreamRequest{EventsPerSecond: 0, MaxEvents: 10}); err == nil {
		t.Fatalf("expected an error for events_per_second=0")
	}
	if _, _, err := svc.StartStream(StreamRequest{EventsPerSecond: 10_001, MaxEvents: 10}); err == nil {
		t.Fatalf("expected an error for events_per_second=10001")
	}
}

func TestStreamDeliversExactlyMaxEvents(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	id, events, err := svc.StartStream(StreamRequest{EventsPerSecond: 1000, MaxEvents: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a non-empty session id")
	}

	count := 0
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				if count != 5 {
					t.Fatalf("expected exactly 5 events, got %d", count)
				}
				return
			}
			count++
		case <-timeout:
			t.Fatalf("stream did not complete in time, received %d events", count)
		}
	}
}

func TestControlPauseResumeStopIdempotent(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	id, events, err := svc.StartStream(StreamRequest{EventsPerSecond: 500, MaxEvents: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.Control(id, ControlCommand{Action: ActionPause})
	if err != nil || !resp.Paused {
		t.Fatalf("expected Paused=true, got %+v err=%v", resp, err)
	}
	resp, err = svc.Control(id, ControlCommand{Action: ActionPause})
	if err != nil || !resp.Paused {
		t.Fatalf("expected idempotent Pause, got %+v err=%v", resp, err)
	}

	resp, err = svc.Control(id, ControlCommand{Action: ActionResume})
	if err != nil || resp.Paused {
		t.Fatalf("expected Paused=false after Resume, got %+v err=%v", resp, err)
	}

	resp, err = svc.Control(id, ControlCommand{Action: ActionStop})
	if err != nil || !resp.Stopped {
		t.Fatalf("expected Stopped=true, got %+v err=%v", resp, err)
	}

	// Drain until the channel closes; Stop must terminate within a
	// bounded number of poll intervals.
	timeout := time.After(2 * time.Second)
drain:
	for {
		select {
		case _, ok := <-events:
			if !ok {
				break drain
			}
		case <-timeout:
			t.Fatalf("stream did not stop in time")
		}
	}

	resp, err = svc.Control(id, ControlCommand{Action: ActionResume})
	if err != nil {
		t.Fatalf("unexpected error resuming a stopped stream: %v", err)
	}
	if !resp.Stopped {
		t.Fatalf("expected Stop to remain terminal after a further Resume")
	}
}

func TestControlUnknownSessionIsInvalidArgument(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	_, err := svc.Control("does-not-exist", ControlCommand{Action: ActionPause})
	if err == nil {
		t.Fatalf("expected an error for an unknown session id")
	}
}

func TestTriggerPatternRejectsUnknownName(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	id, _, err := svc.StartStream(StreamRequest{EventsPerSecond: 100, MaxEvents: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.Control(id, ControlCommand{Action: ActionTriggerPattern, Pattern: "not_a_real_pattern"})
	if err == nil {
		t.Fatalf("expected an error for an unrecognized pattern name")
	}
	_, err = svc.Control(id, ControlCommand{Action: ActionTriggerPattern, Pattern: "custom:my_scenario"})
	if err != nil {
		t.Fatalf("expected custom: prefixed patterns to be accepted, got %v", err)
	}
}

func TestGetSetConfigRoundTrip(t *testing.T) {
	svc := NewService(testOrchestratorConfig(), nil)
	cfg := svc.GetConfig()
	svc.SetConfig(cfg)
	if svc.GetConfig().Seed != cfg.Seed {
		t.Fatalf("SetConfig(GetConfig()) changed the config")
	}
}
