//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/datagen/internal/export"
	"github.com/GoSim-25-26J-441/datagen/internal/gend"
	"github.com/GoSim-25-26J-441/datagen/internal/generator"
)

const testConfigYAML = `
seed: 11
window:
  start: "2024-03-01T00:00:00"
  end: "2024-03-02T00:00:00"
entity_counts: [30]
avg_interactions: [4]
label: it
`

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// TestIntegration_HTTPEndpoints_GenerateAndDownload drives a run over a real
// HTTP listener and downloads the resulting CSV.
func TestIntegration_HTTPEndpoints_GenerateAndDownload(t *testing.T) {
	store := gend.NewRunStore()
	executor := gend.NewRunExecutor(store)
	ts := httptest.NewServer(gend.NewHTTPServer(store, executor).Handler())
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/runs", map[string]any{
		"run_id":      "it-1",
		"config_yaml": testConfigYAML,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := executor.Wait(ctx, "it-1"); err != nil {
		t.Fatalf("run did not finish: %v", err)
	}

	resp, err := http.Get(ts.URL + "/v1/runs/it-1")
	if err != nil {
		t.Fatalf("GET run: %v", err)
	}
	var body struct {
		Run map[string]any `json:"run"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if body.Run["status"] != "completed" {
		t.Fatalf("expected completed, got %v (%v)", body.Run["status"], body.Run["error"])
	}

	resp, err = http.Get(ts.URL + "/v1/runs/it-1/datasets/it_data_30_4.csv")
	if err != nil {
		t.Fatalf("GET dataset: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	records, err := export.ReadCSV(resp.Body)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) == 0 || len(records) > 120 {
		t.Fatalf("unexpected record count %d", len(records))
	}
	if err := generator.Validate(records); err != nil {
		t.Fatalf("downloaded dataset: %v", err)
	}
}
