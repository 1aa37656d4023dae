// cmd/periksa/server_test.go
package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := testConfig()
	srv := NewServer(cfg, newTestPipeline(t, nil))
	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHandleAnalyze(t *testing.T) {
	_, ts := newTestServer(t)

	body := bytes.NewBufferString(`{"rawText": "Pemerintah mengumumkan jadwal baru layanan publik."}`)
	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if !result.Success {
		t.Errorf("expected a successful analysis, got %q", result.Error)
	}
	if result.Score == nil || result.Score.Classification != ClassValid {
		t.Errorf("unexpected score: %+v", result.Score)
	}
}

func TestHandleAnalyzeRejectsEmpty(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty input should get 400, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/v1/analyze", "application/json", bytes.NewBufferString(`tidak valid`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body should get 400, got %d", resp.StatusCode)
	}
}

func TestHandleAnalyzeFailedAnalysis(t *testing.T) {
	_, ts := newTestServer(t)

	// Whitespace passes the request check but fails the scorer
	resp, err := http.Post(ts.URL+"/api/v1/analyze", "application/json", bytes.NewBufferString(`{"rawText": "   "}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("failed analysis should get 422, got %d", resp.StatusCode)
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if result.Success || result.Error == "" {
		t.Errorf("expected a failure record, got %+v", result)
	}
}

func TestHandleBatchRejectsEmpty(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/batch", "application/json", bytes.NewBufferString(`{"urls": []}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty batch should get 400, got %d", resp.StatusCode)
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("unexpected health payload: %v", health)
	}
}

func TestProgressStream(t *testing.T) {
	srv, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("cannot open websocket: %v", err)
	}
	defer conn.Close()

	// The hub registers the connection inside the upgrade handler; give
	// it a moment before broadcasting.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		srv.hub.mutex.Lock()
		n := len(srv.hub.conns)
		srv.hub.mutex.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	sent := ProgressEvent{Index: 1, Total: 3, URL: "https://example.com/a", Classification: ClassHoax, Scraped: true}
	srv.hub.broadcast(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got ProgressEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("cannot read progress event: %v", err)
	}
	if got != sent {
		t.Errorf("event mangled in transit: got %+v, want %+v", got, sent)
	}
}

func hubSubscribers(srv *Server) int {
	srv.hub.mutex.Lock()
	defer srv.hub.mutex.Unlock()
	return len(srv.hub.conns)
}

func TestProgressStreamDropsClosedPeers(t *testing.T) {
	srv, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("cannot open websocket: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && hubSubscribers(srv) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if hubSubscribers(srv) != 1 {
		t.Fatal("connection never registered with the hub")
	}

	// Closing the peer must evict it without waiting for a broadcast
	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hubSubscribers(srv) != 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if n := hubSubscribers(srv); n != 0 {
		t.Fatalf("closed peer still registered, %d subscribers left", n)
	}
}
