package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-affect/pkg/affect"
	"github.com/teslashibe/go-affect/pkg/appraisal"
	"github.com/teslashibe/go-affect/pkg/emotions"
	"github.com/teslashibe/go-affect/pkg/journal"
)

const towerBody = `{
	"context": "individual",
	"event": {
		"name": "tower finished",
		"importance": 0.8,
		"condition": true,
		"resource_available": true,
		"object": {"name": "cube", "familiarity": 0.5},
		"total_progress": 1,
		"contribution": 1
	}
}`

func newTestServer(t *testing.T, jr JournalReader) (*Server, *affect.Agent) {
	t.Helper()
	p := appraisal.Personality{Openness: true, Conscientiousness: true, Extraversion: true, Agreeableness: true}
	agent := affect.NewAgent("cozmo", p, emotions.FromCartesian(-0.3, -0.2),
		affect.WithDecay(5*time.Millisecond, 3))
	t.Cleanup(func() { agent.Close() })
	s := NewServer("0", agent, jr)
	t.Cleanup(func() { s.Shutdown() })
	return s, agent
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, 2000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestServer_Emotion(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, body := doRequest(t, s, http.MethodGet, "/api/emotion", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var snap affect.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Agent != "cozmo" || snap.State != "idle" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Label != string(emotions.Sad) {
		t.Errorf("label = %q, want sad", snap.Label)
	}
}

func TestServer_Labels(t *testing.T) {
	s, _ := newTestServer(t, nil)

	_, body := doRequest(t, s, http.MethodGet, "/api/labels", "")
	var labels []LabelInfo
	if err := json.Unmarshal(body, &labels); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(labels) != 14 {
		t.Fatalf("got %d labels, want 14", len(labels))
	}
	for _, l := range labels {
		got, err := l.Anchor.Classify()
		if err != nil || got != l.Label {
			t.Errorf("anchor of %s classifies as %s (%v)", l.Label, got, err)
		}
	}
}

func TestServer_LabelByName(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, body := doRequest(t, s, http.MethodGet, "/api/labels/Surprised", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var info LabelInfo
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Label != emotions.Surprised {
		t.Errorf("label = %q", info.Label)
	}
	if len(info.Quadrants) != 2 || info.Quadrants[0] != 1 || info.Quadrants[1] != 2 {
		t.Errorf("quadrants = %v, want [1 2]", info.Quadrants)
	}

	resp, _ = doRequest(t, s, http.MethodGet, "/api/labels/calm", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown label status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_ReactAndStop(t *testing.T) {
	s, agent := newTestServer(t, nil)

	resp, body := doRequest(t, s, http.MethodPost, "/api/react", towerBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var r affect.Reaction
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.EventID == "" || r.Steps != 3 {
		t.Errorf("reaction = %+v", r)
	}
	if r.TargetLabel == emotions.Sad || r.TargetLabel == emotions.Fear {
		t.Errorf("tower reaction target = %s", r.TargetLabel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := agent.Emotion().Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	resp, _ = doRequest(t, s, http.MethodPost, "/api/decay/stop", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("stop while idle status = %d, want 409", resp.StatusCode)
	}

	_, body = doRequest(t, s, http.MethodGet, "/api/reactions", "")
	var history []ReactionEntry
	if err := json.Unmarshal(body, &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 1 || history[0].Reaction.EventID != r.EventID {
		t.Errorf("history = %+v", history)
	}
}

func TestServer_StopActiveDecay(t *testing.T) {
	p := appraisal.Personality{Extraversion: true}
	agent := affect.NewAgent("cozmo", p, emotions.FromCartesian(-0.3, -0.2),
		affect.WithDecay(time.Hour, 5))
	defer agent.Close()
	s := NewServer("0", agent, nil)
	defer s.Shutdown()

	resp, body := doRequest(t, s, http.MethodPost, "/api/react", towerBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("react status = %d, body %s", resp.StatusCode, body)
	}

	resp, _ = doRequest(t, s, http.MethodPost, "/api/decay/stop", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("stop status = %d, want 204", resp.StatusCode)
	}
	if st := agent.Emotion().State(); st != emotions.StateIdle {
		t.Errorf("state after stop = %s", st)
	}
}

func TestServer_ReactInvalid(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"event":`},
		{"unknown context", `{"context":"crowd","event":{"name":"x"}}`},
		{"importance out of range", `{"context":"social","event":{"name":"x","importance":3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, s, http.MethodPost, "/api/react", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", resp.StatusCode, body)
			}
		})
	}
}

func TestServer_JournalDisabled(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, _ := doRequest(t, s, http.MethodGet, "/api/journal", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestServer_Journal(t *testing.T) {
	j, err := journal.Open(journal.MemoryPath)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer j.Close()

	p := appraisal.Personality{Agreeableness: true}
	agent := affect.NewAgent("cozmo", p, emotions.FromCartesian(0.1, 0.1),
		affect.WithDecay(5*time.Millisecond, 2), affect.WithRecorder(j))
	defer agent.Close()
	s := NewServer("0", agent, j)
	defer s.Shutdown()

	if resp, body := doRequest(t, s, http.MethodPost, "/api/react", towerBody); resp.StatusCode != http.StatusOK {
		t.Fatalf("react status = %d, body %s", resp.StatusCode, body)
	}

	resp, body := doRequest(t, s, http.MethodGet, "/api/journal?limit=5", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var rows []journal.Appraisal
	if err := json.Unmarshal(body, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].Agent != "cozmo" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestServer_WebSocketRequiresUpgrade(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, _ := doRequest(t, s, http.MethodGet, "/ws/emotion", "")
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}

func TestServer_EmotionStream(t *testing.T) {
	s, agent := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Listen(ctx, ln)

	conn := dialStream(t, ln.Addr().String())
	defer conn.Close()
	deadline := time.Now().Add(2 * time.Second)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first affect.Snapshot
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if first.State != "idle" {
		t.Errorf("initial state = %s", first.State)
	}

	// Wait for the hub to register the client before reacting.
	for s.StreamClients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ev := appraisal.Event{
		Name:       "cube dropped",
		Importance: 0.6,
		Object:     appraisal.NewEventObject("cube", false, 0.2, false, nil),
	}
	if _, err := agent.React(ctx, ev, appraisal.ContextIndividual); err != nil {
		t.Fatalf("react: %v", err)
	}

	// One snapshot for the reaction plus one per step.
	var last affect.Snapshot
	for i := 0; i < 4; i++ {
		if err := conn.ReadJSON(&last); err != nil {
			t.Fatalf("read snapshot %d: %v", i, err)
		}
	}
	if last.Step != 3 || last.Total != 3 {
		t.Errorf("last snapshot step %d/%d, want 3/3", last.Step, last.Total)
	}
}

func dialStream(t *testing.T, addr string) *websocket.Conn {
	t.Helper()
	url := "ws://" + addr + "/ws/emotion"
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_StreamWithoutListen(t *testing.T) {
	s, _ := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go s.App().Listener(ln)

	conn := dialStream(t, ln.Addr().String())
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap affect.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.StreamClients() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("stream clients = %d, want 1", s.StreamClients())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Shutdown closes the stream from the server side.
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestServer_StreamRefusedAfterShutdown(t *testing.T) {
	s, _ := newTestServer(t, nil)
	// Stop only the hub so app.Test can still serve the request.
	s.cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.stream.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("stream hub still running after Shutdown")
		}
		time.Sleep(5 * time.Millisecond)
	}

	req := httptest.NewRequest(http.MethodGet, "/ws/emotion", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	resp, err := s.App().Test(req, 2000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}
