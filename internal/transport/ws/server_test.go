package ws

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-sokoban/internal/game"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/registry"
)

type testEnv struct {
	server   *httptest.Server
	records  *progress.Records
	profiles *progress.Profiles
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	reg, err := registry.New(fstest.MapFS{
		"levels/one.txt": {Data: []byte("#####\n#@$.#\n#####\n")},
		"levels/two.txt": {Data: []byte("######\n#@ $.#\n######\n")},
	}, "levels")
	if err != nil {
		t.Fatalf("registry.New failed: %v", err)
	}

	dir := t.TempDir()
	records := progress.OpenRecords(filepath.Join(dir, "records.yaml"))
	profiles := progress.NewProfiles(filepath.Join(dir, "profiles"), progress.PolicyBest)
	logger := log.New(io.Discard)
	recorder := game.NewRecorder(records, nil, logger)

	srv := httptest.NewServer(NewServer(reg, records, profiles, recorder, logger).Handler())
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, records: records, profiles: profiles}
}

func (e *testEnv) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/play" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req any) Response {
	t.Helper()
	if req != nil {
		if err := conn.WriteJSON(req); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}
	}
	return readResponse(t, conn)
}

func readResponse(t *testing.T, conn *websocket.Conn) Response {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return resp
}

func TestPlaySolvesLevel(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "?level=one&player=Ada")

	initial := readResponse(t, conn)
	if initial.Type != TypeState || initial.State == nil {
		t.Fatalf("initial message = %+v, expected state", initial)
	}
	if initial.LevelID != "one" || initial.Steps != 0 || initial.Completed {
		t.Errorf("initial state = %+v", initial.State)
	}
	if got := strings.Join(initial.Rows, "|"); got != "#####|#@$.#|#####" {
		t.Errorf("initial rows = %q", got)
	}

	resp := roundTrip(t, conn, Request{Type: TypeMove, Direction: "right"})
	if resp.Type != TypeState || resp.State == nil {
		t.Fatalf("move reply = %+v, expected state", resp)
	}
	if resp.Result != "Pushed" || resp.Steps != 1 || !resp.Completed {
		t.Errorf("move reply = %+v / %+v", resp, resp.State)
	}
	if resp.Outcome == nil || !resp.Outcome.NewRecord || !resp.Outcome.PersonalBest || !resp.Outcome.Saved {
		t.Fatalf("outcome = %+v, expected a saved new record", resp.Outcome)
	}

	rec, ok := env.records.Best("one")
	if !ok || rec.PlayerName != "Ada" || rec.Steps != 1 {
		t.Errorf("record = %+v, %v", rec, ok)
	}
	if st, ok := env.profiles.For("Ada").Stats("one"); !ok || st.Steps != 1 {
		t.Errorf("profile stats = %+v, %v", st, ok)
	}

	// Moves after completion are refused without another outcome.
	resp = roundTrip(t, conn, Request{Type: TypeMove, Direction: "left"})
	if resp.Result != "Blocked" || resp.Steps != 1 || resp.Outcome != nil {
		t.Errorf("move after completion = %+v / %+v", resp, resp.State)
	}
}

func TestPlayRequests(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "")

	if initial := readResponse(t, conn); initial.State == nil || initial.LevelID != "one" {
		t.Fatalf("default level = %+v, expected one", initial)
	}

	tests := []struct {
		name    string
		req     any
		errPart string // empty when a state reply is expected
		level   string
		steps   int
	}{
		{"unknown direction", Request{Type: TypeMove, Direction: "sideways"}, "unknown direction", "", 0},
		{"unknown type", Request{Type: "undo"}, "unknown request type", "", 0},
		{"malformed json", json.RawMessage(`"move"`), "invalid request", "", 0},
		{"unknown level", Request{Type: TypeLoad, Level: "missing"}, "unknown level", "", 0},
		{"load", Request{Type: TypeLoad, Level: "two"}, "", "two", 0},
		{"walk", Request{Type: TypeMove, Direction: "r"}, "", "two", 1},
		{"state", Request{Type: TypeState}, "", "two", 1},
		{"restart", Request{Type: TypeRestart}, "", "two", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tc.req)
			if tc.errPart != "" {
				if resp.Type != TypeError || !strings.Contains(resp.Error, tc.errPart) {
					t.Errorf("reply = %+v, expected error containing %q", resp, tc.errPart)
				}
				return
			}
			if resp.Type != TypeState || resp.State == nil {
				t.Fatalf("reply = %+v, expected state", resp)
			}
			if resp.LevelID != tc.level || resp.Steps != tc.steps {
				t.Errorf("state = %+v, expected level %s with %d steps", resp.State, tc.level, tc.steps)
			}
		})
	}
}

func TestPlayUnknownLevel(t *testing.T) {
	env := newTestEnv(t)
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/play?level=missing"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, expected 404", resp)
	}
}

func TestLevels(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.records.TryUpdate("two", "Bob", 3, time.Second); err != nil {
		t.Fatalf("TryUpdate failed: %v", err)
	}

	resp, err := http.Get(env.server.URL + "/levels")
	if err != nil {
		t.Fatalf("GET /levels failed: %v", err)
	}
	defer resp.Body.Close()

	var levels []LevelSummary
	if err := json.NewDecoder(resp.Body).Decode(&levels); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(levels) != 2 || levels[0].ID != "one" || levels[1].ID != "two" {
		t.Fatalf("levels = %+v", levels)
	}
	if levels[0].Record != nil {
		t.Errorf("level one record = %+v, expected none", levels[0].Record)
	}
	if r := levels[1].Record; r == nil || r.Player != "Bob" || r.Steps != 3 || r.ElapsedMS != 1000 {
		t.Errorf("level two record = %+v", r)
	}
}
