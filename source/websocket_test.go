package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/evergreen"
)

func palmFrame(t *testing.T, ts time.Duration) []byte {
	t.Helper()
	h := evergreen.Pose{Fingers: evergreen.FingersPalm, CenterX: 0.4, CenterY: 0.5, Pinch: 0.1}.Hand()
	data, err := Encode(evergreen.DetectionResult{Timestamp: ts, Hands: []evergreen.Hand{h}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func TestDecodeRoundTrip(t *testing.T) {
	res, err := Decode(palmFrame(t, 40*time.Millisecond))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Timestamp != 40*time.Millisecond {
		t.Errorf("Timestamp = %v, want 40ms", res.Timestamp)
	}
	if len(res.Hands) != 1 {
		t.Fatalf("hands = %d, want 1", len(res.Hands))
	}
	if got := evergreen.FingersUp(&res.Hands[0]); got != evergreen.FingersPalm {
		t.Errorf("fingers = %+v, want palm", got)
	}
}

func TestDecodeDropsShortHand(t *testing.T) {
	res, err := Decode([]byte(`{"timestampMs":5,"landmarks":[[{"x":0.1,"y":0.2,"z":0}]]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(res.Hands) != 0 {
		t.Errorf("hands = %d, want 0", len(res.Hands))
	}
	if res.FirstHand() != nil {
		t.Error("FirstHand should be nil")
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("{")); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestServerReceivesFrames(t *testing.T) {
	s := NewServer(nil)
	srv := httptest.NewServer(s)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, palmFrame(t, time.Second)); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if res.Timestamp != time.Second || len(res.Hands) != 1 {
		t.Errorf("result = %v with %d hands, want 1s with 1 hand", res.Timestamp, len(res.Hands))
	}
	if got := s.Clients(); got != 1 {
		t.Errorf("Clients = %d, want 1", got)
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for s.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Clients = %d after disconnect, want 0", s.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDialReadsStream(t *testing.T) {
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 1; i <= 3; i++ {
			_ = conn.WriteMessage(websocket.TextMessage, palmFrame(t, time.Duration(i)*time.Millisecond))
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, wsURL(srv), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	var got []time.Duration
	for {
		res, err := c.Next(ctx)
		if err != nil {
			if !evergreen.IsSourceDone(err) {
				t.Fatalf("Next: %v", err)
			}
			break
		}
		got = append(got, res.Timestamp)
	}
	if len(got) == 0 || got[len(got)-1] != 3*time.Millisecond {
		t.Errorf("timestamps = %v, want to end with 3ms", got)
	}
}
