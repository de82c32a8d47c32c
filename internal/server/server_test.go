package server

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

func startServer(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	srv := New(opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + DefaultPath
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) (int, int, []byte) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if mt != websocket.BinaryMessage {
		t.Fatalf("message type = %d (%s), want binary", mt, data)
	}
	w, h, raw, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	return w, h, raw
}

func readText(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if mt != websocket.TextMessage {
		t.Fatalf("message type = %d, want text", mt)
	}
	return data
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

func allWhite(raw []byte) bool {
	for _, b := range raw {
		if b != 255 {
			return false
		}
	}
	return true
}

func TestServerScenario(t *testing.T) {
	_, url := startServer(t, WithSize(2, 2))
	conn := dial(t, url)

	w, h, raw := readFrame(t, conn)
	if w != 2 || h != 2 || !allWhite(raw) {
		t.Fatalf("initial frame = %dx%d %v", w, h, raw)
	}

	send(t, conn, `{"op":"paint","x":0,"y":0,"color":[255,0,0]}`)
	_, _, raw = readFrame(t, conn)
	want := []byte{255, 0, 0, 255, 255, 255, 255, 255, 255, 255, 255, 255}
	if string(raw) != string(want) {
		t.Errorf("after paint = %v, want %v", raw, want)
	}

	send(t, conn, `{"op":"undo"}`)
	if _, _, raw = readFrame(t, conn); !allWhite(raw) {
		t.Errorf("after undo = %v, want all white", raw)
	}

	send(t, conn, `{"op":"redo"}`)
	if _, _, raw = readFrame(t, conn); string(raw) != string(want) {
		t.Errorf("after redo = %v, want %v", raw, want)
	}

	send(t, conn, `{"op":"clear","width":3,"height":1}`)
	if w, h, _ := readFrame(t, conn); w != 3 || h != 1 {
		t.Errorf("after clear = %dx%d, want 3x1", w, h)
	}

	send(t, conn, `{"op":"history"}`)
	reply := readText(t, conn)
	if got := gjson.GetBytes(reply, "length").Int(); got != 3 {
		t.Errorf("history length = %d, want 3 (%s)", got, reply)
	}
}

func TestServerErrors(t *testing.T) {
	_, url := startServer(t, WithSize(2, 2), WithMaxCells(16))
	conn := dial(t, url)
	readFrame(t, conn)

	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"out of bounds", `{"op":"paint","x":2,"y":0,"color":[0,0,0]}`, "out of bounds"},
		{"unknown op", `{"op":"fill"}`, "unknown op"},
		{"garbage", `not json`, "malformed"},
		{"fractional x", `{"op":"paint","x":1.9,"y":0,"color":[0,0,0]}`, "malformed"},
		{"clear over limit", `{"op":"clear","width":5,"height":4}`, "exceeds 16 cells"},
		{"clear wrapping size", `{"op":"clear","width":4294967296,"height":4294967296}`, "exceeds 16 cells"},
		{"clear zero size", `{"op":"clear","width":0,"height":0}`, "invalid canvas dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.msg)
			reply := readText(t, conn)
			if got := gjson.GetBytes(reply, "error").String(); !strings.Contains(got, tt.want) {
				t.Errorf("error = %q, want it to contain %q", got, tt.want)
			}
		})
	}

	// Binary frames are not commands
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	if reply := readText(t, conn); !gjson.GetBytes(reply, "error").Exists() {
		t.Errorf("binary frame reply = %s", reply)
	}

	// Connection still serves after errors and the history is untouched
	send(t, conn, `{"op":"get"}`)
	if w, h, raw := readFrame(t, conn); w != 2 || h != 2 || !allWhite(raw) {
		t.Errorf("errors modified the canvas: %dx%d", w, h)
	}

	send(t, conn, `{"op":"clear","width":4,"height":4}`)
	if w, h, _ := readFrame(t, conn); w != 4 || h != 4 {
		t.Errorf("clear at limit = %dx%d, want 4x4", w, h)
	}
}

func TestServerRejectsOversizeDefault(t *testing.T) {
	_, url := startServer(t, WithSize(8, 8), WithMaxCells(16))
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("response = %v, want 500", resp)
	}
}

func TestServeReturnsOnListenerClose(t *testing.T) {
	srv := New()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	time.Sleep(50 * time.Millisecond)
	_ = ln.Close()
	select {
	case err := <-done:
		if err == nil || errors.Is(err, ErrServerClosed) {
			t.Errorf("Serve() = %v, want the listener error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after the listener closed")
	}

	// The context watcher exited with Serve and did not shut the server down.
	cancel()
	srv.mu.Lock()
	closed := srv.closed
	srv.mu.Unlock()
	if closed {
		t.Error("cancel after Serve returned should not shut the server down")
	}
}

func TestServerSessionsAreIndependent(t *testing.T) {
	srv, url := startServer(t, WithSize(1, 1))
	a := dial(t, url)
	b := dial(t, url)
	readFrame(t, a)
	readFrame(t, b)

	send(t, a, `{"op":"paint","x":0,"y":0,"color":[0,0,0]}`)
	if _, _, raw := readFrame(t, a); allWhite(raw) {
		t.Error("paint on a had no effect")
	}

	send(t, b, `{"op":"get"}`)
	if _, _, raw := readFrame(t, b); !allWhite(raw) {
		t.Error("paint on a leaked into b")
	}

	send(t, a, `{"op":"history"}`)
	send(t, b, `{"op":"history"}`)
	ida := gjson.GetBytes(readText(t, a), "session").String()
	idb := gjson.GetBytes(readText(t, b), "session").String()
	if ida == "" || ida == idb {
		t.Errorf("session ids %q and %q should be distinct", ida, idb)
	}

	if n := srv.Sessions(); n != 2 {
		t.Errorf("Sessions() = %d, want 2", n)
	}
}

func TestServerMaxFrame(t *testing.T) {
	_, url := startServer(t, WithMaxFrame(32))
	conn := dial(t, url)
	readFrame(t, conn)

	send(t, conn, `{"op":"paint","x":0,"y":0,"color":[0,0,0],"pad":"`+strings.Repeat("x", 64)+`"}`)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to close on an oversized frame")
	}
}

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := New(WithSize(1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()

	conn := dial(t, "ws://"+ln.Addr().String()+DefaultPath)
	readFrame(t, conn)

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, ErrServerClosed) {
			t.Errorf("Serve() = %v, want ErrServerClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	// Open sessions are closed too
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected session to be closed after shutdown")
	}

	if err := srv.Serve(context.Background(), ln); !errors.Is(err, ErrServerClosed) {
		t.Errorf("Serve after shutdown = %v, want ErrServerClosed", err)
	}
}

func TestNewService(t *testing.T) {
	svc, err := NewService("studio", 8080, []net.IP{net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if svc.Service != ServiceType || svc.Port != 8080 || svc.Instance != "studio" {
		t.Errorf("service = %+v", svc)
	}

	var a *Advertiser
	if err := a.Close(); err != nil {
		t.Errorf("nil Advertiser Close() = %v", err)
	}
}

func TestWithMaxCells(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"set", 64, 64},
		{"zero keeps default", 0, DefaultMaxCells},
		{"negative keeps default", -5, DefaultMaxCells},
		{"clamped to frame header", math.MaxInt, math.MaxUint32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(WithMaxCells(tt.n)).maxCells; got != tt.want {
				t.Errorf("maxCells = %d, want %d", got, tt.want)
			}
		})
	}
}
