package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/config"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications?token=test"
}

func testConnConfig() config.ConnectionConfig {
	return config.ConnectionConfig{
		ReconnectInitialDelay: 10 * time.Millisecond,
		ReconnectMaxDelay:     50 * time.Millisecond,
		MaxReconnectAttempts:  10,
		HandshakeTimeout:      5 * time.Second,
		WriteTimeout:          5 * time.Second,
		FrameBufferSize:       64,
	}
}

func TestClient_ConnectAndClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(wsURL(server), testConnConfig(), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := client.Close(CloseNormal); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Close is the intentional path: no close event may be delivered.
	select {
	case ev := <-client.Closed():
		t.Errorf("unexpected close event after intentional close: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_ConnectAfterClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {})
	defer server.Close()

	client := NewClient(wsURL(server), testConnConfig(), nil)
	client.Close(CloseNormal)

	if err := client.Connect(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("Connect after Close = %v, want ErrAlreadyClosed", err)
	}
}

func TestClient_Send(t *testing.T) {
	var mu sync.Mutex
	var received []byte

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			mu.Lock()
			received = msg
			mu.Unlock()
		}
	})
	defer server.Close()

	client := NewClient(wsURL(server), testConnConfig(), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close(CloseNormal)

	if err := client.Send([]byte(`{"type":"pong"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	got := string(received)
	mu.Unlock()
	if got != `{"type":"pong"}` {
		t.Errorf("server received %q", got)
	}
}

func TestClient_SendNotConnected(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws/notifications", testConnConfig(), nil)
	if err := client.Send([]byte("x")); err != ErrNotConnected {
		t.Errorf("Send = %v, want ErrNotConnected", err)
	}
}

func TestClient_FramesDeliveredInOrder(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for i := 0; i < 3; i++ {
			if err := conn.WriteMessage(websocket.TextMessage, []byte{byte('a' + i)}); err != nil {
				return
			}
		}
		// Hold the connection open
		conn.ReadMessage()
	})
	defer server.Close()

	client := NewClient(wsURL(server), testConnConfig(), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close(CloseNormal)

	for _, want := range []string{"a", "b", "c"} {
		select {
		case got := <-client.Frames():
			if string(got) != want {
				t.Errorf("frame = %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	}
}

func TestClient_CloseEventCarriesCode(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(CloseAuthRejected, "token expired"),
			time.Now().Add(time.Second),
		)
	})
	defer server.Close()

	client := NewClient(wsURL(server), testConnConfig(), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	select {
	case ev := <-client.Closed():
		if ev.Code != CloseAuthRejected {
			t.Errorf("close code = %d, want %d", ev.Code, CloseAuthRejected)
		}
		if ev.Reason != "token expired" {
			t.Errorf("close reason = %q", ev.Reason)
		}
	case <-time.After(time.Second):
		t.Fatal("no close event delivered")
	}
}

func TestClient_NetworkFailureIsAbnormalClosure(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		// Drop the TCP connection without a close frame.
		conn.UnderlyingConn().Close()
	})
	defer server.Close()

	client := NewClient(wsURL(server), testConnConfig(), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	select {
	case ev := <-client.Closed():
		if ev.Code != websocket.CloseAbnormalClosure {
			t.Errorf("close code = %d, want %d", ev.Code, websocket.CloseAbnormalClosure)
		}
	case <-time.After(time.Second):
		t.Fatal("no close event delivered")
	}
}
