package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/query"
	"github.com/liinahamari/Loggy/pkg/id"
)

var gen = id.NewGenerator()

func mk(t *testing.T, thread string) entry.Entry {
	t.Helper()
	e, err := entry.New(gen.Next(), entry.Info, thread, "live", 0)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	return e
}

func httpHandler(h *Hub) http.Handler { return http.HandlerFunc(h.HandleWebSocket) }

func TestParseFilters(t *testing.T) {
	if f := ParseFilters("", "0", "no"); f != 0 {
		t.Fatalf("want no filters, got %v", f)
	}
	f := ParseFilters("1", "true", "")
	if !f.Has(query.OnlyErrors) || !f.Has(query.NotLifecycle) || f.Has(query.NonMainThread) {
		t.Fatalf("unexpected filters: %v", f)
	}
}

func dialHub(t *testing.T, h *Hub, query string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(httpHandler(h))
	t.Cleanup(ts.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/?"+query, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil || ev.Type != "ready" {
		t.Fatalf("ready: %v %+v", err, ev)
	}
	return conn
}

func TestClientFilterCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	conn := dialHub(t, h, "")
	if err := conn.WriteJSON(map[string]any{"type": "filter", "non_main": true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// The command is applied asynchronously; publish pairs until the
	// main-thread half stops arriving.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		h.Publish(mk(t, "main"))
		h.Publish(mk(t, "io"))
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v", err)
		}
		if ev.Entry.Thread == "io" {
			return
		}
		if err := conn.ReadJSON(&ev); err != nil || ev.Entry.Thread != "io" {
			t.Fatalf("read pair: %v %+v", err, ev)
		}
	}
	t.Fatal("filter command never applied")
}

func TestHandleCommandSetsFilters(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want query.FilterSet
	}{
		{"errors", `{"type":"filter","errors":true}`, query.OnlyErrors},
		{"no lifecycle", `{"type":"filter","no_lifecycle":true}`, query.NotLifecycle},
		{"all", `{"type":"filter","errors":true,"no_lifecycle":true,"non_main":true}`,
			query.OnlyErrors | query.NotLifecycle | query.NonMainThread},
		{"cleared", `{"type":"filter"}`, 0},
		{"other type", `{"type":"ping","errors":true}`, query.NonMainThread},
		{"garbage", `{`, query.NonMainThread},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{filters: query.NonMainThread}
			c.handleCommand([]byte(tt.msg))
			if c.filters != tt.want {
				t.Fatalf("filters: got %v want %v", c.filters, tt.want)
			}
		})
	}
}

func TestRunStopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	go h.Run(ctx)
	conn := dialHub(t, h, "errors=1")

	cancel()
	<-h.done
	if n := h.ClientCount(); n != 0 {
		t.Fatalf("clients after stop: %d", n)
	}
	var ev Event
	if err := conn.ReadJSON(&ev); err == nil {
		t.Fatalf("expected closed connection, got %+v", ev)
	}
}
