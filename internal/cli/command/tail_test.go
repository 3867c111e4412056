package command

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/docmesh-go/internal/realtime"
)

// startScriptedGateway accepts one websocket connection, expects a
// join for wantDoc, replies with the scripted frames and closes.
func startScriptedGateway(t *testing.T, wantDoc string, frames []realtime.Message) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read join: %v", err)
			return
		}
		join, err := realtime.Decode(data)
		if err != nil || join.Type != realtime.TypeRequestDocument || join.DocumentID != wantDoc {
			t.Errorf("unexpected join frame: %s", data)
			return
		}

		for _, frame := range frames {
			payload, err := realtime.Encode(frame)
			if err != nil {
				t.Errorf("encode: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTailPrintsSessionTraffic(t *testing.T) {
	srv := startScriptedGateway(t, "alpha", []realtime.Message{
		{Type: realtime.TypeDocumentLoaded, DocumentID: "alpha", Content: "hello"},
		{Type: realtime.TypeEditOperation, Payload: []byte(`{"op":"insert","pos":5}`)},
		{Type: realtime.TypeError, Code: "DM-RT-4290", Reason: "edit rate exceeded"},
	})

	out, err := runApp(t, "--server", srv.URL, "tail", "--ws-path", "/", "alpha")
	if err != nil {
		t.Fatalf("tail error = %v", err)
	}

	if !strings.Contains(out, "joined alpha") {
		t.Errorf("output missing join line:\n%s", out)
	}
	if !strings.Contains(out, `"op":"insert"`) {
		t.Errorf("output missing edit payload:\n%s", out)
	}
	if !strings.Contains(out, "DM-RT-4290") {
		t.Errorf("output missing error frame:\n%s", out)
	}
}

func TestTailMissingArg(t *testing.T) {
	_, err := runApp(t, "tail")
	if err == nil {
		t.Fatal("tail without a document ID should fail")
	}
}

func TestTailUnreachableServer(t *testing.T) {
	_, err := runApp(t, "--server", "127.0.0.1:1", "tail", "alpha")
	if err == nil {
		t.Fatal("tail should fail when the server is unreachable")
	}
	if !strings.Contains(err.Error(), "connect") {
		t.Errorf("error %q should mention connect", err)
	}
}
