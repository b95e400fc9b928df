package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain/tasbeeh"
	"github.com/gorilla/websocket"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcReply struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

var initializeParams = map[string]any{
	"protocolVersion": "2024-11-05",
	"clientInfo":      map[string]any{"name": "hilal-test", "version": "0.0.0"},
	"capabilities":    map[string]any{},
}

// rpcClient posts numbered JSON-RPC calls to the streamable HTTP endpoint.
type rpcClient struct {
	t    *testing.T
	url  string
	next int
}

func (c *rpcClient) call(method string, params any) json.RawMessage {
	c.t.Helper()
	c.next++
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: c.next, Method: method, Params: params})
	if err != nil {
		c.t.Fatalf("marshal %s: %v", method, err)
	}
	resp, err := http.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		c.t.Fatalf("post %s: %v", method, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body

	var reply rpcReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		c.t.Fatalf("decode %s: %v", method, err)
	}
	if reply.Error != nil {
		c.t.Fatalf("%s: %d %s", method, reply.Error.Code, reply.Error.Message)
	}
	if reply.ID != c.next || len(reply.Result) == 0 {
		c.t.Fatalf("%s: unexpected reply %+v", method, reply)
	}
	return reply.Result
}

func TestMCPHTTPTransport(t *testing.T) {
	prevVersion, prevCommit, prevDate := Version, BuildCommit, BuildDate
	Version, BuildCommit, BuildDate = "test", "commit123", "2026-01-01"
	t.Cleanup(func() {
		Version, BuildCommit, BuildDate = prevVersion, prevCommit, prevDate
	})

	srv := newTestServer(t)
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.ServeHTTP(ctx, addr) }()
	awaitHealthy(t, addr)

	client := &rpcClient{t: t, url: "http://" + addr + "/mcp"}

	var init struct {
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(client.call("initialize", initializeParams), &init); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if init.ServerInfo.Name != "hilal" || init.ServerInfo.Version != "test" {
		t.Fatalf("unexpected server info: %+v", init.ServerInfo)
	}

	listed := listedTools(t, client.call("tools/list", nil))
	for _, want := range toolNames {
		if !listed[want] {
			t.Errorf("tool %s not listed", want)
		}
	}

	result := client.call("tools/call", map[string]any{
		"name":      "hilal_add_task",
		"arguments": map[string]any{"date": "2025-03-05", "title": "Visit family", "description": "After tarawih"},
	})
	if !strings.Contains(string(result), "Visit family") {
		t.Fatalf("unexpected tools/call result: %s", result)
	}

	day, err := srv.services.Checklist.Day(context.Background(), "2025-03-05")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if got := day.Tasks[len(day.Tasks)-1].Title; got != "Visit family" {
		t.Errorf("expected the added task last, got %q", got)
	}
}

func TestMCPWebSocketTransport(t *testing.T) {
	srv := newTestServer(t)
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = srv.ServeWebSocket(ctx, addr)
	}()

	var ws *websocket.Conn
	deadline := time.Now().Add(5 * time.Second)
	for {
		var err error
		ws, _, err = websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/mcp", addr), nil)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("websocket dial: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	defer func() { _ = ws.Close() }()

	if err := ws.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: 1, Method: "initialize", Params: initializeParams}); err != nil {
		t.Fatalf("write initialize: %v", err)
	}
	var initResp rpcReply
	if err := ws.ReadJSON(&initResp); err != nil {
		t.Fatalf("read initialize: %v", err)
	}
	if initResp.Error != nil || len(initResp.Result) == 0 {
		t.Fatalf("bad initialize response: %+v", initResp)
	}

	if err := ws.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: 2, Method: "tools/list"}); err != nil {
		t.Fatalf("write tools/list: %v", err)
	}
	var toolsResp rpcReply
	if err := ws.ReadJSON(&toolsResp); err != nil {
		t.Fatalf("read tools/list: %v", err)
	}
	if toolsResp.Error != nil {
		t.Fatalf("tools/list error: %v", toolsResp.Error.Message)
	}
	if !listedTools(t, toolsResp.Result)["hilal_get_day"] {
		t.Fatalf("expected hilal_get_day tool")
	}
}

func TestServerServeHTTPReturnsCanceled(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.ServeHTTP(ctx, "127.0.0.1:0"); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}

func listedTools(t *testing.T, result json.RawMessage) map[string]bool {
	t.Helper()
	var list struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(result, &list); err != nil {
		t.Fatalf("unmarshal tools: %v", err)
	}
	names := make(map[string]bool, len(list.Tools))
	for _, tool := range list.Tools {
		names[tool.Name] = true
	}
	return names
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close() //nolint:errcheck // probe listener
	return l.Addr().String()
}

func awaitHealthy(t *testing.T, addr string) {
	t.Helper()
	url := "http://" + addr + "/health"
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); time.Sleep(50 * time.Millisecond) {
		resp, err := http.Get(url)
		if err != nil {
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return
		}
	}
	t.Fatalf("server did not become healthy at %s", url)
}

func TestNewServer_BuildsWorkspaceServices(t *testing.T) {
	srv, err := NewServer(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })

	out, err := srv.handleTasbeehList(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("tasbeeh list: %v", err)
	}
	if st, ok := out.(tasbeeh.State); !ok || len(st.Tasbeehs) != 3 {
		t.Errorf("expected the default counters, got %+v", out)
	}
}
