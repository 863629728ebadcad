package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kayz/kaiseki/internal/ai"
	"github.com/kayz/kaiseki/internal/store"
)

type fakeAI struct {
	calls  int
	system string
	user   string
}

func (f *fakeAI) Analyze(_ context.Context, system, user string) (ai.Result, error) {
	f.calls++
	f.system = system
	f.user = user
	return ai.Result{Text: "分析OK", Usage: ai.Usage{TotalTokens: 42}}, nil
}

func newTestServer(t *testing.T) (*Server, *store.Store, *fakeAI) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "kaiseki.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	client := &fakeAI{}
	return NewServer(st, client), st, client
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestStatusEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodGet, "/api/status", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "\"ok\":true") {
		t.Fatalf("unexpected status payload: %s", rr.Body.String())
	}
}

func TestPromptCreateAndList(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	rr := doJSON(t, handler, http.MethodPost, "/api/prompts", map[string]string{
		"name":         "週次レビュー",
		"systemPrompt": "sys",
		"userPrompt":   "user",
		"analysisType": "event",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodGet, "/api/prompts", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	var prompts []store.Prompt
	if err := json.Unmarshal(rr.Body.Bytes(), &prompts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(prompts) != 1 || prompts[0].Name != "週次レビュー" {
		t.Fatalf("unexpected prompt list: %+v", prompts)
	}
}

func TestPromptCreateRequiresName(t *testing.T) {
	server, _, _ := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodPost, "/api/prompts", map[string]string{
		"systemPrompt": "sys",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "プロンプト名は必須です") {
		t.Fatalf("unexpected error payload: %s", rr.Body.String())
	}
}

func TestPromptUpdateUnknown(t *testing.T) {
	server, _, _ := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodPut, "/api/prompts/no-such-id", map[string]string{
		"name": "x",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rr.Code, rr.Body.String())
	}
}

func TestPromptUpdateAndDelete(t *testing.T) {
	server, st, _ := newTestServer(t)
	handler := server.Handler()

	created, err := st.CreatePrompt(store.PromptFields{Name: "before", AnalysisType: "custom"})
	if err != nil {
		t.Fatalf("seed prompt: %v", err)
	}

	rr := doJSON(t, handler, http.MethodPut, "/api/prompts/"+created.ID, map[string]string{
		"name":         "after",
		"analysisType": "event",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	updated, err := st.GetPrompt(created.ID)
	if err != nil || updated == nil {
		t.Fatalf("GetPrompt after update: %v %v", updated, err)
	}
	if updated.Name != "after" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	rr = doJSON(t, handler, http.MethodDelete, "/api/prompts/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rr.Code)
	}
	gone, err := st.GetPrompt(created.ID)
	if err != nil {
		t.Fatalf("GetPrompt after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("prompt still present after delete")
	}
}

func TestBotSettingsNullBeforeConfiguration(t *testing.T) {
	server, _, _ := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodGet, "/api/bot-settings", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if v, ok := payload["default_prompt_id"]; !ok || v != nil {
		t.Fatalf("expected null default_prompt_id, got %#v", payload)
	}
}

func TestBotSettingsRejectsUnknownPrompt(t *testing.T) {
	server, st, _ := newTestServer(t)
	handler := server.Handler()

	created, err := st.CreatePrompt(store.PromptFields{Name: "active"})
	if err != nil {
		t.Fatalf("seed prompt: %v", err)
	}
	rr := doJSON(t, handler, http.MethodPost, "/api/bot-settings", map[string]string{
		"defaultPromptId": created.ID,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("save settings: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, handler, http.MethodPost, "/api/bot-settings", map[string]string{
		"defaultPromptId": "missing-id",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "指定されたプロンプトが見つかりません") {
		t.Fatalf("unexpected error payload: %s", rr.Body.String())
	}

	// previous selection must survive the rejected write
	settings, err := st.GetSettings()
	if err != nil || settings == nil {
		t.Fatalf("GetSettings: %v %v", settings, err)
	}
	if settings.DefaultPromptID != created.ID {
		t.Fatalf("settings mutated by rejected save: %+v", settings)
	}
}

func TestTestEndpointDebugSkipsAPI(t *testing.T) {
	server, _, client := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodPost, "/api/test", map[string]any{
		"systemPrompt": "あなたは分析者です",
		"userPrompt":   "傾向を分析して",
		"debug":        true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	if client.calls != 0 {
		t.Fatalf("debug mode must not call the completion API")
	}
	var payload struct {
		Debug struct {
			SystemPrompt       string `json:"systemPrompt"`
			UserPrompt         string `json:"userPrompt"`
			OriginalUserPrompt string `json:"originalUserPrompt"`
		} `json:"debug"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode debug payload: %v", err)
	}
	if payload.Debug.SystemPrompt != "あなたは分析者です" {
		t.Fatalf("unexpected debug system prompt: %q", payload.Debug.SystemPrompt)
	}
	if payload.Debug.OriginalUserPrompt != "傾向を分析して" {
		t.Fatalf("unexpected original user prompt: %q", payload.Debug.OriginalUserPrompt)
	}
	// test path composes without channel or history wrapping
	if strings.Contains(payload.Debug.UserPrompt, "【分析対象】") {
		t.Fatalf("test composition must not wrap with channel context: %q", payload.Debug.UserPrompt)
	}
}

func TestTestEndpointRunsCompletion(t *testing.T) {
	server, _, client := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodPost, "/api/test", map[string]any{
		"systemPrompt": "sys",
		"userPrompt":   "user",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	if client.calls != 1 {
		t.Fatalf("expected one completion call, got %d", client.calls)
	}
	if !strings.Contains(rr.Body.String(), "分析OK") {
		t.Fatalf("result text missing from payload: %s", rr.Body.String())
	}
}

func TestTestEndpointRequiresBothPrompts(t *testing.T) {
	server, _, _ := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodPost, "/api/test", map[string]any{
		"systemPrompt": "sys",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "システムプロンプトとユーザープロンプトが必要です") {
		t.Fatalf("unexpected error payload: %s", rr.Body.String())
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	rr := doJSON(t, server.Handler(), http.MethodGet, "/api/categories", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var entries []struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(entries) != 4 || entries[0].Key != "event" || entries[3].Key != "custom" {
		t.Fatalf("unexpected category order: %+v", entries)
	}
}

func TestStatsEndpoint(t *testing.T) {
	server, st, _ := newTestServer(t)
	if _, err := st.CreatePrompt(store.PromptFields{Name: "one", AnalysisType: "event"}); err != nil {
		t.Fatalf("seed prompt: %v", err)
	}
	rr := doJSON(t, server.Handler(), http.MethodGet, "/api/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var stats store.Stats
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalPrompts != 1 {
		t.Fatalf("expected 1 total prompt, got %d", stats.TotalPrompts)
	}
}
