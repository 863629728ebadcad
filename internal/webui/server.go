// Package webui serves the admin surface: prompt CRUD, bot settings, stats,
// and the prompt test endpoint.
package webui

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/kayz/kaiseki/internal/ai"
	"github.com/kayz/kaiseki/internal/compose"
	"github.com/kayz/kaiseki/internal/logger"
	"github.com/kayz/kaiseki/internal/store"
)

type Server struct {
	store     *store.Store
	ai        ai.Client
	startedAt time.Time
}

func NewServer(st *store.Store, client ai.Client) *Server {
	return &Server{
		store:     st,
		ai:        client,
		startedAt: time.Now().UTC(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/prompts", s.handlePrompts)
	mux.HandleFunc("/api/prompts/", s.handlePromptByID)
	mux.HandleFunc("/api/bot-settings", s.handleBotSettings)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/test", s.handleTest)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"ok":         true,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			payload["rss_bytes"] = mem.RSS
		}
		if cpu, err := p.CPUPercent(); err == nil {
			payload["cpu_percent"] = cpu
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

type promptRequest struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"systemPrompt"`
	UserPrompt   string `json:"userPrompt"`
	AnalysisType string `json:"analysisType"`
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prompts, err := s.store.ListPrompts()
		if err != nil {
			logger.Error("Prompt list failed: %v", err)
			writeError(w, http.StatusInternalServerError, "プロンプトの取得に失敗しました")
			return
		}
		if prompts == nil {
			prompts = []*store.Prompt{}
		}
		writeJSON(w, http.StatusOK, prompts)

	case http.MethodPost:
		var req promptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		created, err := s.store.CreatePrompt(store.PromptFields{
			Name:         req.Name,
			SystemPrompt: req.SystemPrompt,
			UserPrompt:   req.UserPrompt,
			AnalysisType: req.AnalysisType,
		})
		if errors.Is(err, store.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, "プロンプト名は必須です")
			return
		}
		if err != nil {
			logger.Error("Prompt save failed: %v", err)
			writeError(w, http.StatusInternalServerError, "プロンプトの保存に失敗しました")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePromptByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/prompts/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req promptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		updated, err := s.store.UpdatePrompt(id, store.PromptFields{
			Name:         req.Name,
			SystemPrompt: req.SystemPrompt,
			UserPrompt:   req.UserPrompt,
			AnalysisType: req.AnalysisType,
		})
		if errors.Is(err, store.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, "プロンプト名は必須です")
			return
		}
		if errors.Is(err, store.ErrPromptNotFound) {
			writeError(w, http.StatusNotFound, "プロンプトが見つかりません")
			return
		}
		if err != nil {
			logger.Error("Prompt update failed: %v", err)
			writeError(w, http.StatusInternalServerError, "更新に失敗しました")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": updated})

	case http.MethodDelete:
		if err := s.store.DeletePrompt(id); err != nil {
			logger.Error("Prompt delete failed: %v", err)
			writeError(w, http.StatusInternalServerError, "削除に失敗しました")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBotSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.store.GetSettings()
		if err != nil {
			logger.Error("Settings lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Bot設定の取得に失敗しました")
			return
		}
		writeJSON(w, http.StatusOK, settingsJSON(settings))

	case http.MethodPost:
		var req struct {
			DefaultPromptID string `json:"defaultPromptId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		settings, err := s.store.SaveSettings(req.DefaultPromptID)
		if errors.Is(err, store.ErrPromptNotFound) {
			writeError(w, http.StatusBadRequest, "指定されたプロンプトが見つかりません")
			return
		}
		if err != nil {
			logger.Error("Settings save failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Bot設定の保存に失敗しました")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": settingsJSON(settings)})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// settingsJSON keeps default_prompt_id null (not "") when unset, matching
// the admin UI's expectations.
func settingsJSON(settings *store.Settings) map[string]any {
	if settings == nil {
		return map[string]any{"default_prompt_id": nil}
	}
	var defaultPromptID any
	if settings.DefaultPromptID != "" {
		defaultPromptID = settings.DefaultPromptID
	}
	return map[string]any{
		"id":                settings.ID,
		"default_prompt_id": defaultPromptID,
		"created_at":        settings.CreatedAt.Format(time.RFC3339),
		"updated_at":        settings.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Key string `json:"key"`
		compose.CategoryInfo
	}
	out := make([]entry, 0, len(compose.CategoryOrder))
	for _, key := range compose.CategoryOrder {
		out = append(out, entry{Key: key, CategoryInfo: compose.Categories[key]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.store.GetStats(time.Now())
	if err != nil {
		logger.Error("Stats query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "統計の取得に失敗しました")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type testRequest struct {
	SystemPrompt string `json:"systemPrompt"`
	UserPrompt   string `json:"userPrompt"`
	Debug        bool   `json:"debug"`
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.SystemPrompt == "" || req.UserPrompt == "" {
		writeError(w, http.StatusBadRequest, "システムプロンプトとユーザープロンプトが必要です")
		return
	}

	// test path: raw composition, no channel/history wrapping
	composed := compose.Preview(req.SystemPrompt, req.UserPrompt)

	if req.Debug {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"debug": map[string]any{
				"systemPrompt":         composed.System,
				"userPrompt":           composed.User,
				"originalSystemPrompt": req.SystemPrompt,
				"originalUserPrompt":   req.UserPrompt,
			},
		})
		return
	}

	result, err := s.ai.Analyze(r.Context(), composed.System, composed.User)
	if err != nil {
		logger.Error("Test run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "テスト実行に失敗しました")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result.Text,
		"usage":   result.Usage,
		"debug": map[string]any{
			"systemPrompt": composed.System,
			"userPrompt":   composed.User,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
