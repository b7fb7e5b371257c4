package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/logging"
)

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"catalog": s.rec.Stats(),
	})
}

// recommendations 返回推荐列表（JSON 数组）。
func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	steamID := strings.TrimSpace(r.URL.Query().Get("steam_id"))
	if steamID == "" {
		writeDetail(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "steam_id is required")
		return
	}
	topN := 0
	if v := r.URL.Query().Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeDetail(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "top_n must be a non-negative integer")
			return
		}
		topN = n
	}

	recs, err := s.rec.RecommendForUser(r.Context(), steamID, topN)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

type preferenceEntry struct {
	AppID  int64           `json:"appid"`
	Status core.Preference `json:"status"`
}

type preferenceRequest struct {
	SteamID string `json:"steamid"`
	Status  string `json:"status"`
}

func (s *Server) preferenceStore(w http.ResponseWriter) (core.PreferenceStore, bool) {
	store := s.rec.Preferences()
	if store == nil {
		writeDetail(w, http.StatusNotImplemented, core.ErrorCodeNotSupported, "preference store not configured")
		return nil, false
	}
	return store, true
}

func (s *Server) listPreferences(w http.ResponseWriter, r *http.Request) {
	store, ok := s.preferenceStore(w)
	if !ok {
		return
	}
	prefs, err := store.List(r.Context(), chi.URLParam(r, "steamID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]preferenceEntry, 0, len(prefs))
	for appID, p := range prefs {
		out = append(out, preferenceEntry{AppID: appID, Status: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppID < out[j].AppID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) setPreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "invalid request body")
		return
	}
	s.storePreference(w, r, chi.URLParam(r, "steamID"), chi.URLParam(r, "appid"), req.Status)
}

// setGameStatus 兼容前端的 POST /games/{appid}/status 写法
func (s *Server) setGameStatus(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "invalid request body")
		return
	}
	if req.SteamID == "" {
		writeDetail(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "steamid is required")
		return
	}
	s.storePreference(w, r, req.SteamID, chi.URLParam(r, "appid"), req.Status)
}

func (s *Server) storePreference(w http.ResponseWriter, r *http.Request, steamID, rawAppID, status string) {
	store, ok := s.preferenceStore(w)
	if !ok {
		return
	}
	appID, err := strconv.ParseInt(rawAppID, 10, 64)
	if err != nil || appID <= 0 {
		writeDetail(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "invalid appid")
		return
	}
	pref, err := core.ParsePreference(status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.Set(r.Context(), steamID, appID, pref); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preferenceEntry{AppID: appID, Status: pref})
}

func (s *Server) deletePreference(w http.ResponseWriter, r *http.Request) {
	store, ok := s.preferenceStore(w)
	if !ok {
		return
	}
	appID, err := strconv.ParseInt(chi.URLParam(r, "appid"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "invalid appid")
		return
	}
	if err := store.Delete(r.Context(), chi.URLParam(r, "steamID"), appID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if err := s.rec.ReloadFromProvider(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	stats := s.rec.Stats()
	logging.Ctx(r.Context()).Info().Int("retained", stats.Retained).Msg("catalog reloaded via admin")
	writeJSON(w, http.StatusOK, stats)
}
