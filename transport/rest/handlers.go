package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statsResponse struct {
	Rooms       map[entity.Phase]int `json:"rooms"`
	Connections int                  `json:"connections"`
}

func (that *Server) getRoom(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["roomCode"]

	snapshot, err := that.rooms.Snapshot(code)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		that.logger.Error("failed to read room", "roomCode", code, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apperror.ErrInternal.Error()})
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) listRecentMatches(w http.ResponseWriter, r *http.Request) {
	if that.history == nil {
		that.writeJSON(w, http.StatusOK, []entity.MatchResult{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	matches, err := that.history.ListRecent(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to list recent matches", "error", err)
		that.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "match history unavailable"})
		return
	}

	that.writeJSON(w, http.StatusOK, matches)
}

func (that *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	stats := statsResponse{Rooms: that.rooms.CountByPhase()}
	if that.connections != nil {
		stats.Connections = that.connections.ConnectionCount()
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
