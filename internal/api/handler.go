package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pable/go-poker-metrics/internal/aggregator"
	"github.com/pable/go-poker-metrics/internal/config"
	"github.com/pable/go-poker-metrics/internal/model"
	"github.com/pable/go-poker-metrics/internal/parser"
	"github.com/pable/go-poker-metrics/internal/report"
	"github.com/pable/go-poker-metrics/internal/storage"
)

// Handler carries the dependencies for all API endpoints.
type Handler struct {
	db     *storage.DB
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandler builds a Handler.
func NewHandler(db *storage.DB, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{db: db, cfg: cfg, logger: logger}
}

// playerJSON is one matrix row with the ratio statistics materialized.
// The aggression factor is a string so the +Inf sentinel survives JSON.
type playerJSON struct {
	Name             string  `json:"name"`
	TotalCalls       int     `json:"total_calls"`
	TotalFolds       int     `json:"total_folds"`
	TotalRaises      int     `json:"total_raises"`
	TotalBets        int     `json:"total_bets"`
	HandsPlayed      int     `json:"hands_played"`
	PreflopCalls     int     `json:"preflop_calls"`
	PreflopRaises    int     `json:"preflop_raises"`
	PreflopFolds     int     `json:"preflop_folds"`
	VPIP             int     `json:"vpip"`
	PFR              int     `json:"pfr"`
	AggressionFactor string  `json:"aggression_factor"`
	Shows            int     `json:"shows"`
	Stands           int     `json:"stands"`
	BuyIn            float64 `json:"buy_in"`
	GrossProfit      float64 `json:"gross_profit"`
	NetProfit        float64 `json:"net_profit"`
}

type sessionResponse struct {
	Hash      string                            `json:"hash"`
	Source    string                            `json:"source"`
	HandCount int                               `json:"hand_count"`
	Players   []playerJSON                      `json:"players"`
	Timelines map[string][]model.PlayerSnapshot `json:"timelines,omitempty"`
}

func toPlayerJSON(stats []model.PlayerSessionStats) []playerJSON {
	out := make([]playerJSON, 0, len(stats))
	for i := range stats {
		s := &stats[i]
		out = append(out, playerJSON{
			Name:             s.Name,
			TotalCalls:       s.TotalCalls,
			TotalFolds:       s.TotalFolds,
			TotalRaises:      s.TotalRaises,
			TotalBets:        s.TotalBets,
			HandsPlayed:      s.HandsPlayed,
			PreflopCalls:     s.PreflopCalls,
			PreflopRaises:    s.PreflopRaises,
			PreflopFolds:     s.PreflopFolds,
			VPIP:             s.VPIP(),
			PFR:              s.PFR(),
			AggressionFactor: report.FormatAF(s.AggressionFactor(), "Inf"),
			Shows:            s.Shows,
			Stands:           s.Stands,
			BuyIn:            s.BuyIn,
			GrossProfit:      s.GrossProfit,
			NetProfit:        s.NetProfit,
		})
	}
	return out
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UploadSession accepts a multipart CSV hand-history log, runs the engine
// over it, stores the result and responds with the full statistics matrix.
func (h *Handler) UploadSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE",
			fmt.Sprintf("upload exceeds %d bytes or is not valid multipart", h.cfg.MaxUploadBytes))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		WriteError(w, http.StatusBadRequest, "BAD_FILE_TYPE", "only .csv hand-history logs are accepted")
		return
	}

	log, err := parser.Load(file, header.Filename)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "PARSE_FAILED", err.Error())
		return
	}

	stats, err := aggregator.Aggregate(log)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "AGGREGATE_FAILED", err.Error())
		return
	}

	exists, err := h.db.SessionExists(log.Hash)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
		return
	}
	status := http.StatusOK
	if !exists {
		summary := model.SessionSummary{
			Hash:        log.Hash,
			SourceName:  header.Filename,
			ParsedAt:    time.Now().UTC().Format("2006-01-02"),
			HandCount:   stats.HandCount,
			PlayerCount: len(stats.Players),
		}
		if err := h.db.InsertSession(summary); err != nil {
			WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
			return
		}
		if err := h.db.InsertPlayerSessionStats(stats.Players); err != nil {
			WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
			return
		}
		status = http.StatusCreated
	}

	h.appendAudit(header.Filename, log.Hash, stats)
	h.logger.Info("session uploaded",
		"file", header.Filename, "hash", log.Hash[:12],
		"hands", stats.HandCount, "players", len(stats.Players), "cached", exists)

	WriteJSON(w, status, sessionResponse{
		Hash:      log.Hash,
		Source:    header.Filename,
		HandCount: stats.HandCount,
		Players:   toPlayerJSON(stats.Players),
		Timelines: stats.Timelines,
	})
}

// appendAudit writes one line per accepted upload to the append-only audit
// log. Failures are logged, never surfaced to the client.
func (h *Handler) appendAudit(filename, hash string, stats *model.SessionStats) {
	if h.cfg.AuditLogPath == "" {
		return
	}
	f, err := os.OpenFile(h.cfg.AuditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		h.logger.Warn("audit log open failed", "error", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s hash=%s file=%q hands=%d players=%d\n",
		time.Now().UTC().Format(time.RFC3339), hash, filename, stats.HandCount, len(stats.Players))
}

// ListSessions returns all stored session summaries.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.db.ListSessions()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// GetSession returns the stored matrix for one session by hash prefix.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	summary, stats, ok := h.lookupSession(w, chi.URLParam(r, "hash"))
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{
		Hash:      summary.Hash,
		Source:    summary.SourceName,
		HandCount: summary.HandCount,
		Players:   toPlayerJSON(stats),
	})
}

// GetSessionMatrixCSV returns the stored matrix as downloadable CSV.
func (h *Handler) GetSessionMatrixCSV(w http.ResponseWriter, r *http.Request) {
	summary, stats, ok := h.lookupSession(w, chi.URLParam(r, "hash"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "matrix-"+summary.Hash[:12]+".csv"))
	if err := report.WriteMatrixCSV(w, stats); err != nil {
		h.logger.Warn("matrix csv write failed", "error", err)
	}
}

func (h *Handler) lookupSession(w http.ResponseWriter, prefix string) (*model.SessionSummary, []model.PlayerSessionStats, bool) {
	summary, err := h.db.GetSessionByPrefix(prefix)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
		return nil, nil, false
	}
	if summary == nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "no session with that hash prefix")
		return nil, nil, false
	}
	stats, err := h.db.GetPlayerSessionStats(summary.Hash)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
		return nil, nil, false
	}
	return summary, stats, true
}
