// Package clinic holds clinic-wide admin reporting.
package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentassist/dentassist-api/pkg/logging"
)

// Stats are the aggregate counts shown on the admin dashboard.
type Stats struct {
	TotalDoctors          int64  `json:"total_doctors"`
	ActiveDoctors         int64  `json:"active_doctors"`
	TotalAppointments     int64  `json:"total_appointments"`
	ConfirmedAppointments int64  `json:"confirmed_appointments"`
	CancelledAppointments int64  `json:"cancelled_appointments"`
	TotalPatients         int64  `json:"total_patients"`
	PeriodStart           string `json:"period_start"`
	PeriodEnd             string `json:"period_end"`
}

// statsDB defines the database interface needed by StatsRepository.
type statsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StatsRepository queries clinic metrics from the database.
type StatsRepository struct {
	db statsDB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	if pool == nil {
		panic("clinic: pgx pool required for stats")
	}
	return &StatsRepository{db: pool}
}

// NewStatsRepositoryWithDB allows injecting a mock database for testing.
func NewStatsRepositoryWithDB(db statsDB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats retrieves aggregated clinic metrics. Optional start/end bounds
// filter appointments by booking time; when nil the stats are all-time.
// Doctor and patient counts are always current totals.
func (r *StatsRepository) GetStats(ctx context.Context, start, end *time.Time) (*Stats, error) {
	stats := &Stats{}

	var timeFilter string
	var args []any
	if start != nil && end != nil {
		timeFilter = " AND created_at >= $1 AND created_at < $2"
		args = append(args, *start, *end)
		stats.PeriodStart = start.Format(time.RFC3339)
		stats.PeriodEnd = end.Format(time.RFC3339)
	} else {
		stats.PeriodStart = "all-time"
		stats.PeriodEnd = "now"
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&stats.TotalDoctors); err != nil {
		return nil, fmt.Errorf("clinic stats: count doctors: %w", err)
	}
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM doctors WHERE is_active = TRUE`).Scan(&stats.ActiveDoctors); err != nil {
		return nil, fmt.Errorf("clinic stats: count active doctors: %w", err)
	}

	apptQuery := `SELECT COUNT(*) FROM appointments WHERE TRUE` + timeFilter
	if err := r.db.QueryRow(ctx, apptQuery, args...).Scan(&stats.TotalAppointments); err != nil {
		return nil, fmt.Errorf("clinic stats: count appointments: %w", err)
	}

	confirmedQuery := `SELECT COUNT(*) FROM appointments WHERE status = 'CONFIRMED'` + timeFilter
	if err := r.db.QueryRow(ctx, confirmedQuery, args...).Scan(&stats.ConfirmedAppointments); err != nil {
		return nil, fmt.Errorf("clinic stats: count confirmed: %w", err)
	}

	cancelledQuery := `SELECT COUNT(*) FROM appointments WHERE status = 'CANCELLED'` + timeFilter
	if err := r.db.QueryRow(ctx, cancelledQuery, args...).Scan(&stats.CancelledAppointments); err != nil {
		return nil, fmt.Errorf("clinic stats: count cancelled: %w", err)
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalPatients); err != nil {
		return nil, fmt.Errorf("clinic stats: count patients: %w", err)
	}

	return stats, nil
}

// StatsHandler provides HTTP endpoints for clinic statistics.
type StatsHandler struct {
	repo   *StatsRepository
	logger *logging.Logger
}

// NewStatsHandler creates a new stats HTTP handler.
func NewStatsHandler(repo *StatsRepository, logger *logging.Logger) *StatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsHandler{repo: repo, logger: logger}
}

// GetStats returns aggregated clinic metrics.
// GET /admin/stats
// Query params:
//   - start: RFC3339 timestamp for period start (optional)
//   - end: RFC3339 timestamp for period end (optional)
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "invalid start time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		start = &t
	}
	if e := r.URL.Query().Get("end"); e != "" {
		t, err := time.Parse(time.RFC3339, e)
		if err != nil {
			http.Error(w, `{"error": "invalid end time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		end = &t
	}

	// If only one is provided, require both
	if (start == nil) != (end == nil) {
		http.Error(w, `{"error": "both start and end must be provided, or neither"}`, http.StatusBadRequest)
		return
	}

	stats, err := h.repo.GetStats(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to get clinic stats", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Error("failed to encode clinic stats", "error", err)
	}
}
