package clinic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func expectAllTimeStats(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM doctors$`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM doctors WHERE is_active`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE TRUE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'CONFIRMED'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(40)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'CANCELLED'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(30)))
}

func TestGetStatsAllTime(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	expectAllTimeStats(mock)

	repo := NewStatsRepositoryWithDB(mock)
	stats, err := repo.GetStats(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.TotalDoctors != 5 || stats.ActiveDoctors != 4 {
		t.Errorf("unexpected doctor counts: %+v", stats)
	}
	if stats.TotalAppointments != 42 || stats.ConfirmedAppointments != 40 || stats.CancelledAppointments != 2 {
		t.Errorf("unexpected appointment counts: %+v", stats)
	}
	if stats.TotalPatients != 30 {
		t.Errorf("unexpected patient count: %+v", stats)
	}
	if stats.PeriodStart != "all-time" || stats.PeriodEnd != "now" {
		t.Errorf("unexpected period: %+v", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetStatsWithPeriod(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM doctors$`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM doctors WHERE is_active`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE TRUE AND created_at`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(10)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'CONFIRMED' AND created_at`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(9)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE status = 'CANCELLED' AND created_at`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(30)))

	repo := NewStatsRepositoryWithDB(mock)
	stats, err := repo.GetStats(context.Background(), &start, &end)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalAppointments != 10 {
		t.Errorf("unexpected filtered count: %+v", stats)
	}
	if stats.PeriodStart != start.Format(time.RFC3339) {
		t.Errorf("unexpected period start: %q", stats.PeriodStart)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStatsHandlerRejectsHalfOpenPeriod(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	h := NewStatsHandler(NewStatsRepositoryWithDB(mock), nil)
	req := httptest.NewRequest(http.MethodGet, "/admin/stats?start=2025-06-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for half-open period, got %d", rec.Code)
	}
}

func TestStatsHandlerReturnsJSON(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	expectAllTimeStats(mock)

	h := NewStatsHandler(NewStatsRepositoryWithDB(mock), nil)
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var stats Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalDoctors != 5 {
		t.Errorf("unexpected stats payload: %+v", stats)
	}
}
