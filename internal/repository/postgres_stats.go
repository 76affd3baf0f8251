package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/asleulv/vervekart/internal/domain"
)

// PostgresStatsRepository implements the aggregate queries on PostgreSQL.
type PostgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

var _ StatsRepository = (*PostgresStatsRepository)(nil)

func (r *PostgresStatsRepository) CurrentStats(ctx context.Context) ([]domain.CurrentStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT COALESCE(kommune, ''), COALESCE(current_status, ''), COUNT(*)
		 FROM address_current_status
		 GROUP BY kommune, current_status
		 ORDER BY kommune, current_status`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query current stats: %w", err)
	}
	defer rows.Close()

	var out []domain.CurrentStat
	for rows.Next() {
		var s domain.CurrentStat
		if err := rows.Scan(&s.Kommune, &s.CurrentStatus, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan current stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UserActivity aggregates status_change history per volunteer. An empty day
// means all time; otherwise only changes on that YYYY-MM-DD date count.
func (r *PostgresStatsRepository) UserActivity(ctx context.Context, day string) ([]domain.UserActivity, error) {
	query := `
		SELECT
			COALESCE(changed_by_name, ''),
			COUNT(*) AS total_changes,
			COUNT(CASE WHEN new_status = 'Ja' THEN 1 END),
			COUNT(CASE WHEN new_status = 'Nei' THEN 1 END),
			COUNT(CASE WHEN new_status = 'Ikke hjemme' THEN 1 END),
			MIN(changed_at),
			MAX(changed_at)
		FROM address_history
		WHERE action_type = 'status_change'`
	args := []interface{}{}
	if day != "" {
		query += ` AND changed_at::date = $1::date`
		args = append(args, day)
	}
	query += `
		GROUP BY changed_by_name
		ORDER BY total_changes DESC, changed_by_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user activity: %w", err)
	}
	defer rows.Close()

	var out []domain.UserActivity
	for rows.Next() {
		var a domain.UserActivity
		if err := rows.Scan(&a.ChangedByName, &a.TotalChanges, &a.JaCount, &a.NeiCount,
			&a.IkkeHjemmeCount, &a.FirstActivity, &a.LastActivity); err != nil {
			return nil, fmt.Errorf("failed to scan user activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DailyActivity aggregates status_change history per calendar day, newest
// first. A positive limit caps the number of days returned.
func (r *PostgresStatsRepository) DailyActivity(ctx context.Context, day string, limit int) ([]domain.DailyActivity, error) {
	query := `
		SELECT
			changed_at::date::text,
			COUNT(*),
			COUNT(DISTINCT changed_by)
		FROM address_history
		WHERE action_type = 'status_change'`
	args := []interface{}{}
	if day != "" {
		query += ` AND changed_at::date = $1::date`
		args = append(args, day)
	}
	query += `
		GROUP BY changed_at::date
		ORDER BY changed_at::date DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var out []domain.DailyActivity
	for rows.Next() {
		var a domain.DailyActivity
		if err := rows.Scan(&a.Date, &a.Changes, &a.ActiveUsers); err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
