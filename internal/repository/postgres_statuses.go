package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/asleulv/vervekart/internal/domain"
)

// PostgresStatusRepository implements StatusRepository on PostgreSQL.
//
// SaveStatus and ClearArea run inside real transactions. The original store
// issued grouped statements without rollback, so a late failure could leave
// the current view without a matching history row; here a failure anywhere
// rolls the whole write back.
type PostgresStatusRepository struct {
	db *sql.DB
}

func NewPostgresStatusRepository(db *sql.DB) *PostgresStatusRepository {
	return &PostgresStatusRepository{db: db}
}

var _ StatusRepository = (*PostgresStatusRepository)(nil)

func (r *PostgresStatusRepository) SaveStatus(ctx context.Context, p SaveStatusParams) (*SaveStatusResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the current row (if any) so the old status we log matches what we
	// overwrite.
	var oldStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT current_status FROM address_current_status WHERE lokalid = $1 FOR UPDATE`,
		p.Lokalid,
	).Scan(&oldStatus)
	if errors.Is(err, sql.ErrNoRows) {
		oldStatus = string(domain.StatusUntouched)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read current status: %w", err)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO address_current_status
			(lokalid, address_text, kommune, fylke, current_status, last_changed_by, last_changed_at, lat, lon)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (lokalid) DO UPDATE SET
			address_text = EXCLUDED.address_text,
			kommune = EXCLUDED.kommune,
			fylke = EXCLUDED.fylke,
			current_status = EXCLUDED.current_status,
			last_changed_by = EXCLUDED.last_changed_by,
			last_changed_at = EXCLUDED.last_changed_at,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon`,
		p.Lokalid, p.AddressText, p.Kommune, p.Fylke, string(p.Status), p.UserID, now, p.Lat, p.Lon,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert current status: %w", err)
	}

	var historyID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO address_history
			(lokalid, address_text, kommune, fylke, old_status, new_status, changed_by, changed_by_name, action_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'status_change')
		 RETURNING id`,
		p.Lokalid, p.AddressText, p.Kommune, p.Fylke, oldStatus, string(p.Status), p.UserID, p.UserName,
	).Scan(&historyID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	return &SaveStatusResult{
		HistoryID: historyID,
		OldStatus: domain.Status(oldStatus),
		NewStatus: p.Status,
	}, nil
}

func (r *PostgresStatusRepository) GetStatuses(ctx context.Context) (map[string]domain.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lokalid, current_status FROM address_current_status`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	return scanStatusMap(rows)
}

// GetStatusesInBounds returns the statuses whose coordinates fall inside the
// viewport, bounds inclusive. Rows without coordinates never match.
func (r *PostgresStatusRepository) GetStatusesInBounds(ctx context.Context, b Bounds) (map[string]domain.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lokalid, current_status
		 FROM address_current_status
		 WHERE lat IS NOT NULL AND lon IS NOT NULL
		   AND lat BETWEEN $1 AND $2
		   AND lon BETWEEN $3 AND $4
		 ORDER BY last_changed_at DESC`,
		b.South, b.North, b.West, b.East,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses in bounds: %w", err)
	}
	defer rows.Close()

	return scanStatusMap(rows)
}

func (r *PostgresStatusRepository) ListStatuses(ctx context.Context) ([]domain.AddressStatus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lokalid, address_text, kommune, fylke, current_status,
		        COALESCE(last_changed_by, 0), last_changed_at, lat, lon
		 FROM address_current_status
		 ORDER BY kommune, address_text`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var out []domain.AddressStatus
	for rows.Next() {
		var s domain.AddressStatus
		var addressText, kommune, fylke, status sql.NullString
		var changedAt sql.NullTime
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Lokalid, &addressText, &kommune, &fylke, &status,
			&s.LastChangedBy, &changedAt, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		s.AddressText = addressText.String
		s.Kommune = kommune.String
		s.Fylke = fylke.String
		s.CurrentStatus = domain.Status(status.String)
		s.LastChangedAt = changedAt.Time
		if lat.Valid {
			v := lat.Float64
			s.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			s.Lon = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresStatusRepository) GetHistory(ctx context.Context, lokalid string) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lokalid, address_text, kommune, fylke, old_status, new_status,
		        COALESCE(changed_by, 0), changed_by_name, changed_at, action_type, notes
		 FROM address_history
		 WHERE lokalid = $1
		 ORDER BY changed_at DESC, id DESC`,
		lokalid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var addressText, kommune, fylke, oldStatus, newStatus, changedByName, notes sql.NullString
		if err := rows.Scan(&e.ID, &e.Lokalid, &addressText, &kommune, &fylke, &oldStatus,
			&newStatus, &e.ChangedBy, &changedByName, &e.ChangedAt, &e.ActionType, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.AddressText = addressText.String
		e.Kommune = kommune.String
		e.Fylke = fylke.String
		e.OldStatus = domain.Status(oldStatus.String)
		e.NewStatus = domain.Status(newStatus.String)
		e.ChangedByName = changedByName.String
		e.Notes = notes.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearArea logs a bulk_reset history row for every current-status row in the
// region, deletes the rows and writes one reset_log entry, all in one
// transaction. The affected count comes from the DELETE itself rather than a
// separate pre-count, so concurrent writes cannot skew the reported number.
// A region with no rows rolls back without writing anything.
func (r *PostgresStatusRepository) ClearArea(ctx context.Context, p ClearAreaParams) (*ClearAreaResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO address_history
			(lokalid, address_text, kommune, fylke, old_status, new_status, changed_by, changed_by_name, action_type, notes)
		 SELECT lokalid, address_text, kommune, fylke, current_status, $1, $2, $3, 'bulk_reset', $4
		 FROM address_current_status
		 WHERE kommune = $5 AND fylke = $6`,
		string(domain.StatusUntouched), p.UserID, p.UserName, p.Reason, p.Kommune, p.Fylke,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log reset history: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM address_current_status WHERE kommune = $1 AND fylke = $2`,
		p.Kommune, p.Fylke,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete current statuses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to count deleted rows: %w", err)
	}

	if affected == 0 {
		// Nothing to reset; the rollback discards the (empty) history insert.
		return &ClearAreaResult{Affected: 0}, nil
	}

	var resetLogID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO reset_log (kommune, fylke, reset_by, reset_by_name, addresses_affected, reason)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.Kommune, p.Fylke, p.UserID, p.UserName, affected, p.Reason,
	).Scan(&resetLogID)
	if err != nil {
		return nil, fmt.Errorf("failed to log reset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit area reset: %w", err)
	}

	return &ClearAreaResult{Affected: int(affected), ResetLogID: resetLogID}, nil
}

func scanStatusMap(rows *sql.Rows) (map[string]domain.Status, error) {
	statuses := make(map[string]domain.Status)
	for rows.Next() {
		var lokalid string
		var status sql.NullString
		if err := rows.Scan(&lokalid, &status); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		statuses[lokalid] = domain.Status(status.String)
	}
	return statuses, rows.Err()
}
