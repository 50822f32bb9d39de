package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgUniqueViolation = "23505"

var _ domain.PlanRepository = (*PostgresPlanRepository)(nil)

type PostgresPlanRepository struct {
	db *sqlx.DB
}

func NewPostgresPlanRepository(db *sqlx.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

type planRow struct {
	ID                 string     `db:"id"`
	UserID             string     `db:"user_id"`
	Name               string     `db:"name"`
	Description        string     `db:"description"`
	Schedule           []byte     `db:"schedule"`
	IsActive           bool       `db:"is_active"`
	ActiveDays         int        `db:"active_days"`
	WeeklyFastingHours float64    `db:"weekly_fasting_hours"`
	Version            int        `db:"version"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at"`
}

const planColumns = `
	id, user_id, name, description, schedule, is_active,
	active_days, weekly_fasting_hours,
	version, created_at, updated_at, deleted_at`

func (row planRow) toDomain() (*domain.SchedulePlan, error) {
	var schedule domain.WeeklySchedule
	if err := json.Unmarshal(row.Schedule, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule of plan %s: %w", row.ID, err)
	}

	return domain.RestoreSchedulePlan(domain.SchedulePlan{
		ID:          row.ID,
		UserID:      row.UserID,
		Name:        row.Name,
		Description: row.Description,
		Schedule:    schedule,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		DeletedAt:   row.DeletedAt,
	}, row.IsActive), nil
}

func rowsToDomain(rows []planRow) ([]*domain.SchedulePlan, error) {
	plans := make([]*domain.SchedulePlan, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresPlanRepository) Create(ctx context.Context, p *domain.SchedulePlan) error {
	scheduleJSON, err := json.Marshal(p.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	summary := p.Summary()

	query := `
        INSERT INTO window_plans (
            id, user_id, name, description, schedule, is_active,
            active_days, weekly_fasting_hours,
            version, created_at, updated_at, deleted_at
        ) VALUES (
            $1, $2, $3, $4, $5, FALSE,
            $6, $7,
            1, $8, $9, NULL
        )`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Name, p.Description, string(scheduleJSON),
		summary.ActiveDays, summary.TotalFastingHours,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPlanConflict
		}
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	p.Version = 1
	return nil
}

func (r *PostgresPlanRepository) GetByID(ctx context.Context, id string) (*domain.SchedulePlan, error) {
	query := `SELECT ` + planColumns + ` FROM window_plans WHERE id = $1 AND deleted_at IS NULL`

	var row planRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return row.toDomain()
}

func (r *PostgresPlanRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.SchedulePlan, error) {
	query := `
        SELECT ` + planColumns + ` FROM window_plans
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at ASC, id ASC`

	var rows []planRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return rowsToDomain(rows)
}

func (r *PostgresPlanRepository) Update(ctx context.Context, p *domain.SchedulePlan) error {
	scheduleJSON, err := json.Marshal(p.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	query := `
        UPDATE window_plans SET
            name=$1, description=$2, schedule=$3,
            updated_at=NOW(), version = version + 1
        WHERE id=$4 AND version=$5 AND deleted_at IS NULL
        RETURNING version, updated_at`

	var newVersion int
	var newUpdatedAt time.Time

	err = r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, string(scheduleJSON),
		p.ID, p.Version,
	).Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM window_plans WHERE id = $1 AND deleted_at IS NULL`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, p.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrPlanNotFound
			}
			return domain.ErrPlanConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	p.Version = newVersion
	p.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresPlanRepository) Activate(ctx context.Context, userID, planID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activation: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var lockedID string
	err = tx.GetContext(ctx, &lockedID, `
        SELECT id FROM window_plans
        WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
        FOR UPDATE`, planID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPlanNotFound
		}
		return fmt.Errorf("activation lookup failed: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE window_plans SET is_active = FALSE, updated_at = NOW()
        WHERE user_id = $1 AND is_active AND id <> $2`, userID, planID)
	if err != nil {
		return fmt.Errorf("deactivate siblings failed: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE window_plans SET is_active = TRUE, updated_at = NOW()
        WHERE id = $1 AND NOT is_active`, planID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPlanConflict
		}
		return fmt.Errorf("activate plan failed: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit activation: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepository) Delete(ctx context.Context, userID, id string) error {
	query := `
        UPDATE window_plans
        SET deleted_at = NOW(), updated_at = NOW(), is_active = FALSE, version = version + 1
        WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

func (r *PostgresPlanRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.SchedulePlan, error) {
	query := `
        SELECT ` + planColumns + ` FROM window_plans
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	var rows []planRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, since); err != nil {
		return nil, fmt.Errorf("sync query error: %w", err)
	}

	return rowsToDomain(rows)
}

func (r *PostgresPlanRepository) UpdateSummary(ctx context.Context, id string, summary domain.WeeklySummary) error {
	query := `
        UPDATE window_plans
        SET active_days = $1, weekly_fasting_hours = $2
        WHERE id = $3 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, summary.ActiveDays, summary.TotalFastingHours, id)
	if err != nil {
		return fmt.Errorf("update summary failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}
