package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/persistence"
)

const slotColumns = `id, opportunity_id, organizer_id, starts_at, ends_at, hosting_status, created_at, updated_at`

// SlotRepository implements persistence.SlotRepository using SQLite
type SlotRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewSlotRepository creates a new SQLite slot repository
func NewSlotRepository(pool *ConnectionPool) *SlotRepository {
	return &SlotRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

// CreateSlots inserts the batch in a single transaction. Either every slot is
// stored or none is.
func (r *SlotRepository) CreateSlots(ctx context.Context, slots []persistence.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	for _, slot := range slots {
		if err := validateSlot(slot); err != nil {
			return err
		}
	}

	query := `INSERT INTO slots (` + slotColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			stmt, err := tx.PrepareContext(ctx, query)
			if err != nil {
				return err
			}
			defer stmt.Close()

			for _, slot := range slots {
				if _, err := stmt.ExecContext(ctx,
					slot.ID,
					slot.OpportunityID,
					slot.OrganizerID,
					formatTime(slot.StartAt),
					formatTime(slot.EndAt),
					string(slot.HostingStatus),
					formatTime(slot.CreatedAt),
					formatTime(slot.UpdatedAt),
				); err != nil {
					return fmt.Errorf("insert slot %s: %w", slot.ID, err)
				}
			}
			return nil
		})
	})
}

// GetSlot retrieves a slot by ID.
func (r *SlotRepository) GetSlot(ctx context.Context, id string) (persistence.Slot, error) {
	if id == "" {
		return persistence.Slot{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)
	slot, err := scanSlot(row)
	if err != nil {
		return persistence.Slot{}, r.mapper.MapError(err)
	}
	return slot, nil
}

// UpdateSlot replaces the mutable fields of a slot. Opportunity, organizer and
// creation time are fixed at insert.
func (r *SlotRepository) UpdateSlot(ctx context.Context, slot persistence.Slot) error {
	if err := validateSlot(slot); err != nil {
		return err
	}

	query := `
		UPDATE slots
		SET starts_at = ?, ends_at = ?, hosting_status = ?, updated_at = ?
		WHERE id = ?
	`

	return r.retry.WithRetry(ctx, func() error {
		result, err := r.helper.Exec(ctx, query,
			formatTime(slot.StartAt),
			formatTime(slot.EndAt),
			string(slot.HostingStatus),
			formatTime(slot.UpdatedAt),
			slot.ID,
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// ListSlots returns slots matching filter ordered by start time.
func (r *SlotRepository) ListSlots(ctx context.Context, filter persistence.SlotFilter) ([]persistence.Slot, error) {
	query, args := buildSlotListQuery(filter)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var slots []persistence.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return slots, nil
}

func buildSlotListQuery(filter persistence.SlotFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.OpportunityID != "" {
		conditions = append(conditions, "opportunity_id = ?")
		args = append(args, filter.OpportunityID)
	}
	if filter.HostingStatus != "" {
		conditions = append(conditions, "hosting_status = ?")
		args = append(args, string(filter.HostingStatus))
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, "starts_at > ?")
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.EndsBefore != nil {
		conditions = append(conditions, "ends_at <= ?")
		args = append(args, formatTime(*filter.EndsBefore))
	}

	query := `SELECT ` + slotColumns + ` FROM slots`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY starts_at ASC, id ASC"

	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (persistence.Slot, error) {
	var slot persistence.Slot
	var status, startsAt, endsAt, createdAt, updatedAt string

	if err := row.Scan(
		&slot.ID,
		&slot.OpportunityID,
		&slot.OrganizerID,
		&startsAt,
		&endsAt,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Slot{}, err
	}

	var err error
	if slot.StartAt, err = parseTime("starts_at", startsAt); err != nil {
		return persistence.Slot{}, err
	}
	if slot.EndAt, err = parseTime("ends_at", endsAt); err != nil {
		return persistence.Slot{}, err
	}
	if slot.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Slot{}, err
	}
	if slot.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.Slot{}, err
	}
	slot.HostingStatus = domain.HostingStatus(status)

	return slot, nil
}

func validateSlot(slot persistence.Slot) error {
	if slot.ID == "" || !slot.HostingStatus.Valid() {
		return persistence.ErrConstraintViolation
	}
	// Storage keeps second precision.
	if !slot.EndAt.Truncate(time.Second).After(slot.StartAt.Truncate(time.Second)) {
		return persistence.ErrConstraintViolation
	}
	return nil
}
