package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"travenion/internal/domain"
)

// AttractionRepo defines the persistence operations for Attractions.
//
// Re-sequencing a day is a read-modify-write over several rows, so the
// mutating service paths run inside InTx: list the day's rows with a row lock,
// compute the new visit orders in memory, then write them back. Operations on
// different days never contend, since the lock covers one day's rows only.
type AttractionRepo interface {
	// InTx runs fn against a transaction-scoped copy of this repo. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(AttractionRepo) error) error

	// Create inserts a new attraction, visit order included, and returns the
	// persisted record.
	Create(ctx context.Context, a domain.Attraction) (domain.Attraction, error)

	// GetByID retrieves a single attraction by its UUID primary key.
	// Returns domain.ErrNotFound if no attraction with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Attraction, error)

	// ListByDayID returns all attractions of a day ordered by visit_order ascending.
	ListByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.Attraction, error)

	// ListByDayIDForUpdate is ListByDayID with a FOR UPDATE row lock, so a
	// re-sequencing transaction serializes against others on the same day.
	ListByDayIDForUpdate(ctx context.Context, dayID uuid.UUID) ([]domain.Attraction, error)

	// Update overwrites the content fields of an attraction (not its visit
	// order). Returns domain.ErrNotFound if no attraction with that ID exists.
	Update(ctx context.Context, a domain.Attraction) (domain.Attraction, error)

	// UpdateOrders writes the visit orders of the given attractions in one
	// batch. Returns domain.ErrConflict if any attraction no longer exists,
	// which indicates a concurrent modification of the day.
	UpdateOrders(ctx context.Context, attrs []domain.Attraction) error

	// Delete removes an attraction by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByDayID removes all attractions of a day. Used by bulk replace.
	DeleteByDayID(ctx context.Context, dayID uuid.UUID) error
}

// pgAttractionRepo is the Postgres implementation of AttractionRepo.
type pgAttractionRepo struct {
	db db
}

// NewAttractionRepo constructs an AttractionRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx;
// InTx then nests via a savepoint, so rollback isolation is preserved.
func NewAttractionRepo(db db) AttractionRepo {
	return &pgAttractionRepo{db: db}
}

const attractionColumns = `id, day_id, name, address, description, notes,
	latitude, longitude, estimated_duration, visit_order, created_at, updated_at`

func (r *pgAttractionRepo) InTx(ctx context.Context, fn func(AttractionRepo) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.AttractionRepo.InTx: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(&pgAttractionRepo{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.AttractionRepo.InTx: commit: %w", err)
	}
	return nil
}

func (r *pgAttractionRepo) Create(ctx context.Context, a domain.Attraction) (domain.Attraction, error) {
	const q = `
		INSERT INTO attractions (day_id, name, address, description, notes,
			latitude, longitude, estimated_duration, visit_order)
		VALUES (@day_id, @name, @address, @description, @notes,
			@latitude, @longitude, @estimated_duration, @visit_order)
		RETURNING ` + attractionColumns

	args := pgx.NamedArgs{
		"day_id":             a.DayID,
		"name":               a.Name,
		"address":            a.Address,
		"description":        a.Description,
		"notes":              a.Notes,
		"latitude":           a.Latitude,
		"longitude":          a.Longitude,
		"estimated_duration": a.EstimatedDuration,
		"visit_order":        a.VisitOrder,
	}

	result, err := scanAttraction(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("repo.AttractionRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAttractionRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Attraction, error) {
	const q = `SELECT ` + attractionColumns + ` FROM attractions WHERE id = @id`

	result, err := scanAttraction(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("repo.AttractionRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAttractionRepo) ListByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.Attraction, error) {
	return r.listByDayID(ctx, dayID, false)
}

func (r *pgAttractionRepo) ListByDayIDForUpdate(ctx context.Context, dayID uuid.UUID) ([]domain.Attraction, error) {
	return r.listByDayID(ctx, dayID, true)
}

func (r *pgAttractionRepo) listByDayID(ctx context.Context, dayID uuid.UUID, forUpdate bool) ([]domain.Attraction, error) {
	q := `
		SELECT ` + attractionColumns + `
		FROM attractions
		WHERE day_id = @day_id
		ORDER BY visit_order ASC`
	if forUpdate {
		q += `
		FOR UPDATE`
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.AttractionRepo.ListByDayID: %w", err)
	}
	defer rows.Close()

	var attrs []domain.Attraction
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AttractionRepo.ListByDayID: scan: %w", err)
		}
		attrs = append(attrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AttractionRepo.ListByDayID: rows: %w", err)
	}
	return attrs, nil
}

func (r *pgAttractionRepo) Update(ctx context.Context, a domain.Attraction) (domain.Attraction, error) {
	const q = `
		UPDATE attractions
		SET name               = @name,
		    address            = @address,
		    description        = @description,
		    notes              = @notes,
		    latitude           = @latitude,
		    longitude          = @longitude,
		    estimated_duration = @estimated_duration,
		    updated_at         = now()
		WHERE id = @id
		RETURNING ` + attractionColumns

	args := pgx.NamedArgs{
		"id":                 a.ID,
		"name":               a.Name,
		"address":            a.Address,
		"description":        a.Description,
		"notes":              a.Notes,
		"latitude":           a.Latitude,
		"longitude":          a.Longitude,
		"estimated_duration": a.EstimatedDuration,
	}

	result, err := scanAttraction(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("repo.AttractionRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgAttractionRepo) UpdateOrders(ctx context.Context, attrs []domain.Attraction) error {
	if len(attrs) == 0 {
		return nil
	}

	const q = `UPDATE attractions SET visit_order = @visit_order, updated_at = now() WHERE id = @id`

	batch := &pgx.Batch{}
	for _, a := range attrs {
		batch.Queue(q, pgx.NamedArgs{"id": a.ID, "visit_order": a.VisitOrder})
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range attrs {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("repo.AttractionRepo.UpdateOrders: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// A row vanished between read and write: the day was modified
			// outside this transaction's snapshot.
			return fmt.Errorf("repo.AttractionRepo.UpdateOrders: %w", domain.ErrConflict)
		}
	}
	return nil
}

func (r *pgAttractionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM attractions WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AttractionRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AttractionRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgAttractionRepo) DeleteByDayID(ctx context.Context, dayID uuid.UUID) error {
	const q = `DELETE FROM attractions WHERE day_id = @day_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"day_id": dayID}); err != nil {
		return fmt.Errorf("repo.AttractionRepo.DeleteByDayID: %w", err)
	}
	return nil
}

// scanAttraction maps a single database row into a domain.Attraction.
// It handles the UUID and nullable coordinate/duration conversions.
func scanAttraction(s scanner) (domain.Attraction, error) {
	var (
		a        domain.Attraction
		id       pgtype.UUID
		dayID    pgtype.UUID
		lat      pgtype.Float8
		lng      pgtype.Float8
		duration pgtype.Int4
	)

	err := s.Scan(&id, &dayID, &a.Name, &a.Address, &a.Description, &a.Notes,
		&lat, &lng, &duration, &a.VisitOrder, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Attraction{}, domain.ErrNotFound
		}
		return domain.Attraction{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.DayID = uuid.UUID(dayID.Bytes)
	if lat.Valid {
		v := lat.Float64
		a.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		a.Longitude = &v
	}
	if duration.Valid {
		v := int(duration.Int32)
		a.EstimatedDuration = &v
	}
	return a, nil
}
