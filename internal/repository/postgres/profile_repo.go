package postgres

import (
	"context"
	"errors"
	"fmt"

	"match-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id, owner_id, name, age, gender, location, description, tag,
	likes, dislikes, liked_by, disliked_by, matched, version, created_at, updated_at`

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Age, &p.Gender, &p.Location, &p.Description, &p.Tag,
		&p.Likes, &p.Dislikes, &p.LikedBy, &p.DislikedBy, &p.Matched,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (r *profileRepo) queryProfiles(ctx context.Context, query string, args ...any) ([]*domain.Profile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) error {
	p.Normalize()
	query := `
		INSERT INTO profiles (id, owner_id, name, age, gender, location, description, tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING version, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Age, p.Gender, p.Location, p.Description, p.Tag,
	).Scan(&p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, id))
}

func (r *profileRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	if len(ids) == 0 {
		return []*domain.Profile{}, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1::text[]) ORDER BY created_at, id`
	return r.queryProfiles(ctx, query, ids)
}

func (r *profileRepo) List(ctx context.Context) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at, id`
	return r.queryProfiles(ctx, query)
}

func (r *profileRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner_id = $1 ORDER BY created_at, id`
	return r.queryProfiles(ctx, query, ownerID)
}

// Update writes demographic fields only; relationship sets are owned by
// ApplySetOps and never overwritten from a snapshot.
func (r *profileRepo) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET name = $2, age = $3, gender = $4, location = $5, description = $6, tag = $7,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $8
		RETURNING version, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Age, p.Gender, p.Location, p.Description, p.Tag, p.Version,
	).Scan(&p.Version, &p.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update profile: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

func (r *profileRepo) ApplySetOps(ctx context.Context, id string, ops ...domain.SetOp) error {
	applied, err := r.applySetOps(ctx, id, "", ops)
	if err != nil {
		return err
	}
	if !applied {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepo) ApplySetOpsUnlessMatched(ctx context.Context, id, other string, ops ...domain.SetOp) (bool, error) {
	applied, err := r.applySetOps(ctx, id, other, ops)
	if err != nil || applied {
		return applied, err
	}

	// No row updated: either the profile is gone or the guard held.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}

func (r *profileRepo) applySetOps(ctx context.Context, id, unlessMatched string, ops []domain.SetOp) (bool, error) {
	query, args, err := buildSetOpsQuery(id, unlessMatched, ops)
	if err != nil {
		return false, err
	}

	var updated string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("apply set ops: %w", err)
	}
	return true, nil
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profile_tombstones (profile_id) VALUES ($1) ON CONFLICT (profile_id) DO NOTHING`, id)
	if err != nil {
		return fmt.Errorf("record tombstone: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *profileRepo) PendingTombstones(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT profile_id FROM profile_tombstones ORDER BY deleted_at, profile_id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RemoveReferences finds referencing rows through the GIN indexes on the
// relationship sets instead of scanning every profile.
func (r *profileRepo) RemoveReferences(ctx context.Context, deletedID string) (int64, error) {
	query := `
		UPDATE profiles
		SET likes = array_remove(likes, $1),
		    dislikes = array_remove(dislikes, $1),
		    liked_by = array_remove(liked_by, $1),
		    disliked_by = array_remove(disliked_by, $1),
		    matched = array_remove(matched, $1),
		    updated_at = now()
		WHERE likes @> ARRAY[$1]::text[]
		   OR dislikes @> ARRAY[$1]::text[]
		   OR liked_by @> ARRAY[$1]::text[]
		   OR disliked_by @> ARRAY[$1]::text[]
		   OR matched @> ARRAY[$1]::text[]`

	tag, err := r.db.Exec(ctx, query, deletedID)
	if err != nil {
		return 0, fmt.Errorf("remove references to %s: %w", deletedID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *profileRepo) ClearTombstone(ctx context.Context, deletedID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM profile_tombstones WHERE profile_id = $1`, deletedID)
	return err
}
