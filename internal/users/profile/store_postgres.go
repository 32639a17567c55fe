// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/dberr"
	"github.com/phamduc/newsdesk/internal/platform/sec"
	"github.com/phamduc/newsdesk/pkg/pagination"
)

// # Profile Repository

// PostgresRepository implements the Repository interface over users.profile.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the profile Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByUserID retrieves the profile row for an identity.

Description: Primary lookup for the read-through cache. Absence of the row
is a domain-meaningful state, reported as apperr.NotFound.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Hydrated profile entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByUserID(context context.Context, userID string) (*Profile, error) {
	const query = `
		SELECT userid, fullname, avatarurl, role, createdat, updatedat
		FROM users.profile
		WHERE userid = $1`

	profile := &Profile{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Profile not found")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_failed: %w", err)
	}

	return profile, nil
}

/*
Create persists the initial profile row for a fresh identity.

Parameters:
  - context: context.Context
  - profile: *Profile

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, profile *Profile) error {
	const query = `
		INSERT INTO users.profile (
			userid, fullname, avatarurl, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		profile.UserID,
		profile.FullName,
		profile.AvatarURL,
		profile.Role,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "profile_create")
	}

	return nil
}

/*
Update applies a partial patch to the profile's display attributes.

Description: Nil patch fields keep the stored value via COALESCE, so a
PATCH request only touches the attributes it names.

Parameters:
  - context: context.Context
  - userID: string
  - patch: Patch

Returns:
  - error: apperr.NotFound when no profile row exists, or update failures
*/
func (repository *PostgresRepository) Update(context context.Context, userID string, patch Patch) error {
	const query = `
		UPDATE users.profile
		SET fullname  = COALESCE($2, fullname),
		    avatarurl = COALESCE($3, avatarurl),
		    updatedat = $4
		WHERE userid = $1`

	tag, err := repository.pool.Exec(context, query,
		userID,
		patch.FullName,
		patch.AvatarURL,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Profile not found")
	}

	return nil
}

/*
UpdateRole replaces the authorization role for an identity.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) UpdateRole(context context.Context, userID string, role sec.Role) error {
	const query = `
		UPDATE users.profile
		SET role = $2, updatedat = $3
		WHERE userid = $1`

	tag, err := repository.pool.Exec(context, query, userID, role, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_role_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Profile not found")
	}

	return nil
}

/*
Delete removes the profile row entirely.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, userID string) error {
	const query = "DELETE FROM users.profile WHERE userid = $1"
	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_delete_failed: %w", err)
	}
	return nil
}

/*
List returns a page of profiles joined with identity fields for the console.

Description: Supports a free-text search over email and full name. Only
live identities (not soft-deleted) appear.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - search: string (empty means no filter)

Returns:
  - []AdminListing: Console rows
  - int: Total matching rows
  - error: Query failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params, search string) ([]AdminListing, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM users.profile p
		JOIN users.account a ON a.id = p.userid
		WHERE a.deletedat IS NULL
		  AND ($1 = '' OR a.email ILIKE '%' || $1 || '%' OR p.fullname ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_profile_repo_count_failed: %w", err)
	}

	const query = `
		SELECT p.userid, p.fullname, p.avatarurl, p.role, p.createdat, p.updatedat,
		       a.email, a.isverified
		FROM users.profile p
		JOIN users.account a ON a.id = p.userid
		WHERE a.deletedat IS NULL
		  AND ($1 = '' OR a.email ILIKE '%' || $1 || '%' OR p.fullname ILIKE '%' || $1 || '%')
		ORDER BY p.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_profile_repo_list_failed: %w", err)
	}
	defer rows.Close()

	listings := make([]AdminListing, 0, params.Limit)
	for rows.Next() {
		var listing AdminListing
		err := rows.Scan(
			&listing.UserID,
			&listing.FullName,
			&listing.AvatarURL,
			&listing.Role,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.Email,
			&listing.IsVerified,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_profile_repo_scan_failed: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_profile_repo_rows_failed: %w", err)
	}

	return listings, total, nil
}
