package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

const entryColumns = `id, title, original_title, type, link, created_at, poster_path, release_date,
	vote_average, genres, runtime, overview, tmdb_id, watched, rating`

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e    domain.Entry
		kind string
	)
	err := row.Scan(&e.ID, &e.Title, &e.OriginalTitle, &kind, &e.Link, &e.CreatedAt,
		&e.PosterPath, &e.ReleaseDate, &e.VoteAverage, &e.Genres, &e.Runtime,
		&e.Overview, &e.CatalogID, &e.Watched, &e.Rating)
	if err != nil {
		return nil, err
	}
	e.Kind = domain.Kind(kind)
	if e.Genres == nil {
		e.Genres = []string{}
	}
	return &e, nil
}

// List returns every entry, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+`
		FROM watchlist
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}
	return entries, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Entry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM watchlist WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("query entry id=%s: %w", id, err)
	}
	return e, nil
}

// Insert stores a new entry and returns the row as persisted.
func (r *Repository) Insert(ctx context.Context, in domain.NewEntry) (*domain.Entry, error) {
	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}

	e, err := scanEntry(r.pool.QueryRow(ctx,
		`INSERT INTO watchlist (id, title, original_title, type, link, poster_path, release_date,
			vote_average, genres, runtime, overview, tmdb_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+entryColumns,
		uuid.NewString(), in.Title, in.OriginalTitle, string(in.Kind), in.Link, in.PosterPath,
		in.ReleaseDate, in.VoteAverage, genres, in.Runtime, in.Overview, in.CatalogID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert entry %q: %w", in.Title, err)
	}
	return e, nil
}

// Delete removes the entry. A missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM watchlist WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete entry id=%s: %w", id, err)
	}
	return nil
}

// MarkWatched flags an unwatched entry as watched with an optional rating.
func (r *Repository) MarkWatched(ctx context.Context, id string, rating *int) (*domain.Entry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx,
		`UPDATE watchlist SET watched = true, rating = $2
		WHERE id = $1 AND watched = false
		RETURNING `+entryColumns,
		id, rating,
	))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mark entry id=%s watched: %w", id, err)
	}

	var watched bool
	err = r.pool.QueryRow(ctx, `SELECT watched FROM watchlist WHERE id = $1`, id).Scan(&watched)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("query entry id=%s: %w", id, err)
	}
	return nil, domain.ErrAlreadyWatched
}
