package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/platform/logger"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// GratitudeStore implements store.GratitudeStore backed by PostgreSQL.
// Tags are stored as a JSONB array. Title uniqueness is enforced per owner
// by the gratitudes_user_id_title_key constraint.
type GratitudeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewGratitudeStore creates a PostgreSQL implementation of
// store.GratitudeStore. The connection (or transaction) lifecycle is
// managed by the caller.
func NewGratitudeStore(db store.DBTX, log *slog.Logger) *GratitudeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &GratitudeStore{
		db:     db,
		logger: log.With(slog.String("component", "gratitude_store")),
	}
}

var _ store.GratitudeStore = (*GratitudeStore)(nil)

// Create implements store.GratitudeStore.Create.
func (s *GratitudeStore) Create(ctx context.Context, entry *domain.Gratitude) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return err
	}

	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO gratitudes (id, user_id, title, details, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Title,
		entry.Details,
		tags,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		// A foreign key violation here means the owner row is gone.
		if IsForeignKeyViolation(err) {
			log.Warn("owner missing on gratitude create",
				slog.String("user_id", entry.UserID.String()))
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		mapped := MapError(err)
		if store.IsDuplicate(mapped) {
			log.Warn("duplicate title on gratitude create",
				slog.String("user_id", entry.UserID.String()),
				slog.String("title", entry.Title))
			return mapped
		}
		log.Error("failed to create gratitude",
			slog.String("error", err.Error()),
			slog.String("gratitude_id", entry.ID.String()))
		return mapped
	}

	log.Info("gratitude created",
		slog.String("gratitude_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()))
	return nil
}

// ListByOwner implements store.GratitudeStore.ListByOwner.
func (s *GratitudeStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.GratitudeFilter,
) ([]*domain.Gratitude, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, details, tags, created_at, updated_at
		FROM gratitudes
		WHERE user_id = $1
	`
	args := []any{ownerID}
	if filter.Tag != "" {
		query += ` AND tags @> $2`
		tag, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, fmt.Errorf("failed to encode tag filter: %w", err)
		}
		args = append(args, tag)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list gratitudes",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := []*domain.Gratitude{}
	for rows.Next() {
		entry, err := scanGratitude(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

// GetByID implements store.GratitudeStore.GetByID.
func (s *GratitudeStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error) {
	query := `
		SELECT id, user_id, title, details, tags, created_at, updated_at
		FROM gratitudes
		WHERE id = $1 AND user_id = $2
	`

	row := s.db.QueryRowContext(ctx, query, id, ownerID)
	entry, err := scanGratitude(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGratitudeNotFound
		}
		return nil, MapError(err)
	}
	return entry, nil
}

// Update implements store.GratitudeStore.Update. The patch is applied by
// reading the owned row, mutating it in memory, and writing it back; the
// per-owner unique constraint guards concurrent title collisions.
func (s *GratitudeStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.GratitudePatch,
) (*domain.Gratitude, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(entry); err != nil {
		return nil, err
	}

	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		UPDATE gratitudes
		SET title = $1, details = $2, tags = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		entry.Title,
		entry.Details,
		tags,
		entry.UpdatedAt,
		id,
		ownerID,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicate(mapped) {
			log.Warn("duplicate title on gratitude update",
				slog.String("gratitude_id", id.String()))
			return nil, mapped
		}
		log.Error("failed to update gratitude",
			slog.String("error", err.Error()),
			slog.String("gratitude_id", id.String()))
		return nil, mapped
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrGratitudeNotFound
	}

	log.Info("gratitude updated", slog.String("gratitude_id", id.String()))
	return entry, nil
}

// Delete implements store.GratitudeStore.Delete.
func (s *GratitudeStore) Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM gratitudes
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, details, tags, created_at, updated_at
	`

	row := s.db.QueryRowContext(ctx, query, id, ownerID)
	entry, err := scanGratitude(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGratitudeNotFound
		}
		log.Error("failed to delete gratitude",
			slog.String("error", err.Error()),
			slog.String("gratitude_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("gratitude deleted", slog.String("gratitude_id", id.String()))
	return entry, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGratitude(row scanner) (*domain.Gratitude, error) {
	var entry domain.Gratitude
	var tags []byte

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.Details,
		&tags,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &entry.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return &entry, nil
}
