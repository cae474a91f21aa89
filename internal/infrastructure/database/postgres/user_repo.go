package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wrenhall/mailsift/internal/domain/entities"
	"github.com/wrenhall/mailsift/internal/domain/repositories"
	"github.com/wrenhall/mailsift/internal/pkg/idgen"
	"github.com/wrenhall/mailsift/internal/pkg/metrics"
)

// pq error code for unique_violation
const pqUniqueViolation = "23505"

// UserRepository implements the UserRepository interface for PostgreSQL
type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) repositories.UserRepository {
	return &UserRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "user")),
	}
}

// userRow represents a user as stored in the database
type userRow struct {
	ID         string    `db:"id"`
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// emailRow represents an email as stored in the database
type emailRow struct {
	ID       string `db:"id"`
	UserID   string `db:"user_id"`
	Position int    `db:"position"`
	Subject  string `db:"subject"`
	Body     string `db:"body"`
	Tag      string `db:"tag"`
}

func (r *userRow) toEntity(emails []emailRow) *entities.User {
	user := &entities.User{
		ID:          r.ID,
		ExternalID:  r.ExternalID,
		DisplayName: r.Name,
		Emails:      make([]entities.Email, 0, len(emails)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, e := range emails {
		user.Emails = append(user.Emails, entities.Email{
			ID:      e.ID,
			Subject: e.Subject,
			Body:    e.Body,
			Tag:     e.Tag,
		})
	}
	return user
}

// Create inserts a user and their initial emails in one transaction.
// A unique violation on external_id surfaces as ErrDuplicateIdentity so the
// caller can re-read the record the concurrent login committed.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("user", "create", time.Since(start), err)
	}()

	if user.ID == "" {
		user.ID = idgen.GenerateID()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.log.Debug("creating user",
		slog.String("id", user.ID),
		slog.String("external_id", user.ExternalID))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := &userRow{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Name:       user.DisplayName,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}

	_, err = tx.NamedExecContext(ctx, `INSERT INTO users (
			id, external_id, name, created_at, updated_at
		) VALUES (
			:id, :external_id, :name, :created_at, :updated_at
		)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			err = repositories.ErrDuplicateIdentity
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for i := range user.Emails {
		if user.Emails[i].ID == "" {
			user.Emails[i].ID = idgen.GenerateID()
		}
		if user.Emails[i].Tag == "" {
			user.Emails[i].Tag = entities.TagUncategorized
		}
		_, err = tx.NamedExecContext(ctx, `INSERT INTO emails (
				id, user_id, position, subject, body, tag
			) VALUES (
				:id, :user_id, :position, :subject, :body, :tag
			)`, &emailRow{
			ID:       user.Emails[i].ID,
			UserID:   user.ID,
			Position: i,
			Subject:  user.Emails[i].Subject,
			Body:     user.Emails[i].Body,
			Tag:      user.Emails[i].Tag,
		})
		if err != nil {
			return fmt.Errorf("failed to create email: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			err = repositories.ErrDuplicateIdentity
			return err
		}
		return fmt.Errorf("failed to commit user creation: %w", err)
	}

	return nil
}

// GetByID retrieves a user and their emails by internal id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.getBy(ctx, "get_by_id", `SELECT id, external_id, name, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

// GetByExternalID retrieves a user and their emails by the provider subject
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.User, error) {
	return r.getBy(ctx, "get_by_external_id", `SELECT id, external_id, name, created_at, updated_at
		FROM users WHERE external_id = $1`, externalID)
}

func (r *UserRepository) getBy(ctx context.Context, operation, query, arg string) (*entities.User, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("user", operation, time.Since(start), err)
	}()

	var row userRow
	err = r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		err = repositories.ErrUserNotFound
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var emails []emailRow
	err = r.db.SelectContext(ctx, &emails, `SELECT id, user_id, position, subject, body, tag
		FROM emails WHERE user_id = $1 ORDER BY position`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get emails: %w", err)
	}

	return row.toEntity(emails), nil
}

// UpdateEmailTags persists the tag of every email on the user in one
// transaction. Last write wins.
func (r *UserRepository) UpdateEmailTags(ctx context.Context, user *entities.User) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("user", "update_email_tags", time.Since(start), err)
	}()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range user.Emails {
		if _, err = tx.ExecContext(ctx,
			`UPDATE emails SET tag = $1 WHERE id = $2 AND user_id = $3`,
			e.Tag, e.ID, user.ID); err != nil {
			return fmt.Errorf("failed to update email tag: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET updated_at = $1 WHERE id = $2`,
		time.Now(), user.ID); err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tag update: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
