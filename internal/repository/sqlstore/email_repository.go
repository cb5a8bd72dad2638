package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"email-agent/internal/model"
	"email-agent/internal/repository"
)

type emailRow struct {
	ID         string         `db:"id"`
	Sender     string         `db:"sender"`
	Recipients sql.NullString `db:"recipients"`
	Subject    string         `db:"subject"`
	Body       string         `db:"body"`
	ReceivedAt dbTime         `db:"received_at"`
	CreatedAt  dbTime         `db:"created_at"`
}

func (r emailRow) toModel() *model.Email {
	return &model.Email{
		ID:         r.ID,
		Sender:     r.Sender,
		Recipients: r.Recipients.String,
		Subject:    r.Subject,
		Body:       r.Body,
		Timestamp:  r.ReceivedAt.Time,
		CreatedAt:  r.CreatedAt.Time,
	}
}

const emailColumns = `id, sender, recipients, subject, body, received_at, created_at`

type EmailRepository struct {
	db *sqlx.DB
}

func NewEmailRepository(db *sqlx.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

func (r *EmailRepository) Create(ctx context.Context, email *model.Email) error {
	query := r.db.Rebind(`
		INSERT INTO emails (` + emailColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			sender = excluded.sender,
			recipients = excluded.recipients,
			subject = excluded.subject,
			body = excluded.body,
			received_at = excluded.received_at`)

	_, err := r.db.ExecContext(ctx, query,
		email.ID, email.Sender, sql.NullString{String: email.Recipients, Valid: email.Recipients != ""},
		email.Subject, email.Body, email.Timestamp.UTC(), email.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert email: %w", err)
	}
	return nil
}

func (r *EmailRepository) FindByID(ctx context.Context, id string) (*model.Email, error) {
	var row emailRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+emailColumns+` FROM emails WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("email %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load email: %w", err)
	}
	return row.toModel(), nil
}

func (r *EmailRepository) FindAll(ctx context.Context) ([]*model.Email, error) {
	var rows []emailRow
	query := `SELECT ` + emailColumns + ` FROM emails ORDER BY received_at ASC, ` + orderColumn(r.db) + ` ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}

	emails := make([]*model.Email, 0, len(rows))
	for _, row := range rows {
		emails = append(emails, row.toModel())
	}
	return emails, nil
}

func (r *EmailRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM emails`); err != nil {
		return 0, fmt.Errorf("failed to count emails: %w", err)
	}
	return n, nil
}

// DeleteAll also clears processing results, which reference emails.
func (r *EmailRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM email_processing`, `DELETE FROM emails`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear inbox: %w", err)
		}
	}
	return tx.Commit()
}
