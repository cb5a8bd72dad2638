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

type promptRow struct {
	Key       string `db:"prompt_key"`
	Text      string `db:"text"`
	UpdatedAt dbTime `db:"updated_at"`
}

func (r promptRow) toModel() *model.Prompt {
	return &model.Prompt{Key: r.Key, Text: r.Text, UpdatedAt: r.UpdatedAt.Time}
}

type PromptRepository struct {
	db *sqlx.DB
}

func NewPromptRepository(db *sqlx.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

func (r *PromptRepository) FindByKey(ctx context.Context, key string) (*model.Prompt, error) {
	var row promptRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT prompt_key, text, updated_at FROM prompts WHERE prompt_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prompt %s: %w", key, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt: %w", err)
	}
	return row.toModel(), nil
}

func (r *PromptRepository) FindAll(ctx context.Context) ([]*model.Prompt, error) {
	var rows []promptRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT prompt_key, text, updated_at FROM prompts ORDER BY prompt_key`); err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	prompts := make([]*model.Prompt, 0, len(rows))
	for _, row := range rows {
		prompts = append(prompts, row.toModel())
	}
	return prompts, nil
}

func (r *PromptRepository) Upsert(ctx context.Context, prompt *model.Prompt) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM prompts WHERE prompt_key = ?`), prompt.Key); err != nil {
		return false, fmt.Errorf("failed to look up prompt: %w", err)
	}

	created := n == 0
	query := `UPDATE prompts SET text = ?, updated_at = ? WHERE prompt_key = ?`
	args := []interface{}{prompt.Text, prompt.UpdatedAt.UTC(), prompt.Key}
	if created {
		query = `INSERT INTO prompts (text, updated_at, prompt_key) VALUES (?, ?, ?)`
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("failed to save prompt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit prompt: %w", err)
	}
	return created, nil
}
