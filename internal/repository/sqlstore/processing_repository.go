package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"email-agent/internal/model"
	"email-agent/internal/repository"
)

type processingRow struct {
	ID        string         `db:"id"`
	EmailID   string         `db:"email_id"`
	Category  sql.NullString `db:"category"`
	TasksJSON string         `db:"tasks_json"`
	DraftJSON sql.NullString `db:"draft_json"`
	UpdatedAt dbTime         `db:"updated_at"`
}

func (r processingRow) toModel() (*model.ProcessingResult, error) {
	result := &model.ProcessingResult{
		ID:        r.ID,
		EmailID:   r.EmailID,
		Tasks:     []model.Task{},
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.Category.Valid {
		label := model.Label(r.Category.String)
		result.Category = &label
	}
	if r.TasksJSON != "" {
		if err := json.Unmarshal([]byte(r.TasksJSON), &result.Tasks); err != nil {
			return nil, fmt.Errorf("failed to decode tasks for email %s: %w", r.EmailID, err)
		}
		if result.Tasks == nil {
			result.Tasks = []model.Task{}
		}
	}
	if r.DraftJSON.Valid && r.DraftJSON.String != "" {
		var draft model.DraftContent
		if err := json.Unmarshal([]byte(r.DraftJSON.String), &draft); err != nil {
			return nil, fmt.Errorf("failed to decode draft for email %s: %w", r.EmailID, err)
		}
		result.Draft = &draft
	}
	return result, nil
}

func toProcessingRow(result *model.ProcessingResult) (processingRow, error) {
	tasks := result.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return processingRow{}, fmt.Errorf("failed to encode tasks: %w", err)
	}
	row := processingRow{
		ID:        result.ID,
		EmailID:   result.EmailID,
		TasksJSON: string(tasksJSON),
		UpdatedAt: dbTime{result.UpdatedAt},
	}
	if result.Category != nil {
		row.Category = sql.NullString{String: string(*result.Category), Valid: true}
	}
	if result.Draft != nil {
		draftJSON, err := json.Marshal(result.Draft)
		if err != nil {
			return processingRow{}, fmt.Errorf("failed to encode draft: %w", err)
		}
		row.DraftJSON = sql.NullString{String: string(draftJSON), Valid: true}
	}
	return row, nil
}

const processingColumns = `id, email_id, category, tasks_json, draft_json, updated_at`

type ProcessingRepository struct {
	db *sqlx.DB
}

func NewProcessingRepository(db *sqlx.DB) *ProcessingRepository {
	return &ProcessingRepository{db: db}
}

func (r *ProcessingRepository) FindByEmailID(ctx context.Context, emailID string) (*model.ProcessingResult, error) {
	return findProcessing(ctx, r.db, emailID)
}

func (r *ProcessingRepository) FindAll(ctx context.Context) ([]*model.ProcessingResult, error) {
	var rows []processingRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+processingColumns+` FROM email_processing ORDER BY email_id`); err != nil {
		return nil, fmt.Errorf("failed to list processing results: %w", err)
	}

	results := make([]*model.ProcessingResult, 0, len(rows))
	for _, row := range rows {
		result, err := row.toModel()
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ProcessedEmailIDs lists emails that have been categorized. Rows created
// only to hold a draft are left out so ingestion still categorizes them.
func (r *ProcessingRepository) ProcessedEmailIDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT email_id FROM email_processing WHERE category IS NOT NULL`); err != nil {
		return nil, fmt.Errorf("failed to list processed emails: %w", err)
	}
	processed := make(map[string]bool, len(ids))
	for _, id := range ids {
		processed[id] = true
	}
	return processed, nil
}

func (r *ProcessingRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM email_processing`); err != nil {
		return fmt.Errorf("failed to clear processing results: %w", err)
	}
	return nil
}

// Transact wraps fn in a database transaction that is rolled back on error
// or panic.
func (r *ProcessingRepository) Transact(ctx context.Context, fn func(tx repository.ProcessingTx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("transaction aborted: %v", p)
			return
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&processingTx{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type processingTx struct {
	tx *sqlx.Tx
}

func (t *processingTx) FindByEmailID(ctx context.Context, emailID string) (*model.ProcessingResult, error) {
	return findProcessing(ctx, t.tx, emailID)
}

func (t *processingTx) Upsert(ctx context.Context, result *model.ProcessingResult) error {
	row, err := toProcessingRow(result)
	if err != nil {
		return err
	}

	query := t.tx.Rebind(`
		INSERT INTO email_processing (` + processingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email_id) DO UPDATE SET
			category = excluded.category,
			tasks_json = excluded.tasks_json,
			draft_json = excluded.draft_json,
			updated_at = excluded.updated_at`)

	_, err = t.tx.ExecContext(ctx, query,
		row.ID, row.EmailID, row.Category, row.TasksJSON, row.DraftJSON, row.UpdatedAt.Time.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert processing result: %w", err)
	}
	return nil
}

func findProcessing(ctx context.Context, q sqlx.ExtContext, emailID string) (*model.ProcessingResult, error) {
	var row processingRow
	err := sqlx.GetContext(ctx, q, &row, q.Rebind(`SELECT `+processingColumns+` FROM email_processing WHERE email_id = ?`), emailID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("processing for email %s: %w", emailID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load processing result: %w", err)
	}
	return row.toModel()
}
