package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"email-agent/internal/model"
	"email-agent/internal/repository"
)

type InMemoryEmailRepository struct {
	emails map[string]*model.Email
	order  []string
	mutex  sync.RWMutex
}

func NewInMemoryEmailRepository() *InMemoryEmailRepository {
	return &InMemoryEmailRepository{
		emails: make(map[string]*model.Email),
	}
}

func (r *InMemoryEmailRepository) Create(ctx context.Context, email *model.Email) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.emails[email.ID]; !exists {
		r.order = append(r.order, email.ID)
	}
	r.emails[email.ID] = email
	return nil
}

func (r *InMemoryEmailRepository) FindByID(ctx context.Context, id string) (*model.Email, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	email, exists := r.emails[id]
	if !exists {
		return nil, fmt.Errorf("email %s: %w", id, repository.ErrNotFound)
	}
	return email, nil
}

func (r *InMemoryEmailRepository) FindAll(ctx context.Context) ([]*model.Email, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	emails := make([]*model.Email, 0, len(r.order))
	for _, id := range r.order {
		emails = append(emails, r.emails[id])
	}
	sort.SliceStable(emails, func(i, j int) bool {
		return emails[i].Timestamp.Before(emails[j].Timestamp)
	})
	return emails, nil
}

func (r *InMemoryEmailRepository) Count(ctx context.Context) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.emails), nil
}

func (r *InMemoryEmailRepository) DeleteAll(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.emails = make(map[string]*model.Email)
	r.order = nil
	return nil
}

type InMemoryProcessingRepository struct {
	results map[string]*model.ProcessingResult
	mutex   sync.RWMutex
}

func NewInMemoryProcessingRepository() *InMemoryProcessingRepository {
	return &InMemoryProcessingRepository{
		results: make(map[string]*model.ProcessingResult),
	}
}

func (r *InMemoryProcessingRepository) FindByEmailID(ctx context.Context, emailID string) (*model.ProcessingResult, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result, exists := r.results[emailID]
	if !exists {
		return nil, fmt.Errorf("processing for email %s: %w", emailID, repository.ErrNotFound)
	}
	return cloneResult(result), nil
}

func (r *InMemoryProcessingRepository) FindAll(ctx context.Context) ([]*model.ProcessingResult, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	results := make([]*model.ProcessingResult, 0, len(r.results))
	for _, result := range r.results {
		results = append(results, cloneResult(result))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].EmailID < results[j].EmailID })
	return results, nil
}

func (r *InMemoryProcessingRepository) ProcessedEmailIDs(ctx context.Context) (map[string]bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := make(map[string]bool, len(r.results))
	for id, result := range r.results {
		if result.Category == nil {
			continue
		}
		ids[id] = true
	}
	return ids, nil
}

func (r *InMemoryProcessingRepository) DeleteAll(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.results = make(map[string]*model.ProcessingResult)
	return nil
}

// Transact holds the write lock for the whole unit of work and applies the
// buffered writes only when fn succeeds.
func (r *InMemoryProcessingRepository) Transact(ctx context.Context, fn func(tx repository.ProcessingTx) error) (err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	tx := &memoryProcessingTx{committed: r.results, pending: make(map[string]*model.ProcessingResult)}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("transaction aborted: %v", p)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	for id, result := range tx.pending {
		r.results[id] = result
	}
	return nil
}

type memoryProcessingTx struct {
	committed map[string]*model.ProcessingResult
	pending   map[string]*model.ProcessingResult
}

func (tx *memoryProcessingTx) FindByEmailID(ctx context.Context, emailID string) (*model.ProcessingResult, error) {
	if result, ok := tx.pending[emailID]; ok {
		return cloneResult(result), nil
	}
	if result, ok := tx.committed[emailID]; ok {
		return cloneResult(result), nil
	}
	return nil, fmt.Errorf("processing for email %s: %w", emailID, repository.ErrNotFound)
}

func (tx *memoryProcessingTx) Upsert(ctx context.Context, result *model.ProcessingResult) error {
	if result.EmailID == "" {
		return fmt.Errorf("processing result has no email id")
	}
	tx.pending[result.EmailID] = cloneResult(result)
	return nil
}

func cloneResult(result *model.ProcessingResult) *model.ProcessingResult {
	c := *result
	c.Tasks = append([]model.Task(nil), result.Tasks...)
	if c.Tasks == nil {
		c.Tasks = []model.Task{}
	}
	if result.Category != nil {
		label := *result.Category
		c.Category = &label
	}
	if result.Draft != nil {
		draft := *result.Draft
		c.Draft = &draft
	}
	return &c
}

type InMemoryPromptRepository struct {
	prompts map[string]*model.Prompt
	mutex   sync.RWMutex
}

func NewInMemoryPromptRepository() *InMemoryPromptRepository {
	return &InMemoryPromptRepository{
		prompts: make(map[string]*model.Prompt),
	}
}

func (r *InMemoryPromptRepository) FindByKey(ctx context.Context, key string) (*model.Prompt, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	prompt, exists := r.prompts[key]
	if !exists {
		return nil, fmt.Errorf("prompt %s: %w", key, repository.ErrNotFound)
	}
	p := *prompt
	return &p, nil
}

func (r *InMemoryPromptRepository) FindAll(ctx context.Context) ([]*model.Prompt, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	prompts := make([]*model.Prompt, 0, len(r.prompts))
	for _, prompt := range r.prompts {
		p := *prompt
		prompts = append(prompts, &p)
	}
	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Key < prompts[j].Key })
	return prompts, nil
}

func (r *InMemoryPromptRepository) Upsert(ctx context.Context, prompt *model.Prompt) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, exists := r.prompts[prompt.Key]
	p := *prompt
	r.prompts[prompt.Key] = &p
	return !exists, nil
}

type InMemoryDraftRepository struct {
	drafts map[string]*model.Draft
	order  []string
	mutex  sync.RWMutex
}

func NewInMemoryDraftRepository() *InMemoryDraftRepository {
	return &InMemoryDraftRepository{
		drafts: make(map[string]*model.Draft),
	}
}

func (r *InMemoryDraftRepository) Create(ctx context.Context, draft *model.Draft) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.drafts[draft.ID]; !exists {
		r.order = append(r.order, draft.ID)
	}
	r.drafts[draft.ID] = draft
	return nil
}

func (r *InMemoryDraftRepository) FindByID(ctx context.Context, id string) (*model.Draft, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	draft, exists := r.drafts[id]
	if !exists {
		return nil, fmt.Errorf("draft %s: %w", id, repository.ErrNotFound)
	}
	return draft, nil
}

// FindAll returns drafts newest first.
func (r *InMemoryDraftRepository) FindAll(ctx context.Context) ([]*model.Draft, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	drafts := make([]*model.Draft, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		drafts = append(drafts, r.drafts[r.order[i]])
	}
	return drafts, nil
}

func (r *InMemoryDraftRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.deleteLocked(id) {
		return fmt.Errorf("draft %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *InMemoryDraftRepository) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	deleted := []string{}
	for _, id := range ids {
		if r.deleteLocked(id) {
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}

func (r *InMemoryDraftRepository) deleteLocked(id string) bool {
	if _, exists := r.drafts[id]; !exists {
		return false
	}
	delete(r.drafts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
