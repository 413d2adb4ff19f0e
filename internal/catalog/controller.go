// Package catalog keeps the local card list in step with the remote collection.
//
// Each operation makes its remote call first and only touches local state once
// the call succeeded, so a failed call never leaves a partial change behind.
// Calls may overlap; nothing is queued or cancelled, and when two responses
// race for the same record the one applied last wins.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/cards/internal/model"
	"github.com/idilsaglam/cards/internal/notify"
	"github.com/idilsaglam/cards/internal/remote"
)

const DefaultPageSize = 2

// Remote is the collection the controller mirrors. *remote.Client implements it.
type Remote interface {
	List(ctx context.Context, perPage int) (remote.Page, error)
	Create(ctx context.Context, d model.Draft) (remote.Created, error)
	Update(ctx context.Context, id int, d model.Draft) error
	Delete(ctx context.Context, id int) error
}

type Controller struct {
	remote   Remote
	notifier notify.Notifier
	logger   zerolog.Logger
	pageSize int

	mu      sync.Mutex
	records []model.Record
}

type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) { c.pageSize = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func New(r Remote, n notify.Notifier, opts ...Option) *Controller {
	if n == nil {
		n = notify.Discard
	}
	c := &Controller{
		remote:   r,
		notifier: n,
		logger:   zerolog.Nop(),
		pageSize: DefaultPageSize,
		records:  []model.Record{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Records returns a copy of the local list in display order.
func (c *Controller) Records() []model.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len is the number of local records.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Find returns the local record with id.
func (c *Controller) Find(id int) (model.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.Record{}, false
}

// Load replaces the local list with the first page of the collection.
func (c *Controller) Load(ctx context.Context) error {
	page, err := c.remote.List(ctx, c.pageSize)
	if err != nil {
		c.failed(notify.OpLoad, 0, "Failed to fetch records", err)
		return fmt.Errorf("load: %w", err)
	}

	records := make([]model.Record, len(page.Records))
	copy(records, page.Records)

	c.mu.Lock()
	c.records = records
	c.mu.Unlock()

	c.logger.Info().Int("count", len(records)).Int("total", page.Total).Msg("records loaded")
	return nil
}

// CreateBatch sends one create request carrying the last draft and appends
// every draft locally with ids base, base+1, ... in input order, where base is
// the id the service returned.
//
// This is only correct when the service hands out sequential integer ids and
// nobody else creates records between the request and this call returning.
// That is a precondition on the service, not something checked here.
func (c *Controller) CreateBatch(ctx context.Context, drafts []model.Draft) error {
	if len(drafts) == 0 {
		return nil
	}

	created, err := c.remote.Create(ctx, drafts[len(drafts)-1])
	if err != nil {
		c.failed(notify.OpCreate, 0, "Failed to add records", err)
		return fmt.Errorf("create: %w", err)
	}

	base := created.Record.ID
	batch := make([]model.Record, 0, len(drafts))
	for i, d := range drafts {
		batch = append(batch, d.WithID(base+i))
	}

	c.mu.Lock()
	c.records = append(c.records, batch...)
	c.mu.Unlock()

	c.logger.Info().Int("base_id", base).Int("count", len(batch)).Msg("records created")
	c.notifier.Notify(notify.Notice{
		Kind:    notify.Success,
		Op:      notify.OpCreate,
		Title:   "Records Created",
		Message: "Records successfully added",
	})
	return nil
}

// Update sends the patched record for id and, on success, merges the patch
// into the matching local record.
func (c *Controller) Update(ctx context.Context, id int, p model.Patch) error {
	current, _ := c.Find(id)
	body := p.Apply(current).Draft()

	if err := c.remote.Update(ctx, id, body); err != nil {
		c.failed(notify.OpUpdate, id, fmt.Sprintf("Failed to update record ID: %d", id), err)
		return fmt.Errorf("update %d: %w", id, err)
	}

	c.mu.Lock()
	next := make([]model.Record, len(c.records))
	for i, r := range c.records {
		if r.ID == id {
			r = p.Apply(r)
		}
		next[i] = r
	}
	c.records = next
	c.mu.Unlock()

	c.logger.Info().Int("id", id).Msg("record updated")
	c.notifier.Notify(notify.Notice{
		Kind:    notify.Success,
		Op:      notify.OpUpdate,
		ID:      id,
		Title:   "Record Updated",
		Message: fmt.Sprintf("Record ID: %d successfully updated", id),
	})
	return nil
}

// Delete removes id remotely and then locally. Deleting an id that is not in
// the local list succeeds as long as the service accepts it.
func (c *Controller) Delete(ctx context.Context, id int) error {
	if err := c.remote.Delete(ctx, id); err != nil {
		c.failed(notify.OpDelete, id, fmt.Sprintf("Failed to delete record ID: %d", id), err)
		return fmt.Errorf("delete %d: %w", id, err)
	}

	c.mu.Lock()
	next := make([]model.Record, 0, len(c.records))
	for _, r := range c.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	c.records = next
	c.mu.Unlock()

	c.logger.Info().Int("id", id).Msg("record deleted")
	c.notifier.Notify(notify.Notice{
		Kind:    notify.Success,
		Op:      notify.OpDelete,
		ID:      id,
		Title:   "Record Deleted",
		Message: fmt.Sprintf("Record ID: %d successfully deleted", id),
	})
	return nil
}

func (c *Controller) failed(op notify.Op, id int, msg string, err error) {
	c.logger.Error().Err(err).Str("op", string(op)).Int("id", id).Msg("operation failed")
	c.notifier.Notify(notify.Notice{
		Kind:    notify.Failure,
		Op:      op,
		ID:      id,
		Title:   "Error",
		Message: msg,
	})
}
