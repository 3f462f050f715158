// Package content implements the persistence fallback contract shared by
// every record kind: writes and reads go to the primary database store
// first and degrade to the local JSON file store when the primary is
// unreachable, tagging each result with the store that actually served it.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"selam/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrStoreUnavailable = errors.New("no store available")
)

// Source identifies which store served a read or accepted a write.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceLocal   Source = "local"
)

// Filter restricts a list to records whose named fields equal the given
// values. Keys are field names as they appear in both the database column
// set and the record's json tags (e.g. "type", "category").
type Filter map[string]string

// Entity is implemented by all record types via pointer receivers.
type Entity interface {
	EntityID() string
	StampNew(id string, at time.Time)
}

// PrimaryStore is the remote database behind a coordinator. All errors
// propagate; the coordinator is the only legitimate catcher.
type PrimaryStore[T Entity, P any] interface {
	Insert(ctx context.Context, record T) error
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	FindOne(ctx context.Context, id string) (T, error)
	UpdateOne(ctx context.Context, id string, patch P) (T, error)
	DeleteOne(ctx context.Context, id string) (bool, error)
}

// LocalStore is the last-resort file store. It never returns errors;
// failures surface as empty lists or false.
type LocalStore[T Entity, P any] interface {
	ReadAll() []T
	Append(record T) bool
	Update(id string, patch P) (T, bool)
	Remove(id string) bool
}

// Coordinator gives route handlers a single call per operation that works
// regardless of primary-store availability. One instance per record kind,
// all instances sharing this implementation.
type Coordinator[T Entity, P any] struct {
	kind    string
	primary PrimaryStore[T, P] // nil when no database is configured
	local   LocalStore[T, P]
	logger  *logrus.Logger
	timeout time.Duration
}

func NewCoordinator[T Entity, P any](
	kind string,
	primary PrimaryStore[T, P],
	local LocalStore[T, P],
	logger *logrus.Logger,
	timeout time.Duration,
) *Coordinator[T, P] {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Coordinator[T, P]{
		kind:    kind,
		primary: primary,
		local:   local,
		logger:  logger,
		timeout: timeout,
	}
}

// Save stamps the record with an id and timestamps, then commits it to the
// primary store, falling back to the local store on failure. The record is
// mutated in place; the returned source says where it landed.
func (c *Coordinator[T, P]) Save(ctx context.Context, record T) (Source, error) {
	record.StampNew(utils.NanoID(), time.Now().UTC())

	if c.primary != nil {
		err := c.withTimeout(ctx, func(ctx context.Context) error {
			return c.primary.Insert(ctx, record)
		})
		if err == nil {
			return SourcePrimary, nil
		}
		c.warn(err, "primary insert failed, falling back to local store")
	}

	if c.local.Append(record) {
		return SourceLocal, nil
	}

	return "", fmt.Errorf("save %s: %w", c.kind, ErrStoreUnavailable)
}

// List returns all records, newest first. A primary result without error is
// authoritative even when empty; local records are served only when the
// primary read fails, deduplicated by id.
func (c *Coordinator[T, P]) List(ctx context.Context, filter Filter) ([]T, Source, error) {
	if c.primary != nil {
		var records []T
		err := c.withTimeout(ctx, func(ctx context.Context) error {
			var err error
			records, err = c.primary.FindAll(ctx, filter)
			return err
		})
		if err == nil {
			if records == nil {
				records = []T{}
			}
			return records, SourcePrimary, nil
		}
		c.warn(err, "primary list failed, serving local store")
	}

	records := c.local.ReadAll()
	if len(filter) > 0 {
		records = filterRecords(records, filter)
	}

	return records, SourceLocal, nil
}

// Get looks a record up by id. A primary not-found is final; only a
// primary store failure sends the lookup to the local file.
func (c *Coordinator[T, P]) Get(ctx context.Context, id string) (T, Source, error) {
	var zero T

	if c.primary != nil {
		var record T
		err := c.withTimeout(ctx, func(ctx context.Context) error {
			var err error
			record, err = c.primary.FindOne(ctx, id)
			return err
		})
		if err == nil {
			return record, SourcePrimary, nil
		}
		if errors.Is(err, ErrNotFound) {
			return zero, SourcePrimary, ErrNotFound
		}
		c.warn(err, "primary get failed, serving local store")
	}

	for _, record := range c.local.ReadAll() {
		if record.EntityID() == id {
			return record, SourceLocal, nil
		}
	}

	return zero, SourceLocal, ErrNotFound
}

// Update applies a sparse patch to the record with the given id. On a
// primary store failure the identical patch is retried against the local
// store; not-found is reported only for the store actually reached.
func (c *Coordinator[T, P]) Update(ctx context.Context, id string, patch P) (T, Source, error) {
	var zero T

	if c.primary != nil {
		var record T
		err := c.withTimeout(ctx, func(ctx context.Context) error {
			var err error
			record, err = c.primary.UpdateOne(ctx, id, patch)
			return err
		})
		if err == nil {
			return record, SourcePrimary, nil
		}
		if errors.Is(err, ErrNotFound) {
			return zero, SourcePrimary, ErrNotFound
		}
		c.warn(err, "primary update failed, retrying against local store")
	}

	record, ok := c.local.Update(id, patch)
	if !ok {
		return zero, SourceLocal, ErrNotFound
	}

	return record, SourceLocal, nil
}

// Delete removes the record with the given id. Idempotent: a second call
// reports ErrNotFound rather than failing.
func (c *Coordinator[T, P]) Delete(ctx context.Context, id string) (Source, error) {
	if c.primary != nil {
		var deleted bool
		err := c.withTimeout(ctx, func(ctx context.Context) error {
			var err error
			deleted, err = c.primary.DeleteOne(ctx, id)
			return err
		})
		if err == nil {
			if !deleted {
				return SourcePrimary, ErrNotFound
			}
			return SourcePrimary, nil
		}
		c.warn(err, "primary delete failed, retrying against local store")
	}

	if !c.local.Remove(id) {
		return SourceLocal, ErrNotFound
	}

	return SourceLocal, nil
}

func (c *Coordinator[T, P]) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return fn(opCtx)
}

func (c *Coordinator[T, P]) warn(err error, msg string) {
	c.logger.WithError(err).WithField("kind", c.kind).Warn(msg)
}

func filterRecords[T Entity](records []T, filter Filter) []T {
	out := make([]T, 0, len(records))

	for _, record := range records {
		fields, err := utils.RecordToMap(record)
		if err != nil {
			continue
		}

		matches := true
		for key, want := range filter {
			got, ok := fields[key].(string)
			if !ok || got != want {
				matches = false
				break
			}
		}

		if matches {
			out = append(out, record)
		}
	}

	return out
}
