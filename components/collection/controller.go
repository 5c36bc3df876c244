package collection

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var errMissingStore = errors.New("collection: store not configured")

// ControllerOptions configures a page Controller. Store is required; the
// composer and cache default from the descriptor.
type ControllerOptions struct {
	Descriptor ResourceDescriptor
	Store      *Store
	Composer   *Composer
	Cache      *ComposeCache
	Dispatcher *Dispatcher
	Forms      *FormController
	Notifier   Notifier
	Telemetry  Telemetry
	// LocalPagination makes Visible slice pages out of the store itself.
	// Leave it off for sources that honor the page/limit hints sent with
	// every load; the server already returned exactly one page then, and
	// slicing it again would leave every page past the first empty.
	LocalPagination bool
}

// Controller orchestrates one page instance: it owns the criteria, reloads
// the store wholesale when they change, and serves the composed view with
// memoization. Nothing in it touches another component's internals except
// through the store.
type Controller struct {
	opts     ControllerOptions
	criteria Criteria
}

// NewController wires the components into a page controller.
func NewController(opts ControllerOptions) *Controller {
	opts.Notifier = normalizeNotifier(opts.Notifier)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Composer == nil {
		opts.Composer = NewComposer(opts.Descriptor)
	}
	if opts.Cache == nil {
		opts.Cache = NewComposeCache(time.Minute)
	}
	return &Controller{opts: opts, criteria: Criteria{}.Normalize()}
}

// SetCriteria replaces the active criteria and reloads the collection
// wholesale; the pattern favors full refetch over incremental sync. A failed
// load leaves an empty collection and surfaces a notification, never a
// partially overwritten one.
func (c *Controller) SetCriteria(ctx context.Context, crit Criteria) error {
	if c.opts.Store == nil {
		return errMissingStore
	}
	c.criteria = crit.Normalize()
	if err := c.opts.Store.Load(ctx, c.criteria); err != nil {
		c.opts.Notifier.Notify(ctx, Notification{
			Level:   LevelError,
			Message: fmt.Sprintf("loading %s failed", c.descriptorName()),
			Action:  "load",
		})
		return err
	}
	return nil
}

// Criteria returns the active criteria.
func (c *Controller) Criteria() Criteria { return c.criteria }

// Visible composes the rendered subset from the store. Results are memoized
// on (store generation, criteria), so repeated renders between mutations do
// not re-run the composer. Pagination is the source's job unless
// LocalPagination is set; the compose pass only re-applies the filters and
// sort so reconciled mutations show up without a refetch.
func (c *Controller) Visible() []Record {
	if c.opts.Store == nil {
		return nil
	}
	crit := c.criteria
	key := CriteriaKey(c.opts.Store.Generation(), crit)
	return c.opts.Cache.GetOrCompose(key, func() []Record {
		candidates := c.opts.Store.Records()
		if crit.Scope == ScopeMine {
			candidates = c.opts.Store.Mine()
		}
		composeCrit := crit
		if !c.opts.LocalPagination {
			composeCrit.Page = 0
			composeCrit.PerPage = 0
		}
		return c.opts.Composer.Compose(candidates, composeCrit)
	})
}

// Dispatch runs an action against the record with the given id. Unknown ids
// no-op: the record may have left the collection under a concurrent reload.
func (c *Controller) Dispatch(ctx context.Context, recordID string, act Action) (bool, error) {
	if c.opts.Dispatcher == nil {
		return false, errMissingPerformer
	}
	rec, ok := c.opts.Store.Find(recordID)
	if !ok {
		return false, nil
	}
	applied, err := c.opts.Dispatcher.Dispatch(ctx, rec, act)
	if applied {
		c.opts.Cache.Invalidate()
	}
	return applied, err
}

// InFlight reports whether an action is pending for the record, so the
// triggering control can be disabled.
func (c *Controller) InFlight(recordID string, act Action) bool {
	if c.opts.Dispatcher == nil {
		return false
	}
	return c.opts.Dispatcher.InFlight(recordID, act)
}

// OpenCreate opens the create modal with an empty draft.
func (c *Controller) OpenCreate() *Draft {
	if c.opts.Forms == nil {
		return nil
	}
	return c.opts.Forms.Open()
}

// OpenEdit opens the edit modal seeded from the stored record.
func (c *Controller) OpenEdit(recordID string) (*Draft, error) {
	if c.opts.Forms == nil {
		return nil, errMissingSubmitter
	}
	rec, ok := c.opts.Store.Find(recordID)
	if !ok {
		return nil, fmt.Errorf("collection: record %s not found", recordID)
	}
	return c.opts.Forms.OpenEdit(rec), nil
}

// Submit submits the open draft; see FormController.Submit for semantics.
func (c *Controller) Submit(ctx context.Context) error {
	if c.opts.Forms == nil {
		return errMissingSubmitter
	}
	return c.opts.Forms.Submit(ctx)
}

// DeleteRecord dispatches a confirmation-gated delete.
func (c *Controller) DeleteRecord(ctx context.Context, recordID string) (bool, error) {
	return c.Dispatch(ctx, recordID, Delete{})
}

// Close tears the page down. In-flight request completions no-op against the
// closed store.
func (c *Controller) Close() {
	if c.opts.Store != nil {
		c.opts.Store.Close()
	}
	if c.opts.Cache != nil {
		c.opts.Cache.Invalidate()
	}
}

func (c *Controller) descriptorName() string {
	if c.opts.Descriptor.Name != "" {
		return c.opts.Descriptor.Name
	}
	return "collection"
}
