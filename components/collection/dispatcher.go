package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var errMissingPerformer = errors.New("collection: action performer not configured")

// DispatcherOptions configures a Dispatcher. Store and Performer are
// required; the rest default to safe noops (the default prompt accepts, so
// headless callers are not blocked).
type DispatcherOptions struct {
	Store     *Store
	Performer ActionPerformer
	Notifier  Notifier
	Confirm   ConfirmPrompt
	Saver     FileSaver
	Telemetry Telemetry
}

type flightKey struct {
	recordID string
	verb     string
}

// Dispatcher performs a named action against a specific record and
// reconciles the server-confirmed result onto the store.
//
// Each (record, action) pair carries an in-flight guard: while a dispatch is
// pending, re-dispatching the same pair no-ops, which is the double-click
// protection the UI relies on since other controls stay interactive during
// the round trip.
type Dispatcher struct {
	opts DispatcherOptions

	mu       sync.Mutex
	inFlight map[flightKey]struct{}
}

// NewDispatcher builds a dispatcher with safe defaults.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	opts.Notifier = normalizeNotifier(opts.Notifier)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Confirm == nil {
		opts.Confirm = acceptAllPrompt{}
	}
	return &Dispatcher{
		opts:     opts,
		inFlight: make(map[flightKey]struct{}),
	}
}

// Dispatch runs the action lifecycle idle -> in-flight -> succeeded/failed.
// It returns whether a mutation was applied to the store.
//
// Declining the confirmation of a destructive action is a terminal gate, not
// an error: no network call, no notification, no state change.
func (d *Dispatcher) Dispatch(ctx context.Context, rec Record, act Action) (bool, error) {
	if d.opts.Performer == nil {
		return false, errMissingPerformer
	}
	if d.opts.Store != nil && d.opts.Store.Closed() {
		return false, nil
	}

	key := flightKey{recordID: rec.ID, verb: act.Verb()}
	if !d.acquire(key) {
		return false, nil
	}
	defer d.release(key)

	// The guard is held before prompting so a re-click on a pending delete
	// drops out here instead of asking the user a second time.
	if Destructive(act) && !d.opts.Confirm.Confirm(ctx, ConfirmationPrompt(act, rec)) {
		return false, nil
	}

	var generation uint64
	if d.opts.Store != nil {
		generation = d.opts.Store.Generation()
	}

	outcome, err := d.opts.Performer.Perform(ctx, rec.ID, act)
	if err != nil {
		d.opts.Notifier.Notify(ctx, Notification{
			Level:    LevelError,
			Message:  fmt.Sprintf("%s failed for %q", act.Verb(), rec.Title()),
			Action:   act.Verb(),
			RecordID: rec.ID,
		})
		d.opts.Telemetry.Record(ctx, "collection.action.error", map[string]any{
			"action":    act.Verb(),
			"record_id": rec.ID,
			"error":     err.Error(),
		})
		return false, err
	}

	applied := false
	if mut := outcomeMutation(rec, outcome); mut != nil && d.opts.Store != nil {
		applied = d.opts.Store.ApplyAt(generation, mut)
	}

	if outcome.Download != nil && d.opts.Saver != nil {
		if err := d.opts.Saver.Save(ctx, *outcome.Download); err != nil {
			d.opts.Notifier.Notify(ctx, Notification{
				Level:    LevelError,
				Message:  fmt.Sprintf("saving %q failed", outcome.Download.Filename),
				Action:   act.Verb(),
				RecordID: rec.ID,
			})
			return applied, fmt.Errorf("collection: save download: %w", err)
		}
	}

	message := outcome.Message
	if message == "" {
		message = fmt.Sprintf("%s succeeded for %q", act.Verb(), rec.Title())
	}
	d.opts.Notifier.Notify(ctx, Notification{
		Level:    LevelSuccess,
		Message:  message,
		Action:   act.Verb(),
		RecordID: rec.ID,
	})
	d.opts.Telemetry.Record(ctx, "collection.action."+act.Verb(), map[string]any{
		"record_id": rec.ID,
		"applied":   applied,
	})
	return applied, nil
}

// InFlight reports whether a dispatch is pending for the record/action pair,
// so renderers can disable the triggering control.
func (d *Dispatcher) InFlight(recordID string, act Action) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inFlight[flightKey{recordID: recordID, verb: act.Verb()}]
	return ok
}

func (d *Dispatcher) acquire(key flightKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, pending := d.inFlight[key]; pending {
		return false
	}
	d.inFlight[key] = struct{}{}
	return true
}

func (d *Dispatcher) release(key flightKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, key)
}

// outcomeMutation maps an action outcome to the store mutation it implies.
func outcomeMutation(rec Record, outcome Outcome) Mutation {
	if outcome.Removed {
		return RemoveRecord{ID: rec.ID}
	}
	if outcome.Record != nil {
		return UpdateRecord{ID: rec.ID, Record: *outcome.Record}
	}
	return nil
}

type acceptAllPrompt struct{}

func (acceptAllPrompt) Confirm(context.Context, string) bool { return true }

// ConfirmFunc adapts a function to the ConfirmPrompt interface.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm invokes the wrapped function.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }
