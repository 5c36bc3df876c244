package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDraft is returned when submitting with no open draft.
	ErrNoDraft = errors.New("collection: no draft open")

	errMissingSubmitter = errors.New("collection: form submitter not configured")
)

// Draft is a working copy of a record being created or edited. It never
// aliases the store's copy: edits only reach the collection through a
// confirmed submission and reload.
type Draft struct {
	RecordID string
	Fields   map[string]any
	Files    map[string]FileUpload
}

// Set assigns a draft field.
func (d *Draft) Set(key string, value any) {
	if d.Fields == nil {
		d.Fields = map[string]any{}
	}
	d.Fields[key] = value
}

// Attach stages a binary field for upload as a multipart file part.
func (d *Draft) Attach(name string, file FileUpload) {
	if d.Files == nil {
		d.Files = map[string]FileUpload{}
	}
	d.Files[name] = file
}

// FormOptions configures a FormController. Descriptor and Submitter are
// required; Store enables the post-submit reload.
type FormOptions struct {
	Descriptor ResourceDescriptor
	Submitter  FormSubmitter
	Store      *Store
	Notifier   Notifier
	Validator  DraftValidator
	Sanitizer  *Sanitizer
	Telemetry  Telemetry
}

// FormController owns the modal create/edit lifecycle: seed a draft,
// validate it client-side, submit it, and reconcile the result.
type FormController struct {
	opts  FormOptions
	draft *Draft
	open  bool
}

// NewFormController builds a controller with safe defaults.
func NewFormController(opts FormOptions) *FormController {
	opts.Notifier = normalizeNotifier(opts.Notifier)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Validator == nil {
		opts.Validator = noopDraftValidator{}
	}
	return &FormController{opts: opts}
}

// Open seeds an empty draft for creation.
func (f *FormController) Open() *Draft {
	f.draft = &Draft{Fields: map[string]any{}, Files: map[string]FileUpload{}}
	f.open = true
	return f.draft
}

// OpenEdit seeds a draft from an existing record. The attribute map is
// cloned so editing the draft cannot mutate the store's copy.
func (f *FormController) OpenEdit(rec Record) *Draft {
	seed := rec.Clone()
	fields := seed.Attributes
	if fields == nil {
		fields = map[string]any{}
	}
	f.draft = &Draft{
		RecordID: rec.ID,
		Fields:   fields,
		Files:    map[string]FileUpload{},
	}
	f.open = true
	return f.draft
}

// Draft returns the current draft, nil when the modal is closed.
func (f *FormController) Draft() *Draft {
	if !f.open {
		return nil
	}
	return f.draft
}

// IsOpen reports whether a draft is active.
func (f *FormController) IsOpen() bool { return f.open }

// Close discards the draft without submitting.
func (f *FormController) Close() {
	f.draft = nil
	f.open = false
}

// Submit validates the draft and sends it to the backend.
//
// Validation failure blocks submission entirely: exactly one notification
// naming the violations, zero network calls, draft intact. Network or
// application failure keeps the modal open with the draft intact. Success
// closes the modal, resets the draft, and reloads the store wholesale, since
// server-side fields (moderation status, generated ids, thumbnails) may
// differ from the submitted draft.
func (f *FormController) Submit(ctx context.Context) error {
	if !f.open || f.draft == nil {
		return ErrNoDraft
	}
	if f.opts.Submitter == nil {
		return errMissingSubmitter
	}

	if missing := requiredViolations(f.opts.Descriptor, f.draft.Fields); len(missing) > 0 {
		err := &ValidationError{Fields: missing}
		f.notifyValidation(ctx, err)
		return err
	}
	if err := f.opts.Validator.Validate(f.opts.Descriptor, f.draft.Fields); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			verr = &ValidationError{Reason: err.Error()}
		}
		f.notifyValidation(ctx, verr)
		return verr
	}

	fields := make(map[string]any, len(f.draft.Fields))
	for k, v := range f.draft.Fields {
		fields[k] = v
	}
	f.opts.Sanitizer.SanitizeDraft(f.opts.Descriptor, fields)

	sub := Submission{
		Resource: f.opts.Descriptor.Code,
		RecordID: f.draft.RecordID,
		Fields:   fields,
		Files:    f.draft.Files,
	}
	rec, err := f.opts.Submitter.Submit(ctx, sub)
	if err != nil {
		f.opts.Notifier.Notify(ctx, Notification{
			Level:   LevelError,
			Message: fmt.Sprintf("saving %s failed", f.opts.Descriptor.Name),
			Action:  "submit",
		})
		f.opts.Telemetry.Record(ctx, "collection.form.error", map[string]any{
			"resource": f.opts.Descriptor.Code,
			"error":    err.Error(),
		})
		return fmt.Errorf("collection: submit %s: %w", f.opts.Descriptor.Code, err)
	}

	f.Close()
	f.opts.Notifier.Notify(ctx, Notification{
		Level:    LevelSuccess,
		Message:  fmt.Sprintf("%s saved", f.opts.Descriptor.Name),
		Action:   "submit",
		RecordID: rec.ID,
	})
	f.opts.Telemetry.Record(ctx, "collection.form.submit", map[string]any{
		"resource":  f.opts.Descriptor.Code,
		"record_id": rec.ID,
	})

	if f.opts.Store != nil {
		if err := f.opts.Store.Reload(ctx); err != nil {
			f.opts.Notifier.Notify(ctx, Notification{
				Level:   LevelError,
				Message: fmt.Sprintf("refreshing %s failed", f.opts.Descriptor.Name),
				Action:  "reload",
			})
			return err
		}
	}
	return nil
}

func (f *FormController) notifyValidation(ctx context.Context, err *ValidationError) {
	message := err.Reason
	if len(err.Fields) > 0 {
		message = "required: " + strings.Join(err.Fields, ", ")
	}
	f.opts.Notifier.Notify(ctx, Notification{
		Level:   LevelError,
		Message: message,
		Action:  "validate",
	})
	f.opts.Telemetry.Record(ctx, "collection.form.invalid", map[string]any{
		"resource": f.opts.Descriptor.Code,
		"fields":   err.Fields,
	})
}
