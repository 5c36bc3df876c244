package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-collection/components/collection"
)

// CreateRecordInput captures a record creation payload.
type CreateRecordInput struct {
	Resource string                           `json:"resource"`
	Fields   map[string]any                   `json:"fields"`
	Files    map[string]collection.FileUpload `json:"-"`
	Actor    collection.UserContext           `json:"actor"`
}

// CreateRecordCommand submits new records through a form submitter.
type CreateRecordCommand struct {
	submitter collection.FormSubmitter
	telemetry Telemetry
}

// NewCreateRecordCommand creates the command.
func NewCreateRecordCommand(submitter collection.FormSubmitter, telemetry Telemetry) *CreateRecordCommand {
	return &CreateRecordCommand{submitter: submitter, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateRecordInput] = (*CreateRecordCommand)(nil)

// Execute creates the record.
func (c *CreateRecordCommand) Execute(ctx context.Context, msg CreateRecordInput) error {
	if c.submitter == nil {
		return errors.New("create command requires submitter")
	}
	if msg.Resource == "" {
		return errors.New("create command requires resource")
	}
	ctx = collection.ContextWithUser(ctx, msg.Actor)
	rec, err := c.submitter.Submit(ctx, collection.Submission{
		Resource: msg.Resource,
		Fields:   msg.Fields,
		Files:    msg.Files,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "collection.record.create", map[string]any{
		"resource":  msg.Resource,
		"record_id": rec.ID,
	})
	return nil
}
