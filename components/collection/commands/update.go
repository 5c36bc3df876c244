package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-collection/components/collection"
)

// UpdateRecordInput captures a record edit payload.
type UpdateRecordInput struct {
	Resource string                           `json:"resource"`
	RecordID string                           `json:"record_id"`
	Fields   map[string]any                   `json:"fields"`
	Files    map[string]collection.FileUpload `json:"-"`
	Actor    collection.UserContext           `json:"actor"`
}

// UpdateRecordCommand submits full-record updates through a form submitter.
type UpdateRecordCommand struct {
	submitter collection.FormSubmitter
	telemetry Telemetry
}

// NewUpdateRecordCommand creates the command.
func NewUpdateRecordCommand(submitter collection.FormSubmitter, telemetry Telemetry) *UpdateRecordCommand {
	return &UpdateRecordCommand{submitter: submitter, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateRecordInput] = (*UpdateRecordCommand)(nil)

// Execute updates the record.
func (c *UpdateRecordCommand) Execute(ctx context.Context, msg UpdateRecordInput) error {
	if c.submitter == nil {
		return errors.New("update command requires submitter")
	}
	if msg.RecordID == "" {
		return errors.New("update command requires record id")
	}
	ctx = collection.ContextWithUser(ctx, msg.Actor)
	if _, err := c.submitter.Submit(ctx, collection.Submission{
		Resource: msg.Resource,
		RecordID: msg.RecordID,
		Fields:   msg.Fields,
		Files:    msg.Files,
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "collection.record.update", map[string]any{
		"resource":  msg.Resource,
		"record_id": msg.RecordID,
	})
	return nil
}
