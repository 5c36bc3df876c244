package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-collection/components/collection"
)

// RemoveRecordInput identifies the record to remove.
type RemoveRecordInput struct {
	RecordID string                 `json:"record_id"`
	Actor    collection.UserContext `json:"actor"`
}

type removeService interface {
	DeleteRecord(ctx context.Context, recordID string) (bool, error)
}

// RemoveRecordCommand wraps Controller.DeleteRecord, which routes the delete
// through the confirmation-gated dispatcher.
type RemoveRecordCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveRecordCommand builds a command instance.
func NewRemoveRecordCommand(service removeService, telemetry Telemetry) *RemoveRecordCommand {
	return &RemoveRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveRecordInput] = (*RemoveRecordCommand)(nil)

// Execute removes the record.
func (c *RemoveRecordCommand) Execute(ctx context.Context, msg RemoveRecordInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	if msg.RecordID == "" {
		return errors.New("remove command requires record id")
	}
	ctx = collection.ContextWithUser(ctx, msg.Actor)
	applied, err := c.service.DeleteRecord(ctx, msg.RecordID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "collection.record.remove", map[string]any{
		"record_id": msg.RecordID,
		"applied":   applied,
	})
	return nil
}
