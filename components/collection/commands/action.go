package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-collection/components/collection"
)

// PerformActionInput pairs a record id with a typed action.
type PerformActionInput struct {
	RecordID string                 `json:"record_id"`
	Action   collection.Action      `json:"-"`
	Actor    collection.UserContext `json:"actor"`
}

type dispatchService interface {
	Dispatch(ctx context.Context, recordID string, act collection.Action) (bool, error)
}

// PerformActionCommand wraps Controller.Dispatch.
type PerformActionCommand struct {
	service   dispatchService
	telemetry Telemetry
}

// NewPerformActionCommand builds the command.
func NewPerformActionCommand(service dispatchService, telemetry Telemetry) *PerformActionCommand {
	return &PerformActionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PerformActionInput] = (*PerformActionCommand)(nil)

// Execute dispatches the action against the record.
func (c *PerformActionCommand) Execute(ctx context.Context, msg PerformActionInput) error {
	if c.service == nil {
		return errors.New("action command requires service")
	}
	if msg.RecordID == "" {
		return errors.New("action command requires record id")
	}
	if msg.Action == nil {
		return errors.New("action command requires an action")
	}
	ctx = collection.ContextWithUser(ctx, msg.Actor)
	applied, err := c.service.Dispatch(ctx, msg.RecordID, msg.Action)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "collection.action."+msg.Action.Verb(), map[string]any{
		"record_id": msg.RecordID,
		"applied":   applied,
	})
	return nil
}
