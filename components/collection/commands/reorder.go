package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ReorderLinksInput contains a single-element relocation.
type ReorderLinksInput struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type reorderService interface {
	Move(from, to int) error
}

// ReorderLinksCommand wraps Reorderer.Move.
type ReorderLinksCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderLinksCommand builds the command.
func NewReorderLinksCommand(service reorderService, telemetry Telemetry) *ReorderLinksCommand {
	return &ReorderLinksCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderLinksInput] = (*ReorderLinksCommand)(nil)

// Execute applies the relocation.
func (c *ReorderLinksCommand) Execute(ctx context.Context, msg ReorderLinksInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	if err := c.service.Move(msg.From, msg.To); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "collection.links.reorder", map[string]any{
		"from": msg.From,
		"to":   msg.To,
	})
	return nil
}
