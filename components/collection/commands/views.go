package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-collection/components/collection"
)

// SaveViewInput captures a named criteria preset for a user.
type SaveViewInput struct {
	UserID string              `json:"user_id"`
	View   collection.SavedView `json:"view"`
}

// SaveViewCommand persists saved views through a ViewStore.
type SaveViewCommand struct {
	store     collection.ViewStore
	telemetry Telemetry
}

// NewSaveViewCommand builds the command.
func NewSaveViewCommand(store collection.ViewStore, telemetry Telemetry) *SaveViewCommand {
	return &SaveViewCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveViewInput] = (*SaveViewCommand)(nil)

// Execute saves the view.
func (c *SaveViewCommand) Execute(ctx context.Context, msg SaveViewInput) error {
	if c.store == nil {
		return errors.New("save view command requires store")
	}
	if err := c.store.SaveView(ctx, msg.UserID, msg.View); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "collection.view.save", map[string]any{
		"user_id": msg.UserID,
		"name":    msg.View.Name,
	})
	return nil
}
