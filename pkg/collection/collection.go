package collection

import (
	core "github.com/goliatone/go-collection/components/collection"
)

// Controller exposes the underlying components/collection.Controller type.
type Controller = core.Controller

// ControllerOptions re-export for convenience.
type ControllerOptions = core.ControllerOptions

// NewController proxies to the internal constructor.
func NewController(opts ControllerOptions) *Controller {
	return core.NewController(opts)
}
