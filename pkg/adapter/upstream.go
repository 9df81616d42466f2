package adapter

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/model"
)

// WrapUpstream maps deadline errors to the timeout failure kind so callers
// can distinguish slowness from unavailability.
func WrapUpstream(err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return goerr.Wrap(model.ErrUpstreamTimeout, msg, goerr.V("cause", err.Error()))
	}
	return goerr.Wrap(err, msg)
}
