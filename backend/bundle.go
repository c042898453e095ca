package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
)

// WindowState pairs the shared application stores with the stream
// controller that wakes one window when they change.
type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle aggregates the stores shared by all windows.
type Bundle struct {
	Datasource  *Datasource
	Annotations *Annotations
}

func NewBundle(appCtx context.Context, mutator *stream.Mutator) (Bundle, error) {
	ds, err := NewDatasource(appCtx, mutator)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{
		Datasource:  ds,
		Annotations: NewAnnotations(mutator),
	}, nil
}
