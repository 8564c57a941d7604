package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/danlitvak/tool-cliptrim/internal/keymap"
	"github.com/danlitvak/tool-cliptrim/internal/session"
)

// BuildBindings wires every editing action to the session. Validation errors
// surface through notify as transient notices; collaborator failures too,
// with their operation prefix intact.
func BuildBindings(ctx context.Context, sess *session.Session, km keymap.Keymap, notify func(string)) *keymap.Bindings {
	report := func(err error) {
		if err == nil {
			return
		}
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			notify(verr.Error())
			return
		}
		notify("error: " + err.Error())
	}

	return &keymap.Bindings{
		Keymap: km,
		Handlers: map[keymap.Action]func(){
			keymap.PlayPause: func() { sess.TogglePlay() },
			keymap.SetIn: func() {
				// Mirrors the transport position at press time.
				sess.SetIn(sess.PlayheadMs())
			},
			keymap.SetOut: func() {
				sess.SetOut(sess.PlayheadMs())
			},
			keymap.AddSegment:     func() { report(sess.AddSegment(ctx)) },
			keymap.DeleteSelected: func() { report(sess.DeleteSelected(ctx)) },
			keymap.Export:         func() { report(sess.Export(ctx)) },
			keymap.NextClip:       func() { report(sess.NextClip(ctx)) },
			keymap.PrevClip:       func() { report(sess.PrevClip(ctx)) },
			keymap.ToggleEditMode: func() {
				if sess.ToggleEditMode() {
					notify("edit mode on")
				} else {
					notify("edit mode off")
				}
			},
			keymap.ScrubForward:  func() { sess.ScrubForward() },
			keymap.ScrubBackward: func() { sess.ScrubBackward() },
			keymap.StepForward:   func() { sess.StepForward(ctx) },
			keymap.StepBackward:  func() { sess.StepBackward(ctx) },
			keymap.SpeedUp: func() {
				notify(fmt.Sprintf("rate %.2fx", sess.SpeedUp()))
			},
			keymap.SpeedDown: func() {
				notify(fmt.Sprintf("rate %.2fx", sess.SpeedDown()))
			},
		},
	}
}
