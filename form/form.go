// Package form holds the view state of the interval-merging page: what the
// user typed, the last merged result, whether that result is shown, and any
// message to display instead.  It has no rendering of its own; a UI binds to
// the fields and calls Submit and Reset.
package form

import (
	"context"

	"github.com/grailbio/intervals/client"
	"github.com/grailbio/intervals/interval"
)

// Problem says which kind of message Form.Message holds.
type Problem int

const (
	// None means there is nothing to report.
	None Problem = iota
	// InputInvalid means the text could not be accepted; the user should fix
	// it.
	InputInvalid
	// ServerUnreachable means the input may well be fine but no answer came
	// back; the user should retry later.
	ServerUnreachable
)

// UnreachableMessage is shown when the merge server cannot be reached.
const UnreachableMessage = "Could not reach the server. Please try again later."

// Merger is implemented by *client.Client.
type Merger interface {
	Merge(ctx context.Context, input string) client.Outcome
}

// Form is the page state.  The zero value is an empty form.
type Form struct {
	Input      string
	Result     []interval.Interval
	ShowResult bool
	Message    string
	Problem    Problem
	// Kind is the validation failure kind when Problem is InputInvalid.
	Kind interval.Kind
}

// Submit validates Input locally and, if it parses, sends it to m.  Invalid
// input never reaches the server.  Any failure clears the previous result,
// since it no longer matches the input.
func (f *Form) Submit(ctx context.Context, m Merger) {
	f.clearOutput()
	if _, err := interval.Parse(f.Input); err != nil {
		f.invalid(err.(*interval.Error))
		return
	}
	out := m.Merge(ctx, f.Input)
	switch out.Status {
	case client.Success:
		f.Result = out.Result
		f.ShowResult = true
	case client.Invalid:
		f.invalid(out.Invalid)
	default:
		f.Problem = ServerUnreachable
		f.Message = UnreachableMessage
	}
}

// Reset returns the form to its initial, empty state.
func (f *Form) Reset() {
	*f = Form{}
}

// ResultText renders the result the way the result box shows it, e.g.
// "[2,23][25,30]".  It is empty when no result is shown.
func (f *Form) ResultText() string {
	if !f.ShowResult {
		return ""
	}
	return interval.Format(f.Result)
}

func (f *Form) clearOutput() {
	f.Result = nil
	f.ShowResult = false
	f.Message = ""
	f.Problem = None
	f.Kind = interval.Unknown
}

func (f *Form) invalid(e *interval.Error) {
	f.Problem = InputInvalid
	f.Kind = e.Kind
	f.Message = e.Message
}
