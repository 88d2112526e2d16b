package cmd

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"time"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/intervals/client"
	"github.com/grailbio/intervals/form"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"
)

func newCmdSubmit() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "submit",
		Short: "Send intervals to a running merge server",
		Long: `
The arguments are joined with spaces and sent as one list, e.g.

  bio-intervals submit '[25,30] [2,19] [14,23] [4,8]'

With no arguments the list is read from standard input.  The input is checked
locally first and only sent when it is well formed.  Exit status is 2 when the
input is rejected and 3 when the server could not be reached.`,
		ArgsName: "[interval...]",
	}
	serverURL := cmd.Flags.String("server", "http://localhost:8085", "Base URL of the merge server")
	timeout := cmd.Flags.Duration("timeout", 30*time.Second, "Deadline for the request")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		var input string
		if len(argv) > 0 {
			input = strings.Join(argv, " ")
		} else {
			data, err := ioutil.ReadAll(env.Stdin)
			if err != nil {
				return errors.Wrap(err, "read stdin")
			}
			input = string(data)
		}
		ctx, cancel := context.WithTimeout(vcontext.Background(), *timeout)
		defer cancel()
		return submit(ctx, client.New(*serverURL, nil), input, env.Stdout, env.Stderr)
	})
	return cmd
}

// submit drives a form.Form the way the web page does and reports its final
// state: the merged list on stdout, or a message on stderr along with a
// distinguishing exit status.
func submit(ctx context.Context, m form.Merger, input string, stdout, stderr io.Writer) error {
	f := form.Form{Input: input}
	f.Submit(ctx, m)
	switch f.Problem {
	case form.InputInvalid:
		fmt.Fprintf(stderr, "invalid input (%v): %s\n", f.Kind, f.Message)
		return cmdline.ErrExitCode(exitInvalid)
	case form.ServerUnreachable:
		fmt.Fprintln(stderr, f.Message)
		return cmdline.ErrExitCode(exitUnreachable)
	}
	_, err := fmt.Fprintln(stdout, f.ResultText())
	return err
}

var _ form.Merger = (*client.Client)(nil)
