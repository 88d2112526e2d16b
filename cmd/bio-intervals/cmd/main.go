// Package cmd implements the bio-intervals subcommands.
package cmd

import (
	"os"

	"github.com/grailbio/base/grail"
	"v.io/x/lib/cmdline"
)

// Exit statuses of "submit", distinct from the generic failure status 1.
const (
	exitInvalid     = 2
	exitUnreachable = 3
)

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-intervals",
		Short:    "Validate and merge closed integer intervals",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdMerge(),
			newCmdServe(),
			newCmdSubmit(),
			newCmdGenerate(),
		},
	}
}

// Run parses os.Args, runs the selected subcommand and exits.
func Run() {
	shutdown := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(newCmdRoot(), env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
