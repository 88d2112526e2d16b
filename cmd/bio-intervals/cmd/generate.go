package cmd

import (
	"io"
	"math/rand"
	"time"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/intervals/interval"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"
)

func newCmdGenerate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "generate",
		Short: "Write random intervals",
		Long: `
Writes n random intervals as one line of back-to-back "[start,end]" tokens.
Starts are drawn from [-10n, 10n) and lengths from [0, 100), so the output is
always valid input for merge.`,
	}
	n := cmd.Flags.Int("n", 1000, "Number of intervals")
	seed := cmd.Flags.Int64("seed", 0, "Random seed; 0 = seed from the current time")
	out := cmd.Flags.String("out", "", "Output path; empty = standard output")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return env.UsageErrorf("generate takes no arguments, but got %v", argv)
		}
		if *n <= 0 {
			return env.UsageErrorf("-n must be > 0, got %d", *n)
		}
		s := *seed
		if s == 0 {
			s = time.Now().UnixNano()
		}
		log.Debug.Printf("generate: n=%d seed=%d", *n, s)
		text := interval.Format(interval.Random(rand.New(rand.NewSource(s)), *n)) + "\n"
		if *out == "" {
			_, err := io.WriteString(env.Stdout, text)
			return err
		}
		return writeFile(*out, text)
	})
	return cmd
}

func writeFile(path, text string) (err error) {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "create %v", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if _, err = io.WriteString(out.Writer(ctx), text); err != nil {
		return errors.Wrapf(err, "write %v", path)
	}
	return nil
}
