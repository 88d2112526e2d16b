package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"runtime"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/sync/multierror"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/intervals/interval"
	"github.com/grailbio/intervals/service"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"
)

// stdinPath names standard input in argument lists and in output.
const stdinPath = "-"

type mergeFlags struct {
	format       *string
	maxIntervals *int
	parallelism  *int
}

// mergeResult is the outcome for one input path.
type mergeResult struct {
	Path   string              `json:"path"`
	Result []interval.Interval `json:"result"`
	err    error
}

func newCmdMerge() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "merge",
		Short: "Merge the intervals in each input file",
		Long: `
Each path holds one list of intervals, e.g. "[25,30] [2,19] [14,23] [4,8]",
optionally gzip-compressed.  With no paths, or with "-", standard input is
read.  The merged list for each input is printed in argument order.  Inputs
that fail validation are reported on stderr and make the command exit
non-zero, but do not stop the other inputs from being merged.`,
		ArgsName: "[path...]",
	}
	flags := mergeFlags{
		format: cmd.Flags.String("format", "text", `Output format: "text" prints one merged list per line,
"tsv" prints one PATH/START/END row per merged interval, and
"json" prints one {"path": ..., "result": [[start,end], ...]} object per line`),
		maxIntervals: cmd.Flags.Int("max-intervals", service.DefaultOpts.MaxIntervals, "Maximum number of intervals per input; 0 = unlimited"),
		parallelism:  cmd.Flags.Int("parallelism", 0, "Maximum number of inputs merged at once; 0 = runtime.NumCPU()"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		switch *flags.format {
		case "text", "tsv", "json":
		default:
			return env.UsageErrorf("unknown -format %q", *flags.format)
		}
		if *flags.maxIntervals < 0 {
			return env.UsageErrorf("-max-intervals must be >= 0, got %d", *flags.maxIntervals)
		}
		paths := argv
		if len(paths) == 0 {
			paths = []string{stdinPath}
		}
		svc := service.New(service.Opts{MaxIntervals: *flags.maxIntervals})
		results := mergeFiles(vcontext.Background(), svc, env.Stdin, paths, *flags.parallelism)
		if err := writeResults(env.Stdout, *flags.format, results); err != nil {
			return err
		}
		errs := multierror.NewMultiError(len(results))
		for _, r := range results {
			if r.err != nil {
				errs.Add(fmt.Errorf("%s: %v", r.Path, r.err))
			}
		}
		return errs.Err()
	})
	return cmd
}

// mergeFiles merges each of paths, at most parallelism at a time.  The
// returned slice is in the same order as paths.  Standard input may be named
// at most once.
func mergeFiles(ctx context.Context, svc *service.Service, stdin io.Reader, paths []string, parallelism int) []mergeResult {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	results := make([]mergeResult, len(paths))
	var (
		stdinText string
		readStdin bool
	)
	for i, path := range paths {
		if path != stdinPath {
			continue
		}
		if readStdin {
			results[i].err = errors.New("standard input given more than once")
			continue
		}
		readStdin = true
		data, err := ioutil.ReadAll(stdin)
		if err != nil {
			results[i].err = errors.Wrap(err, "read stdin")
		}
		stdinText = string(data)
	}
	if parallelism > len(paths) {
		parallelism = len(paths)
	}
	_ = traverse.Each(parallelism, func(jobIdx int) error {
		for i := jobIdx; i < len(paths); i += parallelism {
			mergeOne(ctx, svc, &results[i], paths[i], stdinText)
		}
		return nil
	})
	return results
}

func mergeOne(ctx context.Context, svc *service.Service, r *mergeResult, path, stdinText string) {
	r.Path = path
	if r.err != nil {
		return
	}
	text := stdinText
	if path != stdinPath {
		var err error
		if text, err = readText(ctx, path); err != nil {
			r.err = err
			return
		}
	}
	resp, err := svc.Merge(service.Request{Input: text})
	if err != nil {
		r.err = err
		return
	}
	log.Debug.Printf("merge: %s: %d merged interval(s) in %v", path, len(resp.Result), resp.Elapsed)
	r.Result = resp.Result
}

// readText reads the whole of path, decompressing it if it is gzipped.
func readText(ctx context.Context, path string) (text string, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader := io.Reader(in.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return "", errors.Wrapf(err, "%s: gzip", path)
		}
	}
	data, err := ioutil.ReadAll(reader)
	if err != nil {
		return "", errors.Wrapf(err, "%s: read", path)
	}
	return string(data), nil
}

// writeResults prints the successful entries of results in order.
func writeResults(w io.Writer, format string, results []mergeResult) error {
	switch format {
	case "tsv":
		tw := tsv.NewWriter(w)
		tw.WriteString("#PATH\tSTART\tEND")
		if err := tw.EndLine(); err != nil {
			return err
		}
		for _, r := range results {
			if r.err != nil {
				continue
			}
			for _, iv := range r.Result {
				tw.WriteString(r.Path)
				tw.WriteInt64(int64(iv.Start))
				tw.WriteInt64(int64(iv.End))
				if err := tw.EndLine(); err != nil {
					return err
				}
			}
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		for _, r := range results {
			if r.err != nil {
				continue
			}
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range results {
		if r.err != nil {
			continue
		}
		var err error
		if len(results) == 1 {
			_, err = fmt.Fprintln(w, interval.Format(r.Result))
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\n", r.Path, interval.Format(r.Result))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
