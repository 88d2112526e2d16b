package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/intervals/server"
	"github.com/grailbio/intervals/service"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"
)

type serveFlags struct {
	addr            *string
	config          *string
	origins         *string
	maxIntervals    *int
	measureMemory   *bool
	maxRequestBytes *int64
}

func newServeFlags(fs *flag.FlagSet) serveFlags {
	return serveFlags{
		addr:            fs.String("addr", server.DefaultOpts.Addr, "TCP address to listen on"),
		config:          fs.String("config", "", "Service configuration file (JSON)"),
		origins:         fs.String("origins", strings.Join(server.DefaultOpts.AllowedOrigins, ","), "Comma-separated list of origins allowed to call the service from a browser"),
		maxIntervals:    fs.Int("max-intervals", service.DefaultOpts.MaxIntervals, "Maximum number of intervals per request; 0 = unlimited"),
		measureMemory:   fs.Bool("measure-memory", service.DefaultOpts.MeasureMemory, "Report bytes allocated per request"),
		maxRequestBytes: fs.Int64("max-request-bytes", server.DefaultOpts.MaxRequestBytes, "Maximum size of a request body"),
	}
}

func newCmdServe() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "serve",
		Short: "Run the HTTP merge service",
		Long: `
Serves POST /merge and GET /healthz until interrupted.  Service settings are
read from -config, a JSON file such as {"max_intervals": 1000000,
"measure_memory": false}; -max-intervals and -measure-memory override it when
given.`,
	}
	flags := newServeFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return env.UsageErrorf("serve takes no arguments, but got %v", argv)
		}
		ctx := vcontext.Background()
		svcOpts, srvOpts, err := serveOpts(ctx, &cmd.Flags, flags)
		if err != nil {
			return err
		}
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		log.Printf("serve: max_intervals=%d measure_memory=%v origins=%v",
			svcOpts.MaxIntervals, svcOpts.MeasureMemory, srvOpts.AllowedOrigins)
		return server.New(service.New(svcOpts), srvOpts).ListenAndServe(sigCtx)
	})
	return cmd
}

// serveOpts builds the service and transport options from the flags.  Flags
// set explicitly on the command line take precedence over the config file.
func serveOpts(ctx context.Context, fs *flag.FlagSet, flags serveFlags) (service.Opts, server.Opts, error) {
	svcOpts := service.DefaultOpts
	if *flags.config != "" {
		var err error
		if svcOpts, err = service.LoadOpts(ctx, *flags.config); err != nil {
			return svcOpts, server.Opts{}, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-intervals":
			svcOpts.MaxIntervals = *flags.maxIntervals
		case "measure-memory":
			svcOpts.MeasureMemory = *flags.measureMemory
		}
	})
	if svcOpts.MaxIntervals < 0 {
		return svcOpts, server.Opts{}, errors.Errorf("-max-intervals must be >= 0, got %d", svcOpts.MaxIntervals)
	}
	srvOpts := server.DefaultOpts
	srvOpts.Addr = *flags.addr
	srvOpts.MaxRequestBytes = *flags.maxRequestBytes
	srvOpts.AllowedOrigins = nil
	for _, o := range strings.Split(*flags.origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			srvOpts.AllowedOrigins = append(srvOpts.AllowedOrigins, o)
		}
	}
	return svcOpts, srvOpts, nil
}
