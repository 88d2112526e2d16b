// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package service implements the merge operation exposed to collaborators:
// raw interval text in, merged intervals or a typed validation error out.
// It holds no mutable state; a single Service may be used from any number of
// goroutines.
package service

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"runtime"
	"time"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/intervals/interval"
	"github.com/pkg/errors"
)

// Opts configures a Service.
type Opts struct {
	// MaxIntervals caps the number of intervals per request.  Zero disables
	// the limit.
	MaxIntervals int `json:"max_intervals"`
	// MeasureMemory reports the bytes allocated while merging.  It calls
	// runtime.ReadMemStats twice per request, which stops the world, and the
	// figure includes allocations made concurrently by other requests.
	MeasureMemory bool `json:"measure_memory"`
}

// DefaultOpts are the options used when no configuration file is given.
var DefaultOpts = Opts{
	MaxIntervals:  1000000,
	MeasureMemory: false,
}

// LoadOpts reads a JSON configuration file, e.g. {"max_intervals": 1000}.
// Fields absent from the file keep their DefaultOpts values.
func LoadOpts(ctx context.Context, path string) (opts Opts, err error) {
	opts = DefaultOpts
	in, err := file.Open(ctx, path)
	if err != nil {
		return opts, errors.Wrapf(err, "service.LoadOpts: open %v", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return opts, errors.Wrapf(err, "service.LoadOpts: read %v", path)
	}
	if err = json.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "service.LoadOpts: parse %v", path)
	}
	if opts.MaxIntervals < 0 {
		return opts, errors.Errorf("service.LoadOpts: %v: max_intervals must be >= 0, got %d", path, opts.MaxIntervals)
	}
	return opts, nil
}

// Request is one merge request.  Exactly one form is used: if Intervals is
// non-nil it is taken as the interval set directly, otherwise Input is
// parsed.
type Request struct {
	Input     string
	Intervals []interval.Interval
}

// Response is a successful merge.
type Response struct {
	// Result is the merged, sorted, disjoint interval set.
	Result []interval.Interval
	// Elapsed is the time spent validating and merging.
	Elapsed time.Duration
	// MemoryUsage is the number of bytes allocated during the request, or zero
	// when Opts.MeasureMemory is false.
	MemoryUsage uint64
}

// Service merges interval sets.
type Service struct {
	opts Opts
}

// New returns a Service with the given options.
func New(opts Opts) *Service {
	return &Service{opts: opts}
}

// Opts returns the options the service was created with.
func (s *Service) Opts() Opts {
	return s.opts
}

// Merge validates req and merges its intervals.  A non-nil error is always
// an *interval.Error; the merge step itself cannot fail.
func (s *Service) Merge(req Request) (Response, error) {
	var memStart runtime.MemStats
	if s.opts.MeasureMemory {
		runtime.ReadMemStats(&memStart)
	}
	start := time.Now()

	set, err := s.validate(req)
	if err != nil {
		log.Debug.Printf("service.Merge: rejected request: %v", err)
		return Response{}, err
	}
	resp := Response{Result: interval.Merge(set)}
	resp.Elapsed = time.Since(start)

	if s.opts.MeasureMemory {
		var memEnd runtime.MemStats
		runtime.ReadMemStats(&memEnd)
		resp.MemoryUsage = memEnd.TotalAlloc - memStart.TotalAlloc
	}
	if log.At(log.Debug) {
		u := interval.NewUnion(resp.Result)
		log.Debug.Printf("service.Merge: %d interval(s) merged into %d, %d position(s) covered, %v",
			len(set), u.Len(), u.Covered(), resp.Elapsed)
	}
	return resp, nil
}

func (s *Service) validate(req Request) ([]interval.Interval, error) {
	opts := interval.ParseOpts{MaxIntervals: s.opts.MaxIntervals}
	if req.Intervals == nil {
		return opts.Parse(req.Input)
	}
	if err := opts.Check(req.Intervals); err != nil {
		return nil, err
	}
	return req.Intervals, nil
}
