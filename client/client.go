// Package client calls the merge server over HTTP.  Its result is a tagged
// Outcome rather than an error, so that callers can tell "your input was
// invalid" apart from "the server could not be reached" without inspecting
// error types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/intervals/interval"
	"github.com/grailbio/intervals/server"
)

// Status tags an Outcome.
type Status int

const (
	// Success means Outcome.Result holds the merged intervals.
	Success Status = iota
	// Invalid means the server received the request and rejected it;
	// Outcome.Invalid says why.  Its Kind is Unknown when the rejection was
	// not a validation failure, e.g. a body over the server's size limit.
	Invalid
	// Unreachable means no usable answer came back: the connection failed,
	// timed out, the server errored, or the reply could not be decoded.
	// Outcome.Err says why.
	Unreachable
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Invalid:
		return "invalid"
	case Unreachable:
		return "unreachable"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Outcome is the result of one merge call.  Exactly one of Result, Invalid
// and Err is meaningful, as selected by Status.
type Outcome struct {
	Status  Status
	Result  []interval.Interval
	Invalid *interval.Error
	// Err is a *github.com/grailbio/base/errors.Error whose Kind is Net,
	// Timeout, Canceled, Unavailable or Invalid.
	Err error
}

// maxReplyBytes bounds how much of a reply is read.
const maxReplyBytes = 256 << 20

// Client talks to one merge server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g.
// "http://localhost:8085".  If httpClient is nil, http.DefaultClient is used;
// request timeouts are taken from httpClient or from the context passed to
// Merge.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Merge submits input and returns the server's verdict.
func (c *Client) Merge(ctx context.Context, input string) Outcome {
	body, err := json.Marshal(server.MergeRequest{Input: input})
	if err != nil {
		return unreachable(errors.E(errors.Invalid, "client: encode request", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+server.MergePath, bytes.NewReader(body))
	if err != nil {
		return unreachable(errors.E(errors.Invalid, "client: build request", err))
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return unreachable(classify(ctx, err))
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return unreachable(classify(ctx, err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var ok server.MergeResponse
		if err := json.Unmarshal(data, &ok); err != nil || ok.Result == nil {
			return unreachable(errors.E(errors.Invalid,
				fmt.Sprintf("client: undecodable reply from %v: %s", c.baseURL, snippet(data))))
		}
		return Outcome{Status: Success, Result: ok.Result}
	case resp.StatusCode >= 500:
		return unreachable(errors.E(errors.Unavailable,
			fmt.Sprintf("client: server %v replied %s", c.baseURL, resp.Status)))
	}
	var bad server.ErrorResponse
	if err := json.Unmarshal(data, &bad); err == nil && bad.Error.Kind != "" {
		// Kinds other than the interval ones, e.g. server.KindBadRequest,
		// map to interval.Unknown.
		kind := interval.ParseKind(bad.Error.Kind)
		return Outcome{Status: Invalid, Invalid: &interval.Error{Kind: kind, Message: bad.Error.Message}}
	}
	return unreachable(errors.E(errors.Invalid,
		fmt.Sprintf("client: server %v replied %s: %s", c.baseURL, resp.Status, snippet(data))))
}

func unreachable(err error) Outcome {
	return Outcome{Status: Unreachable, Err: err}
}

// classify maps a transport error to an errors.Kind.
func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() == context.Canceled:
		return errors.E(errors.Canceled, "client: request canceled", err)
	case ctx.Err() == context.DeadlineExceeded:
		return errors.E(errors.Timeout, "client: request timed out", err)
	}
	if uerr, ok := err.(*url.Error); ok && uerr.Timeout() {
		return errors.E(errors.Timeout, "client: request timed out", err)
	}
	return errors.E(errors.Net, "client: could not reach server", err)
}

func snippet(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
