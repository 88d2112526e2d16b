package server

import (
	"net/http"

	"github.com/grailbio/intervals/interval"
)

// This file defines the JSON bodies exchanged on /merge.
//
// Request, text form:        {"input": "[25,30] [2,19] [14,23] [4,8]"}
// Request, structured form:  {"intervals": [[25,30], [2,19]]}
//                       or:  {"intervals": [{"start": 25, "end": 30}, {"start": 2, "end": 19}]}
// Success:                   {"result": [[2,23],[25,30]], "elapsed_time": "8.1µs"}
// Failure:                   {"error": {"kind": "malformed_syntax", "message": "..."}}

// MergePath is the path of the merge endpoint.
const MergePath = "/merge"

// KindBadRequest is the error kind for bodies that are not valid JSON or
// exceed the size limit.  The other kinds are interval.Kind names.
const KindBadRequest = "bad_request"

// MergeRequest is the body of POST /merge.  If Intervals is present (even
// empty) it is used and Input is ignored.
type MergeRequest struct {
	Input     string              `json:"input,omitempty"`
	Intervals []interval.Interval `json:"intervals,omitempty"`
}

// MergeResponse is the body of a 200 reply.
type MergeResponse struct {
	Result      []interval.Interval `json:"result"`
	ElapsedTime string              `json:"elapsed_time"`
	MemoryUsage string              `json:"memory_usage,omitempty"`
}

// ErrorBody describes a rejected request.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-200 reply from /merge.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// StatusForKind returns the HTTP status used for a validation failure.
func StatusForKind(kind interval.Kind) int {
	switch kind {
	case interval.TooManyIntervals:
		return http.StatusRequestEntityTooLarge
	case interval.EmptyInput, interval.MalformedSyntax, interval.InvalidRange:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
