// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-intervals validates and merges lists of closed integer intervals written
as "[start,end]" tokens, e.g. "[25,30] [2,19] [14,23] [4,8]".

  bio-intervals merge [-format text|tsv|json] [path...]
      Merge the intervals in each file (or stdin) and print the result.
  bio-intervals serve [-addr :8085] [-config path]
      Run the HTTP merge service.  POST /merge with
      {"input": "[1,3] [2,4]"} returns {"result": [[1,4]], ...}.
  bio-intervals submit [-server url] text...
      Send text to a running server.  Exit status is 2 when the server rejects
      the input and 3 when no answer came back.
  bio-intervals generate [-n 1000] [-seed s] [-out path]
      Write random intervals, useful for load testing the server.
*/
package main
