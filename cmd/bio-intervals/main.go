package main

import "github.com/grailbio/intervals/cmd/bio-intervals/cmd"

func main() {
	cmd.Run()
}
