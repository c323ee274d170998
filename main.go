// Package main is the entry point for the pokermetrics CLI tool, which parses
// poker-room hand-history logs and computes per-player session statistics.
package main

import "github.com/pable/go-poker-metrics/cmd"

func main() {
	cmd.Execute()
}
