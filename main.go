// Package main is the entry point for the cricmetrics CLI tool, which loads
// ball-by-ball delivery logs and computes batting, bowling and team statistics.
package main

import "github.com/tapeball/cricmetrics/cmd"

func main() {
	cmd.Execute()
}
