// Package main is the entry point for the csmap CLI tool, which parses CS2
// demo files and draws replay events on the map radar.
package main

import "github.com/pable/go-cs-mapviz/cmd"

func main() {
	cmd.Execute()
}
