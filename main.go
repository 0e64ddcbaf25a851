// Package main is the entry point for the allylab CLI.
package main

import "github.com/jorgejac1/allylab-sub006/cmd"

func main() {
	cmd.Execute()
}
