// Package main is the entry point of the roccaes command.
package main

import "github.com/sarchlab/roccaes/roccaes/cmd"

func main() {
	cmd.Execute()
}
