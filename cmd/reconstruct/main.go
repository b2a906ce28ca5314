// reconstruct - CLI for splitting recorded Rubik's Cube solves into CFOP and Roux steps.
package main

import (
	"github.com/SeamusWaldron/gocube_reconstruct/internal/cli"
)

func main() {
	cli.Execute()
}
