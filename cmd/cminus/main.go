// Command cminus compiles a single C- source file to TM assembly.
package main

import (
	"fmt"
	"os"

	"github.com/ibfleming/cminus/cmd/cminus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
