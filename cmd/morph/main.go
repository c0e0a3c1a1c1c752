// Command morph converts structured data between formats, optionally
// reshaping each record through a small mapping language on the way.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/morphcli/morph/cmd/morph/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var usageErr *cmd.UsageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return 1
}
