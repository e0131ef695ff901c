// Command nodegen generates Go node types, codecs and per-format
// encoders from a JSON Schema corpus.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
