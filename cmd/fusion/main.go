// Command fusion derives correlated findings, scores, a risk index and a
// persona fingerprint from a batch of OSINT findings.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
