// Command server runs the HTTP API: power rankings, pipeline runs, health
// and Prometheus metrics.
package main

import (
	"fmt"
	"os"

	"nflpulse/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
