package main

import (
	"fmt"
	"os"

	"sonoviz/internal/app"
	"sonoviz/internal/config"
)

func main() {
	a, err := app.New(config.Load())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := a.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
