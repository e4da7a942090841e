// ottoshop keeps a shopping list built from recipes and custom items.
//
// Usage:
//
//	ottoshop [--config path] [--verbose] [--quiet] <command>
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
