// Command arrayctl resolves element type specifiers, builds arrays from
// YAML descriptions, dumps and loads them, and exercises hash caches.
package main

import (
	"context"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ctx := context.Background()
	args := os.Args
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	}

	if err := newApp().Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
