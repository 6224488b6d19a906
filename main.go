package main

import (
	"fmt"
	"os"

	"notepad/config"
	"notepad/editor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	args := os.Args[1:]
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "usage: notepad [file]")
		os.Exit(2)
	}
	path := ""
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			fmt.Fprintf(os.Stderr, "error: %s is a directory\n", args[0])
			os.Exit(1)
		}
		path = args[0]
	}

	if err := editor.New(cfg).Run(path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
