// Package main is the entry point for the kanban CLI.
package main

import (
	"fmt"
	"os"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/cli"
	"github.com/forsidenis/kanban/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Create dependency injection container
	container, err := app.New(cwd)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version.Version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
