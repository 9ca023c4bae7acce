package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/microfeed/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "microfeed",
		Short: "MicroFeed API Server",
		Long:  `MicroFeed is a minimal social-posting backend: registration, login, and a flat feed of posts with likes, dislikes, and comments, persisted as JSON snapshots.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
