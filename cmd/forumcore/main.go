package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "forumcore",
		Short:         "Forum and learning platform data core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCMD(), schemaCMD())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
