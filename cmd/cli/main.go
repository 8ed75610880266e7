package main

import (
	"fmt"
	"os"

	"github.com/user94a/pratico-server/cmd/cli/assets"
	"github.com/user94a/pratico-server/cmd/cli/auth"
	"github.com/user94a/pratico-server/cmd/cli/deadlines"
	"github.com/user94a/pratico-server/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	assets.InitAssets(rootCmd)
	deadlines.InitDeadlines(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
