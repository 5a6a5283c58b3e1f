package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "headlessd",
	Short: "Headless storefront rendering server",
	Long:  `headlessd serves headless storefront pages and routes platform plugin callbacks.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
