package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var (
	config  = "./config/relay.yaml"
	rootCmd = &cobra.Command{
		Use:   "fomo-relay",
		Short: "FomoFactory paymaster relay",
		Long: `Sponsorship relay and market data API for the FomoFactory app.

Such as "fomo-relay relay" to serve the API or "fomo-relay evaluate" to check
whether a user operation would be sponsored.
`,
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&config, "config", "c", "./config/relay.yaml", "Path to config file")
}
