package cmd

import (
	"github.com/spf13/cobra"

	"github.com/FomoFactory/fomo-relay/relay"
)

var (
	runRelayCmd = &cobra.Command{
		Use:   "relay",
		Short: "Run the relay",
		Long: `Initialize and run the paymaster relay and market data API.

Use --config=path-to-your-config-file. default is=./config/relay.yaml `,
		RunE: func(cmd *cobra.Command, args []string) error {
			return relay.RunWithConfig(config)
		},
	}
)

func init() {
	rootCmd.AddCommand(runRelayCmd)
}
