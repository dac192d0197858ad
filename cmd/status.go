package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	statusURL string

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Display relay status",
		Long:  `Display status information about a running relay by probing its /up and /metrics endpoints`,
		Run: func(cmd *cobra.Command, args []string) {
			printStatus(cmd.OutOrStdout(), statusURL)
		},
	}
)

func printStatus(out io.Writer, baseURL string) {
	client := resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(5 * time.Second)

	fmt.Fprintf(out, "📊 Relay Status Report\n")
	fmt.Fprintf(out, "=====================\n\n")
	fmt.Fprintf(out, "🌐 Relay: %s\n\n", baseURL)

	resp, err := client.R().Get("/up")
	if err != nil {
		fmt.Fprintf(out, "❌ Relay unreachable: %v\n", err)
		fmt.Fprintf(out, "   💡 Start it with \"fomo-relay relay --config path\"\n")
		return
	}
	fmt.Fprintf(out, "💓 Liveness: %d %s\n", resp.StatusCode(), strings.TrimSpace(resp.String()))

	metricsResp, err := client.R().Get("/metrics")
	if err != nil || metricsResp.IsError() {
		fmt.Fprintf(out, "   ⚠️  Metrics unavailable\n")
		return
	}

	fmt.Fprintf(out, "\n📋 Sponsorship decisions:\n")
	found := 0
	for _, line := range strings.Split(metricsResp.String(), "\n") {
		if strings.HasPrefix(line, "fomo_sponsorship_decisions_total{") {
			fmt.Fprintf(out, "   %s\n", line)
			found++
		}
	}
	if found == 0 {
		fmt.Fprintf(out, "   none yet\n")
	}
}

func init() {
	statusCmd.Flags().StringVar(&statusURL, "url", "http://localhost:3000", "base URL of the relay")
	rootCmd.AddCommand(statusCmd)
}
