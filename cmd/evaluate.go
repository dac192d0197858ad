package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/FomoFactory/fomo-relay/core/chainio/aa"
	relayconfig "github.com/FomoFactory/fomo-relay/core/config"
	"github.com/FomoFactory/fomo-relay/pkg/erc4337/userop"
	"github.com/FomoFactory/fomo-relay/relay"
)

var (
	evalUserOpPath string
	evalEntryPoint string
	evalChainID    int64

	evaluateCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Check whether a user operation would be sponsored",
		Long: `Run the sponsorship policy of the config file against a user operation.

The operation is read as JSON from --userop (use - for stdin). The entry point and
chain id default to the configured ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := relayconfig.NewConfig(config)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if evalUserOpPath != "-" {
				f, err := os.Open(evalUserOpPath)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			entryPoint := c.Contracts.EntryPoint
			if evalEntryPoint != "" {
				if !common.IsHexAddress(evalEntryPoint) {
					return fmt.Errorf("invalid entry point %q", evalEntryPoint)
				}
				entryPoint = common.HexToAddress(evalEntryPoint)
			}
			chainID := c.ChainID
			if evalChainID > 0 {
				chainID = big.NewInt(evalChainID)
			}

			return evaluateUserOp(cmd.Context(), cmd.OutOrStdout(), c, in, entryPoint, chainID)
		},
	}
)

func evaluateUserOp(ctx context.Context, out io.Writer, c *relayconfig.Config, in io.Reader, entryPoint common.Address, chainID *big.Int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var op userop.UserOperation
	if err := json.NewDecoder(in).Decode(&op); err != nil {
		return fmt.Errorf("cannot decode user operation: %w", err)
	}

	var client aa.CodeStorageReader
	if c.Sponsorship.VerifyAccount {
		ethClient, err := ethclient.DialContext(ctx, c.EthRpcUrl)
		if err != nil {
			return err
		}
		defer ethClient.Close()
		client = ethClient
	}

	evaluator, err := relay.NewEvaluatorFromConfig(c, client)
	if err != nil {
		return err
	}

	decision := evaluator.Decide(ctx, chainID, entryPoint, &op)

	fmt.Fprintf(out, "sender:   %s\n", op.Sender.Hex())
	fmt.Fprintf(out, "sponsor:  %t\n", decision.Sponsor)
	fmt.Fprintf(out, "reason:   %s\n", decision.Reason)
	if decision.Target != "" {
		fmt.Fprintf(out, "target:   %s\n", decision.Target)
	}
	if decision.Function != "" {
		fmt.Fprintf(out, "function: %s\n", decision.Function)
	}
	return nil
}

func init() {
	evaluateCmd.Flags().StringVar(&evalUserOpPath, "userop", "-", "path to the user operation JSON")
	evaluateCmd.Flags().StringVar(&evalEntryPoint, "entrypoint", "", "entry point address, defaults to contracts.entrypoint")
	evaluateCmd.Flags().Int64Var(&evalChainID, "chain-id", 0, "chain id, defaults to chain_id")
	rootCmd.AddCommand(evaluateCmd)
}
