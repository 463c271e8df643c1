package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/dataapi"
	"github.com/cyphera/gator-permissions/internal/config"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/server"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

type runtimeState struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	loadConfig func() (*config.Config, error)
	build      func(ctx context.Context, cfg *config.Config) (*server.App, error)
	app        *server.App
}

func newRuntimeState(stdout, stderr io.Writer) *runtimeState {
	return &runtimeState{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		build:      server.Build,
	}
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gatorctl",
		Short:         "Inspect and revoke granted permissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if s.configPath != "" {
				if err := os.Setenv(config.ConfigFileEnv, s.configPath); err != nil {
					return err
				}
			}
			cfg, err := s.loadConfig()
			if err != nil {
				return err
			}
			logger.InitLoggerWithConfig(logger.LoggerConfig{
				Level: s.logLevel,
				Stage: cfg.Stage,
			})

			app, err := s.build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			s.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.app == nil {
				return nil
			}
			return s.app.Close()
		},
	}
	cmd.SetOut(s.stdout)
	cmd.SetErr(s.stderr)

	cmd.PersistentFlags().StringVar(&s.configPath, "config", "", "Path to TOML config file")
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "error", "Log level")

	cmd.AddCommand(
		s.newListCommand(),
		s.newGetCommand(),
		s.newRevokeCommand(),
		s.newBalanceCommand(),
		s.newPriceCommand(),
	)
	return cmd
}

func (s *runtimeState) newListCommand() *cobra.Command {
	var filter types.PermissionFilter
	var revoked string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List granted permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if revoked != "" {
				value, err := strconv.ParseBool(revoked)
				if err != nil {
					return apperror.InvalidInput("invalid --revoked value %q", revoked)
				}
				filter.Revoked = &value
			}
			permissions, err := s.app.Store.GetAll(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if permissions == nil {
				permissions = []types.StoredGrantedPermission{}
			}
			return s.writeJSON(permissions)
		},
	}
	cmd.Flags().StringVar(&filter.SiteOrigin, "site-origin", "", "Only permissions granted to this origin")
	cmd.Flags().StringVar(&filter.ChainID, "chain-id", "", "Only permissions on this chain (hex)")
	cmd.Flags().StringVar(&filter.PermissionType, "type", "", "Only permissions of this type")
	cmd.Flags().StringVar(&revoked, "revoked", "", "Filter by revocation state (true|false)")
	return cmd
}

func (s *runtimeState) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <context>",
		Short: "Show the permission stored for a delegation context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			permission, err := s.app.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if permission == nil {
				return apperror.ResourceNotFound("no granted permission for context %s", args[0])
			}
			return s.writeJSON(permission)
		},
	}
}

func (s *runtimeState) newRevokeCommand() *cobra.Command {
	var txHash string

	cmd := &cobra.Command{
		Use:   "revoke <context>",
		Short: "Record a revocation that has been confirmed on-chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := s.app.Revocations.SubmitRevocation(cmd.Context(), types.RevocationParams{
				PermissionContext: args[0],
				TxHash:            txHash,
			})
			if err != nil {
				return err
			}
			return s.writeJSON(map[string]string{"status": "revoked", "context": args[0]})
		},
	}
	cmd.Flags().StringVar(&txHash, "tx-hash", "", "Hash of the disableDelegation transaction")
	return cmd
}

type balanceOutput struct {
	ChainID  uint64 `json:"chainId"`
	Account  string `json:"account"`
	Asset    string `json:"asset,omitempty"`
	Balance  string `json:"balance"`
	Decimals int    `json:"decimals"`
	Symbol   string `json:"symbol"`
	IconURL  string `json:"iconUrl,omitempty"`
}

func (s *runtimeState) newBalanceCommand() *cobra.Command {
	var chainArg, account, asset string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Resolve a token balance with its metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := parseChainFlag(chainArg)
			if err != nil {
				return err
			}
			result, err := s.app.Tokens.GetTokenBalanceAndMetadata(cmd.Context(), types.TokenQuery{
				ChainID:      chainID,
				Account:      account,
				AssetAddress: asset,
			})
			if err != nil {
				return err
			}

			out := balanceOutput{
				ChainID:  chainID,
				Account:  account,
				Asset:    asset,
				Balance:  "0",
				Decimals: result.Decimals,
				Symbol:   result.Symbol,
				IconURL:  result.IconURL,
			}
			if result.Balance != nil {
				out.Balance = result.Balance.String()
			}
			return s.writeJSON(out)
		},
	}
	cmd.Flags().StringVar(&chainArg, "chain-id", "", "Chain id, hex or decimal")
	cmd.Flags().StringVar(&account, "account", "", "Account address")
	cmd.Flags().StringVar(&asset, "asset", "", "Token address; empty for the native token")
	_ = cmd.MarkFlagRequired("chain-id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func (s *runtimeState) newPriceCommand() *cobra.Command {
	var chainArg, asset, currency string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Fetch the spot price of a token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := parseChainFlag(chainArg)
			if err != nil {
				return err
			}
			params := dataapi.SpotPriceParams{
				ChainID:    chainID,
				VsCurrency: strings.ToLower(currency),
			}
			if asset != "" {
				if !common.IsHexAddress(asset) {
					return apperror.InvalidInput("invalid asset address %q", asset)
				}
				address := common.HexToAddress(asset)
				params.AssetAddress = &address
			}

			price, err := s.app.DataAPI.GetSpotPrice(cmd.Context(), params)
			if err != nil {
				return err
			}
			return s.writeJSON(map[string]interface{}{
				"chainId":    chainID,
				"asset":      asset,
				"vsCurrency": params.VsCurrency,
				"price":      price,
			})
		},
	}
	cmd.Flags().StringVar(&chainArg, "chain-id", "", "Chain id, hex or decimal")
	cmd.Flags().StringVar(&asset, "asset", "", "Token address; empty for the native token")
	cmd.Flags().StringVar(&currency, "vs-currency", constants.USDCurrency, "Quote currency")
	_ = cmd.MarkFlagRequired("chain-id")
	return cmd
}

func parseChainFlag(value string) (uint64, error) {
	chainID, err := chain.ParseChainID(value)
	if err != nil || chainID == 0 {
		return 0, apperror.InvalidInput("invalid chain id %q", value)
	}
	return chainID, nil
}

func (s *runtimeState) writeJSON(v interface{}) error {
	encoder := json.NewEncoder(s.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
