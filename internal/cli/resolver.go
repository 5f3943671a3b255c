package cli

import (
	"github.com/spf13/cobra"

	"github.com/Kimen6931/BlockLocker/internal/api/response"
)

func newResolverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolver",
		Short: "Name resolver commands",
	}

	cmd.AddCommand(newResolverStatusCmd())
	cmd.AddCommand(newResolverFlushCmd())

	return cmd
}

func newResolverStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queued protections and batch counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ResolverStats

			if err := client.Get(cmd.Context(), "/api/v1/resolver", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newResolverFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Resolve everything queued now instead of waiting for the next tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.FlushResponse

			if err := client.Post(cmd.Context(), "/api/v1/resolver/flush", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
