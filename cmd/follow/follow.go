// Package follow implements `subx follow` (SPEC_FULL §4.11): opens a
// chainHead_v1_follow session over a real Provider and prints every
// typed event to stdout until the session stops or the process is
// interrupted, unfollowing cleanly either way.
package follow

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chapool/go-substrate-client/internal/chainhead"
	"github.com/chapool/go-substrate-client/internal/provider"
	"github.com/chapool/go-substrate-client/internal/util"
	"github.com/chapool/go-substrate-client/internal/util/command"
)

const (
	rpcFlag         = "rpc"
	withRuntimeFlag = "with-runtime"
)

// New returns the `follow` subcommand.
func New() *cobra.Command {
	var (
		rpcURLs     []string
		withRuntime bool
	)

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Open a chainHead_v1_follow session and print events until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sessionLog := log.With().Str("command", "follow").Strs("rpc_urls", rpcURLs).Logger()
			ctx = util.WithLogger(ctx, sessionLog)

			return command.WithProvider(ctx, rpcURLs, func(ctx context.Context, p provider.Provider) error {
				return run(ctx, cmd, p, withRuntime)
			})
		},
	}

	cmd.Flags().StringSliceVar(&rpcURLs, rpcFlag, nil, "one or more RPC endpoint URLs (failover order)")
	cmd.Flags().BoolVar(&withRuntime, withRuntimeFlag, false, "request runtime version information on each new block")
	_ = cmd.MarkFlagRequired(rpcFlag)

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, p provider.Provider, withRuntime bool) error {
	session, err := chainhead.Follow(ctx, p, withRuntime, nil)
	if err != nil {
		return err
	}
	defer func() { _ = session.Unfollow(context.Background()) }()

	out := cmd.OutOrStdout()

	for {
		select {
		case event, ok := <-session.Events():
			if !ok {
				return nil
			}
			fmt.Fprintln(out, describe(event))
			if _, stopped := event.(chainhead.Stop); stopped {
				return nil
			}
		case <-ctx.Done():
			return session.Unfollow(context.Background())
		}
	}
}

func describe(event chainhead.Event) string {
	var b strings.Builder

	switch e := event.(type) {
	case chainhead.Initialized:
		fmt.Fprintf(&b, "initialized finalized_block_hash=%s", e.FinalizedBlockHash)
	case chainhead.NewBlock:
		fmt.Fprintf(&b, "newBlock block_hash=%s parent_block_hash=%s", e.BlockHash, e.ParentBlockHash)
	case chainhead.BestBlockChanged:
		fmt.Fprintf(&b, "bestBlockChanged best_block_hash=%s", e.BestBlockHash)
	case chainhead.Finalized:
		fmt.Fprintf(&b, "finalized finalized=%v pruned=%v", e.FinalizedBlockHashes, e.PrunedBlockHashes)
	case chainhead.Stop:
		fmt.Fprint(&b, "stop")
	case chainhead.OperationBodyDone:
		fmt.Fprintf(&b, "operationBodyDone operation_id=%s extrinsics=%d", e.OperationID, len(e.Value))
	case chainhead.OperationCallDone:
		fmt.Fprintf(&b, "operationCallDone operation_id=%s output=%s", e.OperationID, e.Output)
	case chainhead.OperationStorageItems:
		fmt.Fprintf(&b, "operationStorageItems operation_id=%s items=%d", e.OperationID, len(e.Items))
	case chainhead.OperationStorageDone:
		fmt.Fprintf(&b, "operationStorageDone operation_id=%s", e.OperationID)
	case chainhead.OperationError:
		fmt.Fprintf(&b, "operationError operation_id=%s error=%s", e.OperationID, e.Error)
	case chainhead.OperationInaccessible:
		fmt.Fprintf(&b, "operationInaccessible operation_id=%s", e.OperationID)
	default:
		fmt.Fprint(&b, "unrecognized event")
	}

	return b.String()
}
