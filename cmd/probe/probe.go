// Package probe implements `subx probe` (SPEC_FULL §4.11): dials the
// configured RPC endpoints and calls chainSpec_v1_genesisHash, printing
// the result or exiting non-zero on failure. Adapted from the teacher's
// cmd/probe liveness/readiness pattern, repurposed from an HTTP health
// check to an RPC connectivity check since this library has no HTTP
// surface to probe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chapool/go-substrate-client/internal/chainprofile"
	"github.com/chapool/go-substrate-client/internal/provider"
	"github.com/chapool/go-substrate-client/internal/util/command"
)

const rpcFlag = "rpc"

// New returns the `probe` subcommand.
func New() *cobra.Command {
	var rpcURLs []string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Dial the RPC endpoints and confirm the chain answers chainSpec_v1_genesisHash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithProvider(cmd.Context(), rpcURLs, func(ctx context.Context, p provider.Provider) error {
				return run(ctx, cmd, p)
			})
		},
	}

	cmd.Flags().StringSliceVar(&rpcURLs, rpcFlag, nil, "one or more RPC endpoint URLs (failover order)")
	_ = cmd.MarkFlagRequired(rpcFlag)

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, p provider.Provider) error {
	resp, err := p.Send(ctx, "chainSpec_v1_genesisHash", nil)
	if err != nil {
		return errors.Wrap(err, "probe request failed")
	}
	if resp.Error != nil {
		return errors.Errorf("probe request returned an error: %s", resp.Error.Message)
	}

	var genesisHash string
	if err := json.Unmarshal(resp.Result, &genesisHash); err != nil {
		return errors.Wrap(err, "failed to decode genesis hash response")
	}

	out := cmd.OutOrStdout()

	profiles := chainprofile.NewRegistry(chainprofile.WellKnown())
	if profile, err := profiles.GetProfileByGenesisHash(ctx, genesisHash); err == nil {
		fmt.Fprintf(out, "ok genesis_hash=%s chain=%s\n", genesisHash, profile.Name)
		return nil
	}

	fmt.Fprintf(out, "ok genesis_hash=%s chain=unknown\n", genesisHash)
	return nil
}
