// Package command holds small cobra wiring helpers shared by cmd/*
// subcommands, mirroring the teacher's internal/util/command
// conventions (a subcommand-group constructor, a "connect, run, always
// disconnect" wrapper).
package command

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chapool/go-substrate-client/internal/ethrpcprovider"
	"github.com/chapool/go-substrate-client/internal/provider"
)

// NewSubcommandGroup returns a parent command named use whose only
// purpose is to hold subcommands (e.g. `probe`), matching the teacher's
// cmd/probe grouping.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: "Subcommand group: " + use,
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// WithProvider dials urls, runs fn against the resulting Provider, and
// disconnects it unconditionally afterwards — the CLI's analogue of the
// teacher's command.WithServer(ctx, cfg, fn) transaction wrapper.
func WithProvider(ctx context.Context, urls []string, fn func(ctx context.Context, p provider.Provider) error) error {
	p, err := ethrpcprovider.NewProvider(urls)
	if err != nil {
		return errors.Wrap(err, "failed to construct RPC provider")
	}

	if err := p.Connect(ctx); err != nil {
		return errors.Wrap(err, "failed to connect RPC provider")
	}
	defer func() { _ = p.Disconnect() }()

	return fn(ctx, p)
}
