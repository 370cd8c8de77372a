package command_test

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/chapool/go-substrate-client/internal/provider"
	"github.com/chapool/go-substrate-client/internal/util/command"
)

func TestNewSubcommandGroupAttachesChildren(t *testing.T) {
	child := &cobra.Command{Use: "child"}

	group := command.NewSubcommandGroup("probe", child)

	assert.Equal(t, "probe", group.Use)
	found, _, err := group.Find([]string{"child"})
	assert.NoError(t, err)
	assert.Equal(t, child, found)
}

func TestWithProviderRejectsEmptyURLList(t *testing.T) {
	err := command.WithProvider(t.Context(), nil, func(context.Context, provider.Provider) error {
		return nil
	})
	assert.Error(t, err)
}
