package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domcart "example.com/storefront/internal/domain/cart"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect persisted carts",
}

var cartShowCmd = &cobra.Command{
	Use:   "show <session-key>",
	Short: "Print the stored cart for a session key (user:<id> or guest:<uuid>)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartShow,
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	storage, err := a.cartStorage(ctx)
	if err != nil {
		return err
	}

	data, err := storage.Load(ctx, args[0])
	if errors.Is(err, domcart.ErrSnapshotNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "no cart stored for %s\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}
	state, err := domcart.Unmarshal(data)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]any{
		"key":     args[0],
		"entries": state.Entries(),
		"total":   state.Total(),
		"count":   state.Count(),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
