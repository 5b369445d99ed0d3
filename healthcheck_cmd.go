package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"example.com/storefront/internal/infra/persistence/postgres"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Ping MySQL and, when configured, Postgres",
	RunE:  runHealthcheck,
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "mysql ok")

	if a.pg != nil {
		if err := postgres.Ping(ctx, a.pg); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "pg ok")
	}
	return nil
}
