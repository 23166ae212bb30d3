package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esqproject/esq/config"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loadErr := config.Load()
			if loadErr != nil {
				return loadErr
			}

			if cfg == nil || cfg.Default.Password == "" {
				fmt.Println("No active session found")

				return nil
			}

			cfg.Default.Password = ""
			if saveErr := cfg.Save(); saveErr != nil {
				return saveErr
			}

			fmt.Println("Successfully logged out (password removed)")

			return nil
		},
	}
}
