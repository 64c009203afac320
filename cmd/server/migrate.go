package main

import (
	"orion-os/internal/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.ConnectDb(); err != nil {
			return err
		}
		defer db.CloseDb()

		return db.Migrate(db.AppDb)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
