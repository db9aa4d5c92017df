package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seralba/notedex/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure notedex with an interactive wizard",
	Long:  `Runs an interactive wizard to configure notedex for your vault and writes a .notedex.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
