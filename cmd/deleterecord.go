package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CSCfi/kielipankki-metax-bridge/config"
	"github.com/CSCfi/kielipankki-metax-bridge/metax"
)

var deleteConfigFile string

var deleteRecordCmd = &cobra.Command{
	Use:   "delete-record <pid>",
	Short: "Delete a single record from Metax",
	Long: `Delete one record from the Metax data catalog by its persistent
identifier, e.g. urn:nbn:fi:lb-1999010101. Intended for operating on
Metax by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid := args[0]

		cfg, err := config.Load(deleteConfigFile)
		if err != nil {
			return err
		}

		apiLogger, apiLogFile, err := metax.OpenRequestLog(cfg.MetaxAPILogFile)
		if err != nil {
			return err
		}
		defer apiLogFile.Close()

		client := metax.NewClient(cfg.MetaxBaseURL, cfg.MetaxCatalogID, cfg.MetaxAPIToken, apiLogger)

		id, found, err := client.RecordID(cmd.Context(), pid)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("record %s not found in Metax", pid)
		}

		fmt.Printf("Deleting record %s (Metax identifier %s) from Metax\n", pid, id)
		if err := client.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Record deleted")
		return nil
	},
}

func init() {
	deleteRecordCmd.Flags().StringVarP(&deleteConfigFile, "config", "c", "config/config.yml", "Configuration file")
}
