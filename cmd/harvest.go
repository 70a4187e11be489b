package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CSCfi/kielipankki-metax-bridge/config"
	"github.com/CSCfi/kielipankki-metax-bridge/format"
	"github.com/CSCfi/kielipankki-metax-bridge/harvest"
	"github.com/CSCfi/kielipankki-metax-bridge/mapping"
	"github.com/CSCfi/kielipankki-metax-bridge/metax"
	"github.com/CSCfi/kielipankki-metax-bridge/vocab"
)

var (
	configFile       string
	dialectName      string
	languageEndpoint string
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest records and synchronize them to Metax",
	Long: `Harvest all records that are new or changed since the last successful
run, send them to Metax, and delete Metax records that no longer exist
in the source catalog.

The start of the incremental window is recovered from the harvester log
file; without a logged successful run everything is harvested.`,
	Args: cobra.NoArgs,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVarP(&configFile, "config", "c", "config/config.yml", "Configuration file")
	harvestCmd.Flags().StringVar(&dialectName, "dialect", "cmdi", "Source dialect (see the dialects command)")
	harvestCmd.Flags().StringVar(&languageEndpoint, "language-endpoint", "", "Language vocabulary endpoint override")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	parser, err := newParser(dialectName, languageEndpoint)
	if err != nil {
		return err
	}

	apiLogger, apiLogFile, err := metax.OpenRequestLog(cfg.MetaxAPILogFile)
	if err != nil {
		return err
	}
	defer apiLogFile.Close()

	dest := metax.NewClient(cfg.MetaxBaseURL, cfg.MetaxCatalogID, cfg.MetaxAPIToken, apiLogger)
	source := harvest.NewPMHClient(cfg.OAIPMHURL, parser)
	driver := harvest.NewDriver(source, dest, harvest.NewRunLog(cfg.HarvesterLogFile))

	stats, err := driver.Run(cmd.Context())
	fmt.Printf("Harvested %d records, %d faulty, %d deleted\n", stats.Harvested, stats.Faulty, stats.Deleted)
	if err != nil {
		return err
	}
	if stats.Faulty > 0 {
		return fmt.Errorf("%d record(s) could not be harvested", stats.Faulty)
	}
	return nil
}

func newParser(dialect, endpoint string) (*format.Parser, error) {
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	profile, ok := registry.Get(dialect)
	if !ok {
		return nil, fmt.Errorf("unknown dialect: %s", dialect)
	}
	return format.NewParser(profile, vocab.NewLanguageVocabulary(endpoint)), nil
}
