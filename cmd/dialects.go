package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CSCfi/kielipankki-metax-bridge/mapping"
)

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List supported source dialects",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := mapping.NewProfileRegistry()
		if err != nil {
			return err
		}

		fmt.Println("Supported source dialects:")
		for _, name := range registry.List() {
			profile, _ := registry.Get(name)
			desc := ""
			if profile.Description != "" {
				desc = " - " + profile.Description
			}
			fmt.Printf("  %s%s\n", name, desc)
		}
		return nil
	},
}

var dialectsShowCmd = &cobra.Command{
	Use:   "show [dialect]",
	Short: "Show a dialect profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := mapping.NewProfileRegistry()
		if err != nil {
			return err
		}

		profile, ok := registry.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown dialect: %s", args[0])
		}

		out, err := yaml.Marshal(profile)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	dialectsCmd.AddCommand(dialectsShowCmd)
}
