package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/webagentaa/webagent/internal/config"
	"github.com/webagentaa/webagent/internal/masking"
)

func newConfigCommand() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration after defaults, the config file, and
environment overrides are merged. Secret values are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			// Redact secrets before printing. The masker only knows literals,
			// so blank the fields directly and note their presence.
			display := *cfg
			if display.Agent.APIKey != "" {
				display.Agent.APIKey = masking.RedactionToken
			}
			if display.Remote.AccessKey != "" {
				display.Remote.AccessKey = masking.RedactionToken
			}

			out, err := yaml.Marshal(&display)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out)) //nolint:errcheck

			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\nValidation: %v\n", err) //nolint:errcheck
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "\nValidation: ok") //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "webagent.yaml", "Path to the configuration file")

	return cmd
}
