package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fut/internal/config"
)

var configOutput string

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change settings",
		Long: `Shows and changes the settings stored in config.yaml inside the
configuration directory (--config-path). Keys use dotted paths such as
validator.auto_update or output.history_path.`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	show.Flags().StringVarP(&configOutput, "output", "o", "yaml", "Output format (table, json, yaml)")

	get := &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE:      runConfigGet,
	}

	set := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting and save config.yaml",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE:      runConfigSet,
	}

	cmd.AddCommand(show, get, set)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formatter, _, err := newFormatter(cmd, configOutput, false)
	if err != nil {
		return err
	}
	return formatter.FormatData(cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	v, err := config.Get(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg, err = config.Set(cfg, args[0], args[1])
	if err != nil {
		return err
	}
	if err := config.SaveConfig(configPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s updated in %s\n", args[0], config.FilePath(configPath))
	return nil
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
