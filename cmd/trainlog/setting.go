// ABOUTME: CLI commands for app settings.
// ABOUTME: Keys are unique among live rows; set/get/list/delete operations.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var settingCmd = &cobra.Command{
	Use:   "setting",
	Short: "Manage app settings",
	Long: `Manage app settings stored as key/value pairs.

Well-known keys:

  active-split       ppl or upper-lower
  theme-preference   light, dark, or system

EXAMPLES:

  trainlog setting set active-split ppl
  trainlog setting get active-split
  trainlog setting list
  trainlog setting delete theme-preference`,
}

var settingSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if _, err := trainStore.SetSetting(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		color.Green("✓ %s = %s", key, value)
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

var settingGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting, err := trainStore.GetSetting(args[0])
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", args[0], err)
		}
		if setting == nil {
			fmt.Printf("%s is not set.\n", args[0])
			return nil
		}
		fmt.Println(setting.Value)
		return nil
	},
}

var settingListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := trainStore.GetAllSettings()
		if err != nil {
			return fmt.Errorf("failed to list settings: %w", err)
		}
		if len(settings) == 0 {
			fmt.Println("No settings found.")
			return nil
		}
		for _, s := range settings {
			fmt.Printf("%s = %s\n", s.Key, s.Value)
		}
		return nil
	},
}

var settingDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a setting",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trainStore.DeleteSetting(args[0]); err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		color.Yellow("✗ Deleted %s", args[0])
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

func init() {
	settingCmd.AddCommand(settingSetCmd)
	settingCmd.AddCommand(settingGetCmd)
	settingCmd.AddCommand(settingListCmd)
	settingCmd.AddCommand(settingDeleteCmd)
	rootCmd.AddCommand(settingCmd)
}
