package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/archmap/internal/ui"
	"github.com/ThomasCrouzet/archmap/internal/wizard"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an archmap.yml config file interactively",
	Long: `Detect the GitHub remote of the current directory and the secrets the
analysis service needs, then write archmap.yml through an interactive wizard.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := defaultConfigFile
	if cfgFile != "" {
		configPath = cfgFile
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("%s already exists.\n", configPath)
		fmt.Print("Overwrite? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println(ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil)

	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	content, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s", configPath))
	fmt.Println()
	fmt.Printf("Next steps: %s\n", ui.Bold("archmap backend"))
	if answers.Repository != "" {
		fmt.Printf("            %s\n", ui.Bold("archmap analyze"))
	} else {
		fmt.Printf("            %s\n", ui.Bold("archmap analyze owner/repo"))
	}
	fmt.Printf("            %s\n", ui.Hint("or edit "+configPath+" to fine-tune your config"))

	return nil
}
