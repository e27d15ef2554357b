package cmd

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/k1LoW/prez"
	"github.com/k1LoW/prez/config"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check prez environment and configuration",
	Long:  `Check prez environment and configuration to ensure everything is set up correctly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Color setup
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		bold := color.New(color.Bold)

		allOK := true

		// 1. Check configuration file
		cmd.Print("🔧 Checking configuration file ... ")

		cfg, err := config.Load(profile)
		if err != nil {
			red.Println("✗ CONFIG ERROR")
			cmd.Printf("   Error loading config: %v\n", err)
			cmd.Println()
			showSetupHelp(cmd)
			return nil
		}
		green.Println("✓ OK")
		cmd.Println("   Configuration loaded successfully")

		// 2. Check theme colors
		cmd.Print("🎨 Checking theme colors ... ")

		if _, err := cfg.Theme(); err != nil {
			red.Println("✗ INVALID COLORS")
			cmd.Printf("   Theme error: %v\n", err)
			allOK = false
		} else {
			green.Println("✓ OK")
		}

		// 3. Check template
		cmd.Print("🔍 Checking template ... ")

		switch {
		case cfg.Template == "":
			yellow.Println("⚠️ NOT SET")
			cmd.Println("   Set template in the config or pass --template to gen")
			allOK = false
		default:
			if _, err := os.Stat(cfg.Template); err != nil {
				red.Println("✗ NOT FOUND")
				cmd.Printf("   Expected at: %s\n", cfg.Template)
				allOK = false
			} else if layouts, err := prez.ValidateTemplate(cfg.Template); err != nil {
				red.Println("✗ INVALID TEMPLATE")
				cmd.Printf("   Template error: %v\n", err)
				allOK = false
			} else {
				green.Println("✓ OK")
				cmd.Printf("   Template: %s (%d layouts)\n", cfg.Template, len(layouts))
			}
		}

		// 4. Check export command (optional)
		cmd.Print("📤 Checking export command ... ")

		if cfg.ExportCommand == "" {
			yellow.Println("⚠️ NOT SET")
			cmd.Println("   Set exportCommand in the config to enable prez export")
		} else {
			green.Println("✓ OK")
			cmd.Printf("   Export command: %s\n", cfg.ExportCommand)
		}

		// Final message
		cmd.Println()
		if allOK {
			bold.Printf("🎉 ")
			green.Print("All checks passed! You are ready to use prez")
			bold.Println(".")
			cmd.Println()
			cmd.Println("Try generating the demonstration deck:")
			yellow.Println("  prez gen --test")
		} else {
			red.Println("⚠️  Setup is incomplete.")
			cmd.Println("\nPlease fix the issues above to use prez properly.")
			cmd.Println()
			showSetupHelp(cmd)
		}

		return nil
	},
}

func showSetupHelp(cmd *cobra.Command) {
	yellow := color.New(color.FgYellow)
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Println("📚 Setup Guide")
	cmd.Println()
	cmd.Println("To use prez, you need a branded PPTX template whose first three slides")
	cmd.Println("are the title, quote and split archetypes.")
	cmd.Println()
	bold.Println("Follow these steps:")
	cmd.Println()
	bold.Print("1. ")
	cmd.Println("Save your template somewhere stable, for example:")
	yellow.Printf("   %s\n", filepath.Join(config.DataHomePath(), "template.pptx"))
	cmd.Println()
	bold.Print("2. ")
	cmd.Println("Create the config file:")
	yellow.Printf("   %s\n", filepath.Join(config.ConfigHomePath(), "config.yml"))
	cmd.Println("   template: /path/to/template.pptx")
	cmd.Println("   base: deck")
	cmd.Println()
	bold.Print("3. ")
	cmd.Println("Generate the demonstration deck to verify the template:")
	yellow.Println("   prez gen --test")
	cmd.Println()
	bold.Println("📖 For detailed instructions, see:")
	cyan.Println("   https://github.com/k1LoW/prez#getting-started")
	cmd.Println()
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
