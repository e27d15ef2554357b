/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/k1LoW/prez"
	"github.com/k1LoW/prez/config"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "export a generated deck with the configured export command",
	Long: `export a generated deck with the configured export command.

The exportCommand config key names the converter, for example:

  exportCommand: soffice --headless --convert-to pdf {{input}}

The command may reference {{input}}, {{output}} and {{env.XXX}}; the same
values are exported as PREZ_EXPORT_INPUT and PREZ_EXPORT_OUTPUT.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		if cfg.ExportCommand == "" {
			return fmt.Errorf("export command is required. Set exportCommand in the config")
		}
		input, err := resolveGenerated(cfg, args)
		if err != nil {
			return err
		}
		output := exportOut
		if output == "" {
			output = strings.TrimSuffix(input, ".pptx") + ".pdf"
		}
		if err := prez.Export(ctx, cfg.ExportCommand, input, output); err != nil {
			return err
		}
		cmd.Println(output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: the input with a .pdf extension)")
}
