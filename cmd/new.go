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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var title string

var newCmd = &cobra.Command{
	Use:   "new [DECK_FILE]",
	Short: "create a new deck file",
	Long: `create a new deck file.

The starter deck file is written in Markdown or YAML depending on the file
extension (default: deck.md).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := "deck.md"
		if len(args) > 0 {
			f = args[0]
		}
		if _, err := os.Stat(f); err == nil {
			return fmt.Errorf("%s already exists", f)
		}
		t := title
		if t == "" {
			t = "New Presentation"
		}
		b := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		var starter string
		switch strings.ToLower(filepath.Ext(f)) {
		case ".yml", ".yaml":
			starter = yamlStarter(t, b)
		default:
			starter = mdStarter(t, b)
		}
		if err := os.WriteFile(f, []byte(starter), 0o644); err != nil {
			return fmt.Errorf("failed to create %s: %w", f, err)
		}
		fmt.Println(f)
		return nil
	},
}

func mdStarter(title, base string) string {
	return fmt.Sprintf(`---
template: template.pptx
base: %s
numbers: true
---

# %s

## Your subtitle here

---

# First topic

- First point
- Second point
  - Supporting detail

---

# Conclusions

- Key takeaway
`, base, title)
}

func yamlStarter(title, base string) string {
	return fmt.Sprintf(`template: template.pptx
base: %s
numbers: true
slides:
  - type: title
    title: %q
    subtitle: "Your subtitle here"
  - type: content
    title: "First topic"
    content:
      - First point
      - Second point
      - ["Supporting detail", 1]
  - type: conclusion
    content:
      - Key takeaway
`, base, title)
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&title, "title", "t", "", "title of the presentation")
}
