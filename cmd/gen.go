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
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/prez"
	"github.com/k1LoW/prez/config"
	"github.com/k1LoW/prez/md"
	"github.com/spf13/cobra"
)

var (
	out        string
	tmpl       string
	base       string
	genVersion int
	numbers    bool
	watchMode  bool
	page       string
	testDeck   bool
)

var genCmd = &cobra.Command{
	Use:   "gen [DECK_FILE]",
	Short: "generate a PowerPoint deck from a YAML or Markdown deck file",
	Long:  `generate a PowerPoint deck from a YAML or Markdown deck file.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		theme, err := cfg.Theme()
		if err != nil {
			return err
		}

		var deckPath string
		switch {
		case testDeck && len(args) > 0:
			return fmt.Errorf("cannot use --test together with a deck file")
		case !testDeck && len(args) == 0:
			return fmt.Errorf("deck file is required. Pass a YAML or Markdown deck file or use --test")
		case len(args) > 0:
			deckPath = args[0]
		}

		numbersChanged := cmd.Flags().Changed("numbers")
		versionChanged := cmd.Flags().Changed("gen-version")

		// last holds the deck applied by the previous watch run, so saves
		// that do not change the deck's meaning skip regeneration.
		var last *prez.DeckFile

		run := func(ctx context.Context) error {
			var df *prez.DeckFile
			if testDeck {
				df = prez.TestDeck()
			} else {
				var err error
				df, err = loadDeckFile(deckPath)
				if err != nil {
					return err
				}
			}
			if watchMode && df.Equal(last) {
				logger.Info("skipping unchanged deck")
				return nil
			}

			tmplPath := resolveTemplate(cfg, df, deckPath)
			if tmplPath == "" {
				return fmt.Errorf("template is required. Use --template or set it in the deck file or config")
			}

			b := base
			if b == "" {
				b = df.Base
			}
			if b == "" {
				b = cfg.Base
			}
			if b == "" && deckPath != "" {
				b = strings.TrimSuffix(filepath.Base(deckPath), filepath.Ext(deckPath))
			}
			if b == "" {
				b = "presentation"
			}

			v := prez.DefaultVersion
			switch {
			case versionChanged:
				v = genVersion
			case df.Version != nil:
				v = *df.Version
			case cfg.Version != nil:
				v = *cfg.Version
			}

			nums := df.Numbers
			if cfg.Numbers != nil && *cfg.Numbers {
				nums = true
			}
			if numbersChanged {
				nums = numbers
			}

			outPath := out
			if outPath == "" {
				outPath = prez.VersionedName(b, v)
			}

			specs := df.Slides
			if page != "" {
				pages, err := parsePages(page, len(specs))
				if err != nil {
					return err
				}
				selected := make(prez.Specs, 0, len(pages))
				for _, p := range pages {
					selected = append(selected, specs[p-1])
				}
				specs = selected
			}

			g, err := prez.New(
				prez.WithLogger(logger),
				prez.WithTheme(theme),
				prez.WithSlideNumbers(nums),
			)
			if err != nil {
				return err
			}
			if err := g.Generate(ctx, outPath, tmplPath, specs); err != nil {
				return err
			}
			last = df
			return nil
		}

		if watchMode {
			if deckPath == "" {
				return fmt.Errorf("cannot use --watch together with --test")
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := run(ctx); err != nil {
				logger.Error("failed to generate", slog.String("error", err.Error()))
			}
			paths := []string{deckPath}
			if t := resolveTemplate(cfg, nil, deckPath); t != "" {
				paths = append(paths, t)
			}
			g, err := prez.New(prez.WithLogger(logger))
			if err != nil {
				return err
			}
			if err := g.Watch(ctx, paths, run); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}

		return run(ctx)
	},
}

// loadDeckFile loads a deck file, dispatching on the file extension.
func loadDeckFile(f string) (*prez.DeckFile, error) {
	switch strings.ToLower(filepath.Ext(f)) {
	case ".md", ".markdown":
		return md.ParseFile(f)
	default:
		return prez.LoadDeckFile(f)
	}
}

// resolveTemplate picks the template path: flag, then deck file (relative to
// the deck file's directory), then config. A nil df re-reads the deck file,
// for callers that do not hold a parsed one.
func resolveTemplate(cfg *config.Config, df *prez.DeckFile, deckPath string) string {
	if tmpl != "" {
		return tmpl
	}
	if df == nil && deckPath != "" {
		df, _ = loadDeckFile(deckPath)
	}
	if df != nil && df.Template != "" {
		if filepath.IsAbs(df.Template) || deckPath == "" {
			return df.Template
		}
		return filepath.Join(filepath.Dir(deckPath), df.Template)
	}
	return cfg.Template
}

// parsePages parses a 1-based page selection like "3", "1,3,5", "2-4", "-3"
// or "5-" into a list of page numbers. An empty selection means all pages.
func parsePages(page string, total int) ([]int, error) {
	if page == "" {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}
	var result []int
	for _, part := range strings.Split(page, ",") {
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", part)
			}
			startPage, endPage := 1, total
			var err error
			if rangeParts[0] != "" {
				if startPage, err = strconv.Atoi(rangeParts[0]); err != nil {
					return nil, fmt.Errorf("invalid page number: %s", rangeParts[0])
				}
			}
			if rangeParts[1] != "" {
				if endPage, err = strconv.Atoi(rangeParts[1]); err != nil {
					return nil, fmt.Errorf("invalid page number: %s", rangeParts[1])
				}
			}
			if startPage < 1 || startPage > total || endPage < 1 || endPage > total || startPage > endPage {
				return nil, fmt.Errorf("invalid page range: %s (total pages: %d)", part, total)
			}
			for i := startPage; i <= endPage; i++ {
				result = append(result, i)
			}
		} else {
			pageNum, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid page number: %s", part)
			}
			if pageNum < 1 || pageNum > total {
				return nil, fmt.Errorf("page number out of range: %d (total pages: %d)", pageNum, total)
			}
			result = append(result, pageNum)
		}
	}
	return result, nil
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().StringVarP(&out, "out", "o", "", "output file path (default: versioned name built from the base)")
	genCmd.Flags().StringVarP(&tmpl, "template", "t", "", "template PPTX file")
	genCmd.Flags().StringVarP(&base, "base", "", "", "output base name")
	genCmd.Flags().IntVarP(&genVersion, "gen-version", "", prez.DefaultVersion, "deck version used in the output file name")
	genCmd.Flags().BoolVarP(&numbers, "numbers", "", false, "add slide numbers to visible slides")
	genCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "watch the deck file and template, regenerate on change")
	genCmd.Flags().StringVarP(&page, "page", "p", "", "pages to generate")
	genCmd.Flags().BoolVarP(&testDeck, "test", "", false, "generate the built-in demonstration deck")
}
