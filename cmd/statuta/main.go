package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coolbeans/statuta/pkg/config"
	"github.com/coolbeans/statuta/pkg/grammar"
	"github.com/coolbeans/statuta/pkg/structure"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "statuta",
		Short: "Jurisdiction-aware statute structuring engine",
		Long: `Statuta converts raw statute text from many jurisdictions into one
canonical hierarchical record stream.

It selects a grammar variant per document (Korea, Taiwan, Japan,
Hong Kong, New Zealand, USA, Germany, generic English), segments the
text into articles, joins Part/Chapter/Section context, and decomposes
each article into paragraph and item rows.`,
		Version: version,
	}

	rootCmd.AddCommand(structureCmd())
	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(variantsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRegistry builds the variant registry, layering the override
// directory from flag or config when present.
func newRegistry(variantDir string) (grammar.Registry, error) {
	if variantDir == "" {
		return grammar.NewRegistry(), nil
	}
	reg, err := grammar.NewRegistryWithDirectory(variantDir)
	if err != nil {
		return nil, fmt.Errorf("loading variant overrides: %w", err)
	}
	return reg, nil
}

func structureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure [file]",
		Short: "Structure a statute text file into canonical records",
		Long: `Structure reads an extracted plain-text statute and emits the
flattened record stream.

Example:
  statuta structure korea/patent-act.txt
  statuta structure --hint usa title35.txt --format csv
  statuta structure --variants ./grammars act.txt --output records.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, _ := cmd.Flags().GetString("hint")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			variantDir, _ := cmd.Flags().GetString("variants")
			sourceFormat, _ := cmd.Flags().GetString("source-format")

			cfg, err := config.LoadDefault()
			if err != nil {
				return err
			}
			if hint == "" {
				hint = cfg.Hint
			}
			if format == "" {
				format = cfg.Output
			}
			if variantDir == "" {
				variantDir = cfg.VariantDir
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			reg, err := newRegistry(variantDir)
			if err != nil {
				return err
			}

			engine := structure.NewEngine(reg)
			result := engine.Extract(cmd.Context(), structure.RawDocument{
				Text:             string(data),
				Path:             args[0],
				SourceFormat:     sourceFormat,
				JurisdictionHint: hint,
			})

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch strings.ToLower(format) {
			case "", "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("encoding records: %w", err)
				}
			case "csv":
				if err := writeCSV(out, result); err != nil {
					return fmt.Errorf("writing csv: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}

			fmt.Fprintf(os.Stderr, "variant=%s reason=%s records=%d\n",
				result.VariantID, result.SelectionReason, len(result.Records))
			return nil
		},
	}

	cmd.Flags().String("hint", "", "jurisdiction or variant hint (e.g. korea, usa)")
	cmd.Flags().String("format", "", "output encoding: json or csv (default json)")
	cmd.Flags().String("output", "", "output file (default stdout)")
	cmd.Flags().String("variants", "", "directory of YAML grammar overrides")
	cmd.Flags().String("source-format", "", "source container the text was extracted from: pdf, rtf, xml, html")

	return cmd
}

func writeCSV(out *os.File, result *structure.Result) error {
	w := csv.NewWriter(out)
	header := []string{
		"part", "chapter", "section", "article_id", "article_title",
		"paragraph", "item", "subitem", "subsubitem", "text",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range result.Records {
		row := []string{
			r.Part, r.Chapter, r.Section, r.ArticleID, r.ArticleTitle,
			r.Paragraph, r.Item, r.Subitem, r.Subsubitem, r.Text,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Show which grammar variant a document would select",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, _ := cmd.Flags().GetString("hint")
			variantDir, _ := cmd.Flags().GetString("variants")

			cfg, err := config.LoadDefault()
			if err != nil {
				return err
			}
			if variantDir == "" {
				variantDir = cfg.VariantDir
			}

			reg, err := newRegistry(variantDir)
			if err != nil {
				return err
			}

			var contentSample string
			if data, err := os.ReadFile(args[0]); err == nil {
				sampleLen := cfg.SampleBytes
				if sampleLen <= 0 || sampleLen > len(data) {
					sampleLen = len(data)
				}
				contentSample = string(data[:sampleLen])
			}

			sel := reg.Select(grammar.Descriptor{
				Path:          args[0],
				Hint:          hint,
				ContentSample: contentSample,
			})
			fmt.Printf("variant: %s\n", sel.Variant.ID)
			fmt.Printf("jurisdiction: %s\n", sel.Variant.Jurisdiction)
			fmt.Printf("language: %s\n", sel.Variant.Language)
			fmt.Printf("reason: %s\n", sel.Reason)
			return nil
		},
	}

	cmd.Flags().String("hint", "", "jurisdiction or variant hint")
	cmd.Flags().String("variants", "", "directory of YAML grammar overrides")

	return cmd
}

func variantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List registered grammar variants in selection order",
		RunE: func(cmd *cobra.Command, args []string) error {
			variantDir, _ := cmd.Flags().GetString("variants")

			cfg, err := config.LoadDefault()
			if err != nil {
				return err
			}
			if variantDir == "" {
				variantDir = cfg.VariantDir
			}

			reg, err := newRegistry(variantDir)
			if err != nil {
				return err
			}

			for _, v := range reg.List() {
				levels := make([]string, 0, len(v.Levels))
				for _, l := range v.Levels {
					levels = append(levels, l.Name)
				}
				fmt.Printf("%-12s %-4s %-9s levels=[%s]\n",
					v.ID, v.Jurisdiction, v.Language, strings.Join(levels, ","))
			}
			return nil
		},
	}

	cmd.Flags().String("variants", "", "directory of YAML grammar overrides")

	return cmd
}
