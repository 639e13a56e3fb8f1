package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"mend/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [flags] [dir]",
	Short: "List the registered fix rules",
	Long:  `List every signature the catalog can fix, in registration order, with its fixer and idempotence flag. [fixers].disable from mend.toml is applied`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type catalogEntryJSON struct {
	Order      int    `json:"order"`
	Signature  string `json:"signature"`
	Fixer      string `json:"fixer"`
	Idempotent bool   `json:"idempotent"`
}

func runCatalog(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}
	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "pretty":
		renderCatalogPretty(cmd.OutOrStdout(), cat.Entries())
		return nil
	case "json":
		out := make([]catalogEntryJSON, 0, cat.Len())
		for _, e := range cat.Entries() {
			out = append(out, catalogEntryJSON{Order: e.Order, Signature: e.Signature, Fixer: e.Fixer.Name(), Idempotent: e.Idempotent})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func renderCatalogPretty(out io.Writer, entries []catalog.Entry) {
	sigWidth, fixerWidth := len("SIGNATURE"), len("FIXER")
	for _, e := range entries {
		sigWidth = max(sigWidth, runewidth.StringWidth(e.Signature))
		fixerWidth = max(fixerWidth, runewidth.StringWidth(e.Fixer.Name()))
	}
	fmt.Fprintf(out, "%3s  %s  %s  %s\n", "#", runewidth.FillRight("SIGNATURE", sigWidth), runewidth.FillRight("FIXER", fixerWidth), "IDEMPOTENT")
	for _, e := range entries {
		fmt.Fprintf(out, "%3d  %s  %s  %t\n", e.Order, runewidth.FillRight(e.Signature, sigWidth),
			runewidth.FillRight(e.Fixer.Name(), fixerWidth), e.Idempotent)
	}
}
