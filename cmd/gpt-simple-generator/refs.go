// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Look up the references an article would be grounded on",
	RunE:  runRefs,
}

func runRefs(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	keywords, _ := cmd.Flags().GetStringSlice("keywords")
	limit, _ := cmd.Flags().GetInt("max")
	refsFile, _ := cmd.Flags().GetString("refs")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	kw := splitList(keywords)
	if len(kw) == 0 {
		return &types.ValidationError{Field: "keywords", Reason: "at least one keyword is required"}
	}

	lookup, closeLookup, err := newLookup(cmd.Context(), refsFile, !noCache)
	if err != nil {
		return err
	}
	defer closeLookup()

	refs, err := lookup.Lookup(cmd.Context(), lang, kw, limit)
	if err != nil {
		return err
	}
	if refs == nil {
		refs = []types.ReferenceRecord{}
	}

	format, _ := cmd.Flags().GetString("format")
	return writeOutput(os.Stdout, format, refs)
}

func init() {
	refsCmd.Flags().String("lang", "en", "language of the article the references are for")
	refsCmd.Flags().StringSlice("keywords", nil, "keywords (comma-separated or repeated)")
	refsCmd.Flags().Int("max", types.MaxArticleReferences, "maximum references")
	refsCmd.Flags().String("refs", "", "read references from a YAML or JSON file")
	refsCmd.Flags().Bool("no-cache", false, "bypass the sqlite lookup cache")
	refsCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(refsCmd)
}
