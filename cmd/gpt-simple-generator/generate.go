// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/adivvvv/gpt-simple-generator/internal/article"
	"github.com/adivvvv/gpt-simple-generator/internal/render"
	"github.com/adivvvv/gpt-simple-generator/internal/schema"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one article",
	Long: `Generate builds a long-form article for the given keywords. References
are looked up in PubMed (or read from --refs) and offered to the model as
the only citable sources. Articles failing the acceptance check are
regenerated once with a fresh lead and a higher temperature.

The request can be given by flags or as a YAML/JSON file with --request.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	sch, err := loadSchema(schema.Article)
	if err != nil {
		return err
	}

	refs, err := lookupRefs(cmd, req)
	if err != nil {
		return err
	}

	gen := article.NewGenerator(newExecutor(), sch, cfg.AI.ArticleModel, cfg.Content, article.WithLogger(logger))
	res, err := gen.Generate(ctx, req, refs)
	if err != nil {
		return err
	}

	if html, _ := cmd.Flags().GetBool("html"); html {
		if err := render.Article(&res.Article); err != nil {
			return err
		}
	}

	format, _ := cmd.Flags().GetString("format")
	return writeOutput(os.Stdout, format, res)
}

// lookupRefs resolves the reference list. A failed lookup is logged and
// yields no references; only an unreadable --refs file is an error.
func lookupRefs(cmd *cobra.Command, req types.GenerationRequest) ([]types.ReferenceRecord, error) {
	if noRefs, _ := cmd.Flags().GetBool("no-refs"); noRefs {
		return nil, nil
	}
	refsFile, _ := cmd.Flags().GetString("refs")
	maxRefs, _ := cmd.Flags().GetInt("max-refs")

	lookup, closeLookup, err := newLookup(cmd.Context(), refsFile, true)
	if err != nil {
		return nil, err
	}
	defer closeLookup()

	refs, err := lookup.Lookup(cmd.Context(), req.Lang, req.Keywords, maxRefs)
	if err != nil {
		logger.Warn("reference lookup failed, continuing without references",
			zap.Strings("keywords", req.Keywords), zap.Error(err))
		return nil, nil
	}
	return refs, nil
}

func requestFromFlags(cmd *cobra.Command) (types.GenerationRequest, error) {
	var req types.GenerationRequest

	if path, _ := cmd.Flags().GetString("request"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("reading request file: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, &types.ValidationError{Field: "request", Reason: fmt.Sprintf("unparseable request file: %v", err)}
		}
		return req, nil
	}

	f := cmd.Flags()
	req.Lang, _ = f.GetString("lang")
	req.Subject, _ = f.GetString("subject")
	keywords, _ := f.GetStringSlice("keywords")
	req.Keywords = splitList(keywords)
	req.Paragraphs, _ = f.GetInt("paragraphs")
	req.FAQCount, _ = f.GetInt("faq")
	req.StyleFlags, _ = f.GetStringSlice("style")
	req.SpecialRequirements, _ = f.GetString("special")
	req.MinSentences = changedInt(cmd, "min-sentences")
	mode, _ := f.GetString("citation-mode")
	req.CitationMode = types.CitationMode(mode)
	req.MaxInlineCitations = changedInt(cmd, "max-inline")
	req.BanPhrases, _ = f.GetStringArray("ban")
	lead, _ := f.GetString("lead")
	req.LeadStyle = types.LeadStyle(lead)
	req.Temperature, _ = f.GetFloat64("temperature")
	return req, nil
}

// changedInt returns the flag value only when it was given on the command
// line, so an explicit zero is distinguishable from the default.
func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	n, _ := cmd.Flags().GetInt(name)
	return &n
}

func init() {
	f := generateCmd.Flags()
	f.String("request", "", "read the request from a YAML or JSON file instead of flags")
	f.String("lang", "en", "output language code")
	f.String("subject", "", "article subject (default: first keyword)")
	f.StringSlice("keywords", nil, "keywords (comma-separated or repeated)")
	f.Int("paragraphs", 0, "target paragraph count (default from config)")
	f.Int("faq", 0, "target FAQ count (default from config)")
	f.StringSlice("style", nil, "style flags")
	f.String("special", "", "special requirements passed to the model")
	f.Int("min-sentences", 0, "minimum sentences per paragraph, 1-12 (default from config)")
	f.String("citation-mode", "", "citation mode: none, limited or auto (default from config)")
	f.Int("max-inline", 0, "maximum inline citations in limited mode, 0 keeps none (default from config)")
	f.StringArray("ban", nil, "extra banned opening phrase (repeatable)")
	f.String("lead", "", "lead style (default: random)")
	f.Float64("temperature", 0, "first attempt temperature (default from config)")
	f.String("refs", "", "YAML or JSON reference file used instead of PubMed")
	f.Bool("no-refs", false, "skip the reference lookup")
	f.Int("max-refs", types.MaxArticleReferences, "maximum references offered to the model")
	f.Bool("html", false, "include body_html rendered from the markdown body")
	f.String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(generateCmd)
}
