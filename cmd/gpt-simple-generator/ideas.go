// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adivvvv/gpt-simple-generator/internal/ideas"
	"github.com/adivvvv/gpt-simple-generator/internal/schema"
	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Grow, list and generate article ideas",
	Long: `Ideas manages one persistent pool of article ideas per language under
the configured ideas directory. Records are deduplicated by title plus primary
keyword, lowercased with whitespace collapsed, and each pool is capped.`,
}

// --- seed subcommand ---

var ideasSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Grow a language pool toward a target size",
	Long: `Seed requests batches of ideas until the pool reaches --target, a batch
adds nothing new, or the iteration guard trips. Empty batches halve the
batch size. Progress goes to stderr, the summary to stdout.`,
	RunE: runIdeasSeed,
}

func runIdeasSeed(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	target, _ := cmd.Flags().GetInt("target")
	batch, _ := cmd.Flags().GetInt("batch")
	seeds, _ := cmd.Flags().GetStringSlice("seed")

	req := ideas.SeedRequest{Lang: lang, Target: target, Batch: batch, SeedTopics: splitList(seeds)}
	if err := req.Validate(); err != nil {
		return err
	}

	gen, err := newIdeaGenerator()
	if err != nil {
		return err
	}

	store := ideas.NewStore(cfg.Ideas.Dir, logger)
	seeder := ideas.NewSeeder(gen, cfg.Ideas, cfg.Content.Topic, logger)

	res, seedErr := seeder.Seed(cmd.Context(), store.Pool(lang), req, os.Stderr)
	format, _ := cmd.Flags().GetString("format")
	if err := writeOutput(os.Stdout, format, res); err != nil {
		return err
	}
	return seedErr
}

// --- list subcommand ---

var ideasListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print ideas from a language pool",
	RunE:  runIdeasList,
}

type ideaListOutput struct {
	Lang  string             `json:"lang" yaml:"lang"`
	Count int                `json:"count" yaml:"count"`
	Total int                `json:"total" yaml:"total"`
	Ideas []types.IdeaRecord `json:"ideas" yaml:"ideas"`
}

func runIdeasList(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	if !types.ValidLanguage(lang) {
		return &types.ValidationError{Field: "lang", Reason: "unsupported language"}
	}
	limit, _ := cmd.Flags().GetInt("limit")
	shuffle, _ := cmd.Flags().GetBool("shuffle")

	pool := ideas.NewStore(cfg.Ideas.Dir, logger).Pool(lang)
	list := pool.List(limit, shuffle)
	if list == nil {
		list = []types.IdeaRecord{}
	}

	format, _ := cmd.Flags().GetString("format")
	return writeOutput(os.Stdout, format, ideaListOutput{
		Lang:  lang,
		Count: len(list),
		Total: pool.Count(),
		Ideas: list,
	})
}

// --- keywords subcommand ---

var ideasKeywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Generate ideas for seed topics without touching any pool",
	RunE:  runIdeasKeywords,
}

func runIdeasKeywords(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	seeds, _ := cmd.Flags().GetStringSlice("seed")
	count, _ := cmd.Flags().GetInt("count")

	gen, err := newIdeaGenerator()
	if err != nil {
		return err
	}

	list, err := gen.GenerateForKeywords(cmd.Context(), lang, splitList(seeds), count)
	if err != nil {
		return err
	}
	if list == nil {
		list = []types.IdeaRecord{}
	}

	format, _ := cmd.Flags().GetString("format")
	return writeOutput(os.Stdout, format, ideaListOutput{Lang: lang, Count: len(list), Total: len(list), Ideas: list})
}

func newIdeaGenerator() (*ideas.Generator, error) {
	sch, err := loadSchema(schema.Ideas)
	if err != nil {
		return nil, err
	}
	return ideas.NewGenerator(newExecutor(), sch, cfg.AI.UtilModel, cfg.Content.Topic, logger), nil
}

func init() {
	ideasSeedCmd.Flags().String("lang", "en", "pool language")
	ideasSeedCmd.Flags().Int("target", 1000, "target pool size (at least 100)")
	ideasSeedCmd.Flags().Int("batch", 100, "ideas requested per iteration (at least 10)")
	ideasSeedCmd.Flags().StringSlice("seed", nil, "seed topics (default: configured topic)")
	ideasSeedCmd.Flags().String("format", "json", "output format: json or yaml")

	ideasListCmd.Flags().String("lang", "en", "pool language")
	ideasListCmd.Flags().Int("limit", 100, "maximum ideas to print")
	ideasListCmd.Flags().Bool("shuffle", true, "randomize order")
	ideasListCmd.Flags().String("format", "json", "output format: json or yaml")

	ideasKeywordsCmd.Flags().String("lang", "en", "output language")
	ideasKeywordsCmd.Flags().StringSlice("seed", nil, "seed topics (required)")
	ideasKeywordsCmd.Flags().Int("count", 100, "ideas to generate (1-200)")
	ideasKeywordsCmd.Flags().String("format", "json", "output format: json or yaml")

	ideasCmd.AddCommand(ideasSeedCmd)
	ideasCmd.AddCommand(ideasListCmd)
	ideasCmd.AddCommand(ideasKeywordsCmd)
	rootCmd.AddCommand(ideasCmd)
}
