package cmd

import (
	"context"
	"strings"

	"github.com/brogergvhs/mangasrc/internal/chapters"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/providers"

	"github.com/spf13/cobra"
)

var (
	// chapters
	flagChapter string
	flagRange   string
	flagList    string

	// search
	flagTags []string
	flagPage int
)

func init() {
	detailsCmd := &cobra.Command{
		Use:   "details <manga-id>",
		Short: "Show the details of a manga",
		Args:  cobra.ExactArgs(1),
		RunE: sourceCommand(nil, func(cmd *cobra.Command, a *app, src providers.Source, args []string) error {
			m, err := src.MangaDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printYAML(cmd.OutOrStdout(), m)
		}),
	}

	chaptersCmd := &cobra.Command{
		Use:   "chapters <manga-id>",
		Short: "List the chapters of a manga, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: sourceCommand(nil, func(cmd *cobra.Command, a *app, src providers.Source, args []string) error {
			selected, err := selectChapters(cmd.Context(), src, args[0], args[0])
			if err != nil {
				return err
			}

			out := make([]model.Chapter, len(selected))
			for i, ch := range selected {
				out[i] = ch.Chapter
			}

			return printYAML(cmd.OutOrStdout(), out)
		}),
	}
	addSelectionFlags(chaptersCmd)

	pagesCmd := &cobra.Command{
		Use:   "pages <manga-id> <chapter-id>",
		Short: "List the page images of a chapter",
		Args:  cobra.ExactArgs(2),
		RunE: sourceCommand(nil, func(cmd *cobra.Command, a *app, src providers.Source, args []string) error {
			d, err := src.ChapterDetails(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			return printYAML(cmd.OutOrStdout(), d)
		}),
	}

	searchCmd := &cobra.Command{
		Use:   "search [title]",
		Short: "Search a source by title and tags",
		Args:  cobra.ArbitraryArgs,
		RunE: sourceCommand(nil, func(cmd *cobra.Command, a *app, src providers.Source, args []string) error {
			res, err := src.Search(cmd.Context(), providers.SearchQuery{
				Title: strings.Join(args, " "),
				Tags:  flagTags,
			}, flagPage)
			if err != nil {
				return err
			}

			return printYAML(cmd.OutOrStdout(), res)
		}),
	}
	searchCmd.Flags().StringSliceVar(&flagTags, "tag", nil, "tag id to filter on (repeatable)")
	searchCmd.Flags().IntVar(&flagPage, "page", 1, "result page")

	homeCmd := &cobra.Command{
		Use:   "home",
		Short: "Show the sections of the site landing page",
		Args:  cobra.NoArgs,
		RunE: sourceCommand(nil, func(cmd *cobra.Command, a *app, src providers.Source, _ []string) error {
			var sections []model.HomeSection
			for round, err := range src.HomeSections(cmd.Context()) {
				if err != nil {
					return err
				}
				a.log.Debugf("home: %d sections delivered", len(round))
				sections = round
			}

			return printYAML(cmd.OutOrStdout(), sections)
		}),
	}

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List the tags a source can search on",
		Args:  cobra.NoArgs,
		RunE: sourceCommand(nil, func(cmd *cobra.Command, a *app, src providers.Source, _ []string) error {
			groups, err := src.TagGroups(cmd.Context())
			if err != nil {
				return err
			}

			return printYAML(cmd.OutOrStdout(), groups)
		}),
	}

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "List the available sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(nil)
			if err != nil {
				return err
			}

			return printYAML(cmd.OutOrStdout(), a.registry.List())
		},
	}

	rootCmd.AddCommand(detailsCmd, chaptersCmd, pagesCmd, searchCmd, homeCmd, tagsCmd, sourcesCmd)
}

func addSelectionFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagChapter, "chapter", "", "single chapter by number or id (e.g. 5 or 28.5)")
	c.Flags().StringVar(&flagRange, "range", "", "chapters numbered within a range (e.g. 5-12)")
	c.Flags().StringVar(&flagList, "list", "", "specific chapter numbers (e.g. 1,3,5)")
}

func selectChapters(ctx context.Context, src providers.Source, mangaID, title string) ([]chapters.Chapter, error) {
	list, err := src.Chapters(ctx, mangaID)
	if err != nil {
		return nil, err
	}

	return chapters.Filter(chapters.FromModel(title, list), flagChapter, flagRange, flagList)
}
