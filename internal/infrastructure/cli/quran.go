package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain/quran"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	quranPage     int
	quranNext     bool
	quranPrev     bool
	quranOpenID   string
	quranFontSize int
	quranDark     bool
	quranArabic   bool
	quranBigger   bool
	quranSmaller  bool
)

var quranCmd = &cobra.Command{
	Use:   "quran",
	Short: "Browse surahs and read by page",
}

var quranSurahsCmd = &cobra.Command{
	Use:   "surahs [query]",
	Short: "List surahs, filtered by name, translation or number",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			surahs := s.Quran.Search(query)
			if jsonOutput() {
				return printJSON(surahs)
			}
			tw := newTable()
			tw.AppendHeader(table.Row{"#", "Name", "Arabic", "Meaning", "Ayahs", "Juz", "Page"})
			for _, su := range surahs {
				tw.AppendRow(table.Row{su.Number, su.Name, su.NameArabic, su.Translation, su.Ayahs, su.Juz, su.StartPage})
			}
			tw.Render()
			return nil
		})
	},
}

var quranOpenCmd = &cobra.Command{
	Use:   "open <surah> [verse]",
	Short: "Open the reader at a surah, or at a verse within it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		surah, err := parseNumber("surah", args[0])
		if err != nil {
			return err
		}
		verse := 0
		if len(args) == 2 {
			if verse, err = parseNumber("verse", args[1]); err != nil {
				return err
			}
		}
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			var r application.Reading
			if verse > 0 {
				r, err = s.Quran.OpenVerse(ctx, surah, verse)
			} else {
				r, err = s.Quran.OpenSurah(ctx, surah)
			}
			if err != nil {
				return err
			}
			return printReading(r, s.Quran.Settings(ctx))
		})
	},
}

var quranReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Continue reading from the last position, or turn a page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			page := quranPage
			if page == 0 {
				page = s.Quran.Position(ctx).Page
			}
			r, err := s.Quran.OpenPage(ctx, page)
			if err != nil {
				return err
			}
			switch {
			case quranNext:
				r, err = s.Quran.Turn(ctx, true)
			case quranPrev:
				r, err = s.Quran.Turn(ctx, false)
			}
			if err != nil {
				return err
			}
			return printReading(r, s.Quran.Settings(ctx))
		})
	},
}

var quranRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently read pages, or reopen one with --open",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			if quranOpenID != "" {
				r, err := s.Quran.OpenRecent(ctx, quranOpenID)
				if err != nil {
					return err
				}
				return printReading(r, s.Quran.Settings(ctx))
			}
			recent := s.Quran.Recent(ctx)
			if jsonOutput() {
				return printJSON(recent)
			}
			if len(recent) == 0 {
				fmt.Println("Nothing read yet.")
				return nil
			}
			tw := newTable()
			tw.AppendHeader(table.Row{"ID", "Surah", "Verse", "Page", "Juz", "When"})
			for _, r := range recent {
				tw.AppendRow(table.Row{r.ID, r.SurahName, r.Verse, r.Page, r.Juz, r.Timestamp.Local().Format("Jan 2 15:04")})
			}
			tw.Render()
			return nil
		})
	},
}

var quranSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change reader preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			settings := s.Quran.Settings(ctx)
			flags := cmd.Flags()
			if flags.Changed("font-size") || flags.Changed("dark") || flags.Changed("arabic") {
				if flags.Changed("font-size") {
					settings.FontSize = quranFontSize
				}
				if flags.Changed("dark") {
					settings.DarkMode = quranDark
				}
				if flags.Changed("arabic") {
					settings.ShowArabic = quranArabic
				}
				var err error
				if settings, err = s.Quran.UpdateSettings(ctx, settings); err != nil {
					return err
				}
			}
			switch {
			case quranBigger:
				settings = s.Quran.StepFontSize(ctx, true)
			case quranSmaller:
				settings = s.Quran.StepFontSize(ctx, false)
			}
			if jsonOutput() {
				return printJSON(settings)
			}
			fmt.Printf("Font size: %d  Dark mode: %s  Arabic: %s\n", settings.FontSize, onOff(settings.DarkMode), onOff(settings.ShowArabic))
			return nil
		})
	},
}

func printReading(r application.Reading, settings quran.Settings) error {
	if jsonOutput() {
		return printJSON(r)
	}
	fmt.Printf("Page %d  %s (%s)  juz %d\n\n", r.Page.PageNumber, r.Surah.Name, r.Surah.NameArabic, r.Position.Juz)
	for _, v := range r.Page.Verses {
		if settings.ShowArabic {
			fmt.Printf("%d:%d  %s\n", v.Surah, v.Number, v.Text)
			fmt.Printf("       %s\n", v.Translation)
		} else {
			fmt.Printf("%d:%d  %s\n", v.Surah, v.Number, v.Translation)
		}
	}
	return nil
}

func init() {
	quranReadCmd.Flags().IntVar(&quranPage, "page", 0, "page to open (default is the last read page)")
	quranReadCmd.Flags().BoolVar(&quranNext, "next", false, "turn to the next page")
	quranReadCmd.Flags().BoolVar(&quranPrev, "prev", false, "turn to the previous page")
	quranRecentCmd.Flags().StringVar(&quranOpenID, "open", "", "reopen a history entry by id")
	quranSettingsCmd.Flags().IntVar(&quranFontSize, "font-size", quran.DefaultFontSize, "font size")
	quranSettingsCmd.Flags().BoolVar(&quranDark, "dark", false, "dark mode")
	quranSettingsCmd.Flags().BoolVar(&quranArabic, "arabic", true, "show Arabic text")
	quranSettingsCmd.Flags().BoolVar(&quranBigger, "bigger", false, "one font step larger")
	quranSettingsCmd.Flags().BoolVar(&quranSmaller, "smaller", false, "one font step smaller")

	quranCmd.AddCommand(quranSurahsCmd, quranOpenCmd, quranReadCmd, quranRecentCmd, quranSettingsCmd)
	RootCmd.AddCommand(quranCmd)
}
