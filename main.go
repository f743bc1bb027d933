package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"book-tracker/tracker"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openTracker() (*tracker.Tracker, error) {
	tracker.SetLocale(envOr("TRACKER_LOCALE", "en"))
	return tracker.NewTracker(envOr("CATALOG_PATH", "books.json"), envOr("DB_PATH", "tracker.db"))
}

func debounceWindow() time.Duration {
	ms, err := strconv.Atoi(envOr("SEARCH_DEBOUNCE_MS", "300"))
	if err != nil || ms < 0 {
		ms = 300
	}
	return time.Duration(ms) * time.Millisecond
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "book-tracker",
		Short:         "Browse a book catalog and track what you've read",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse()
		},
	}
	root.AddCommand(
		newBrowseCmd(),
		newListCmd(),
		newSearchCmd(),
		newShowCmd(),
		newStatsCmd(),
		newGenresCmd(),
		newReadCmd(),
		newRateCmd(),
	)
	return root
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive catalog browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse()
		},
	}
}

func newListCmd() *cobra.Command {
	var search, status, genre, rep, sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTracker()
			if err != nil {
				return err
			}
			defer t.Close()

			t.OnSearchChanged(search)
			t.OnStatusChanged(status)
			t.OnGenreChanged(genre)
			t.OnRepresentationChanged(rep)
			view := t.OnSortChanged(sortKey)
			printBooks(t, view)
			printStats(view.Stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search text (title, author, description, representation)")
	cmd.Flags().StringVar(&status, "status", "all", "read status: all, read, unread")
	cmd.Flags().StringVar(&genre, "genre", "all", "genre filter")
	cmd.Flags().StringVar(&rep, "representation", "all", "representation filter")
	cmd.Flags().StringVar(&sortKey, "sort", "title", "sort key: title, author, rating-high, rating-low, year-new, year-old")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTracker()
			if err != nil {
				return err
			}
			defer t.Close()

			view := t.OnSearchChanged(strings.Join(args, " "))
			printBooks(t, view)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show the full record for one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid book id: %s", args[0])
			}
			t, err := openTracker()
			if err != nil {
				return err
			}
			defer t.Close()
			return printBookDetail(t, id)
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and reading statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTracker()
			if err != nil {
				return err
			}
			defer t.Close()
			printStats(t.View().Stats)
			return nil
		},
	}
}

func newGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genre and representation filter options",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTracker()
			if err != nil {
				return err
			}
			defer t.Close()

			fmt.Println("Genres:")
			for _, g := range t.Catalog().Genres() {
				fmt.Printf("  %s\n", g)
			}
			fmt.Println("Representation:")
			for _, r := range t.Catalog().Representations() {
				fmt.Printf("  %s\n", r)
			}
			return nil
		},
	}
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <book-id>",
		Short: "Toggle a book's read flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid book id: %s", args[0])
			}
			t, err := openTracker()
			if err != nil {
				return err
			}
			defer t.Close()

			b, ok := t.Catalog().Get(id)
			if !ok {
				return fmt.Errorf("book %d not found", id)
			}
			view := t.OnToggleRead(id)
			if t.IsRead(id) {
				fmt.Printf("Marked '%s' as read.\n", b.Title)
			} else {
				fmt.Printf("Marked '%s' as unread.\n", b.Title)
			}
			printStats(view.Stats)
			return nil
		},
	}
}

func newRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <book-id> <stars>",
		Short: "Rate a book 1-5 stars (repeat the same rating to clear it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid book id: %s", args[0])
			}
			stars, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating: %s", args[1])
			}
			t, err := openTracker()
			if err != nil {
				return err
			}
			defer t.Close()

			b, ok := t.Catalog().Get(id)
			if !ok {
				return fmt.Errorf("book %d not found", id)
			}
			view := t.OnSetRating(id, stars)
			if r, ok := t.Overlay().Ratings[id]; ok {
				fmt.Printf("You rated '%s' %d star(s). %s\n", b.Title, r, tracker.StarGlyphs(float64(r)))
			} else {
				fmt.Printf("Rating cleared for '%s'.\n", b.Title)
			}
			printStats(view.Stats)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// Interactive browse loop
// ---------------------------------------------------------------------------

func runBrowse() error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	// Search input is debounced: a burst of search commands re-renders only
	// after the quiescence window, a newer one superseding pending ones.
	var mu sync.Mutex
	var pendingSearch string
	applySearch, stopSearch := tracker.Debounce(debounceWindow(), func() {
		mu.Lock()
		text := pendingSearch
		mu.Unlock()
		view := t.OnSearchChanged(text)
		printBooks(t, view)
		printStats(view.Stats)
		fmt.Print("\n> ")
	})
	defer stopSearch()

	fmt.Println("Book Tracker — interactive browser")
	printBrowseHelp()

	view := t.View()
	printBooks(t, view)
	printStats(view.Stats)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(cmd) {
		case "help":
			printBrowseHelp()
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "search":
			mu.Lock()
			pendingSearch = rest
			mu.Unlock()
			applySearch()
			continue
		case "status":
			view = t.OnStatusChanged(rest)
		case "genre":
			view = t.OnGenreChanged(rest)
		case "rep", "representation":
			view = t.OnRepresentationChanged(rest)
		case "sort":
			view = t.OnSortChanged(rest)
		case "reset":
			view = t.OnReset()
		case "list":
			view = t.View()
		case "stats":
			printStats(t.View().Stats)
			continue
		case "read":
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				fmt.Printf("Invalid book id: %s\n", rest)
				continue
			}
			view = t.OnToggleRead(id)
		case "rate":
			fields := strings.Fields(rest)
			if len(fields) != 2 {
				fmt.Println("Usage: rate <book-id> <stars>")
				continue
			}
			id, err1 := strconv.ParseInt(fields[0], 10, 64)
			stars, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil {
				fmt.Println("Usage: rate <book-id> <stars>")
				continue
			}
			view = t.OnSetRating(id, stars)
		case "show":
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				fmt.Printf("Invalid book id: %s\n", rest)
				continue
			}
			if err := printBookDetail(t, id); err != nil {
				fmt.Println(err)
			}
			continue
		default:
			fmt.Println("Unknown command. Type 'help' for the command list.")
			continue
		}

		printBooks(t, view)
		printStats(view.Stats)
	}
	return nil
}

func printBrowseHelp() {
	fmt.Println("Commands:")
	fmt.Println("  Filters: search <text> | status all|read|unread | genre <name> | rep <name> | sort <key> | reset")
	fmt.Println("  Books:   list | show <id> | read <id> | rate <id> <stars>")
	fmt.Println("  Other:   stats | help | exit")
	fmt.Println("  Sort keys: title, author, rating-high, rating-low, year-new, year-old")
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w >= 80 {
		return w
	}
	return 100
}

func printBooks(t *tracker.Tracker, v tracker.View) {
	fmt.Printf("\nShowing %d of %d books\n", len(v.Books), v.Stats.Total)
	if len(v.Books) == 0 {
		fmt.Println("No books match the current filters.")
		return
	}

	titleW := 32
	authorW := 22
	if termWidth() >= 120 {
		titleW = 44
		authorW = 28
	}

	fmt.Printf("%-5s %-*s %-*s %-6s %-16s %-8s %-6s %s\n",
		"ID", titleW, "Title", authorW, "Author", "Year", "Genre", "Rating", "Read", "Stars")
	fmt.Println(strings.Repeat("-", titleW+authorW+50))

	overlay := t.Overlay()
	for _, b := range v.Books {
		rating := tracker.DisplayRating(b, overlay)
		ratingLabel := fmt.Sprintf("%.1f", rating)
		if _, mine := overlay.Ratings[b.ID]; mine {
			ratingLabel += "*"
		}
		readMark := ""
		if overlay.ReadIDs[b.ID] {
			readMark = "read"
		}
		fmt.Printf("%-5d %-*s %-*s %-6d %-16s %-8s %-6s %s\n",
			b.ID,
			titleW, tracker.Truncate(b.Title, titleW),
			authorW, tracker.Truncate(b.Author, authorW),
			b.PublishYear,
			tracker.Truncate(b.Genre, 16),
			ratingLabel,
			readMark,
			tracker.StarGlyphs(rating))
	}
	fmt.Println("Ratings marked * are yours; the rest are catalog averages.")
}

func printStats(s tracker.Stats) {
	fmt.Printf("Total: %d | Read: %d | Your average rating: %.1f\n", s.Total, s.Read, s.AvgUserRating)
}

func printBookDetail(t *tracker.Tracker, id int64) error {
	b, ok := t.Catalog().Get(id)
	if !ok {
		return fmt.Errorf("book %d not found", id)
	}

	fmt.Printf("\n%s\n", b.Title)
	fmt.Printf("by %s\n", b.Author)
	fmt.Printf("%s %.1f average rating\n", tracker.StarGlyphs(b.AverageRating), b.AverageRating)
	overlay := t.Overlay()
	if r, ok := overlay.Ratings[b.ID]; ok {
		fmt.Printf("Your rating: %s (%d)\n", tracker.StarGlyphs(float64(r)), r)
	} else {
		fmt.Println("Your rating: not rated")
	}
	if overlay.ReadIDs[b.ID] {
		fmt.Println("Status: read")
	} else {
		fmt.Println("Status: unread")
	}

	fmt.Printf("\nDescription\n  %s\n", b.Description)
	fmt.Printf("\nAuthor\n  %s\n", b.AuthorDescription)
	fmt.Printf("\nLGBTQ+ Representation\n  %s\n", strings.Join(b.LGBTQRepresentation, ", "))
	fmt.Printf("\nGenre\n  %s\n", b.Genre)
	fmt.Printf("\nPublished\n  %d\n", b.PublishYear)
	if len(b.TriggerWarnings) > 0 {
		fmt.Printf("\nContent Warnings\n  %s\n", strings.Join(b.TriggerWarnings, ", "))
	}
	fmt.Printf("\nCover: %s (gradient to %s)\n", b.CoverColor, tracker.AdjustColor(b.CoverColor, -20))
	return nil
}
