package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"portatune/internal/config"
	"portatune/internal/plog"
	"portatune/internal/syncer"
)

// stringList collects repeatable flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		libraryFlag    = flag.String("library", "", "Library XML export or music folder (overrides config)")
		destFlag       = flag.String("dest", "", "Destination volume root")
		configFlag     = flag.String("config", "", "Path to an alternate settings document")
		randomFillFlag = flag.Bool("random-fill", false, "Top the selection up with random tracks")
		subfoldersFlag = flag.Bool("subfolders", false, "Spread files over numbered subfolders")
		maxFilesFlag   = flag.Int("max-files", 0, "Visible-file limit per subfolder")
		playlistFlag   = flag.Bool("playlist", false, "Write a playlist of the synced set")
		dryRunFlag     = flag.Bool("dry-run", false, "Show the plan without touching the destination")
		quietFlag      = flag.Bool("quiet", false, "Only print warnings and errors")
		verboseFlag    = flag.Bool("verbose", false, "Show verbose output")
		listFlag       = flag.String("list", "", "List library attributes: albums|artists|genres|playlists")

		includeAlbums    stringList
		includeArtists   stringList
		includeGenres    stringList
		includePlaylists stringList
		excludeAlbums    stringList
		excludeArtists   stringList
		excludeGenres    stringList
		excludePlaylists stringList
	)
	flag.Var(&includeAlbums, "include-album", "Album to include (repeatable)")
	flag.Var(&includeArtists, "include-artist", "Artist to include (repeatable)")
	flag.Var(&includeGenres, "include-genre", "Genre to include (repeatable)")
	flag.Var(&includePlaylists, "include-playlist", "Playlist to include (repeatable)")
	flag.Var(&excludeAlbums, "exclude-album", "Album to exclude (repeatable)")
	flag.Var(&excludeArtists, "exclude-artist", "Artist to exclude (repeatable)")
	flag.Var(&excludeGenres, "exclude-genre", "Genre to exclude (repeatable)")
	flag.Var(&excludePlaylists, "exclude-playlist", "Playlist to exclude (repeatable)")

	flag.Parse()

	dest := *destFlag
	if dest == "" && flag.NArg() > 0 {
		dest = flag.Arg(0)
	}
	if dest == "" {
		fmt.Println("portatune - sync a music library to a portable player")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  portatune -dest <path> [options]")
		fmt.Println("  portatune <path> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: portatune-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	plog.SetQuiet(*quietFlag)

	manager, err := syncer.NewManager(dest, func(e syncer.Event) {
		if e.Level == syncer.LevelVerbose && !*verboseFlag {
			return
		}
		if *quietFlag && e.Level != syncer.LevelError && e.Level != syncer.LevelWarning {
			return
		}
		prefix := "   "
		switch e.Level {
		case syncer.LevelError:
			prefix = " ✗ "
		case syncer.LevelWarning:
			prefix = " ! "
		case syncer.LevelSuccess:
			prefix = " ✓ "
		case syncer.LevelInfo:
			prefix = " › "
		}
		fmt.Println(prefix + e.Message)
	})
	if err != nil {
		plog.Error("Cannot open destination", "error", err)
		os.Exit(1)
	}

	settings := manager.Settings()
	if *configFlag != "" {
		alt, err := config.Load(*configFlag)
		if err != nil {
			plog.Error("Cannot load settings", "path", *configFlag, "error", err)
			os.Exit(1)
		}
		*settings = *alt
	}
	if *libraryFlag != "" {
		settings.LibraryPath = *libraryFlag
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "random-fill":
			settings.RandomFill = *randomFillFlag
		case "subfolders":
			settings.UseSubfolders = *subfoldersFlag
		case "max-files":
			settings.MaxFileCount = *maxFilesFlag
		case "playlist":
			settings.CreatePlaylist = *playlistFlag
		}
	})

	if err := manager.Initialize(); err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			plog.Error("Configuration problem", "error", err)
		} else {
			plog.Error("Cannot open library", "error", err)
		}
		os.Exit(1)
	}

	if *listFlag != "" {
		if err := printList(manager, *listFlag); err != nil {
			plog.Error("List failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Fold flag-supplied rules into the persisted documents.
	rulesChanged := false
	addAll := func(add func(string), names stringList) {
		for _, n := range names {
			add(n)
			rulesChanged = true
		}
	}
	addAll(manager.Includes().AddAlbum, includeAlbums)
	addAll(manager.Includes().AddArtist, includeArtists)
	addAll(manager.Includes().AddGenre, includeGenres)
	addAll(manager.Includes().AddPlaylist, includePlaylists)
	addAll(manager.Excludes().AddAlbum, excludeAlbums)
	addAll(manager.Excludes().AddArtist, excludeArtists)
	addAll(manager.Excludes().AddGenre, excludeGenres)
	addAll(manager.Excludes().AddPlaylist, excludePlaylists)
	if rulesChanged && !*dryRunFlag {
		if err := manager.SaveRules(); err != nil {
			plog.Warn("Cannot persist filter rules", "error", err)
		}
	}

	if *dryRunFlag {
		planned, reclaim, budget, err := manager.DryRun()
		if err != nil {
			plog.Error("Dry run failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Budget: %.2f MB\n\n", float64(budget)/1024/1024)
		fmt.Printf("Would copy or keep %d track(s):\n", len(planned))
		for _, t := range planned {
			fmt.Printf("  %s (%.2f MB)\n", t, float64(t.Size)/1024/1024)
		}
		if len(reclaim) > 0 {
			fmt.Printf("\nWould remove %d file(s):\n", len(reclaim))
			for _, rel := range reclaim {
				fmt.Printf("  %s\n", rel)
			}
		}
		return
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	sum, err := manager.Sync(ctx)
	if err != nil {
		plog.Error("Sync failed", "error", err)
		os.Exit(1)
	}
	if sum.Cancelled {
		fmt.Println("\nSync cancelled.")
		os.Exit(130)
	}

	if err := settings.Save(config.SettingsPath(dest)); err != nil {
		plog.Warn("Cannot persist settings", "error", err)
	}

	fmt.Println()
	fmt.Printf("Done. Copied %d track(s) (%.2f MB), removed %d, failed %d.\n",
		sum.Copied, float64(sum.CopiedBytes)/1024/1024, sum.Deleted, sum.Failed)
}

// printList writes one library attribute list to stdout.
func printList(manager *syncer.Manager, what string) error {
	lib := manager.Catalog()

	var items []string
	switch what {
	case "albums":
		items = lib.Albums()
	case "artists":
		items = lib.Artists()
	case "genres":
		items = lib.Genres()
	case "playlists":
		items = lib.PlaylistNames()
	default:
		return fmt.Errorf("unknown list %q (albums|artists|genres|playlists)", what)
	}

	for _, item := range items {
		fmt.Println(item)
	}
	return nil
}
