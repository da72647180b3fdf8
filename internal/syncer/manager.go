package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"

	"portatune/internal/config"
	"portatune/internal/engine"
	"portatune/internal/filter"
	"portatune/internal/library"
	"portatune/internal/model"
	"portatune/internal/playlist"
	"portatune/internal/space"
	"portatune/internal/state"
)

// Level indicates the severity/type of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event represents a sync progress update.
type Event struct {
	Message string
	Level   Level
}

// Manager coordinates one destination volume: its settings, filter and
// state documents, the source catalog, and the sync engine. Both the
// CLI and the TUI drive a Manager.
type Manager struct {
	dest     string
	settings *config.Settings
	catalog  *library.Library
	includes *filter.Rules
	excludes *filter.Rules
	store    *state.Store
	meter    *space.Meter

	// fillRand overrides the random-fill source, for tests.
	fillRand *rand.Rand

	pending     int32
	copied      int32
	copiedBytes int64

	onEvent func(Event)
}

// NewManager validates the destination and loads its settings
// document. The returned Manager is not ready to sync until Initialize
// has run; callers may adjust Settings in between.
func NewManager(dest string, onEvent func(Event)) (*Manager, error) {
	if err := config.ValidateDestination(dest); err != nil {
		return nil, err
	}
	settings, err := config.Load(config.SettingsPath(dest))
	if err != nil {
		return nil, err
	}
	return &Manager{
		dest:     dest,
		settings: settings,
		onEvent:  onEvent,
	}, nil
}

// Settings returns the mutable settings for this destination. Changes
// made before Initialize affect the run; Save persists them.
func (m *Manager) Settings() *config.Settings {
	return m.settings
}

// Destination returns the destination root path.
func (m *Manager) Destination() string {
	return m.dest
}

// Initialize opens the source catalog and loads the filter and state
// documents. The settings' LibraryPath may point at a library XML
// export or at a plain directory of audio files.
func (m *Manager) Initialize() error {
	if m.settings.LibraryPath == "" {
		return fmt.Errorf("%w: no library path configured", config.ErrInvalidConfig)
	}

	info, err := os.Stat(m.settings.LibraryPath)
	if err != nil {
		return fmt.Errorf("library: %w", err)
	}
	if info.IsDir() {
		m.catalog, err = library.ScanFolder(m.settings.LibraryPath)
	} else {
		m.catalog, err = library.Open(m.settings.LibraryPath)
	}
	if err != nil {
		return fmt.Errorf("library: %w", err)
	}
	m.event(Event{
		Message: fmt.Sprintf("Loaded library: %d tracks", len(m.catalog.Tracks())),
		Level:   LevelInfo,
	})

	if m.includes, err = loadRules(config.IncludesPath(m.dest)); err != nil {
		return err
	}
	if m.excludes, err = loadRules(config.ExcludesPath(m.dest)); err != nil {
		return err
	}
	if m.store, err = state.Load(config.StatePath(m.dest)); err != nil {
		return err
	}
	m.meter = space.NewMeter(m.dest, m.settings.ReserveBytes)
	return nil
}

// loadRules reads a filter document, recovering to an empty rule set
// when the document does not exist yet: fresh destinations carry no
// filters. A document that exists but cannot be parsed is still an
// error; silently syncing with the wrong selection would be worse than
// stopping.
func loadRules(path string) (*filter.Rules, error) {
	r, err := filter.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return filter.NewRules(), nil
	}
	return r, err
}

// Catalog returns the opened source catalog, nil before Initialize.
func (m *Manager) Catalog() *library.Library {
	return m.catalog
}

// Includes returns the include rules, nil before Initialize.
func (m *Manager) Includes() *filter.Rules { return m.includes }

// Excludes returns the exclude rules, nil before Initialize.
func (m *Manager) Excludes() *filter.Rules { return m.excludes }

// SaveRules persists the include and exclude documents to the
// destination.
func (m *Manager) SaveRules() error {
	if err := m.includes.Save(config.IncludesPath(m.dest)); err != nil {
		return err
	}
	return m.excludes.Save(config.ExcludesPath(m.dest))
}

// SetRand fixes the random-fill source, for reproducible runs.
func (m *Manager) SetRand(r *rand.Rand) {
	m.fillRand = r
}

// Sync runs one full synchronization and, when configured, rewrites
// the destination playlist afterwards.
func (m *Manager) Sync(ctx context.Context) (*engine.Summary, error) {
	eng := m.buildEngine()

	sum, err := eng.Run(ctx)
	if err != nil {
		return nil, err
	}

	if m.settings.CreatePlaylist && !sum.Cancelled {
		if err := m.writePlaylist(); err != nil {
			m.event(Event{
				Message: fmt.Sprintf("Error writing playlist: %v", err),
				Level:   LevelWarning,
			})
		} else {
			m.event(Event{Message: "Playlist written", Level: LevelSuccess})
		}
	}
	return sum, nil
}

// DryRun reports what Sync would do, without touching the destination:
// the planned tracks in catalog order, the relative paths that would be
// deleted, and the budget the plan was built against.
func (m *Manager) DryRun() (planned []*model.Track, reclaim []string, budget int64, err error) {
	budget, err = m.meter.Estimate(m.store)
	if err != nil {
		return nil, nil, 0, err
	}
	eng := m.buildEngine()
	planned, ids := eng.DryRun(budget)
	for _, id := range ids {
		if rel, ok := m.store.Path(id); ok {
			reclaim = append(reclaim, rel)
		}
	}
	return planned, reclaim, budget, nil
}

// Progress returns live copy-phase counters: tracks copied so far, the
// number pending at phase start, and bytes copied. Safe to call from
// another goroutine while Sync runs.
func (m *Manager) Progress() (copied, pending int32, bytes int64) {
	return atomic.LoadInt32(&m.copied),
		atomic.LoadInt32(&m.pending),
		atomic.LoadInt64(&m.copiedBytes)
}

func (m *Manager) buildEngine() *engine.Engine {
	return engine.New(engine.Config{
		Catalog:  m.catalog,
		Includes: m.includes.Resolve(m.catalog.Playlists()),
		Excludes: m.excludes.Resolve(m.catalog.Playlists()),
		Store:    m.store,
		Meter:    m.meter,
		Options: engine.Options{
			Destination:   m.dest,
			UseSubfolders: m.settings.UseSubfolders,
			MaxFileCount:  m.settings.MaxFileCount,
			RandomFill:    m.settings.RandomFill,
			Rand:          m.fillRand,
		},
		Notify: m.notifier(),
	})
}

func (m *Manager) notifier() engine.Notifier {
	return engine.Notifier{
		CopyStart: func(pending int) {
			atomic.StoreInt32(&m.pending, int32(pending))
			if pending > 0 {
				m.event(Event{
					Message: fmt.Sprintf("Copying %d track(s)", pending),
					Level:   LevelInfo,
				})
			}
		},
		BeforeCopy: func(t *model.Track) {
			m.event(Event{
				Message: fmt.Sprintf("Copying: %s", t),
				Level:   LevelVerbose,
			})
		},
		AfterCopy: func(t *model.Track) {
			atomic.AddInt32(&m.copied, 1)
			atomic.AddInt64(&m.copiedBytes, t.Size)
			m.event(Event{
				Message: fmt.Sprintf("Copied: %s", t),
				Level:   LevelSuccess,
			})
		},
		BeforeDelete: func(t *model.Track, relPath string) {
			subject := relPath
			if t != nil {
				subject = t.String()
			}
			m.event(Event{
				Message: fmt.Sprintf("Removing: %s", subject),
				Level:   LevelInfo,
			})
		},
		Error: func(subject string, kind engine.FailureKind, err error) {
			m.event(Event{
				Message: fmt.Sprintf("%s: %s (%v)", subject, kind, err),
				Level:   LevelError,
			})
		},
	}
}

// writePlaylist renders a playlist of everything the state store
// tracks, in catalog order, at the destination root.
func (m *Manager) writePlaylist() error {
	format := playlist.ParseFormat(m.settings.PlaylistFormat)
	writer := playlist.NewWriter(format, true)

	var entries []playlist.Entry
	for _, t := range m.catalog.Tracks() {
		if rel, ok := m.store.Path(t.PersistentID); ok {
			entries = append(entries, playlist.Entry{Path: rel, Track: t})
		}
	}

	path := filepath.Join(m.dest, "portatune"+format.Extension())
	return os.WriteFile(path, []byte(writer.Render(entries)), 0644)
}

func (m *Manager) event(e Event) {
	if m.onEvent != nil {
		m.onEvent(e)
	}
}
