package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/TonnenFred/soundmap-bot/internal/config"
	"github.com/TonnenFred/soundmap-bot/internal/constants"
	"github.com/TonnenFred/soundmap-bot/internal/domain"
	"github.com/TonnenFred/soundmap-bot/internal/logger"
	"github.com/TonnenFred/soundmap-bot/internal/store"
)

// Runner holds the dependencies for CLI commands and provides a method per
// command action.
type Runner struct {
	logger *logger.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger *logger.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{logger: opts.Logger, output: opts.Output}
}

// loadConfig reads the config file named by --config when it exists,
// otherwise falls back to environment-only configuration.
func (r *Runner) loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}
	cfg := config.Load()
	return cfg, cfg.Validate()
}

func (r *Runner) openStore(cmd *cli.Command) (*store.DB, *config.Config, error) {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	r.logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

// Init creates the database file and applies the schema.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	db, cfg, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("database initialized", "path", cfg.DBPath)
	return nil
}

// Stats prints row counts across the store.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	db, _, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetStats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats)
	}

	fmt.Fprintf(r.output, "users:     %d\n", stats.Users)
	fmt.Fprintf(r.output, "artists:   %d\n", stats.Artists)
	fmt.Fprintf(r.output, "tracks:    %d\n", stats.Tracks)
	fmt.Fprintf(r.output, "epics:     %d\n", stats.Epics)
	fmt.Fprintf(r.output, "wishes:    %d\n", stats.Wishes)
	fmt.Fprintf(r.output, "favorites: %d\n", stats.Favorites)
	return nil
}

// Profile prints a user's collection overview.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.StringArg("user-id")
	if userID == "" {
		return fmt.Errorf("%w: user-id argument is required", domain.ErrValidation)
	}

	db, _, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	profile, err := db.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile)
	}

	name := profile.User.Username
	if name == "" {
		name = profile.User.UserID
	}
	fmt.Fprintf(r.output, "Profile: %s\n", name)

	fmt.Fprintf(r.output, "\nEpics (%d):\n", len(profile.Epics))
	for i, e := range profile.Epics {
		if i == constants.ProfileDisplayLimit {
			fmt.Fprintf(r.output, "  … %d more\n", len(profile.Epics)-constants.ProfileDisplayLimit)
			break
		}
		fmt.Fprintf(r.output, "  %s – %s #%d\n", e.ArtistName, e.Title, e.EpicNumber)
	}

	fmt.Fprintf(r.output, "\nFavorite artists (%d):\n", len(profile.Favorites))
	for i, f := range profile.Favorites {
		if i == constants.ProfileDisplayLimit {
			fmt.Fprintf(r.output, "  … %d more\n", len(profile.Favorites)-constants.ProfileDisplayLimit)
			break
		}
		line := "  " + f.ArtistName
		if f.Badge != nil {
			line += fmt.Sprintf(" — %s %s", domain.BadgeEmojis[*f.Badge], *f.Badge)
		}
		fmt.Fprintln(r.output, line)
	}

	fmt.Fprintf(r.output, "\nWishlist (%d):\n", len(profile.Wishlist))
	for i, w := range profile.Wishlist {
		if i == constants.ProfileDisplayLimit {
			fmt.Fprintf(r.output, "  … %d more\n", len(profile.Wishlist)-constants.ProfileDisplayLimit)
			break
		}
		line := fmt.Sprintf("  %s – %s", w.ArtistName, w.Title)
		if w.Note != nil && *w.Note != "" {
			line += " — " + *w.Note
		}
		fmt.Fprintln(r.output, line)
	}
	return nil
}

// Search prints catalog tracks matching a term.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	term := cmd.StringArg("term")
	if strings.TrimSpace(term) == "" {
		return fmt.Errorf("%w: search term is required", domain.ErrValidation)
	}

	db, _, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	tracks, err := db.SearchTracks(ctx, term, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks)
	}

	for _, t := range tracks {
		fmt.Fprintf(r.output, "%s – %s (%s)\n", t.ArtistName, t.Title, t.TrackID)
	}
	return nil
}

// snapshot is the export file layout: one entry per user with the full
// collection, plus store-wide stats.
type snapshot struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Stats     *domain.Stats    `json:"stats"`
	Profiles  []domain.Profile `json:"profiles"`
}

// Export dumps every user's collection to a JSON file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	db, _, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetStats(ctx)
	if err != nil {
		return err
	}
	users, err := db.ListUsers(ctx)
	if err != nil {
		return err
	}

	snap := snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Stats:     stats,
	}
	for _, u := range users {
		profile, err := db.GetProfile(ctx, u.UserID)
		if err != nil {
			return err
		}
		snap.Profiles = append(snap.Profiles, *profile)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		out = fmt.Sprintf("soundmap-export-%s.json", snap.ID)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.logger.Info("export written", "path", out, "snapshot_id", snap.ID, "users", len(snap.Profiles))
	return nil
}

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
