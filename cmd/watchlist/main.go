package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"courier-watchlist/internal/core/config"
	"courier-watchlist/internal/core/httpclient"
	"courier-watchlist/internal/core/localstore"
	"courier-watchlist/internal/core/logger"
	identityservice "courier-watchlist/internal/features/identity/service"
	statusservice "courier-watchlist/internal/features/status/service"
	"courier-watchlist/internal/features/watchlist/adapters"
	"courier-watchlist/internal/features/watchlist/domain"
	watchservice "courier-watchlist/internal/features/watchlist/service"
	"courier-watchlist/internal/tui"
)

// app bundles the wired services shared by every subcommand.
type app struct {
	cfg      *config.AppConfig
	store    *localstore.RedisAdapter
	identity *identityservice.Manager
	backend  *adapters.APIClient
	list     *watchservice.ListStore
	cards    *watchservice.CardStates
	registry *statusservice.Registry
	orch     *watchservice.Orchestrator
	events   chan watchservice.Event
	userID   string
}

// buildApp loads configuration, initializes logging, and wires the
// service graph. The identity precedence is: USER_ID override, then the
// persisted current identity, then "default".
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	store, err := localstore.NewRedisAdapter(cfg.LocalStore.RedisURL)
	if err != nil {
		return nil, err
	}
	identity := identityservice.NewManager(store)

	userID := cfg.UserID
	if userID != "" {
		// An explicit override becomes the new current identity; a
		// failure here means the local store is down, which only costs
		// us persistence.
		if err := identity.Switch(ctx, userID); err != nil {
			logger.Get().Warn("Failed to persist identity override", zap.Error(err))
		}
	} else {
		userID, err = identity.Current(ctx)
		if errors.Is(err, identityservice.ErrNoIdentity) {
			userID = "default"
		} else if err != nil {
			logger.Get().Warn("Failed to load persisted identity", zap.Error(err))
			userID = "default"
		}
	}

	httpClient := httpclient.NewClient(time.Duration(cfg.Backend.TimeoutSeconds) * time.Second)
	backend := adapters.NewAPIClient(cfg.Backend.URL, userID, httpClient)

	list := watchservice.NewListStore(backend)
	cards := watchservice.NewCardStates()
	registry := statusservice.NewRegistry()

	events := make(chan watchservice.Event, 256)
	orch := watchservice.NewOrchestrator(backend, list, cards, registry, func(e watchservice.Event) {
		select {
		case events <- e:
		default:
			// A full channel means no TUI is draining; drop rather
			// than block the fan-out.
		}
	})

	logger.Get().Info("Watchlist client ready",
		zap.String("backend", cfg.Backend.URL),
		zap.String("user_id", userID),
	)

	return &app{
		cfg:      cfg,
		store:    store,
		identity: identity,
		backend:  backend,
		list:     list,
		cards:    cards,
		registry: registry,
		orch:     orch,
		events:   events,
		userID:   userID,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logger.Get().Warn("Failed to close local store", zap.Error(err))
	}
	logger.Sync()
}

// printItem writes one tracked item as a terminal line.
func printItem(item domain.TrackedItem) {
	status := item.LastResult.DisplayStatus()
	if status == "" {
		status = "not checked yet"
	}
	if item.LastResult != nil && item.LastResult.DaysTaken != nil {
		status += fmt.Sprintf(" (%d days)", *item.LastResult.DaysTaken)
	}
	label := item.Label
	if label != "" {
		label = " (" + label + ")"
	}
	checked := ""
	if item.LastChecked != "" {
		checked = "  checked " + domain.FormatTimestamp(item.LastChecked)
	}
	fmt.Printf("%4d  %-20s%s  [%s]  %s%s\n", item.ID, item.Tracking, label, item.Courier, status, checked)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	model := tui.NewModel(tui.Config{
		Backend:      a.backend,
		Store:        a.list,
		Cards:        a.cards,
		Registry:     a.registry,
		Orchestrator: a.orch,
		Events:       a.events,
		UserID:       a.userID,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

func trackAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: watchlist track <tracking-number>")
	}
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.backend.Track(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("lookup failed: %s", result.Error)
	}

	fmt.Printf("%s  [%s]  %s\n", result.TrackingNumber, result.Courier, result.Status)
	for _, event := range result.History {
		fmt.Println(formatHistoryLine(event))
	}
	return nil
}

// formatHistoryLine renders one tracking event for terminal output.
func formatHistoryLine(event domain.HistoryEvent) string {
	return fmt.Sprintf("  %s  %-20s %s", domain.FormatTimestamp(event.Time), event.Location, event.Message)
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return a.runList(ctx, domain.BuildQuery(cmd.String("sort"), cmd.String("status"), cmd.String("search")))
}

// runList fetches and prints the tracked list. The one-shot keyword
// sync runs first so category filtering matches the server's table; a
// failed sync keeps the built-in defaults.
func (a *app) runList(ctx context.Context, query domain.Query) error {
	_ = a.registry.SyncOnce(ctx, a.backend)

	items, err := a.list.Fetch(ctx, query)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no tracked shipments")
		return nil
	}
	for _, item := range items {
		printItem(item)
	}
	return nil
}

func addAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: watchlist add <tracking-number>")
	}
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	item, err := a.backend.AddTracked(ctx, domain.AddRequest{
		Tracking: cmd.Args().First(),
		Label:    cmd.String("label"),
		Courier:  cmd.String("courier"),
	})
	if errors.Is(err, domain.ErrAlreadyTracked) {
		return fmt.Errorf("%s is already on the watchlist", cmd.Args().First())
	}
	if err != nil {
		return err
	}
	fmt.Printf("added #%d %s\n", item.ID, item.Tracking)
	return nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: watchlist check <id>")
	}
	id, err := parseID(cmd.Args().First())
	if err != nil {
		return err
	}
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.orch.CheckOne(ctx, id)
	if err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("check failed: %s", result.Error)
	}
	fmt.Printf("#%d  %s\n", id, result.Status)
	return nil
}

func updateAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return a.runUpdate(ctx)
}

// runUpdate refreshes every non-delivered shipment and prints the
// tally. The one-shot keyword sync runs first so eligibility is
// classified against the server's table, not just the built-in
// defaults.
func (a *app) runUpdate(ctx context.Context) error {
	_ = a.registry.SyncOnce(ctx, a.backend)

	// The eligibility filter needs a list snapshot first.
	if _, err := a.list.Fetch(ctx, domain.DefaultQuery()); err != nil {
		return err
	}

	total := len(a.orch.Eligible(a.list.Items()))
	count, err := a.orch.RunBulkUpdate(ctx)
	if err != nil {
		return fmt.Errorf("updated %d of %d, but: %w", count, total, err)
	}
	fmt.Printf("updated %d of %d shipment(s)\n", count, total)
	return nil
}

func removeAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: watchlist rm <id>")
	}
	id, err := parseID(cmd.Args().First())
	if err != nil {
		return err
	}
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.orch.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("removed #%d\n", id)
	return nil
}

func labelAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("usage: watchlist label <id> <text>")
	}
	id, err := parseID(cmd.Args().First())
	if err != nil {
		return err
	}
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.orch.SetLabel(ctx, id, cmd.Args().Get(1)); err != nil {
		return err
	}
	fmt.Printf("labeled #%d\n", id)
	return nil
}

func userShowAction(ctx context.Context, cmd *cli.Command) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Println(a.userID)

	recent, err := a.identity.Recent(ctx)
	if err != nil {
		return err
	}
	for _, id := range recent {
		if id != a.userID {
			fmt.Println("  " + id)
		}
	}
	return nil
}

func userSwitchAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: watchlist user switch <id>")
	}
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.identity.Switch(ctx, cmd.Args().First()); err != nil {
		return err
	}
	fmt.Printf("now acting as %s\n", cmd.Args().First())
	return nil
}

func userForgetAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: watchlist user forget <id>")
	}
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.identity.Forget(ctx, cmd.Args().First()); err != nil {
		return err
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "watchlist",
		Usage:  "Track courier shipments from the terminal",
		Action: watchAction,
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Open the interactive watchlist",
				Action: watchAction,
			},
			{
				Name:      "track",
				Usage:     "One-off tracking lookup without saving",
				ArgsUsage: "<tracking-number>",
				Action:    trackAction,
			},
			{
				Name:   "list",
				Usage:  "Print the tracked list",
				Action: listAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "sort control, e.g. created_at:asc"},
					&cli.StringFlag{Name: "status", Usage: "filter by category: delivered, error, other"},
					&cli.StringFlag{Name: "search", Usage: "search tracking numbers and labels"},
				},
			},
			{
				Name:      "add",
				Usage:     "Add a shipment to the watchlist",
				ArgsUsage: "<tracking-number>",
				Action:    addAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "label", Usage: "display label"},
					&cli.StringFlag{Name: "courier", Usage: "courier hint"},
				},
			},
			{
				Name:      "check",
				Usage:     "Refresh one tracked shipment",
				ArgsUsage: "<id>",
				Action:    checkAction,
			},
			{
				Name:   "update",
				Usage:  "Refresh every shipment that is not delivered yet",
				Action: updateAction,
			},
			{
				Name:      "rm",
				Usage:     "Remove a shipment from the watchlist",
				ArgsUsage: "<id>",
				Action:    removeAction,
			},
			{
				Name:      "label",
				Usage:     "Set a shipment's display label",
				ArgsUsage: "<id> <text>",
				Action:    labelAction,
			},
			{
				Name:  "user",
				Usage: "Manage the acting identity",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the current and recent identities",
						Action: userShowAction,
					},
					{
						Name:      "switch",
						Usage:     "Switch the acting identity",
						ArgsUsage: "<id>",
						Action:    userSwitchAction,
					},
					{
						Name:      "forget",
						Usage:     "Drop an identity from the recent list",
						ArgsUsage: "<id>",
						Action:    userForgetAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("watchlist: %v", err)
	}
}
