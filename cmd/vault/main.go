package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/halvard/vault-core/internal/config"
	"github.com/halvard/vault-core/internal/logger"
	"github.com/halvard/vault-core/internal/oracle"
	"github.com/halvard/vault-core/internal/sim"
	"github.com/halvard/vault-core/internal/storage"
	"github.com/halvard/vault-core/internal/tui"
	"github.com/halvard/vault-core/internal/utils"
	"github.com/halvard/vault-core/internal/vault"
)

func stateOf(v *vault.Vault) tui.StateUpdate {
	aggregateCap, withdrawalCap := v.Caps()
	price, priceErr := v.NativePrice()

	update := tui.StateUpdate{
		AggregateValue: v.TotalNormalizedValue(),
		AggregateCap:   aggregateCap,
		WithdrawalCap:  withdrawalCap,
		NativePrice:    price,
		PriceErr:       priceErr,
		Paused:         v.IsPaused(),
	}
	for _, id := range v.SupportedAssets() {
		if info, err := v.AssetInfo(id); err == nil {
			update.Assets = append(update.Assets, info)
		}
	}
	return update
}

func runScenario(cfg *config.Config, stepDelay time.Duration) error {
	scenario, err := sim.NewScenario(cfg)
	if err != nil {
		return err
	}

	err = scenario.Run(func(r sim.StepResult) {
		if r.Ok {
			logger.Info("Step %d/%d: %s", r.Index, r.Total, r.Name)
		} else {
			logger.Error("Step %d/%d failed: %s: %v", r.Index, r.Total, r.Name, r.Err)
		}
		if stepDelay > 0 {
			time.Sleep(stepDelay)
		}
	})
	if err != nil {
		return err
	}

	if err := storage.Save(cfg.SnapshotDir, scenario.Vault); err != nil {
		logger.Error("Failed to save snapshot: %v", err)
	} else {
		logger.Info("Snapshot saved to %s", cfg.SnapshotDir)
	}
	return nil
}

func runScenarioTUI(cfg *config.Config, stepDelay time.Duration) error {
	if err := logger.InitFileOnly(); err != nil {
		return fmt.Errorf("failed to initialize file logging: %w", err)
	}
	defer logger.Close()

	scenario, err := sim.NewScenario(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(), tea.WithAltScreen())

	go func() {
		p.Send(stateOf(scenario.Vault))

		runErr := scenario.Run(func(r sim.StepResult) {
			p.Send(tui.StepUpdate(r))
			p.Send(stateOf(scenario.Vault))
			p.Send(tui.LogMessage{Message: r.Name})
			time.Sleep(stepDelay)
		})

		if err := storage.Save(cfg.SnapshotDir, scenario.Vault); err != nil {
			p.Send(tui.LogMessage{Message: fmt.Sprintf("snapshot failed: %v", err)})
		} else {
			p.Send(tui.LogMessage{Message: "snapshot saved"})
		}
		p.Send(tui.ScenarioDone{Err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func main() {
	utils.LoadEnvironment()

	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	var (
		useTUI      bool
		stepDelayMs int
	)

	rootCmd := &cobra.Command{
		Use:   "vault",
		Short: "A multi-asset custodial vault with normalized USD accounting",
		Long:  `vault runs an in-memory custodial ledger through a scripted multi-user scenario, exercising deposits, withdrawals, caps, pausing, and oracle validation.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := cfg.Validate(); err != nil {
				logger.Init()
				logger.Fatal("Invalid configuration: %v", err)
			}

			delay := time.Duration(stepDelayMs) * time.Millisecond
			if useTUI {
				if err := runScenarioTUI(cfg, delay); err != nil {
					fmt.Printf("Error: %v\n", err)
				}
				return
			}

			logger.Init()
			if err := runScenario(cfg, delay); err != nil {
				logger.Fatal("Scenario failed: %v", err)
			}
		},
	}

	// Add a watch command that polls a remote price feed
	var (
		feedURL  string
		count    int
		interval int
	)
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll a remote price feed and validate each round",
		Run: func(cmd *cobra.Command, args []string) {
			logger.Init()

			if feedURL == "" {
				feedURL = cfg.FeedURL
			}
			if feedURL == "" {
				logger.Fatal("No feed URL configured; use --feed-url or VAULT_FEED_URL")
			}

			feed := oracle.NewHTTPFeed(feedURL)
			if !feed.WaitForReady(10, 2*time.Second) {
				logger.Fatal("Price feed at %s is not responding", feedURL)
			}

			gateway := oracle.NewGateway(feed, cfg.MaxPriceAge, cfg.MinPrice)
			for i := 0; i < count; i++ {
				price, err := gateway.NativePrice()
				if err != nil {
					logger.Warn("Round rejected: %v", err)
				} else {
					logger.Info("Native price: %s", tui.FormatUSD(price/100))
				}
				time.Sleep(time.Duration(interval) * time.Millisecond)
			}
		},
	}
	watchCmd.Flags().StringVarP(&feedURL, "feed-url", "f", "", "Base URL of the price feed endpoint")
	watchCmd.Flags().IntVarP(&count, "count", "c", 10, "Number of rounds to fetch")
	watchCmd.Flags().IntVarP(&interval, "interval", "i", 2000, "Delay between fetches in milliseconds")

	// Add a snapshot command that prints the last saved state
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the last saved vault snapshot",
		Run: func(cmd *cobra.Command, args []string) {
			logger.Init()

			snap, err := storage.Load(cfg.SnapshotDir)
			if err != nil {
				logger.Fatal("Failed to load snapshot: %v", err)
			}
			if snap == nil {
				logger.Info("No snapshot found in %s", cfg.SnapshotDir)
				return
			}

			logger.Info("Snapshot from %s", time.Unix(snap.CreatedAt, 0).Format(time.RFC3339))
			logger.Info("Aggregate: %s / %s (per-withdrawal cap %s, paused=%v)",
				tui.FormatUSD(snap.AggregateValue),
				tui.FormatUSD(snap.AggregateCap),
				tui.FormatUSD(snap.WithdrawalCap),
				snap.Paused)
			for _, asset := range snap.Assets {
				logger.Info("  %-10s dec=%-2d status=%-7s value=%s deposits=%d withdrawals=%d",
					asset.ID, asset.Decimals, asset.Status,
					tui.FormatUSD(asset.CumulativeValue),
					asset.DepositCount, asset.WithdrawalCount)
			}
		},
	}

	// Add flags
	rootCmd.Flags().BoolVarP(&useTUI, "tui", "t", false, "Run with the interactive terminal monitor")
	rootCmd.Flags().IntVarP(&stepDelayMs, "step-delay", "d", 400, "Delay between scenario steps in milliseconds")
	rootCmd.PersistentFlags().StringVarP(&cfg.SnapshotDir, "snapshot-dir", "s", cfg.SnapshotDir, "Directory for state snapshots")

	// Add subcommands
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(snapshotCmd)

	// Execute the root command
	if err := rootCmd.Execute(); err != nil {
		logger.Init()
		logger.Fatal("Failed to execute command: %v", err)
	}
}
