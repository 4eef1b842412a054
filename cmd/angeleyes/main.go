package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fadedpez/angeleyes/internal/config"
	"github.com/fadedpez/angeleyes/internal/logging"
	"github.com/fadedpez/angeleyes/internal/types"
	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/fadedpez/angeleyes/pkg/prompt"
	ledgerRepo "github.com/fadedpez/angeleyes/pkg/repositories/ledger"
	roundRepo "github.com/fadedpez/angeleyes/pkg/repositories/round"
	"github.com/fadedpez/angeleyes/pkg/scheduler"
	"github.com/fadedpez/angeleyes/pkg/services/blackjack"
	ledgerService "github.com/fadedpez/angeleyes/pkg/services/ledger"
	"github.com/fadedpez/angeleyes/pkg/services/statistics"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

// summaryLimit caps how many stored rounds feed the end-of-session recap
const summaryLimit = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printfln("Configuration error: %v", err)
		os.Exit(1)
	}

	logger := logging.Default
	if cfg.IsDevelopment() {
		logger = logging.NewLogger(logging.DEBUG)
		logging.Default = logger
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	var ledgers ledgerRepo.Repository
	var rounds roundRepo.Repository
	switch cfg.StorageType {
	case "sqlite":
		lr, err := ledgerRepo.NewSQLiteRepository(filepath.Join(cfg.DataDir, "ledgers.db"))
		if err != nil {
			pterm.Error.Printfln("Failed to open ledger database: %v", err)
			os.Exit(1)
		}
		defer lr.Close()

		rr, err := roundRepo.NewSQLiteRepository(filepath.Join(cfg.DataDir, "rounds.db"))
		if err != nil {
			pterm.Error.Printfln("Failed to open rounds database: %v", err)
			os.Exit(1)
		}
		defer rr.Close()

		ledgers, rounds = lr, rr
	default:
		ledgers = ledgerRepo.NewMemoryRepository()
		rounds = roundRepo.NewMemoryRepository()
	}

	// Optional Elasticsearch analytics decorating the round store
	var esRounds *roundRepo.ElasticsearchRepository
	if cfg.AnalyticsEnabled() {
		esRounds, err = roundRepo.NewElasticsearchRepository(rounds, &roundRepo.ElasticsearchConfig{
			URL:   cfg.ElasticsearchURL,
			Index: cfg.ElasticsearchIndex,
		})
		if err != nil {
			logger.Warn("Elasticsearch unavailable, continuing without analytics: %v", err)
			esRounds = nil
		} else {
			rounds = esRounds
		}
	}

	bankrolls := ledgerService.NewService(ledgers)
	stats := statistics.NewService(rounds)

	title, _ := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Angel ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Eyes", pterm.FgDarkGray.ToStyle()),
	).Srender()
	pterm.Print(title)

	gambler := entities.NewGambler(cfg.GamblerName, cfg.DefaultWager)
	dealer := entities.NewDealer()

	ledger, created, err := bankrolls.GetOrCreateLedger(ctx, gambler.Name, cfg.OpeningBankroll)
	if err != nil {
		pterm.Error.Printfln("Failed to open ledger: %v", err)
		os.Exit(1)
	}
	if created {
		pterm.Info.Printfln("Opened a ledger for %s with %s.", gambler.Name, entities.FormatCents(ledger.Balance))
	} else {
		pterm.Info.Printfln("Welcome back, %s. Bankroll: %s.", gambler.Name, entities.FormatCents(ledger.Balance))
	}

	shoe := blackjack.NewTableShoe(cfg.ShoeDecks)
	table := blackjack.NewTable(gambler, dealer, shoe, bankrolls, terminalNarrator{})

	if esRounds != nil {
		sync := scheduler.NewRoundSyncScheduler(esRounds, gambler.Name, cfg.SyncInterval)
		sync.Start(ctx)
		defer sync.Stop()
	}

	if err := runSession(ctx, cfg, table, gambler, bankrolls, rounds, shoe); err != nil && ctx.Err() == nil {
		logger.LogError(err)
		os.Exit(1)
	}

	summary, err := stats.SummarizeGambler(context.Background(), gambler.Name, summaryLimit)
	if err != nil {
		logger.Warn("Could not build session summary: %v", err)
		return
	}
	showSummary(summary)
}

// runSession plays rounds until the gambler walks away, the bankroll is
// gone, or the context is canceled. The standing wager is re-vetted
// against the bankroll before every deal.
func runSession(ctx context.Context, cfg *config.Config, table *blackjack.Table, gambler *entities.Gambler,
	bankrolls *ledgerService.Service, rounds roundRepo.Repository, shoe *entities.Shoe) error {

	asker := terminalAsker{}
	decisions := &terminalDecisions{asker: asker}
	chooser := &terminalChooser{asker: asker}

	for {
		if ctx.Err() != nil {
			return nil
		}

		balance, err := bankrolls.Balance(ctx, gambler.Name)
		if err != nil {
			return err
		}

		if gambler.Finished(balance) {
			if balance == 0 {
				pterm.Info.Println("The bankroll is gone. The house thanks you.")
			}
			return nil
		}

		// Re-vet the standing wager before dealing
		if gambler.AutoWager > balance {
			pterm.Warning.Printfln("Bankroll %s cannot cover the %s wager.",
				entities.FormatCents(balance), entities.FormatCents(gambler.AutoWager))

			amount, err := prompt.Ask(ctx, asker,
				pterm.Sprintf("New wager up to %s ($0 to walk away):", entities.FormatCents(balance)),
				prompt.DefaultMaxRetries, prompt.Cents)
			if err != nil {
				return err
			}
			if amount > balance {
				pterm.Warning.Println("That is more than the bankroll holds.")
				continue
			}

			gambler.AutoWager = amount
			if amount == 0 {
				pterm.Info.Println("Walking away from the table.")
				return nil
			}
			continue
		}

		if blackjack.ShouldReshuffle(shoe) {
			pterm.Info.Println("Reshuffling the shoe.")
			shoe.Replenish(cfg.ShoeDecks)
		}

		result, err := table.PlayRound(ctx, decisions, chooser)
		if err != nil {
			if types.IsGameError(err, types.ErrInsufficientBankroll) {
				// Back to wager vetting
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := rounds.SaveRoundResult(ctx, result); err != nil {
			logging.Default.Warn("Could not save round result: %v", err)
		}

		again, err := prompt.Ask(ctx, asker, "Play another round? (y/n)", prompt.DefaultMaxRetries, prompt.YesNo)
		if err != nil || !again {
			return nil
		}
	}
}
