package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadedpez/angeleyes/pkg/entities"
	"github.com/fadedpez/angeleyes/pkg/prompt"
	"github.com/fadedpez/angeleyes/pkg/services/blackjack"
	"github.com/fadedpez/angeleyes/pkg/services/statistics"
	"github.com/pterm/pterm"
)

// terminalNarrator renders table talk and snapshots with pterm
type terminalNarrator struct{}

func (terminalNarrator) Announce(format string, args ...interface{}) {
	pterm.Info.Printfln(format, args...)
}

func (terminalNarrator) ShowTable(view *blackjack.TableView) {
	pbox := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2)

	dealerCards := strings.Join(view.DealerCards, ", ")
	if view.HideBuried {
		dealerCards += ", [buried]"
	}
	dealerTitle := view.DealerName
	if view.DealerPlaying {
		dealerTitle += " (playing)"
	}
	dealerPanel := pterm.Panel{
		Data: pbox.WithTitle(pterm.LightYellow("| " + dealerTitle + " |")).WithTitleTopCenter().
			Sprintf("%s\nshowing %s", dealerCards, formatTotals(view.DealerLow, view.DealerHigh)),
	}

	handLines := make([]string, 0, len(view.Hands))
	for _, hand := range view.Hands {
		line := pterm.Sprintf("Hand %d: %s (%s) wager %s",
			hand.Number,
			strings.Join(hand.Cards, ", "),
			formatTotals(hand.TotalLow, hand.TotalHigh),
			entities.FormatCents(hand.Wager),
		)
		if hand.Insurance > 0 {
			line += pterm.Sprintf(" insurance %s", entities.FormatCents(hand.Insurance))
		}
		line += " [" + string(hand.Status) + "]"
		handLines = append(handLines, line)
	}

	gamblerTitle := fmt.Sprintf("| %s (%s) |", view.GamblerName, entities.FormatCents(view.Bankroll))
	gamblerPanel := pterm.Panel{
		Data: pbox.WithTitle(pterm.LightGreen(gamblerTitle)).WithTitleTopCenter().
			Sprint(strings.Join(handLines, "\n")),
	}

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{dealerPanel},
		{gamblerPanel},
	}).Render()
}

// formatTotals renders a hand total as "7/17" when the soft total is in
// play, otherwise the single total.
func formatTotals(low, high int) string {
	if high > 0 && high != low {
		return fmt.Sprintf("%d/%d", low, high)
	}
	return fmt.Sprintf("%d", low)
}

// terminalAsker implements prompt.Asker over pterm's interactive input
type terminalAsker struct{}

func (terminalAsker) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return pterm.DefaultInteractiveTextInput.WithDefaultText(question).Show()
}

// terminalDecisions answers the pre-turn questions at the keyboard
type terminalDecisions struct {
	asker prompt.Asker
}

func (d *terminalDecisions) WantsEvenMoney(ctx context.Context) (bool, error) {
	return prompt.Ask(ctx, d.asker, "Take even money? (y/n)", prompt.DefaultMaxRetries, prompt.YesNo)
}

func (d *terminalDecisions) WantsInsurance(ctx context.Context) (bool, error) {
	return prompt.Ask(ctx, d.asker, "Buy insurance? (y/n)", prompt.DefaultMaxRetries, prompt.YesNo)
}

// terminalChooser picks hand actions at the keyboard
type terminalChooser struct {
	asker prompt.Asker
}

func (c *terminalChooser) ChooseAction(ctx context.Context, hand *blackjack.Hand, legal []blackjack.Action) (blackjack.Action, error) {
	options := make([]string, len(legal))
	for i, action := range legal {
		options[i] = string(action)
	}

	question := fmt.Sprintf("Hand %d: %s?", hand.Number, strings.Join(options, "/"))
	choice, err := prompt.Ask(ctx, c.asker, question, prompt.DefaultMaxRetries, prompt.OneOf(options))
	if err != nil {
		return "", err
	}

	return blackjack.Action(choice), nil
}

// showSummary renders the end-of-session recap
func showSummary(summary *statistics.SessionSummary) {
	lines := []string{
		pterm.Sprintf("Rounds played: %d (%d hands)", summary.RoundsPlayed, summary.HandsPlayed),
		pterm.Sprintf("Wins: %d  Losses: %d  Pushes: %d", summary.Wins, summary.Losses, summary.Pushes),
		pterm.Sprintf("Blackjacks: %d (dealer %d)", summary.Blackjacks, summary.DealerBlackjacks),
		pterm.Sprintf("Even money taken: %d", summary.EvenMoneyTaken),
		pterm.Sprintf("Insurance won/lost: %d/%d", summary.InsuranceWins, summary.InsuranceLosses),
		pterm.Sprintf("Dealer busts: %d", summary.DealerBusts),
		pterm.Sprintf("Wagered: %s  Paid out: %s",
			entities.FormatCents(summary.TotalWagered), entities.FormatCents(summary.TotalPaidOut)),
		pterm.Sprintf("Bankroll high/low: %s / %s",
			entities.FormatCents(summary.HighestBankroll), entities.FormatCents(summary.LowestBankroll)),
		pterm.Sprintf("Final bankroll: %s", entities.FormatCents(summary.FinalBankroll)),
	}

	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	title := fmt.Sprintf("| %s's session |", summary.GamblerName)
	pterm.Println()
	pterm.Println(pbox.WithTitle(pterm.LightCyan(title)).WithTitleTopCenter().
		Sprint(strings.Join(lines, "\n")))
}
