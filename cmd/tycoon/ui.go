package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/TMHSDigital/2D-Tycoon/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptInt(label string, min int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func promptYesNo(label string) (bool, error) {
	answer, err := promptChoice(label, []string{"y", "n"}, "n")
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

func renderStatus(status game.StatusView) {
	fmt.Println()
	accent.Printf("=== Day %d ===\n", status.Day)
	neutral.Printf("Money:      $%d\n", status.Money)
	neutral.Printf("Reputation: %d/%d\n", status.Reputation, game.ReputationCap)
	if status.Loan > 0 {
		warn.Printf("Loan:       $%d\n", status.Loan)
	}
	neutral.Printf("Storage:    %d/%d\n", status.StorageUsed, status.StorageCapacity)
	for _, spec := range game.SupplyCatalog() {
		neutral.Printf("  %-18s %d\n", spec.DisplayName, status.Inventory[spec.Kind])
	}
	neutral.Printf("Employees:  %d/%d\n", status.EmployeeCount, game.MaxEmployees)
	upgrades := []string{}
	if status.Upgrades.AutomationEnabled {
		upgrades = append(upgrades, "automation")
	}
	if status.Upgrades.MarketingLevel > 0 {
		upgrades = append(upgrades, fmt.Sprintf("marketing L%d", status.Upgrades.MarketingLevel))
	}
	if status.Upgrades.StorageLevel > 0 {
		upgrades = append(upgrades, fmt.Sprintf("storage L%d", status.Upgrades.StorageLevel))
	}
	if len(upgrades) > 0 {
		neutral.Printf("Upgrades:   %s\n", strings.Join(upgrades, ", "))
	}
	neutral.Printf("Market:     trend %.2f, demand %.2f\n", status.MarketTrend, status.MarketDemand)
	if status.ActiveResearch != "" {
		if project, ok := game.ResearchByKey(status.ActiveResearch); ok {
			accent.Printf("Research:   %s in progress\n", project.Name)
		}
	}
}

func renderMarket(start game.DayStart) {
	switch {
	case start.Update.Trend > game.MarketBoomThreshold:
		success.Println(start.Update.MarketMessage)
	case start.Update.Trend < game.MarketDeclineThreshold:
		danger.Println(start.Update.MarketMessage)
	}
	if start.CompetitorMessage != "" {
		warn.Println(start.CompetitorMessage)
	}
	if start.Event.Type != game.EventNone && start.Event.Message != "" {
		switch start.Event.Type {
		case game.EventPenalty:
			danger.Println(start.Event.Message)
		case game.EventBonus, game.EventOpportunity:
			success.Println(start.Event.Message)
		default:
			warn.Println(start.Event.Message)
		}
	}
}

func renderDayEnd(end game.DayEnd) {
	if end.Interest > 0 {
		warn.Printf("Loan interest accrued: $%d\n", end.Interest)
	}
	if end.Research.Status == game.ResearchCompleted {
		if project, ok := game.ResearchByKey(end.Research.CompletedKey); ok {
			success.Printf("Research complete: %s (%s)\n", project.Name, project.Effect)
		}
	}
}

func renderOutcome(st *game.State) {
	fmt.Println()
	if st.IsWin() {
		success.Printf("You win! Your business reached $%d on day %d.\n", st.Money, st.Day)
		return
	}
	danger.Printf("Game over. Your reputation hit zero on day %d.\n", st.Day)
}
