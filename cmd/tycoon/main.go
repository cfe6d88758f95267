package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/TMHSDigital/2D-Tycoon/internal/config"
	"github.com/TMHSDigital/2D-Tycoon/internal/game"
	"github.com/TMHSDigital/2D-Tycoon/internal/save"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "tycoon",
		Short:        "Run a small business from your terminal",
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(),
		newSaveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveSavePath(cfg config.GameConfig) (string, error) {
	if cfg.SavePath != "" {
		return cfg.SavePath, nil
	}
	return save.DefaultPath()
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start or resume a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadGameFromEnv()
			savePath, err := resolveSavePath(cfg)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			st, sim, err := setUpGame(cfg, rng, savePath)
			if err != nil {
				return err
			}

			return runGame(st, sim, savePath)
		},
	}
}

func setUpGame(cfg config.GameConfig, rng *rand.Rand, savePath string) (*game.State, *game.Simulator, error) {
	difficulty, ok := game.DifficultyByName(cfg.Difficulty)
	if !ok {
		return nil, nil, fmt.Errorf("unknown difficulty %q", cfg.Difficulty)
	}

	if save.Exists(savePath) {
		resume, err := promptYesNo("Found a saved game. Resume it?")
		if err != nil {
			return nil, nil, err
		}
		if resume {
			st := game.NewStateWithDifficulty(rng, difficulty)
			if err := save.Load(savePath, st); err != nil {
				printError("Could not load the save: " + err.Error())
			} else {
				sim := game.NewSimulator(rng)
				sim.Trend = st.MarketTrend
				if key := st.ActiveResearch; key != "" {
					sim.StartResearch(key)
				}
				printSuccess(fmt.Sprintf("Welcome back to day %d.", st.Day))
				return st, sim, nil
			}
		}
	}

	name, err := promptChoice("Difficulty", []string{"easy", "normal", "hard"}, cfg.Difficulty)
	if err != nil {
		return nil, nil, err
	}
	difficulty, _ = game.DifficultyByName(name)
	st := game.NewStateWithDifficulty(rng, difficulty)
	sim := game.NewSimulator(rng)
	printSuccess("Starting a brand new business. Good luck!")
	return st, sim, nil
}

func runGame(st *game.State, sim *game.Simulator, savePath string) error {
	for !st.IsGameOver() {
		start := game.BeginDay(st, sim)
		renderStatus(st.Status())
		renderMarket(start)

		quit, err := takeTurn(st, sim, savePath)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		end := game.EndDay(st, sim)
		renderDayEnd(end)
	}
	renderOutcome(st)
	return nil
}

// takeTurn shows the day menu until the player picks an action that spends
// the day. Management choices (shopping, hiring, loans, research, saving)
// return to the menu; work, rest and skip end it.
func takeTurn(st *game.State, sim *game.Simulator, savePath string) (bool, error) {
	for {
		fmt.Println()
		neutral.Println("1) Buy supplies   2) Work   3) Rest")
		neutral.Println("4) Hire employee  5) Fire employee")
		neutral.Println("6) Buy upgrade    7) Loans  8) Research")
		neutral.Println("9) Save game      0) Save and quit")
		choice, err := promptInt("Choose", 0)
		if err != nil {
			return false, err
		}

		switch choice {
		case 1:
			if err := buySuppliesMenu(st); err != nil {
				return false, err
			}
		case 2:
			income := st.Work()
			if income > 0 {
				printSuccess(fmt.Sprintf("A day's work earned $%d.", income))
			} else {
				printWarn("No supplies to work with. Buy some first.")
				continue
			}
			return false, nil
		case 3:
			gain := st.Rest()
			printSuccess(fmt.Sprintf("You took a rest day. Reputation +%d.", gain))
			return false, nil
		case 4:
			if st.HireEmployee() {
				printSuccess(fmt.Sprintf("Hired. Daily salary is $%d.", game.EmployeeDailySalary))
			} else {
				printWarn("Cannot hire right now.")
			}
		case 5:
			if st.FireEmployee() {
				printSuccess("Employee let go.")
			} else {
				printWarn("Nobody to fire.")
			}
		case 6:
			if err := buyUpgradeMenu(st); err != nil {
				return false, err
			}
		case 7:
			if err := loansMenu(st); err != nil {
				return false, err
			}
		case 8:
			if err := researchMenu(st, sim); err != nil {
				return false, err
			}
		case 9:
			if err := save.Write(savePath, st); err != nil {
				printError("Save failed: " + err.Error())
			} else {
				printSuccess("Game saved.")
			}
		case 0:
			if err := save.Write(savePath, st); err != nil {
				printError("Save failed: " + err.Error())
			} else {
				printSuccess("Game saved. See you next time.")
			}
			return true, nil
		default:
			printWarn("Pick an option from the menu.")
		}
	}
}

func buySuppliesMenu(st *game.State) error {
	options := []string{}
	for _, spec := range game.SupplyCatalog() {
		options = append(options, string(spec.Kind))
		neutral.Printf("  %-18s $%-4d (income x%.1f, max %d)\n",
			spec.DisplayName, spec.Price, spec.IncomeMultiplier, st.MaxAffordable(spec.Kind))
	}
	kind, err := promptChoice("Supply", options, options[0])
	if err != nil {
		return err
	}
	amount, err := promptInt("Amount", 1)
	if err != nil {
		return err
	}
	if st.BuySupplies(game.SupplyKind(kind), amount) {
		printSuccess("Purchased.")
	} else {
		printWarn("Not enough money or storage for that.")
	}
	return nil
}

func buyUpgradeMenu(st *game.State) error {
	options := []string{}
	for _, spec := range game.UpgradeCatalog() {
		options = append(options, string(spec.Kind))
		neutral.Printf("  %-12s $%-4d %s\n", spec.DisplayName, spec.Cost, spec.Description)
	}
	kind, err := promptChoice("Upgrade", options, options[0])
	if err != nil {
		return err
	}
	if st.PurchaseUpgrade(game.UpgradeKind(kind)) {
		printSuccess("Upgrade installed.")
	} else {
		printWarn("Cannot buy that upgrade.")
	}
	return nil
}

func loansMenu(st *game.State) error {
	neutral.Printf("Outstanding loan: $%d (cap $%d)\n", st.Loan, game.MaxLoanTotal)
	neutral.Printf("Suggested safe amount: $%d\n", st.SafeLoanAmount())
	action, err := promptChoice("Loan action", []string{"take", "repay", "back"}, "back")
	if err != nil {
		return err
	}
	switch action {
	case "take":
		amount, err := promptInt("Amount", 1)
		if err != nil {
			return err
		}
		if st.TakeLoan(amount) {
			printSuccess(fmt.Sprintf("Loan approved. You owe $%d.", st.Loan))
		} else {
			printWarn("The bank declined that amount.")
		}
	case "repay":
		amount, err := promptInt("Amount", 1)
		if err != nil {
			return err
		}
		if st.RepayLoan(amount) {
			printSuccess(fmt.Sprintf("Paid down. Remaining loan: $%d.", st.Loan))
		} else {
			printWarn("You cannot repay that much.")
		}
	}
	return nil
}

func researchMenu(st *game.State, sim *game.Simulator) error {
	if st.ActiveResearch != "" {
		if project, ok := game.ResearchByKey(st.ActiveResearch); ok {
			printWarn(fmt.Sprintf("%s is already in progress.", project.Name))
		}
		return nil
	}
	options := []string{"back"}
	for _, project := range game.ResearchCatalog() {
		if st.HasCompletedResearch(project.Key) {
			continue
		}
		options = append(options, project.Key)
		neutral.Printf("  %-24s $%-4d %d days  %s\n", project.Name, project.Cost, project.DurationDays, project.Effect)
	}
	if len(options) == 1 {
		printSuccess("All research projects are complete.")
		return nil
	}
	key, err := promptChoice("Project", options, "back")
	if err != nil {
		return err
	}
	if key == "back" {
		return nil
	}
	if game.StartResearch(st, sim, key) {
		printSuccess("Research underway.")
	} else {
		printWarn("Cannot start that project.")
	}
	return nil
}

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Inspect or reset the save file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print a summary of the save file",
			RunE: func(cmd *cobra.Command, args []string) error {
				savePath, err := resolveSavePath(config.LoadGameFromEnv())
				if err != nil {
					return err
				}
				if !save.Exists(savePath) {
					printWarn("No save file at " + savePath)
					return nil
				}
				f, err := save.Read(savePath)
				if err != nil {
					return err
				}
				accent.Println("Save file: " + savePath)
				neutral.Printf("Day %d, $%d, reputation %d, loan $%d\n", f.Day, f.Money, f.Reputation, f.Loan)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the save file",
			RunE: func(cmd *cobra.Command, args []string) error {
				savePath, err := resolveSavePath(config.LoadGameFromEnv())
				if err != nil {
					return err
				}
				if !save.Exists(savePath) {
					printWarn("Nothing to delete.")
					return nil
				}
				if err := os.Remove(savePath); err != nil {
					return err
				}
				printSuccess("Save file removed.")
				return nil
			},
		},
	)
	return cmd
}
