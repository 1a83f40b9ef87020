package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "lifesim/internal/cli"
	"lifesim/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "lsm",
		Short:        "Lifesim CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newAccountCmd(&apiBase),
		newHistoryCmd(&apiBase),
		newBankCmd(&apiBase),
		newPayCmd(&apiBase),
		newDailyCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newBuffsCmd(&apiBase),
		newSkillsCmd(&apiBase),
		newCrimeCmd(&apiBase),
		newJobCmd(&apiBase),
		newCasinoCmd(&apiBase),
		newRelCmd(&apiBase),
		newBusinessCmd(&apiBase),
		newPropertyCmd(&apiBase),
		newPetCmd(&apiBase),
		newGuildCmd(&apiBase),
		newCryptoCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func requireSession() (cl.Session, error) {
	sess, err := cl.LoadSession()
	if err != nil {
		return cl.Session{}, fmt.Errorf("login required: %w", err)
	}
	return sess, nil
}

func callCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a Lifesim account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			session, err := newClient(apiBase).Signup(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken: session.AccessToken,
				Email:       session.User.Email,
				UserID:      session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Signup complete. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to Lifesim",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			session, err := newClient(apiBase).Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken: session.AccessToken,
				Email:       session.User.Email,
				UserID:      session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newAccountCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show wallet, bank and net worth",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Account(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderAccount(out)
		},
	}
}

func newHistoryCmd(apiBase *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).History(ctx, sess.AccessToken, limit)
			if err != nil {
				return err
			}
			return renderHistory(out)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of rows")
	return cmd
}

func newBankCmd(apiBase *string) *cobra.Command {
	bank := &cobra.Command{
		Use:   "bank",
		Short: "Bank operations",
	}
	bank.AddCommand(&cobra.Command{
		Use:   "deposit [amount|all|half]",
		Short: "Move coins from wallet to bank",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			amount, err := amountFromArgsOrPrompt(args, "Amount (number, all, half)")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Deposit(ctx, sess.AccessToken, amount)
			if err != nil {
				return err
			}
			return renderMove(out, "Deposited")
		},
	})
	bank.AddCommand(&cobra.Command{
		Use:   "withdraw [amount|all|half]",
		Short: "Move coins from bank to wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			amount, err := amountFromArgsOrPrompt(args, "Amount (number, all, half)")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Withdraw(ctx, sess.AccessToken, amount)
			if err != nil {
				return err
			}
			return renderMove(out, "Withdrew")
		},
	})
	bank.AddCommand(&cobra.Command{
		Use:   "upgrade",
		Short: "Double the bank capacity for a fee",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).UpgradeBank(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderBankUpgrade(out)
		},
	})
	return bank
}

func newPayCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pay [user_id] [amount]",
		Short: "Transfer coins to another player (3% tax, min 10)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			to, err := stringFromArgOrPrompt(args, 0, "Recipient user ID")
			if err != nil {
				return err
			}
			amount, err := int64FromArgOrPrompt(args, 1, "Amount")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Transfer(ctx, sess.AccessToken, to, amount)
			if err != nil {
				return err
			}
			return renderTransfer(out, to)
		},
	}
}

func newDailyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Claim the daily reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).ClaimDaily(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderDaily(out)
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Net worth leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Leaderboard(ctx, sess.AccessToken, limit)
			if err != nil {
				return err
			}
			return renderLeaderboard(out)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of rows")
	return cmd
}

func newBuffsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buffs",
		Short: "Show active multipliers from family, pets, property and guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Buffs(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderBuffs(out)
		},
	}
}

func newSkillsCmd(apiBase *string) *cobra.Command {
	skills := &cobra.Command{
		Use:   "skills",
		Short: "Skill progression commands",
	}
	skills.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show all skill levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Skills(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderSkills(out)
		},
	})
	skills.AddCommand(&cobra.Command{
		Use:   "train [skill]",
		Short: "Pay the training fee and earn skill XP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			skill, err := stringFromArgOrPrompt(args, 0, "Skill")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).TrainSkill(ctx, sess.AccessToken, skill)
			if err != nil {
				return err
			}
			return renderTrainResult(out)
		},
	})
	return skills
}

func newCrimeCmd(apiBase *string) *cobra.Command {
	crime := &cobra.Command{
		Use:   "crime",
		Short: "Crime commands",
	}
	crime.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available crimes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).ListCrimes(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderCrimeCatalog(out)
		},
	})
	crime.AddCommand(&cobra.Command{
		Use:   "commit [crime_id]",
		Short: "Attempt a crime",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			id, err := stringFromArgOrPrompt(args, 0, "Crime")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CommitCrime(ctx, sess.AccessToken, id)
			if err != nil {
				return err
			}
			return renderCrimeResult(out)
		},
	})
	crime.AddCommand(&cobra.Command{
		Use:   "record",
		Short: "Show your criminal record",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CriminalRecord(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderCriminalRecord(out)
		},
	})
	crime.AddCommand(&cobra.Command{
		Use:   "jail",
		Short: "Check jail status",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).JailStatus(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderJail(out)
		},
	})
	return crime
}

func newJobCmd(apiBase *string) *cobra.Command {
	job := &cobra.Command{
		Use:   "job",
		Short: "Employment commands",
	}
	job.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).ListJobs(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderJobCatalog(out)
		},
	})
	job.AddCommand(&cobra.Command{
		Use:   "join [job_id]",
		Short: "Take a job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			id, err := stringFromArgOrPrompt(args, 0, "Job")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).JoinJob(ctx, sess.AccessToken, id)
			if err != nil {
				return err
			}
			return renderJobStatus(out)
		},
	})
	job.AddCommand(&cobra.Command{
		Use:   "quit",
		Short: "Quit your current job",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).QuitJob(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			printSuccess("You quit your job.")
			return renderJobStatus(out)
		},
	})
	job.AddCommand(&cobra.Command{
		Use:   "work",
		Short: "Work one shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Work(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderWorkResult(out)
		},
	})
	job.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show your employment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).JobStatus(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderJobStatus(out)
		},
	})
	return job
}

func newCasinoCmd(apiBase *string) *cobra.Command {
	casino := &cobra.Command{
		Use:   "casino",
		Short: "Casino commands",
	}
	casino.AddCommand(&cobra.Command{
		Use:   "games",
		Short: "List casino games and table limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CasinoGames(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderCasinoCatalog(out)
		},
	})
	casino.AddCommand(&cobra.Command{
		Use:   "play [game] [bet] [choice]",
		Short: "Play one round",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			game, err := stringFromArgOrPrompt(args, 0, "Game")
			if err != nil {
				return err
			}
			bet, err := int64FromArgOrPrompt(args, 1, "Bet")
			if err != nil {
				return err
			}
			choice := ""
			if len(args) > 2 {
				choice = strings.TrimSpace(args[2])
			} else if game != "slots" && game != "blackjack" {
				choice, err = promptRequired("Choice")
				if err != nil {
					return err
				}
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CasinoPlay(ctx, sess.AccessToken, game, bet, choice)
			if err != nil {
				return err
			}
			return renderCasinoResult(out)
		},
	})
	return casino
}

func newRelCmd(apiBase *string) *cobra.Command {
	rel := &cobra.Command{
		Use:     "rel",
		Short:   "Relationship commands",
		Aliases: []string{"relationship"},
	}
	rel.AddCommand(&cobra.Command{
		Use:   "status [user_id]",
		Short: "Show your relationship with another player",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			target, err := stringFromArgOrPrompt(args, 0, "Target user ID")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Relationship(ctx, sess.AccessToken, target)
			if err != nil {
				return err
			}
			return renderRelationship(out)
		},
	})
	rel.AddCommand(&cobra.Command{
		Use:   "interact [user_id] [talk|hangout|flirt]",
		Short: "Spend time with another player",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			target, err := stringFromArgOrPrompt(args, 0, "Target user ID")
			if err != nil {
				return err
			}
			kind := "talk"
			if len(args) > 1 {
				kind = strings.ToLower(strings.TrimSpace(args[1]))
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Interact(ctx, sess.AccessToken, target, kind)
			if err != nil {
				return err
			}
			return renderRelationship(out)
		},
	})
	rel.AddCommand(&cobra.Command{
		Use:   "gift [user_id] [value]",
		Short: "Buy a gift for another player",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			target, err := stringFromArgOrPrompt(args, 0, "Target user ID")
			if err != nil {
				return err
			}
			value, err := int64FromArgOrPrompt(args, 1, "Gift value")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).GiveGift(ctx, sess.AccessToken, target, value)
			if err != nil {
				return err
			}
			return renderRelationship(out)
		},
	})
	rel.AddCommand(&cobra.Command{
		Use:   "askout [user_id]",
		Short: "Ask another player to be your partner",
		Args:  cobra.MaximumNArgs(1),
		RunE:  relPairRunE(apiBase, func(c *cl.Client) pairCall { return c.AskOut }),
	})
	rel.AddCommand(&cobra.Command{
		Use:   "marry [user_id]",
		Short: "Marry your partner",
		Args:  cobra.MaximumNArgs(1),
		RunE:  relPairRunE(apiBase, func(c *cl.Client) pairCall { return c.Marry }),
	})
	rel.AddCommand(&cobra.Command{
		Use:   "breakup [user_id]",
		Short: "End a relationship",
		Args:  cobra.MaximumNArgs(1),
		RunE:  relPairRunE(apiBase, func(c *cl.Client) pairCall { return c.Breakup }),
	})
	return rel
}

type pairCall func(ctx context.Context, accessToken, userID string) (map[string]any, error)

func relPairRunE(apiBase *string, pick func(*cl.Client) pairCall) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}
		target, err := stringFromArgOrPrompt(args, 0, "Target user ID")
		if err != nil {
			return err
		}
		ctx, cancel := callCtx(cmd)
		defer cancel()
		out, err := pick(newClient(apiBase))(ctx, sess.AccessToken, target)
		if err != nil {
			return err
		}
		return renderRelationship(out)
	}
}

func newBusinessCmd(apiBase *string) *cobra.Command {
	business := &cobra.Command{
		Use:   "business",
		Short: "Business commands",
	}
	business.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List purchasable business types",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).BusinessCatalog(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderVentureCatalog(out, "BUSINESS TYPES")
		},
	})
	business.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your businesses",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Businesses(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderHoldings(out, "businesses", "YOUR BUSINESSES")
		},
	})
	business.AddCommand(&cobra.Command{
		Use:   "buy [type]",
		Short: "Buy a business",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			typeID, err := stringFromArgOrPrompt(args, 0, "Business type")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).BuyBusiness(ctx, sess.AccessToken, typeID)
			if err != nil {
				return err
			}
			return renderPurchase(out)
		},
	})
	business.AddCommand(&cobra.Command{
		Use:   "collect",
		Short: "Collect accumulated business income",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CollectBusinesses(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderCollect(out, "business income")
		},
	})
	business.AddCommand(&cobra.Command{
		Use:   "upgrade [id]",
		Short: "Upgrade a business",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			id, err := int64FromArgOrPrompt(args, 0, "Business ID")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).UpgradeBusiness(ctx, sess.AccessToken, id)
			if err != nil {
				return err
			}
			return renderUpgrade(out)
		},
	})
	return business
}

func newPropertyCmd(apiBase *string) *cobra.Command {
	property := &cobra.Command{
		Use:   "property",
		Short: "Property commands",
	}
	property.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List purchasable property types",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).PropertyCatalog(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderVentureCatalog(out, "PROPERTY TYPES")
		},
	})
	property.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Properties(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderHoldings(out, "properties", "YOUR PROPERTIES")
		},
	})
	property.AddCommand(&cobra.Command{
		Use:   "buy [type]",
		Short: "Buy a property",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			typeID, err := stringFromArgOrPrompt(args, 0, "Property type")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).BuyProperty(ctx, sess.AccessToken, typeID)
			if err != nil {
				return err
			}
			return renderPurchase(out)
		},
	})
	property.AddCommand(&cobra.Command{
		Use:   "collect",
		Short: "Collect accumulated rent",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CollectRent(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderCollect(out, "rent")
		},
	})
	property.AddCommand(&cobra.Command{
		Use:   "upgrade [id]",
		Short: "Upgrade a property",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			id, err := int64FromArgOrPrompt(args, 0, "Property ID")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).UpgradeProperty(ctx, sess.AccessToken, id)
			if err != nil {
				return err
			}
			return renderUpgrade(out)
		},
	})
	return property
}

func newPetCmd(apiBase *string) *cobra.Command {
	pet := &cobra.Command{
		Use:   "pet",
		Short: "Pet commands",
	}
	pet.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List adoptable pet types",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).PetCatalog(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderPetCatalog(out)
		},
	})
	pet.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your pets",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Pets(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderPets(out)
		},
	})
	pet.AddCommand(&cobra.Command{
		Use:   "adopt [type] [name]",
		Short: "Adopt a pet",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			typeID, err := stringFromArgOrPrompt(args, 0, "Pet type")
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 1 {
				name = strings.TrimSpace(args[1])
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).AdoptPet(ctx, sess.AccessToken, typeID, name)
			if err != nil {
				return err
			}
			return renderPet(out, "Adopted")
		},
	})
	pet.AddCommand(&cobra.Command{
		Use:   "feed [pet_id]",
		Short: "Feed a pet (costs 10, grants XP)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			id, err := stringFromArgOrPrompt(args, 0, "Pet ID")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).FeedPet(ctx, sess.AccessToken, id)
			if err != nil {
				return err
			}
			return renderPet(out, "Fed")
		},
	})
	return pet
}

func newGuildCmd(apiBase *string) *cobra.Command {
	guild := &cobra.Command{
		Use:   "guild",
		Short: "Guild commands",
	}
	guild.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Found a guild (costs 10000)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			name, err := stringFromArgOrPrompt(args, 0, "Guild name")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CreateGuild(ctx, sess.AccessToken, name)
			if err != nil {
				return err
			}
			return renderGuild(out)
		},
	})
	guild.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show your guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).MyGuild(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderGuild(out)
		},
	})
	guild.AddCommand(&cobra.Command{
		Use:   "join [guild_id]",
		Short: "Join a guild",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			id, err := stringFromArgOrPrompt(args, 0, "Guild ID")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).JoinGuild(ctx, sess.AccessToken, id)
			if err != nil {
				return err
			}
			return renderGuild(out)
		},
	})
	guild.AddCommand(&cobra.Command{
		Use:   "leave",
		Short: "Leave your guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			if _, err := newClient(apiBase).LeaveGuild(ctx, sess.AccessToken); err != nil {
				return err
			}
			printSuccess("Left the guild.")
			return nil
		},
	})
	guild.AddCommand(&cobra.Command{
		Use:   "contribute [amount]",
		Short: "Donate coins to your guild (1 XP per coin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			amount, err := int64FromArgOrPrompt(args, 0, "Amount")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).ContributeGuild(ctx, sess.AccessToken, amount)
			if err != nil {
				return err
			}
			return renderGuild(out)
		},
	})
	return guild
}

func newCryptoCmd(apiBase *string) *cobra.Command {
	crypto := &cobra.Command{
		Use:   "crypto",
		Short: "Crypto market commands",
	}
	crypto.AddCommand(&cobra.Command{
		Use:   "prices",
		Short: "Show current asset prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CryptoPrices(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderQuotes(out)
		},
	})
	crypto.AddCommand(&cobra.Command{
		Use:   "show [symbol]",
		Short: "Show one asset with recent history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			symbol, err := stringFromArgOrPrompt(args, 0, "Symbol")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).CryptoPriceDetail(ctx, sess.AccessToken, strings.ToUpper(symbol))
			if err != nil {
				return err
			}
			return renderQuoteDetail(out)
		},
	})
	crypto.AddCommand(&cobra.Command{
		Use:   "portfolio",
		Short: "Show your holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Portfolio(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderPortfolio(out)
		},
	})
	crypto.AddCommand(&cobra.Command{
		Use:   "buy [symbol] [spend]",
		Short: "Spend coins on an asset",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			symbol, err := stringFromArgOrPrompt(args, 0, "Symbol")
			if err != nil {
				return err
			}
			spend, err := int64FromArgOrPrompt(args, 1, "Spend")
			if err != nil {
				return err
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).BuyCrypto(ctx, sess.AccessToken, strings.ToUpper(symbol), spend)
			if err != nil {
				return err
			}
			return renderTrade(out, "Bought")
		},
	})
	crypto.AddCommand(&cobra.Command{
		Use:   "sell [symbol] [units]",
		Short: "Sell units of an asset",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireSession()
			if err != nil {
				return err
			}
			symbol, err := stringFromArgOrPrompt(args, 0, "Symbol")
			if err != nil {
				return err
			}
			var units float64
			if len(args) > 1 {
				units, err = strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
				if err != nil || units <= 0 {
					return fmt.Errorf("invalid units")
				}
			} else {
				units, err = promptFloat("Units", 0)
				if err != nil {
					return err
				}
			}
			ctx, cancel := callCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).SellCrypto(ctx, sess.AccessToken, strings.ToUpper(symbol), units)
			if err != nil {
				return err
			}
			return renderTrade(out, "Sold")
		},
	})
	return crypto
}

func amountFromArgsOrPrompt(args []string, label string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	return promptRequired(label)
}

func stringFromArgOrPrompt(args []string, idx int, label string) (string, error) {
	if len(args) > idx {
		v := strings.TrimSpace(args[idx])
		if v == "" {
			return "", fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	return promptRequired(label)
}

func int64FromArgOrPrompt(args []string, idx int, label string) (int64, error) {
	if len(args) > idx {
		v, err := strconv.ParseInt(strings.TrimSpace(args[idx]), 10, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid %s", strings.ToLower(label))
		}
		return v, nil
	}
	return promptInt64(label, 1)
}
