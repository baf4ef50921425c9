package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"library-system/library"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dbPath       string
		smtpHost     string
		smtpPort     int
		smtpFrom     string
		smtpPassword string
	)

	cmd := &cobra.Command{
		Use:   "library-system",
		Short: "Terminal-based library management system",
		Long: `Library management over a single JSON database file.
Users log in as admin, librarian or client and get a role-specific menu for
catalog management, borrowing, fines and overdue detection.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			// Without an SMTP relay, reminder mail is recorded in memory so
			// the sweep still reports who would have been contacted.
			var mailer library.EmailSender = library.NewMemorySender()
			if smtpHost != "" {
				mailer = library.NewSMTPSender(smtpHost, smtpPort, smtpFrom, smtpPassword, logger)
			}

			// Subscribers receive every overdue summary the reminder sweep
			// produces; the sweep itself handles the email delivery.
			notifiers := []library.Notifier{
				library.NotifierFunc(func(u library.User, msg string) {
					logger.Info("overdue notification",
						zap.String("user", u.Username),
						zap.String("message", msg),
					)
				}),
			}

			mgr, err := library.NewManager(dbPath, library.DefaultConfig(), mailer, notifiers, logger)
			if err != nil {
				return err
			}

			runInteractive(mgr)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "library.json", "path to the JSON database file")
	cmd.Flags().StringVar(&smtpHost, "smtp-host", "", "SMTP relay host (empty disables real mail)")
	cmd.Flags().IntVar(&smtpPort, "smtp-port", 587, "SMTP relay port")
	cmd.Flags().StringVar(&smtpFrom, "smtp-from", "", "sender address for reminder mail")
	cmd.Flags().StringVar(&smtpPassword, "smtp-password", "", "SMTP app password")

	return cmd
}

func runInteractive(mgr *library.Manager) {
	sc := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\n===== Library System =====")
		fmt.Println("1) Login")
		fmt.Println("2) Exit")

		switch promptInt(sc, "Choose option: ") {
		case 1:
			loginFlow(sc, mgr)
		case 2:
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice!")
		}
	}
}
