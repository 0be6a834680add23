package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance/internal/session"
)

var (
	sessionToken string
	sessionUser  string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the stored login session",
}

var sessionSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the bearer token and user id issued at login",
	Args:  cobra.NoArgs,
	RunE:  runSessionSet,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored session and whether it is still valid",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runSessionClear,
}

func init() {
	sessionSetCmd.Flags().StringVar(&sessionToken, "token", "", "Bearer token (JWT)")
	sessionSetCmd.Flags().StringVar(&sessionUser, "user", "", "User id")
	_ = sessionSetCmd.MarkFlagRequired("token")
	_ = sessionSetCmd.MarkFlagRequired("user")

	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}

func runSessionSet(cmd *cobra.Command, args []string) error {
	a := loadApp()
	creds := session.Credentials{Token: sessionToken, UserID: sessionUser}

	if err := session.Check(creds, a.now()); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
	if err := session.Save(session.FilePath(a.base), creds); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Session stored for user %s.\n", creds.UserID)
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	a := loadApp()
	if a.creds.Token == "" {
		fmt.Println("No session stored.")
		return nil
	}

	fmt.Printf("User:   %s\n", a.creds.UserID)
	fmt.Printf("Token:  %s\n", maskToken(a.creds.Token))
	fmt.Printf("Status: %s\n", sessionState(a.creds, a.now()))
	return nil
}

func sessionState(creds session.Credentials, now time.Time) string {
	if err := session.Check(creds, now); err != nil {
		return userMessage(err)
	}
	exp, _ := session.Expiry(creds.Token)
	if exp.IsZero() {
		return "valid (no expiry)"
	}
	return fmt.Sprintf("valid until %s", exp.In(now.Location()).Format("2006-01-02 15:04"))
}

// maskToken keeps the first and last four characters of a token.
func maskToken(tok string) string {
	if len(tok) <= 12 {
		return "****"
	}
	return tok[:4] + "…" + tok[len(tok)-4:]
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	a := loadApp()
	if err := session.Clear(session.FilePath(a.base)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println("Session cleared.")
	return nil
}
