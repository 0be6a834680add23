package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance/internal/model"
)

var adminDeleteYes bool

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin dashboard",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printDashboard(cmd.OutOrStdout())
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runAdminUsersList,
}

var adminUsersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUsersDelete,
}

func init() {
	adminUsersDeleteCmd.Flags().BoolVarP(&adminDeleteYes, "yes", "y", false, "Do not ask for confirmation")

	adminUsersCmd.AddCommand(adminUsersListCmd)
	adminUsersCmd.AddCommand(adminUsersDeleteCmd)
	adminCmd.AddCommand(adminUsersCmd)
}

func printDashboard(w io.Writer) {
	fmt.Fprintln(w, "Admin Dashboard")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Manage Users\tatt admin users list")
	fmt.Fprintln(tw, "  View Attendance Records\tnot available yet")
	_ = tw.Flush()
}

func runAdminUsersList(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := context.Background()

	users, err := a.client(ctx).ListUsers(ctx)
	if err != nil {
		fail(err)
	}
	printUsers(cmd.OutOrStdout(), users)
	return nil
}

func printUsers(w io.Writer, users []model.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
	}
	_ = tw.Flush()
}

func runAdminUsersDelete(cmd *cobra.Command, args []string) error {
	id := model.UserID(args[0])

	if !adminDeleteYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete this user?") {
		fmt.Println("Aborted.")
		return nil
	}

	a := loadApp()
	ctx := context.Background()
	if err := a.client(ctx).DeleteUser(ctx, id); err != nil {
		fail(err)
	}
	fmt.Printf("Deleted user %s.\n", id)
	return nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
