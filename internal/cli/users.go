package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/stockroom/internal/adapters/cli"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/wire"
)

// PasswordEnv supplies the password for createsuperuser in scripts.
const PasswordEnv = "STOCKROOM_SUPERUSER_PASSWORD"

var createSuperuserFlags = map[string]cobraflags.Flag{
	"username": &cobraflags.StringFlag{
		Name:  "username",
		Value: "",
		Usage: "Login name (required)",
	},
	"email": &cobraflags.StringFlag{
		Name:  "email",
		Value: "",
		Usage: "Email address",
	},
	"password": &cobraflags.StringFlag{
		Name:  "password",
		Value: "",
		Usage: "Password (prompted when omitted and " + PasswordEnv + " is unset)",
	},
}

var changePasswordFlags = map[string]cobraflags.Flag{
	"password": &cobraflags.StringFlag{
		Name:  "password",
		Value: "",
		Usage: "New password (prompted when omitted)",
	},
}

// CreateSuperuserCmd returns the createsuperuser command
func CreateSuperuserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an account with staff and superuser rights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			if password == "" {
				password = os.Getenv(PasswordEnv)
			}
			if password == "" {
				var err error
				if password, err = promptPassword(); err != nil {
					return err
				}
			}

			user, err := wire.AuthService().CreateUser(cmd.Context(), primary.CreateUserRequest{
				Username:    username,
				Email:       email,
				Password:    password,
				IsStaff:     true,
				IsSuperuser: true,
			})
			if err != nil {
				return cliadapter.DescribeError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Superuser %s created\n", okMark(), user.Username)
			return nil
		},
	}

	cobraflags.RegisterMap(cmd, createSuperuserFlags)
	return cmd
}

// ChangePasswordCmd returns the changepassword command
func ChangePasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changepassword [username]",
		Short: "Set a user's password and end their sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				var err error
				if password, err = promptPassword(); err != nil {
					return err
				}
			}

			if err := wire.AuthService().ChangePassword(cmd.Context(), args[0], password); err != nil {
				return cliadapter.DescribeError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Password changed for %s\n", okMark(), args[0])
			return nil
		},
	}

	cobraflags.RegisterMap(cmd, changePasswordFlags)
	return cmd
}

// UsersCmd returns the users command
func UsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := wire.AuthService().ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found")
				return nil
			}

			t := cliadapter.NewTable(cmd.OutOrStdout(), "ID", "USERNAME", "EMAIL", "STAFF", "SUPERUSER", "ACTIVE", "LAST LOGIN")
			for _, u := range users {
				lastLogin := "never"
				if u.LastLogin != nil {
					lastLogin = u.LastLogin.Format("2006-01-02 15:04")
				}
				t.AppendRow([]any{u.ID, u.Username, u.Email, yesNo(u.IsStaff), yesNo(u.IsSuperuser), yesNo(u.IsActive), lastLogin})
			}
			t.Render()
			return nil
		},
	}
}

// ClearSessionsCmd returns the clearsessions command
func ClearSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clearsessions",
		Short: "Delete expired login sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := wire.AuthService().PurgeExpiredSessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %d expired session(s)\n", okMark(), n)
			return nil
		},
	}
}

// promptPassword reads a password twice from the terminal.
func promptPassword() (string, error) {
	rl, err := readline.New("")
	if err != nil {
		return "", fmt.Errorf("no password given and no terminal to prompt on: %w", err)
	}
	defer rl.Close()

	first, err := rl.ReadPassword("Password: ")
	if err != nil {
		return "", err
	}
	second, err := rl.ReadPassword("Password (again): ")
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
