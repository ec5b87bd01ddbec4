package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/db"
	gormstore "github.com/immpres/immpres-server/pkg/server/store/gorm"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <login>",
	Short: "Reset an account's password and revoke its session",
	Long: `Reset the password for an account and generate a new one.

The login may be a username or an email address. Any live session is
revoked, so the account has to log in again with the new password.

The new password is printed to stdout.

Example:
  immpresctl user reset-password alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		login := args[0]

		password, err := resetPassword(login)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", login, err)
			os.Exit(1)
		}
		fmt.Println(password)
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
}

func resetPassword(login string) (string, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	users := gormstore.NewUsersStore(database)
	user, err := users.FindByLogin(login)
	if err != nil {
		return "", fmt.Errorf("user not found: %s", login)
	}

	password, err := generatePassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}

	if err := user.SetPassword(password, config.Get().BcryptCost); err != nil {
		return "", err
	}

	// Revoke the live session along with the old password
	user.AccessToken = ""
	user.AccessTokenExpires = nil

	if err := users.Save(user); err != nil {
		return "", fmt.Errorf("failed to update credentials: %w", err)
	}

	return password, nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
