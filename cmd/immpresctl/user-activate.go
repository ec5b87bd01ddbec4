package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/immpres/immpres-server/pkg/db"
	gormstore "github.com/immpres/immpres-server/pkg/server/store/gorm"
)

// userActivateCmd represents the user activate command
var userActivateCmd = &cobra.Command{
	Use:   "activate <login>",
	Short: "Activate a pending account without its email token",
	Long: `Activate a pending account directly, bypassing email verification.

The login may be a username or an email address.

Example:
  immpresctl user activate alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		login := args[0]

		if err := activateUser(login); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to activate %s: %v\n", login, err)
			os.Exit(1)
		}
		fmt.Printf("Activated %s\n", login)
	},
}

func init() {
	userCmd.AddCommand(userActivateCmd)
}

func activateUser(login string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	users := gormstore.NewUsersStore(database)
	user, err := users.FindByLogin(login)
	if err != nil {
		return fmt.Errorf("user not found: %s", login)
	}

	if user.Activated {
		return fmt.Errorf("account is already activated")
	}

	user.Activated = true
	user.ActivationToken = ""
	return users.Save(user)
}
