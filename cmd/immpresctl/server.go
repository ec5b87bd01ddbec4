package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/db"
	"github.com/immpres/immpres-server/pkg/server"
	"github.com/immpres/immpres-server/pkg/server/endpoints"
	gormstore "github.com/immpres/immpres-server/pkg/server/store/gorm"
	"github.com/immpres/immpres-server/pkg/token"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the immpres application server",
	Long: `Run the immpres application server

To run the server requires the environment variables IMMPRES_TOKEN_SECRET and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		tokenSecret, ok := os.LookupEnv("IMMPRES_TOKEN_SECRET")
		if !ok || tokenSecret == "" {
			fmt.Fprintln(os.Stderr, "IMMPRES_TOKEN_SECRET environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tokens := token.NewService([]byte(tokenSecret), token.WithTTLSource(cfg.TokenTTL))

		users := gormstore.NewUsersStore(database)
		resources := gormstore.NewResourcesStore(database)
		health := gormstore.NewHealthStore(database)

		if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
			go func() {
				if err := config.Watch(context.Background()); err != nil {
					log.Println("Config watcher stopped:", err)
				}
			}()
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(database, tokens, cfg, users, resources, health, host, port)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload configuration when the config file changes")
}
