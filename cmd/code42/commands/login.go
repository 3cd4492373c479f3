package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/code42/code42-go/internal/auth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a Code42 server",
		Long:  "Exchange a username and password for a login token and store it in the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoginCommand(commandContext(cmd), password)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication")

	return cmd
}

func runLoginCommand(ctx context.Context, password string) error {
	v := viper.GetViper()

	config, err := LoadConfig(v)
	if err != nil {
		return err
	}

	username := config.Username

	if username == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Username: ")
		username, _ = reader.ReadString('\n')
		username = strings.TrimSpace(username)
	}

	if username == "" {
		return ErrUsernameRequired
	}

	if password == "" {
		password = v.GetString("password")
	}

	if password == "" {
		fmt.Print("Password: ")

		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		password = string(bytePassword)

		fmt.Println()
	}

	// A stale token must not be sent alongside the credentials.
	config.Token = ""

	client, cleanup, err := createClient(v, config)
	if err != nil {
		return err
	}
	defer cleanup()

	conn := client.Connection()
	conn.SetUsername(username)
	conn.SetPassword(password)

	config.Username = username

	manager := auth.NewTokenManager(client.AuthToken, config.Host,
		auth.WithPersister(NewConfigTokenPersister(v, "", config)))

	token, err := manager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	conn.SetToken(token)

	err = client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}

	fmt.Printf("Successfully logged in to %s as %s\n", config.Host, username)

	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the Code42 server",
		Long:  "Remove the stored login token from the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			config, err := LoadConfig(v)
			if err != nil {
				return err
			}

			config.Token = ""

			err = SaveConfig(v, "", config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the server connection",
		Long:  "Check that the server is reachable and accepts the configured credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := CreateClient()
			if err != nil {
				return err
			}
			defer cleanup()

			err = client.Ping(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to reach server: %w", err)
			}

			fmt.Println("OK")

			return nil
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
