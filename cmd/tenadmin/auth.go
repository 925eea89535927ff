package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nuqta-dev/tenadmin/internal/apierr"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate against the backend and store the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := ""
		if len(args) == 1 {
			username = args[0]
		}
		if username == "" {
			fmt.Fprint(os.Stderr, "Username: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read username: %w", err)
			}
			username = strings.TrimSpace(line)
		}
		if username == "" {
			return fmt.Errorf("username is required")
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		session, err := client.Login(cmd.Context(), username, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := sessions.Save(session); err != nil {
			return fmt.Errorf("store session: %w", err)
		}

		log.Info().Str("username", username).Msg("Logged in")
		fmt.Println("Logged in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if client.Token() != "" {
			if err := client.Logout(cmd.Context()); err != nil {
				// Best effort: the local session is cleared regardless.
				log.Warn().Err(err).Msg("Remote logout failed")
			}
		}
		if err := sessions.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated operator",
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := client.Me(cmd.Context())
		if err != nil {
			err = refreshAndRetry(cmd, err, func() error {
				var rerr error
				account, rerr = client.Me(cmd.Context())
				return rerr
			})
			if err != nil {
				return err
			}
		}
		fmt.Printf("%s (id %d, role %s)\n", account.Username, account.ID, account.Role)
		return nil
	},
}

// refreshAndRetry exchanges the stored refresh token for a new access token
// after an authentication failure, then re-runs the operation once. Any other
// error passes through unchanged.
func refreshAndRetry(cmd *cobra.Command, original error, retry func() error) error {
	if !apierr.IsAuthError(original) {
		return original
	}
	session, err := sessions.Load()
	if err != nil || session.Refresh == "" {
		return original
	}
	renewed, err := client.RefreshToken(cmd.Context(), session.Refresh)
	if err != nil {
		log.Debug().Err(err).Msg("Token refresh failed")
		return original
	}
	if err := sessions.Save(renewed); err != nil {
		log.Warn().Err(err).Msg("Failed to store refreshed session")
	}
	return retry()
}

// readPassword prompts without echo when stdin is a terminal, falling back to
// a plain line read otherwise (pipes, CI).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
