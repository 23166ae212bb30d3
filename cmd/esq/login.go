package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/esqproject/esq/config"
	"github.com/esqproject/esq/extract/elasticengine"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store endpoint and credentials for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, loadErr := config.Load()
			if loadErr != nil {
				return loadErr
			}

			reader := bufio.NewReader(cmd.InOrStdin())

			url, urlErr := promptURL(reader, existing)
			if urlErr != nil {
				return urlErr
			}

			// A stored username means the endpoint needed auth last time,
			// so skip the unauthenticated probe.
			if existing != nil && existing.Default.Username != "" {
				return loginWithCredentials(cmd, reader, url, existing)
			}

			reachable, pingErr := pingEndpoint(cmd, config.Endpoint{URL: url})
			if pingErr != nil {
				return pingErr
			}
			if reachable {
				fmt.Println("Successfully connected to Elasticsearch!")

				cfg := &config.Config{Default: config.Endpoint{URL: url}}

				return cfg.Save()
			}

			return loginWithCredentials(cmd, reader, url, existing)
		},
	}
}

func loginWithCredentials(cmd *cobra.Command, reader *bufio.Reader, url string, existing *config.Config) error {
	username, password, credErr := promptCredentials(reader, existing)
	if credErr != nil {
		return credErr
	}

	endpoint := config.Endpoint{URL: url, Username: username, Password: password}

	reachable, pingErr := pingEndpoint(cmd, endpoint)
	if pingErr != nil {
		return pingErr
	}
	if !reachable {
		fmt.Println("Authentication failed with provided credentials.")

		return fmt.Errorf("authentication failed")
	}

	fmt.Println("Successfully connected to Elasticsearch!")
	fmt.Println("Credentials are temporarily stored in ~/.esq/config.toml")
	fmt.Println("Remove them after use with the 'logout' command")

	cfg := &config.Config{Default: endpoint}

	return cfg.Save()
}

func pingEndpoint(cmd *cobra.Command, endpoint config.Endpoint) (bool, error) {
	engine, buildErr := elasticengine.NewExtractor(
		elasticengine.Endpoint{
			URL:      endpoint.URL,
			Username: endpoint.Username,
			Password: endpoint.Password,
		},
		"",
		loggingOptions()...,
	)
	if buildErr != nil {
		return false, buildErr
	}

	return engine.Ping(cmd.Context())
}

func promptURL(reader *bufio.Reader, existing *config.Config) (string, error) {
	if existing != nil && existing.Default.URL != "" {
		fmt.Printf("URL [%s]: ", existing.Default.URL)

		input, readErr := readLine(reader)
		if readErr != nil {
			return "", readErr
		}
		if input == "" {
			return existing.Default.URL, nil
		}

		return input, nil
	}

	fmt.Print("URL: ")

	return readLine(reader)
}

func promptCredentials(reader *bufio.Reader, existing *config.Config) (string, string, error) {
	var username string

	if existing != nil && existing.Default.Username != "" {
		fmt.Printf("Username [%s]: ", existing.Default.Username)

		input, readErr := readLine(reader)
		if readErr != nil {
			return "", "", readErr
		}

		username = input
		if username == "" {
			username = existing.Default.Username
		}
	} else {
		fmt.Print("Username: ")

		input, readErr := readLine(reader)
		if readErr != nil {
			return "", "", readErr
		}

		username = input
	}

	fmt.Print("Password: ")

	password, passErr := readPassword(reader)
	if passErr != nil {
		return "", "", passErr
	}

	return username, password, nil
}

// readPassword reads the password without echo when stdin is a terminal and
// falls back to a plain line read from the injected reader otherwise, so piped
// input still works.
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		passwordBytes, readErr := term.ReadPassword(fd)
		fmt.Println()
		if readErr != nil {
			return "", readErr
		}

		return string(passwordBytes), nil
	}

	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, readErr := reader.ReadString('\n')
	if readErr != nil && line == "" {
		return "", readErr
	}

	return strings.TrimSpace(line), nil
}
