package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esqproject/esq/config"
)

// The tests below run with a non-terminal stdin, so the credential prompts
// read from the injected reader throughout.

func Test_PromptURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		existing *config.Config
		expected string
	}{
		{
			name:     "no_existing_config_reads_the_line",
			input:    "http://localhost:9200\n",
			existing: nil,
			expected: "http://localhost:9200",
		},
		{
			name:     "empty_input_keeps_the_stored_default",
			input:    "\n",
			existing: &config.Config{Default: config.Endpoint{URL: "http://stored:9200"}},
			expected: "http://stored:9200",
		},
		{
			name:     "input_overrides_the_stored_default",
			input:    "http://other:9200\n",
			existing: &config.Config{Default: config.Endpoint{URL: "http://stored:9200"}},
			expected: "http://other:9200",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			url, err := promptURL(bufio.NewReader(strings.NewReader(tc.input)), tc.existing)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, url)
		})
	}
}

func Test_PromptCredentials(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		existing         *config.Config
		expectedUsername string
		expectedPassword string
	}{
		{
			name:             "fresh_credentials",
			input:            "alice\nhunter2\n",
			existing:         nil,
			expectedUsername: "alice",
			expectedPassword: "hunter2",
		},
		{
			name:             "empty_username_keeps_the_stored_default",
			input:            "\nhunter2\n",
			existing:         &config.Config{Default: config.Endpoint{Username: "elastic"}},
			expectedUsername: "elastic",
			expectedPassword: "hunter2",
		},
		{
			name:             "username_overrides_the_stored_default",
			input:            "bob\nsecret\n",
			existing:         &config.Config{Default: config.Endpoint{Username: "elastic"}},
			expectedUsername: "bob",
			expectedPassword: "secret",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			username, password, err := promptCredentials(bufio.NewReader(strings.NewReader(tc.input)), tc.existing)

			require.NoError(t, err)
			assert.Equal(t, tc.expectedUsername, username)
			assert.Equal(t, tc.expectedPassword, password)
		})
	}
}
