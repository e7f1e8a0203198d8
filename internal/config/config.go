// Package config loads application configuration from environment variables.
package config

import (
	"os"
	"strings"

	"github.com/Kub3rn3tesofficial/test-infra/internal/classify"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr         string
	DBPath             string
	WebhookSecret      string
	GitHubToken        string
	AutomationAccounts []string
	XRefHost           string
}

// HasGitHubToken reports whether a token is available for the commit-status
// source. Without one classification runs on the event stream alone.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a Config.
// All variables are optional. Defaults: CLASSIFIER_LISTEN_ADDR
// (127.0.0.1:8080), CLASSIFIER_DB_PATH (classifier.db), CLASSIFIER_XREF_HOST
// (k8s-gubernator.appspot.com). CLASSIFIER_AUTOMATION_ACCOUNTS is a
// comma-separated list of bot logins to exclude from distilled activity;
// unset, the stock bot accounts are used. An empty CLASSIFIER_WEBHOOK_SECRET
// disables delivery signature validation.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("CLASSIFIER_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "classifier.db"
	if v, ok := os.LookupEnv("CLASSIFIER_DB_PATH"); ok {
		dbPath = v
	}

	xrefHost := classify.DefaultXRefHost
	if v, ok := os.LookupEnv("CLASSIFIER_XREF_HOST"); ok && v != "" {
		xrefHost = v
	}

	accounts := classify.DefaultAutomationAccounts
	if v, ok := os.LookupEnv("CLASSIFIER_AUTOMATION_ACCOUNTS"); ok {
		accounts = []string{}
		for _, login := range strings.Split(v, ",") {
			login = strings.TrimSpace(login)
			if login != "" {
				accounts = append(accounts, login)
			}
		}
	}

	return &Config{
		ListenAddr:         listenAddr,
		DBPath:             dbPath,
		WebhookSecret:      os.Getenv("CLASSIFIER_WEBHOOK_SECRET"),
		GitHubToken:        os.Getenv("CLASSIFIER_GITHUB_TOKEN"),
		AutomationAccounts: accounts,
		XRefHost:           xrefHost,
	}, nil
}
