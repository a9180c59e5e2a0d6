// Package main provides the banker CLI: it logs into the portal,
// extracts the account's transactions and prints them as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danicanod/banker-venezuela-sub000/pkg/client"
	"github.com/danicanod/banker-venezuela-sub000/pkg/config"
	"github.com/danicanod/banker-venezuela-sub000/pkg/login"
	"github.com/danicanod/banker-venezuela-sub000/pkg/scrape"
)

const version = "1.0.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	EnvFile     string
	Headless    bool
	OutputFile  string
	Timeout     time.Duration
	ClearStored bool
	ShowVersion bool
}

// output is the JSON document printed on success.
type output struct {
	Login        login.Result   `json:"login"`
	Transactions *scrape.Result `json:"transactions,omitempty"`
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("banker v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		log.Printf("Execution failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cliConfig.EnvFile, "env", ".env", "Path to env file with credentials")
	flag.BoolVar(&cliConfig.Headless, "headless", true, "Run the browser without a visible window")
	flag.StringVar(&cliConfig.OutputFile, "json-out", "", "Write the JSON result to a file instead of stdout")
	flag.DurationVar(&cliConfig.Timeout, "timeout", 5*time.Minute, "Overall execution timeout")
	flag.BoolVar(&cliConfig.ClearStored, "clear-session", false, "Discard any persisted session before logging in")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "banker - portal login and transaction extraction\n\n")
		fmt.Fprintf(os.Stderr, "Usage: banker [options]\n\n")
		fmt.Fprintf(os.Stderr, "Credentials come from the environment (or the -env file):\n")
		fmt.Fprintf(os.Stderr, "  BANKER_USERNAME, BANKER_PASSWORD, BANKER_SECURITY_QUESTIONS\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Extract with credentials from .env\n")
		fmt.Fprintf(os.Stderr, "  banker\n\n")
		fmt.Fprintf(os.Stderr, "  # Watch the browser and save the result\n")
		fmt.Fprintf(os.Stderr, "  banker -headless=false -json-out movements.json\n\n")
	}

	flag.Parse()
	return cliConfig
}

func run(ctx context.Context, cliConfig *CLIConfig) error {
	// Missing env file is fine when the variables are already exported
	if err := godotenv.Load(cliConfig.EnvFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return err
	}

	cfg, err := config.Load(cliConfig.ConfigFile)
	if err != nil {
		return err
	}
	cfg.Auth.Headless = cliConfig.Headless

	if cliConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliConfig.Timeout)
		defer cancel()
	}

	c, err := client.New(creds, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			log.Printf("Shutdown produced an error: %v", closeErr)
		}
	}()

	if cliConfig.ClearStored {
		if err := c.ClearStoredSession(); err != nil {
			return err
		}
	}

	log.Printf("Logging in as %s", creds)
	result, err := c.Login(ctx)
	if err != nil {
		return fmt.Errorf("login aborted: %w", err)
	}

	doc := output{Login: result}
	if result.Status == login.Success {
		log.Printf("Login succeeded, extracting transactions")
		transactions, scrapeErr := c.ScrapeTransactions(ctx)
		if scrapeErr != nil {
			return fmt.Errorf("extraction failed: %w", scrapeErr)
		}
		doc.Transactions = transactions
		log.Printf("Extracted %d records over %d pages (%s)",
			len(transactions.Records), transactions.Meta.PagesVisited, transactions.Meta.Method)
	} else {
		log.Printf("Login did not succeed: %s (%s)", result.Status, result.Message)
	}

	return writeOutput(doc, cliConfig.OutputFile)
}

func writeOutput(doc output, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	log.Printf("Result written to %s", path)
	return nil
}
