package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/thebank/coreledger/internal/infrastructure/auth"
)

var (
	baseURL        string
	timeout        time.Duration
	token          string
	idempotencyKey string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coreledger-cli",
		Short: "CoreLedger CLI tool",
		Long:  `A command line interface for interacting with the CoreLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the CoreLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")

	rootCmd.AddCommand(accountCommand())
	rootCmd.AddCommand(transferCommand())
	rootCmd.AddCommand(ledgerCommand())
	rootCmd.AddCommand(tokenCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var owner, currency string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts", map[string]any{
				"owner_user_id": owner,
				"currency":      currency,
			})
		},
	}
	createCmd.Flags().StringVar(&owner, "owner", "", "Owner user ID")
	createCmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Get an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Get the derived balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/balance", nil)
		},
	}

	var fundAmount, fundDesc string
	fundCmd := &cobra.Command{
		Use:   "fund <account-id>",
		Short: "Credit an account with initial funds",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts/"+args[0]+"/fund", map[string]any{
				"amount":      fundAmount,
				"description": fundDesc,
			})
		},
	}
	fundCmd.Flags().StringVar(&fundAmount, "amount", "", "Amount to credit")
	fundCmd.Flags().StringVar(&fundDesc, "description", "", "Entry description")

	var from, to string
	statementCmd := &cobra.Command{
		Use:   "statement <account-id>",
		Short: "Get an account statement",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/accounts/" + args[0] + "/statement"
			sep := "?"
			if from != "" {
				path += sep + "from=" + from
				sep = "&"
			}
			if to != "" {
				path += sep + "to=" + to
			}
			doRequest(http.MethodGet, path, nil)
		},
	}
	statementCmd.Flags().StringVar(&from, "from", "", "Range start (RFC 3339)")
	statementCmd.Flags().StringVar(&to, "to", "", "Range end (RFC 3339)")

	accountCmd.AddCommand(createCmd, getCmd, balanceCmd, fundCmd, statementCmd)

	return accountCmd
}

func transferCommand() *cobra.Command {
	transferCmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	var fromAccount, toAccount, amount, description string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Execute a transfer",
		Run: func(cmd *cobra.Command, args []string) {
			if idempotencyKey == "" {
				idempotencyKey = uuid.NewString()
				fmt.Printf("Idempotency-Key: %s\n", idempotencyKey)
			}
			doRequest(http.MethodPost, "/api/v1/transfers", map[string]any{
				"from_account_id": fromAccount,
				"to_account_id":   toAccount,
				"amount":          amount,
				"description":     description,
			})
		},
	}
	createCmd.Flags().StringVar(&fromAccount, "from", "", "Source account ID")
	createCmd.Flags().StringVar(&toAccount, "to", "", "Destination account ID")
	createCmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	createCmd.Flags().StringVar(&description, "description", "", "Transfer description")
	createCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key (generated when omitted)")

	getCmd := &cobra.Command{
		Use:   "get <transfer-id>",
		Short: "Get a transfer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/transfers/"+args[0], nil)
		},
	}

	entriesCmd := &cobra.Command{
		Use:   "entries <transfer-id>",
		Short: "List the ledger entries of a transfer",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/transfers/"+args[0]+"/entries", nil)
		},
	}

	transferCmd.AddCommand(createCmd, getCmd, entriesCmd)

	return transferCmd
}

func ledgerCommand() *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)

	return ledgerCmd
}

func tokenCommand() *cobra.Command {
	var userID, secret string
	var expiry time.Duration

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a development bearer token",
		Run: func(cmd *cobra.Command, args []string) {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				fmt.Println("a signing secret is required (--secret or JWT_SECRET)")
				os.Exit(1)
			}

			manager := auth.NewJWTManager(secret, expiry)
			signed, err := manager.Generate(userID)
			if err != nil {
				fmt.Printf("failed to generate token: %v\n", err)
				os.Exit(1)
			}

			fmt.Println(signed)
		},
	}
	tokenCmd.Flags().StringVar(&userID, "user", "", "User ID claim")
	tokenCmd.Flags().StringVar(&secret, "secret", "", "Signing secret")
	tokenCmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "Token lifetime")

	return tokenCmd
}

func doRequest(method, path string, payload any) {
	client := &http.Client{Timeout: timeout}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		os.Exit(1)
	}
}
