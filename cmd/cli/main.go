package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "accountsvc-cli",
		Short: "Account service CLI tool",
		Long:  `A command line interface for interacting with the account service API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the account service API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(transactionCmd())
	rootCmd.AddCommand(ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var (
		holderName    string
		dateOfBirth   string
		holderAddress string
		accountType   string
		openingAmount string
		currency      string
	)

	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open a new bank account",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/accounts", map[string]any{
				"holder_name":    holderName,
				"date_of_birth":  dateOfBirth,
				"holder_address": holderAddress,
				"account_type":   accountType,
				"opening_amount": openingAmount,
				"currency":       currency,
			})
		},
	}
	openCmd.Flags().StringVar(&holderName, "name", "", "Account holder name")
	openCmd.Flags().StringVar(&dateOfBirth, "dob", "", "Date of birth (YYYY-MM-DD)")
	openCmd.Flags().StringVar(&holderAddress, "address", "", "Account holder address")
	openCmd.Flags().StringVar(&accountType, "type", "SAVINGS", "Account type (SAVINGS or CURRENT)")
	openCmd.Flags().StringVar(&openingAmount, "amount", "", "Opening deposit amount")
	openCmd.Flags().StringVar(&currency, "currency", "DKK", "Account currency")

	balanceCmd := &cobra.Command{
		Use:   "balance [account-number]",
		Short: "Show the current balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0] + "/balance")
		},
	}

	var limit int
	statementCmd := &cobra.Command{
		Use:   "statement [account-number]",
		Short: "Show the mini statement, most recent activity first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/accounts/%s/statement", args[0])
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			getJSON(path)
		},
	}
	statementCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of statement lines")

	cmd.AddCommand(openCmd, balanceCmd, statementCmd)

	return cmd
}

func transactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Deposit and withdrawal operations",
	}

	var (
		amount   string
		currency string
		remarks  string
	)

	apply := func(kind string) func(cmd *cobra.Command, args []string) {
		return func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/transactions", map[string]any{
				"account_number": args[0],
				"kind":           kind,
				"amount":         amount,
				"currency":       currency,
				"remarks":        remarks,
			})
		}
	}

	depositCmd := &cobra.Command{
		Use:   "deposit [account-number]",
		Short: "Deposit funds into an account",
		Args:  cobra.ExactArgs(1),
		Run:   apply("DEPOSIT"),
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw [account-number]",
		Short: "Withdraw funds from an account",
		Args:  cobra.ExactArgs(1),
		Run:   apply("WITHDRAWAL"),
	}

	for _, c := range []*cobra.Command{depositCmd, withdrawCmd} {
		c.Flags().StringVar(&amount, "amount", "", "Transaction amount")
		c.Flags().StringVar(&currency, "currency", "DKK", "Transaction currency")
		c.Flags().StringVar(&remarks, "remarks", "", "Free-form remarks")
	}

	cmd.AddCommand(depositCmd, withdrawCmd)

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that every balance matches its activity history",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	cmd.AddCommand(consistencyCmd)

	return cmd
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
		return
	}

	printJSON(decoded)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
