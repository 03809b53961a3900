package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/auth"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "sharefund-cli",
		Short:         "ShareFund CLI tool",
		Long:          `A command line interface for browsing solar projects and buying shares through the ShareFund API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ShareFund API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SHAREFUND_TOKEN"), "Bearer token (defaults to $SHAREFUND_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		projectCmd(opts),
		purchaseCmd(opts),
		portfolioCmd(opts),
		reconcileCmd(opts),
		tokenCmd(),
	)

	return rootCmd
}

func projectCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project operations",
	}

	var status, location string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if status != "" {
				q.Set("status", status)
			}
			if location != "" {
				q.Set("location", location)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			return opts.do(cmd, http.MethodGet, "/api/v1/projects/?"+q.Encode(), nil, nil)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status (active, inactive, funded)")
	listCmd.Flags().StringVar(&location, "location", "", "Filter by location substring")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of projects")

	getCmd := &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.do(cmd, http.MethodGet, "/api/v1/projects/"+url.PathEscape(args[0]), nil, nil)
		},
	}

	var shares int64
	var years int
	returnsCmd := &cobra.Command{
		Use:   "returns <project-id>",
		Short: "Project expected returns for a share count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("shares", strconv.FormatInt(shares, 10))
			q.Set("years", strconv.Itoa(years))
			return opts.do(cmd, http.MethodGet, "/api/v1/projects/"+url.PathEscape(args[0])+"/returns?"+q.Encode(), nil, nil)
		},
	}
	returnsCmd.Flags().Int64Var(&shares, "shares", 1, "Number of shares")
	returnsCmd.Flags().IntVar(&years, "years", 1, "Horizon in years")

	cmd.AddCommand(listCmd, getCmd, returnsCmd)
	return cmd
}

func purchaseCmd(opts *options) *cobra.Command {
	var (
		buyerID        string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "purchase <project-id> <shares>",
		Short: "Buy shares of a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid share count %q: %w", args[1], err)
			}

			if idempotencyKey == "" {
				idempotencyKey = uuid.NewString()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Idempotency-Key: %s\n", idempotencyKey)

			body := map[string]any{
				"project_id": args[0],
				"shares":     shares,
			}
			if buyerID != "" {
				body["buyer_id"] = buyerID
			}
			headers := map[string]string{"Idempotency-Key": idempotencyKey}
			return opts.do(cmd, http.MethodPost, "/api/v1/investments/", body, headers)
		},
	}
	cmd.Flags().StringVar(&buyerID, "buyer", "", "Buyer ID (defaults to the token subject)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Reuse a key to retry a purchase safely")
	return cmd
}

func portfolioCmd(opts *options) *cobra.Command {
	var investments bool

	cmd := &cobra.Command{
		Use:   "portfolio <buyer-id>",
		Short: "Show a buyer's portfolio summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/buyers/" + url.PathEscape(args[0]) + "/portfolio"
			if investments {
				path = "/api/v1/buyers/" + url.PathEscape(args[0]) + "/investments"
			}
			return opts.do(cmd, http.MethodGet, path, nil, nil)
		},
	}
	cmd.Flags().BoolVar(&investments, "investments", false, "List individual investments instead of the summary")
	return cmd
}

func reconcileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [project-id]",
		Short: "Compare sold shares with recorded investments",
		Long:  `Without arguments, runs the full report. Exits non-zero when any project has unrecorded shares.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/reconciliation/report"
			if len(args) == 1 {
				path = "/api/v1/projects/" + url.PathEscape(args[0]) + "/reconciliation"
			}

			var result struct {
				IsReconciled  *bool             `json:"is_reconciled"`
				Discrepancies []json.RawMessage `json:"discrepancies"`
			}
			if err := opts.doInto(cmd, http.MethodGet, path, &result); err != nil {
				return err
			}

			if result.IsReconciled != nil && !*result.IsReconciled {
				return fmt.Errorf("project %s is not reconciled", args[0])
			}
			if len(result.Discrepancies) > 0 {
				return fmt.Errorf("%d projects have discrepancies", len(result.Discrepancies))
			}
			return nil
		},
	}
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		userID   string
		email    string
		role     string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed JWT for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or $JWT_SECRET is required")
			}
			manager := auth.NewJWTManager(secret, duration)
			token, err := manager.Generate(&domain.User{
				ID:    userID,
				Email: email,
				Role:  domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&userID, "user", "", "User ID (token subject)")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleInvestor), "Role: investor or admin")
	cmd.Flags().DurationVar(&duration, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// do sends a request and pretty-prints the JSON response.
func (o *options) do(cmd *cobra.Command, method, path string, body any, headers map[string]string) error {
	status, data, err := o.send(cmd.Context(), method, path, body, headers)
	if err != nil {
		return err
	}
	printJSON(cmd.OutOrStdout(), data)
	if status >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", status)
	}
	if status == http.StatusAccepted {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: purchase needs operator reconciliation")
	}
	return nil
}

// doInto prints the response and decodes it into out.
func (o *options) doInto(cmd *cobra.Command, method, path string, out any) error {
	status, data, err := o.send(cmd.Context(), method, path, nil, nil)
	if err != nil {
		return err
	}
	printJSON(cmd.OutOrStdout(), data)
	if status >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", status)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (o *options) send(ctx context.Context, method, path string, body any, headers map[string]string) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, o.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func printJSON(w io.Writer, data []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, buf.String())
}
