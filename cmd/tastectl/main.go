// tastectl is a smoke-test CLI for a running taste-orchestrator: it wraps a
// one-line prompt into a single-turn conversation and prints the response.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	debug     bool
	budget    float64
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "tastectl",
		Short: "Drive a running taste-orchestrator from the command line",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("ORCHESTRATOR_URL", "http://localhost:9020"), "orchestrator base URL")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "request the debug bundle (intent + entities)")

	tasteCmd := &cobra.Command{
		Use:   "taste [prompt...]",
		Short: "Run the taste pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke("/v1/taste", strings.Join(args, " "))
		},
	}

	tripCmd := &cobra.Command{
		Use:   "trip [prompt...]",
		Short: "Run the trip pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke("/v1/trip", strings.Join(args, " "))
		},
	}
	tripCmd.Flags().Float64Var(&budget, "budget", 0, "trip budget in dollars")

	root.AddCommand(tasteCmd, tripCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func invoke(path, prompt string) error {
	payload := map[string]interface{}{
		"messages": []map[string]string{{"role": "user", "content": prompt}},
		"debug":    debug,
	}
	if budget > 0 {
		payload["budget"] = budget
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Post(strings.TrimRight(serverURL, "/")+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}

	if debug {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			fmt.Println(string(raw))
			return nil
		}
		fmt.Println(pretty.String())
		return nil
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Println(parsed.Text)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
