package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"chat-relay/internal/config"
	"chat-relay/internal/domain/conversation"
	"chat-relay/internal/infrastructure/gatewayclient"
	"chat-relay/internal/infrastructure/logger"
)

var version = "1.0.0"

func main() {
	loadEnvFiles()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "Terminal chat client for the chat relay gateway",
	Long: `chat talks to the AI agent through the chat relay gateway.

Without a subcommand it opens an interactive session. Type a message and
press enter to send it. Commands:
  /attach <path>   attach a file to the next message
  /detach          drop the pending attachment
  /quit            leave

When the agent is unreachable the client answers with a local fallback
reply and says so in the status line.`,
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := newSessionDeps(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return runTUI(cmd.Context(), deps.session, deps.apiURL)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Send one message and print the conversation",
	Example: `  chat send "hello"
  chat send "what is in this picture?" --file ./cat.png`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := newSessionDeps(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		sub := conversation.Submission{Text: strings.Join(args, " ")}
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			file, err := loadAttachment(path)
			if err != nil {
				return err
			}
			sub.File = file
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := deps.session.Submit(ctx, sub)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderPlain(deps.session.Snapshot()))
		if res.Notice != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Notice.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Gateway API base URL (overrides PUBLIC_API_URL)")
	sendCmd.Flags().StringP("file", "f", "", "File to attach")
	rootCmd.AddCommand(sendCmd)
}

type sessionDeps struct {
	session *conversation.Session
	apiURL  string
}

func newSessionDeps(cmd *cobra.Command) (*sessionDeps, func(), error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, nil, err
	}
	if override, _ := cmd.Flags().GetString("api-url"); override != "" {
		cfg.APIURL = strings.TrimRight(override, "/")
	}

	log, closeLog, err := logger.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := gatewayclient.New(cfg.APIURL, log)
	sess := conversation.NewSession(client, conversation.WithLogger(log))

	cleanup := func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: close log file: %v\n", err)
		}
	}
	return &sessionDeps{session: sess, apiURL: cfg.APIURL}, cleanup, nil
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
