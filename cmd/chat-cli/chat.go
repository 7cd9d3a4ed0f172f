package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"catalog-assistant/internal/common/observability"
	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/response"
)

var chatQuestion string

var (
	assistantLabel = color.New(color.FgCyan, color.Bold).SprintFunc()
	userLabel      = color.New(color.FgGreen).SprintFunc()
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  "Start an interactive chat session. Type \"exit\" or \"quit\" to leave.",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatQuestion, "question", "q", "", "ask a single question and exit")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	formatter, err := response.NewFormatterFromConfig(d.cfg.Chat)
	if err != nil {
		return err
	}
	engine := conversation.NewEngine(d.gateway, formatter, observability.NewNoop(), d.log)
	conv := conversation.New(engine, d.log)

	if chatQuestion != "" {
		reply, err := conv.Submit(ctx, chatQuestion)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		return nil
	}
	return runREPL(ctx, conv, os.Stdin, cmd.OutOrStdout())
}

// runREPL prints the greeting and answers one line at a time until EOF or
// an exit command.
func runREPL(ctx context.Context, conv *conversation.Conversation, in io.Reader, out io.Writer) error {
	for _, msg := range conv.Messages() {
		fmt.Fprintf(out, "%s %s\n", assistantLabel("assistant>"), msg.Text)
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "\n%s ", userLabel("you>"))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		text := strings.TrimSpace(line)
		switch strings.ToLower(text) {
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		if text != "" {
			reply, submitErr := conv.Submit(ctx, text)
			if submitErr != nil {
				return submitErr
			}
			fmt.Fprintf(out, "%s %s\n", assistantLabel("assistant>"), reply.Text)
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
	}
}
