package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/engine"
	"github.com/hupe1980/contractsmith/ui"
)

var (
	askChatID string
	askSkip   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [request]",
	Short: "Run a single exchange and print the result",
	Long: `Runs one exchange and streams the contract to stdout.

If the request is incomplete the clarifying question is printed instead.
Use --skip to generate without the completeness check.`,
	Example: `  contractsmith ask "Write an ERC20 token named Example with symbol EXM"
  contractsmith ask --skip "A simple escrow contract"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := newApp(ctx, cfg, logger, verbose)
		if err != nil {
			return err
		}

		return ask(ctx, a, askChatID, strings.Join(args, " "), askSkip, cmd.OutOrStdout())
	},
}

func init() {
	askCmd.Flags().StringVar(&askChatID, "chat", "cli", "Chat id")
	askCmd.Flags().BoolVar(&askSkip, "skip", false, "Skip the completeness check")
}

// ask submits one request, streams the code as it grows and prints the
// final sections. Interrupting ctx cancels the exchange.
func ask(ctx context.Context, a *app, chatID, request string, skip bool, out io.Writer) error {
	eng := a.engine
	in := engine.Input{Form: map[string]string{"input": request}}

	if skip {
		// Record the request as history so the writer still sees it.
		raw, err := json.Marshal(in.Form)
		if err != nil {
			return err
		}

		history, err := a.sessions.Get(chatID)
		if err != nil {
			return err
		}

		history = append(history, core.NewTextTurn(core.RoleUser, string(raw)))
		if err := a.sessions.Save(chatID, history); err != nil {
			return err
		}

		in = engine.Input{Skip: true}
	}

	x, err := eng.Submit(ctx, chatID, in)
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-ctx.Done():
			_ = eng.Cancel(x.ID)
		case <-x.Done():
		}
	}()

	var printed int
	for text := range x.Code.Updates(context.WithoutCancel(ctx)) {
		if len(text) < printed {
			// A retry restarted the text.
			fmt.Fprintln(out)
			printed = 0
		}
		fmt.Fprint(out, text[printed:])
		printed = len(text)
	}

	outcome, err := x.Wait(context.WithoutCancel(ctx))
	if printed > 0 {
		fmt.Fprintln(out)
	}

	for _, s := range x.Component.Snapshot() {
		switch s.Kind {
		case ui.KindInquiry:
			fmt.Fprintln(out, s.Text)
			for i, item := range s.Items {
				fmt.Fprintf(out, "  %d. %s\n", i+1, item)
			}
		case ui.KindSuggestions:
			fmt.Fprintln(out, "\n"+s.Title+":")
			for _, item := range s.Items {
				fmt.Fprintln(out, "  - "+item)
			}
		case ui.KindNotice:
			fmt.Fprintln(out, s.Text)
		}
	}

	if err != nil {
		return fmt.Errorf("exchange %s: %w", outcome, err)
	}

	return nil
}
