package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"savings-ledger/command"
)

const (
	banner = "Welcome to Basic Savings App. Type help for list of commands."
	prompt = ">_ "
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long:  `Starts an interactive Read-Eval-Print Loop session to interact with the ledger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runREPL(in io.Reader, out io.Writer) error {
	appLog.Info().Int("accounts", len(accountService.Accounts())).Msg("session started")
	err := repl(newParser(), newSession(out), in, out)
	appLog.Info().Msg("session ended")
	return err
}

// repl reads one line at a time and prints what the parser makes of it.
// It stops on EXIT or at end of input.
func repl(parser *command.Parser, session *command.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, banner)
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(out, prompt)
		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		atEOF := err != nil
		if atEOF && input == "" {
			fmt.Fprintln(out)
			return nil
		}

		res := parser.Parse(session, strings.TrimRight(input, "\r\n"))
		if res.Message != "" {
			fmt.Fprintln(out, res.Message)
		}
		if res.Exit || atEOF {
			return nil
		}
	}
}
