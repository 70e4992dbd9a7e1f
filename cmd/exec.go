package cmd

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

var execAccount string

// execCmd runs a single shell line without entering the interactive loop.
var execCmd = &cobra.Command{
	Use:   "exec [--account NAME] -- <command line>",
	Short: "Run one shell command and exit",
	Long: `Runs a single line through the same parser as the interactive shell.
Use --account to log into an account first, e.g.

  savings-ledger exec --account Alice -- t + 25`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		parser := newParser()
		session := newSession(out)

		if execAccount != "" {
			res := parser.Parse(session, shellquote.Join("acc", "login", execAccount))
			if !res.Success {
				return errors.New(res.Message)
			}
		}

		res := parser.Parse(session, shellquote.Join(args...))
		if !res.Success {
			return errors.New(res.Message)
		}
		if res.Message != "" {
			fmt.Fprintln(out, res.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVar(&execAccount, "account", "", "Account name or id to log into before running the command")
}
