package command

import (
	"fmt"
	"strings"
)

var descriptions = map[Command]string{
	Debug:       "Toggle debug mode for developer.",
	Help:        "Show help message.",
	Clear:       "Clear the terminal.",
	Version:     "Show the program version.",
	Exit:        "Exit the program.",
	Account:     "Account related commands.",
	Transaction: "Transaction related commands.",
	Sob:         ":(",

	AccList:    "List every account.",
	AccLogin:   "Log into an account.",
	AccCreate:  "Create a new account.",
	AccBalance: "Query the current account balance.",
	AccModify:  "Modify the current account data.",
	AccDelete:  "Delete the current account.",

	TDeposit:  "Deposit money into the current account.",
	TWithdraw: "Withdraw money from the current account.",
	TTransfer: "Transfer money from the current account to another.",
	THistory:  "Show the current account's transactions.",
}

var syntax = map[Command]string{
	AccList:    "acc list",
	AccLogin:   "acc log [Account Name]",
	AccCreate:  "acc new [Account Name] [<Starting Balance>]",
	AccBalance: "acc balance",
	AccModify:  "acc edit [Attribute] [Value]",
	AccDelete:  "acc del [Account Name]",

	TDeposit:  "t + [Amount]",
	TWithdraw: "t - [Amount]",
	TTransfer: "t > [Target Account] [Amount]",
	THistory:  "t h [<Limit>] [<Skip>]",
}

// RenderHelp lays out every prefix and sub-command of the table with its
// aliases, description and syntax.
func RenderHelp(aliases *AliasTable) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-20s %-30s %-40s\n", "PREFIX", "ALIASES", "DESCRIPTION")
	b.WriteString(strings.Repeat("-", 100) + "\n")
	for _, entry := range aliases.Prefixes() {
		fmt.Fprintf(&b, "%-20s %-30s %-40s\n", entry.Command, strings.Join(entry.Aliases, ", "), descriptions[entry.Command])
	}

	for _, section := range []struct {
		title  string
		prefix Command
	}{
		{"Account Subcommand", Account},
		{"Transaction Subcommand", Transaction},
	} {
		fmt.Fprintf(&b, "\n%s\n", section.title)
		fmt.Fprintf(&b, "%-20s %-30s %-55s %s\n", "TYPE", "ALIASES", "DESCRIPTION", "SYNTAX")
		b.WriteString(strings.Repeat("-", 140) + "\n")
		for _, entry := range aliases.SubCommands(section.prefix) {
			fmt.Fprintf(&b, "%-20s %-30s %-55s %s\n",
				entry.Command, strings.Join(entry.Aliases, ", "), descriptions[entry.Command], syntax[entry.Command])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
