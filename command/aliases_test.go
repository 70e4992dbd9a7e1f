package command_test

import (
	"testing"

	"savings-ledger/command"
)

func TestAliasTable_ResolvePrefix(t *testing.T) {
	aliases := command.DefaultAliases()
	tests := []struct {
		token string
		want  command.Command
	}{
		{"exit", command.Exit},
		{"Q", command.Exit},
		{"quit", command.Exit},
		{"?", command.Help},
		{"cls", command.Clear},
		{"acc", command.Account},
		{"A", command.Account},
		{"t", command.Transaction},
		{"Trans", command.Transaction},
		{"dev", command.Debug},
		{"ver", command.Version},
		{":(", command.Sob},
		{"  help  ", command.Help},
		{"bogus", command.None},
		{"", command.None},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := aliases.ResolvePrefix(tt.token); got != tt.want {
				t.Errorf("ResolvePrefix(%q) = %s, want %s", tt.token, got, tt.want)
			}
		})
	}
}

func TestAliasTable_ResolveSubCommand(t *testing.T) {
	aliases := command.DefaultAliases()
	tests := []struct {
		prefix command.Command
		token  string
		want   command.Command
	}{
		{command.Account, "NEW", command.AccCreate},
		{command.Account, "add", command.AccCreate},
		{command.Account, "log", command.AccLogin},
		{command.Account, "b", command.AccBalance},
		{command.Account, "ls", command.AccList},
		{command.Account, "remove", command.AccDelete},
		{command.Transaction, "add", command.TDeposit},
		{command.Transaction, "+", command.TDeposit},
		{command.Transaction, "remove", command.TWithdraw},
		{command.Transaction, ">", command.TTransfer},
		{command.Transaction, "H", command.THistory},
		// Sub-commands are scoped to their prefix.
		{command.Transaction, "new", command.None},
		{command.Account, "+", command.None},
		{command.Exit, "new", command.None},
	}
	for _, tt := range tests {
		t.Run(tt.prefix.String()+"/"+tt.token, func(t *testing.T) {
			if got := aliases.ResolveSubCommand(tt.prefix, tt.token); got != tt.want {
				t.Errorf("ResolveSubCommand(%s, %q) = %s, want %s", tt.prefix, tt.token, got, tt.want)
			}
		})
	}
}

func TestAliasTable_IsImmutable(t *testing.T) {
	aliases := command.DefaultAliases()
	entries := aliases.Prefixes()
	entries[0].Aliases[0] = "CHANGED"
	entries[0].Command = command.Help

	if got := aliases.ResolvePrefix("exit"); got != command.Exit {
		t.Errorf("mutating returned entries changed the table: exit resolves to %s", got)
	}
	if got := aliases.ResolvePrefix("changed"); got != command.None {
		t.Errorf("expected None for injected alias, got %s", got)
	}
}

func TestNewAliasTable_NormalizesCase(t *testing.T) {
	aliases := command.NewAliasTable(
		[]command.AliasEntry{{Command: command.Account, Aliases: []string{"bank"}}},
		map[command.Command][]command.AliasEntry{
			command.Account: {{Command: command.AccBalance, Aliases: []string{"SHOW"}}},
		},
	)
	if got := aliases.ResolvePrefix("BANK"); got != command.Account {
		t.Errorf("expected ACCOUNT, got %s", got)
	}
	if got := aliases.ResolveSubCommand(command.Account, "show"); got != command.AccBalance {
		t.Errorf("expected ACC_BALANCE, got %s", got)
	}
	if !aliases.RequiresSubCommand(command.Account) || aliases.RequiresSubCommand(command.Transaction) {
		t.Errorf("unexpected RequiresSubCommand result")
	}
}

func TestCommand_String(t *testing.T) {
	if command.TTransfer.String() != "T_TRANSFER" {
		t.Errorf("unexpected name %q", command.TTransfer.String())
	}
	if command.Command(999).String() != "NONE" {
		t.Errorf("unknown commands should print as NONE")
	}
}
