package command

import "strings"

// AliasEntry maps one canonical command to the literal tokens that select it.
type AliasEntry struct {
	Command Command
	Aliases []string
}

// AliasTable resolves typed tokens to commands. Prefix aliases are stored
// upper-case and sub-command aliases lower-case; sub-commands are scoped to
// the prefix they belong to, so "add" can mean different things under
// ACCOUNT and TRANSACTION. A table is never modified after construction.
type AliasTable struct {
	prefixes    []AliasEntry
	subCommands map[Command][]AliasEntry
}

var defaultAliases = NewAliasTable(
	[]AliasEntry{
		{Exit, []string{"EXIT", "QUIT", "END", "Q"}},
		{Help, []string{"HELP", "?"}},
		{Clear, []string{"CLS", "CLEAR"}},
		{Account, []string{"ACCOUNT", "ACC", "A"}},
		{Transaction, []string{"TRANSACTION", "TRANS", "T"}},
		{Debug, []string{"DEBUG", "DEV"}},
		{Version, []string{"VERSION", "VER", "V"}},
		{Sob, []string{"SOB", ":("}},
	},
	map[Command][]AliasEntry{
		Account: {
			{AccList, []string{"list", "ls", "all"}},
			{AccLogin, []string{"login", "session", "use", "log"}},
			{AccCreate, []string{"create", "new", "add", "open"}},
			{AccBalance, []string{"balance", "b", "money", "get"}},
			{AccModify, []string{"edit", "modify"}},
			{AccDelete, []string{"delete", "del", "remove", "close"}},
		},
		Transaction: {
			{TDeposit, []string{"deposit", "add", "+"}},
			{TWithdraw, []string{"withdraw", "remove", "-"}},
			{TTransfer, []string{"transfer", "move", ">"}},
			{THistory, []string{"history", "query", "h"}},
		},
	},
)

// DefaultAliases returns the table used by the interactive shell.
func DefaultAliases() *AliasTable {
	return defaultAliases
}

// NewAliasTable copies and case-normalizes the given entries.
func NewAliasTable(prefixes []AliasEntry, subCommands map[Command][]AliasEntry) *AliasTable {
	t := &AliasTable{
		prefixes:    normalizeEntries(prefixes, strings.ToUpper),
		subCommands: make(map[Command][]AliasEntry, len(subCommands)),
	}
	for prefix, entries := range subCommands {
		t.subCommands[prefix] = normalizeEntries(entries, strings.ToLower)
	}
	return t
}

// ResolvePrefix returns the prefix command for token, or None.
func (t *AliasTable) ResolvePrefix(token string) Command {
	return lookup(t.prefixes, strings.ToUpper(strings.TrimSpace(token)))
}

// ResolveSubCommand returns the sub-command for token under prefix, or None.
func (t *AliasTable) ResolveSubCommand(prefix Command, token string) Command {
	return lookup(t.subCommands[prefix], strings.ToLower(strings.TrimSpace(token)))
}

// RequiresSubCommand reports whether prefix only acts through a sub-command.
func (t *AliasTable) RequiresSubCommand(prefix Command) bool {
	return len(t.subCommands[prefix]) > 0
}

func (t *AliasTable) Prefixes() []AliasEntry {
	return normalizeEntries(t.prefixes, nil)
}

func (t *AliasTable) SubCommands(prefix Command) []AliasEntry {
	return normalizeEntries(t.subCommands[prefix], nil)
}

func lookup(entries []AliasEntry, token string) Command {
	if token == "" {
		return None
	}
	for _, entry := range entries {
		for _, alias := range entry.Aliases {
			if alias == token {
				return entry.Command
			}
		}
	}
	return None
}

func normalizeEntries(entries []AliasEntry, fold func(string) string) []AliasEntry {
	out := make([]AliasEntry, 0, len(entries))
	for _, entry := range entries {
		aliases := make([]string, len(entry.Aliases))
		for i, alias := range entry.Aliases {
			if fold != nil {
				alias = fold(alias)
			}
			aliases[i] = alias
		}
		out = append(out, AliasEntry{Command: entry.Command, Aliases: aliases})
	}
	return out
}
