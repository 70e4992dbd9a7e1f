package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"savings-ledger/domain"
	"savings-ledger/store"
)

const (
	blankInputMessage     = "Please enter a command, or type help for list of commands."
	exitMessage           = "EXITING..."
	unclosedQuoteMessage  = "Incomplete quotation mark. (Missing a closing mark.)"
	invalidEscapeMessage  = "Invalid Escape sequence parsed."
	internalFailureNotice = "An unexpected error occurred. Toggle DEBUG mode to see the details."
	clearScreenSequence   = "\033[H\033[2J"
)

// Result is what one input line produces. Exit is only ever true for the
// EXIT command.
type Result struct {
	Success bool
	Message string
	Exit    bool
}

func succeed(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

type Parser struct {
	aliases *AliasTable
	log     zerolog.Logger
}

func NewParser(aliases *AliasTable, log zerolog.Logger) *Parser {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Parser{aliases: aliases, log: log}
}

// Parse tokenizes line, resolves its prefix and sub-command and runs it
// against the session. It always returns a Result: parse errors, rejected
// requests and internal failures (including panics) are all reported
// through it. Nothing but the session's Active and Debug fields outlives
// the call.
func (p *Parser) Parse(s *Session, line string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = p.internalFailure(s, line, fmt.Errorf("panic: %v", r))
		}
	}()

	if strings.TrimSpace(line) == "" {
		return fail(blankInputMessage)
	}

	tokens, err := shellquote.Split(line)
	if err != nil {
		return p.parseFailure(line, err)
	}
	if len(tokens) == 0 {
		return fail(blankInputMessage)
	}

	call := Call{Line: line, Prefix: p.aliases.ResolvePrefix(tokens[0])}
	p.log.Debug().Str("line", line).Stringer("prefix", call.Prefix).Msg("parsing command")

	switch call.Prefix {
	case Exit:
		return Result{Success: true, Message: exitMessage, Exit: true}
	case Help:
		return succeed("%s", RenderHelp(p.aliases))
	case Clear:
		fmt.Fprint(s.Screen, clearScreenSequence)
		return succeed("Cleared Terminal.")
	case Version:
		return succeed("Basic Savings App version %s", s.Version)
	case Debug:
		s.Debug = !s.Debug
		if s.Debug {
			return succeed("Debug mode enabled.")
		}
		return succeed("Debug mode disabled.")
	case Sob:
		return succeed(":(")
	}

	if !p.aliases.RequiresSubCommand(call.Prefix) {
		return fail("Unknown command given: %s. Try using 'HELP' command", line)
	}
	if len(tokens) < 2 || strings.TrimSpace(tokens[1]) == "" {
		return fail("Missing or empty subcommand for %s command. Try using 'HELP' command", call.Prefix)
	}
	call.SubToken = strings.TrimSpace(tokens[1])
	call.Sub = p.aliases.ResolveSubCommand(call.Prefix, call.SubToken)
	if call.Sub == None {
		return fail("Unknown subcommand given for %s command: %s. Try using 'HELP' command", call.Prefix, call.SubToken)
	}
	if takesArguments[call.Sub] {
		call.Args = tokens[2:]
	}
	return p.dispatch(s, call)
}

func (p *Parser) dispatch(s *Session, call Call) Result {
	if s.Ledger == nil {
		return p.internalFailure(s, call.Line, errors.New("session has no ledger attached"))
	}
	res, err := execute(s, call)
	if err == nil {
		return res
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		p.log.Info().Stringer("command", call.Sub).Err(err).Msg("request rejected")
		return fail("Request rejected: %v.", err)
	}
	if errors.Is(err, store.ErrPersistence) {
		p.log.Error().Stringer("command", call.Sub).Err(err).Msg("request failed in storage")
		return fail("Request failed: %v.", err)
	}
	return p.internalFailure(s, call.Line, err)
}

func (p *Parser) parseFailure(line string, err error) Result {
	p.log.Debug().Str("line", line).Err(err).Msg("tokenize failed")
	switch {
	case errors.Is(err, shellquote.UnterminatedSingleQuoteError),
		errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
		return fail(unclosedQuoteMessage)
	case errors.Is(err, shellquote.UnterminatedEscapeError):
		return fail(invalidEscapeMessage)
	}
	return fail("Could not read command: >_ %s\n%v", line, err)
}

func (p *Parser) internalFailure(s *Session, line string, err error) Result {
	p.log.Error().Str("line", line).Err(err).Msg("command failed unexpectedly")
	if s != nil && s.Debug {
		return fail("An unexpected error occurred while parsing: >_ %s\n%v", line, err)
	}
	return fail(internalFailureNotice)
}
