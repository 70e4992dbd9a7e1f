package command

// Command is the canonical identifier a typed token resolves to.
type Command int

const (
	None Command = iota

	// Prefixes
	Debug
	Help
	Clear
	Version
	Exit
	Account
	Transaction
	Sob

	// Account sub-commands
	AccList
	AccLogin
	AccCreate
	AccBalance
	AccModify
	AccDelete

	// Transaction sub-commands
	TDeposit
	TWithdraw
	TTransfer
	THistory
)

var commandNames = map[Command]string{
	None:        "NONE",
	Debug:       "DEBUG",
	Help:        "HELP",
	Clear:       "CLEAR",
	Version:     "VERSION",
	Exit:        "EXIT",
	Account:     "ACCOUNT",
	Transaction: "TRANSACTION",
	Sob:         "SOB",
	AccList:     "ACC_LIST",
	AccLogin:    "ACC_LOGIN",
	AccCreate:   "ACC_CREATE",
	AccBalance:  "ACC_BALANCE",
	AccModify:   "ACC_MODIFY",
	AccDelete:   "ACC_DELETE",
	TDeposit:    "T_DEPOSIT",
	TWithdraw:   "T_WITHDRAW",
	TTransfer:   "T_TRANSFER",
	THistory:    "T_HISTORY",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "NONE"
}

// takesArguments lists the sub-commands that receive the tokens after the
// sub-command. Every other command is dispatched with no arguments.
var takesArguments = map[Command]bool{
	AccLogin:  true,
	AccCreate: true,
	AccModify: true,
	AccDelete: true,
	TDeposit:  true,
	TWithdraw: true,
	TTransfer: true,
	THistory:  true,
}

// Call is the parse result of one input line. It lives for a single
// Parse call.
type Call struct {
	Line     string
	Prefix   Command
	Sub      Command
	SubToken string
	Args     []string
}
