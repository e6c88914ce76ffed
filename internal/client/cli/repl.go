package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aihr/internal/logging"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real AdminApp type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Help()
	List(ctx context.Context) error
	Invite(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	View(ctx context.Context, id string) error
	CV(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Export(ctx context.Context, path string) error
	SetLang(ctx context.Context, lang string) error
}

// commandArg names the argument of commands that need one.
var commandArg = map[string]string{
	"invite":  "session_id",
	"reject":  "session_id",
	"view":    "session_id",
	"cv":      "session_id",
	"archive": "session_id",
	"export":  "file",
	"lang":    "ru|uz|en",
}

// runREPL starts the read–eval–print loop of the admin dashboard.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
//	help                 show available commands
//	l | list             reload and show all sessions
//	invite <id>          set INVITED and reload
//	reject <id>          set REJECTED and reload
//	view <id>            show questions and answers of a session
//	cv <id>              download the CV into the download directory
//	archive <id>         copy the CV into the S3 archive
//	export <file>        write the shown list to an .xlsx file
//	lang <tag>           switch the interface language
//	exit | quit          leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	base := ctx
	for {
		printlnFn(fmt.Sprintf("aihr %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		ctx := logging.WithFields(base, "command", cmd)

		if argName, ok := commandArg[cmd]; ok && len(parts) < 2 {
			printlnFn(fmt.Sprintf("Usage: %s <%s>", cmd, argName))
			continue
		}

		switch cmd {
		case "help":
			a.Help()

		case "l", "list":
			_ = a.List(ctx)

		case "invite":
			_ = a.Invite(ctx, parts[1])

		case "reject":
			_ = a.Reject(ctx, parts[1])

		case "view":
			_ = a.View(ctx, parts[1])

		case "cv":
			_ = a.CV(ctx, parts[1])

		case "archive":
			_ = a.Archive(ctx, parts[1])

		case "export":
			_ = a.Export(ctx, strings.Join(parts[1:], " "))

		case "lang":
			_ = a.SetLang(ctx, parts[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if base.Err() != nil {
			return
		}
	}
}
