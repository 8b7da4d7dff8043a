package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Google(ctx context.Context) error
	Logout(ctx context.Context) error
	Discover(ctx context.Context) error
	Like(ctx context.Context, arg string, superlike bool) error
	Matches(ctx context.Context) error
	Chat(ctx context.Context, arg string) error
	Profile(ctx context.Context) error
	Onboard(ctx context.Context) error
	Photo(ctx context.Context, path string) error
	DeletePhoto(ctx context.Context, photoID string) error
	Locate(ctx context.Context) error
	Account(ctx context.Context) error
	Deactivate(ctx context.Context) error
	Report(ctx context.Context, arg string) error
	Block(ctx context.Context, arg string) error
	Reports(ctx context.Context) error
	Users(ctx context.Context, search string) error
	UserInfo(ctx context.Context, userID string) error
	Action(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Amora CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate with email and password
//	  - google         — authenticate via Google
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - discover       — show the candidate feed
//	  - like <n>       — like candidate n from the last feed
//	  - superlike <n>  — superlike candidate n
//	  - matches        — list matches
//	  - chat <n>       — open the conversation with match n
//	  - profile        — show my profile
//	  - onboard        — create my profile
//	  - photo <path>   — upload a photo
//	  - delphoto <id>  — delete a photo
//	  - locate         — set my coordinates
//	  - account        — update account email
//	  - deactivate     — deactivate my account
//	  - report <n>     — report candidate n
//	  - block <n>      — block candidate n
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
//	Admins additionally get: reports, users [search], user <id>, action.
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("amora %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: discover, like <n>, superlike <n>, matches, chat <n>, profile, onboard, photo <path>, delphoto <id>, locate, account, deactivate, report <n>, block <n>, logout, exit")
				if a.isAdmin() {
					printlnFn("Admin commands: reports, users [search], user <id>, action")
				}
			} else {
				printlnFn("Available commands: register, login, google, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.Google(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "d", "discover":
			_ = a.Discover(ctx)

		case "like":
			if arg == "" {
				printlnFn("Usage: like <n>")
				continue
			}
			_ = a.Like(ctx, arg, false)

		case "superlike":
			if arg == "" {
				printlnFn("Usage: superlike <n>")
				continue
			}
			_ = a.Like(ctx, arg, true)

		case "m", "matches":
			_ = a.Matches(ctx)

		case "chat":
			if arg == "" {
				printlnFn("Usage: chat <n>")
				continue
			}
			_ = a.Chat(ctx, arg)

		case "profile":
			_ = a.Profile(ctx)

		case "onboard":
			_ = a.Onboard(ctx)

		case "photo":
			if arg == "" {
				printlnFn("Usage: photo <path>")
				continue
			}
			_ = a.Photo(ctx, arg)

		case "delphoto":
			if arg == "" {
				printlnFn("Usage: delphoto <id>")
				continue
			}
			_ = a.DeletePhoto(ctx, arg)

		case "locate":
			_ = a.Locate(ctx)

		case "account":
			_ = a.Account(ctx)

		case "deactivate":
			_ = a.Deactivate(ctx)

		case "report":
			if arg == "" {
				printlnFn("Usage: report <n>")
				continue
			}
			_ = a.Report(ctx, arg)

		case "block":
			if arg == "" {
				printlnFn("Usage: block <n>")
				continue
			}
			_ = a.Block(ctx, arg)

		case "reports":
			_ = a.Reports(ctx)

		case "users":
			_ = a.Users(ctx, arg)

		case "user":
			if arg == "" {
				printlnFn("Usage: user <id>")
				continue
			}
			_ = a.UserInfo(ctx, arg)

		case "action":
			_ = a.Action(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
