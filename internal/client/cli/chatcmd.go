package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avetisovm/amora/internal/client/chat"
	"github.com/avetisovm/amora/internal/client/models"
)

// historyPageSize bounds the initial history fetch when a conversation opens.
const historyPageSize = 50

// Chat opens the conversation with the n-th match from the last listing and
// drops into a message loop: every line is sent, "/back" returns to the main
// prompt. Inbound messages are printed live while the view is open.
//
// The realtime connection is best effort. If the socket cannot be opened the
// loop still runs; sends are kept locally and flagged as undelivered.
func (a *App) Chat(ctx context.Context, arg string) error {
	m, err := a.matchEntry(arg)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	history, err := a.client.Messages(ctx, m.ID, historyPageSize, 0)
	if err != nil {
		printlnFn("Could not load messages:", err.Error())
		return err
	}
	a.cache.Replace(m.ID, history)

	myID := ""
	if u := a.session.User(); u != nil {
		myID = u.ID
	}

	channel := chat.NewChannel(a.config.WSEndpointURL, m.ID, a.session, a.cache, a.log)
	channel.OnMessage = func(msg models.Message) {
		printlnFn(renderMessage(msg, myID, peerName(*m)))
	}
	defer channel.Close()

	if err := channel.Open(ctx); err != nil {
		printlnFn("Live connection unavailable, messages will be kept locally:", err.Error())
	}
	channel.SetActive(true)

	printlnFn(fmt.Sprintf("--- chat with %s (type /back to leave) ---", peerName(*m)))
	printHistory(a.cache.Messages(m.ID), myID, peerName(*m))

	reader := a.reader
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/back" {
			return nil
		}

		if !channel.Send(line) {
			fmt.Fprintln(os.Stdout, "(not delivered, kept locally)")
		}
	}
}

// printHistory renders a newest-first snapshot oldest-first, the way a chat
// transcript reads.
func printHistory(messages []models.Message, myID, peer string) {
	for i := len(messages) - 1; i >= 0; i-- {
		printlnFn(renderMessage(messages[i], myID, peer))
	}
}

func renderMessage(msg models.Message, myID, peer string) string {
	who := peer
	if msg.SenderID == myID {
		who = "me"
	}
	return fmt.Sprintf("[%s] %s: %s", msg.CreatedAt.Local().Format("15:04"), who, msg.Content)
}
