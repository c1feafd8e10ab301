package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"campus-lostfound/internal/items"
	"campus-lostfound/internal/relay"
	"campus-lostfound/internal/session"
	"campus-lostfound/internal/store"
)

const (
	resetCmd       = "reset_ctx"
	categoryPrefix = "cat:"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	store       *store.Store
	relay       *relay.Relay
	sessions    *session.Manager
	adminUserID int64
	parseMode   string
}

func New(botToken string, st *store.Store, rl *relay.Relay, adminUserID int64, parseMode string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:         api,
		s:           botAPISender{api: api},
		store:       st,
		relay:       rl,
		sessions:    session.NewManager(),
		adminUserID: adminUserID,
		parseMode:   parseMode,
	}, nil
}

// Start consumes updates one at a time until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Telegram bot @%s started", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Println("🤖 Telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		if update.Message.IsCommand() {
			b.handleCommand(ctx, update.Message)
			return
		}
		b.handleIncomingMessage(ctx, update.Message)
		return
	}
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func sessionKey(chatID int64) string { return fmt.Sprintf("tg:%d", chatID) }

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st := b.sessions.Get(sessionKey(chatID))
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "home":
		st.Navigate(session.PageHome)
		b.sendMessage(chatID, renderHome(b.store.Stats(), b.esc))
	case "help":
		b.sendMessage(chatID, helpText)
	case "lost":
		b.startReport(chatID, st, items.KindLost)
	case "found":
		b.startReport(chatID, st, items.KindFound)
	case "cancel":
		if st.Draft != nil {
			st.Navigate(session.PageHome)
			b.sendMessage(chatID, "Report cancelled.")
			return
		}
		b.sendMessage(chatID, "Nothing to cancel.")
	case "search":
		st.Navigate(session.PageSearch)
		query := args
		if fields := strings.Fields(args); len(fields) > 0 {
			if kind, err := items.ParseKind(fields[0]); err == nil {
				st.SearchKind = kind
				query = strings.TrimSpace(strings.TrimPrefix(args, fields[0]))
			}
		}
		b.runSearch(chatID, st.SearchKind, query)
	case "stats":
		st.Navigate(session.PageStatistics)
		b.sendMessage(chatID, renderStats(b.store.Stats(), b.store.Recent(recentActivityLimit), b.esc))
	case "chat":
		st.Navigate(session.PageChat)
		b.showChat(chatID)
		if args != "" {
			b.chatTurn(ctx, chatID, args)
		}
	case "clear":
		b.relay.Clear(sessionKey(chatID))
		b.sendMessage(chatID, "🗑️ Chat history cleared.")
	default:
		b.sendMessage(chatID, "Unknown command. "+helpText)
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st := b.sessions.Get(sessionKey(chatID))
	text := msg.Text

	switch {
	case st.Draft != nil:
		b.continueReport(chatID, st, text)
	case st.Page == session.PageChat:
		b.chatTurn(ctx, chatID, text)
	case st.Page == session.PageSearch:
		b.runSearch(chatID, st.SearchKind, text)
	default:
		b.sendMessage(chatID, helpText)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	st := b.sessions.Get(sessionKey(chatID))

	switch {
	case cb.Data == resetCmd:
		b.relay.Clear(sessionKey(chatID))
		b.sendMessage(chatID, "🗑️ Chat history cleared.")
	case strings.HasPrefix(cb.Data, categoryPrefix):
		if st.Draft == nil || st.Draft.Step != session.StepCategory {
			return
		}
		b.continueReport(chatID, st, strings.TrimPrefix(cb.Data, categoryPrefix))
	}
}

func (b *Bot) startReport(chatID int64, st *session.State, kind items.Kind) {
	d := st.StartReport(kind)
	b.sendMessage(chatID, fmt.Sprintf("📝 New %s report. Send /cancel to stop.\n\n%s", strings.ToLower(kind.Title()), d.Prompt()))
}

func (b *Bot) continueReport(chatID int64, st *session.State, answer string) {
	d := st.Draft
	done, err := d.Apply(answer)
	if err != nil {
		b.sendMessage(chatID, "❌ "+err.Error()+"\n\n"+d.Prompt())
		if errors.Is(err, session.ErrBadCategory) {
			b.askCategory(chatID)
		}
		return
	}
	if !done {
		if d.Step == session.StepCategory {
			b.askCategory(chatID)
			return
		}
		b.sendMessage(chatID, d.Prompt())
		return
	}

	fields := d.Fields.Normalize()
	if err := fields.Validate(); err != nil {
		b.sendMessage(chatID, "❌ Please fill all required fields! ("+b.esc(err.Error())+")")
		st.StartReport(d.Kind)
		return
	}
	st.Navigate(session.PageHome)

	item, err := b.store.Create(d.Kind, fields)
	var perr *store.PersistError
	switch {
	case errors.As(err, &perr):
		log.Printf("⚠️ %s-%d kept in memory only: %v", d.Kind.Label(), item.ID, perr)
	case err != nil:
		log.Printf("failed to create report: %v", err)
		b.sendMessage(chatID, "❌ Could not save the report.")
		return
	}
	reply := fmt.Sprintf("✅ Report %s-%d saved successfully!", d.Kind.Label(), item.ID)
	if perr != nil {
		reply += "\n⚠️ The report could not be written to disk yet; it is kept for this session."
	}
	b.sendMessage(chatID, reply)
}

func (b *Bot) askCategory(chatID int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range items.Categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c, categoryPrefix+c))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	out := tgbotapi.NewMessage(chatID, "Item Category *")
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(out)
}

func (b *Bot) runSearch(chatID int64, kind items.Kind, query string) {
	results := b.store.Search(kind, strings.TrimSpace(query))
	b.sendChunks(chatID, renderSearch(kind, results, b.esc), nil)
}

func (b *Bot) showChat(chatID int64) {
	var parts []string
	if !b.relay.Configured() {
		parts = append(parts, "⚠️ AI chat requires a valid Groq API key. Add GROQ_API_KEY to your environment or secrets file.")
	}
	parts = append(parts, renderTranscript(b.relay.Transcript(sessionKey(chatID)), b.esc)...)
	b.sendChunks(chatID, parts, clearKeyboard())
}

func (b *Bot) chatTurn(ctx context.Context, chatID int64, text string) {
	reply, err := b.relay.SendTurn(ctx, sessionKey(chatID), text)
	if err != nil {
		return
	}
	b.sendChunks(chatID, []string{"🤖 Assistant: " + b.esc(reply)}, clearKeyboard())
}

// sendChunks sends parts as one or more messages within Telegram's length
// limit. markup, if any, goes on the last message.
func (b *Bot) sendChunks(chatID int64, parts []string, markup interface{}) {
	chunks := chunkMessages(parts, "\n\n", maxMessageLen)
	for i, c := range chunks {
		out := tgbotapi.NewMessage(chatID, c)
		if i == len(chunks)-1 && markup != nil {
			out.ReplyMarkup = markup
		}
		b.send(out)
	}
}

func clearKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Clear Chat History", resetCmd),
		),
	)
}

// SendText delivers a plain message, e.g. the admin digest.
func (b *Bot) SendText(chatID int64, text string) error {
	_, err := b.s.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	msg.ParseMode = b.parseMode
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
