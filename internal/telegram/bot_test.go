package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"campus-lostfound/internal/history"
	"campus-lostfound/internal/items"
	"campus-lostfound/internal/llm"
	"campus-lostfound/internal/relay"
	"campus-lostfound/internal/session"
	"campus-lostfound/internal/storage"
	"campus-lostfound/internal/store"
)

type fakeSender struct {
	sent     []tgbotapi.MessageConfig
	requests int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

type fakeLLM struct {
	resp llm.Response
	err  error
}

func (f fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return f.resp, f.err
}

type failingRepo struct{}

func (failingRepo) Load() (items.Snapshot, error) { return items.Snapshot{}, nil }
func (failingRepo) Save(items.Snapshot) error     { return errors.New("read-only fs") }

func newTestBot(client llm.Client) (*Bot, *fakeSender) {
	fs := &fakeSender{}
	return &Bot{
		s:         fs,
		store:     store.New(nil),
		relay:     relay.New(client, history.NewManager()),
		sessions:  session.NewManager(),
		parseMode: "HTML",
	}, fs
}

const chatID = int64(100)

func command(text string) *tgbotapi.Message {
	name := strings.Fields(text)[0]
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 42},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func text(s string) *tgbotapi.Message {
	return &tgbotapi.Message{From: &tgbotapi.User{ID: 42}, Chat: &tgbotapi.Chat{ID: chatID}, Text: s}
}

func (b *Bot) feed(msg *tgbotapi.Message) {
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})
}

func (b *Bot) click(data string) {
	b.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 42},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}})
}

func TestReportWizard_CreatesLostRecord(t *testing.T) {
	b, fs := newTestBot(nil)

	b.feed(command("/lost"))
	if !strings.Contains(fs.last(), "Your Full Name") {
		t.Fatalf("wizard did not ask for name: %q", fs.last())
	}
	b.feed(text("Ali Khan"))
	b.feed(text("0300-1234567"))
	kb, ok := fs.sent[len(fs.sent)-1].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || len(kb.InlineKeyboard) != 5 {
		t.Fatalf("expected category keyboard, got %#v", fs.sent[len(fs.sent)-1].ReplyMarkup)
	}
	b.click(categoryPrefix + "Wallet")
	if fs.requests != 1 {
		t.Fatalf("callback not answered")
	}
	b.feed(text("Main Gate"))
	b.feed(text("Black leather wallet"))

	if fs.last() != "✅ Report LOST-1 saved successfully!" {
		t.Fatalf("unexpected confirmation: %q", fs.last())
	}
	got := b.store.Lost()
	if len(got) != 1 || got[0].Category != "Wallet" || got[0].Location != "Main Gate" || got[0].ReporterName != "Ali Khan" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if st := b.sessions.Get(sessionKey(chatID)); st.Draft != nil || st.Page != session.PageHome {
		t.Fatalf("wizard state not reset: %+v", st)
	}
}

func TestReportWizard_PersistFailureWarns(t *testing.T) {
	b, fs := newTestBot(nil)
	b.store = store.New(failingRepo{})

	b.feed(command("/found"))
	for _, a := range []string{"Sara", "0311", "keys", "Cafeteria", "Car keys"} {
		b.feed(text(a))
	}
	if !strings.HasPrefix(fs.last(), "✅ Report FOUND-1 saved successfully!") || !strings.Contains(fs.last(), "could not be written") {
		t.Fatalf("expected success with warning, got %q", fs.last())
	}
	if len(b.store.Found()) != 1 {
		t.Fatalf("record must stay in memory")
	}
}

func TestReportWizard_RejectsBlankAndCancels(t *testing.T) {
	b, fs := newTestBot(nil)
	b.feed(command("/lost"))
	b.feed(text("   "))
	if !strings.Contains(fs.last(), "required") {
		t.Fatalf("blank answer not rejected: %q", fs.last())
	}
	b.feed(command("/cancel"))
	if fs.last() != "Report cancelled." {
		t.Fatalf("unexpected: %q", fs.last())
	}
	if len(b.store.Lost()) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestSearchCommand(t *testing.T) {
	b, fs := newTestBot(nil)
	b.store.CreateLost(items.Fields{ReporterName: "Ali", Contact: "0300", Category: "Wallet", Description: "Black leather wallet", Location: "Main Gate"})
	b.store.CreateFound(items.Fields{ReporterName: "Sara", Contact: "0311", Category: "Laptop", Description: "Dell <XPS>", Location: "Main Library"})

	b.feed(command("/search lost LEATHER"))
	out := fs.last()
	if !strings.Contains(out, "Found 1 matching item(s)") || !strings.Contains(out, "LOST-1") || !strings.Contains(out, "Owner Contact") {
		t.Fatalf("unexpected search output: %q", out)
	}

	b.feed(command("/search lost laptop"))
	if !strings.Contains(fs.last(), "No matching items") {
		t.Fatalf("laptop should not match lost items: %q", fs.last())
	}

	// plain text on the search page keeps searching the selected collection
	b.feed(command("/search found"))
	if !strings.Contains(fs.last(), "Finder Contact") || !strings.Contains(fs.last(), "Dell &lt;XPS&gt;") {
		t.Fatalf("found listing missing or not escaped: %q", fs.last())
	}
	b.feed(text("library"))
	if !strings.Contains(fs.last(), "FOUND-1") {
		t.Fatalf("follow-up search failed: %q", fs.last())
	}
}

func TestStatsCommand(t *testing.T) {
	b, fs := newTestBot(nil)
	b.feed(command("/stats"))
	if !strings.Contains(fs.last(), "No activity yet") {
		t.Fatalf("empty stats should say so: %q", fs.last())
	}
	long := strings.Repeat("x", 100)
	b.store.CreateLost(items.Fields{Category: "Bag", Description: long, Location: "Gym"})
	b.store.CreateFound(items.Fields{Category: "Keys", Description: "keys", Location: "Gym"})
	b.feed(command("/stats"))
	out := fs.last()
	if !strings.Contains(out, "Lost Items: 1") || !strings.Contains(out, "Total Reports: 2") {
		t.Fatalf("counts missing: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("x", 80)+"...") || strings.Contains(out, strings.Repeat("x", 81)) {
		t.Fatalf("description not truncated: %q", out)
	}
}

func TestChat_UnconfiguredRelay(t *testing.T) {
	b, fs := newTestBot(nil)
	b.feed(command("/chat"))
	if !strings.Contains(fs.last(), "requires a valid Groq API key") || !strings.Contains(fs.last(), "How can I help you today?") {
		t.Fatalf("unexpected chat page: %q", fs.last())
	}
	b.feed(text("hello"))
	if !strings.Contains(fs.last(), "AI service is currently unavailable") {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
	if got := b.relay.Transcript(sessionKey(chatID)); len(got) != 2 {
		t.Fatalf("want 2 turns, got %d", len(got))
	}
}

func TestChat_ConfiguredAndClear(t *testing.T) {
	b, fs := newTestBot(fakeLLM{resp: llm.Response{Content: "Visit the security office.", Model: "m"}})
	b.feed(command("/chat I lost my card"))
	if !strings.Contains(fs.last(), "Visit the security office.") {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
	b.click(resetCmd)
	if len(b.relay.Transcript(sessionKey(chatID))) != 0 {
		t.Fatalf("clear button did not reset history")
	}
	if !strings.Contains(fs.last(), "cleared") {
		t.Fatalf("no confirmation: %q", fs.last())
	}
}

func TestSendMessage_UsesParseMode(t *testing.T) {
	b := &Bot{s: &fakeSender{}, parseMode: "Markdown"}
	b.sendMessage(1, "**bold**")
	fs := b.s.(*fakeSender)
	if len(fs.sent) != 1 || fs.sent[0].Text != "**bold**" || fs.sent[0].ParseMode != "Markdown" {
		t.Fatalf("unexpected sent: %+v", fs.sent)
	}
}

type memRecorder struct{ events []storage.Event }

func (m *memRecorder) AppendInteraction(ev storage.Event) error {
	m.events = append(m.events, ev)
	return nil
}
func (m *memRecorder) LoadInteractions() ([]storage.Event, error) { return m.events, nil }

func TestSendDailyDigest(t *testing.T) {
	b, fs := newTestBot(nil)
	if err := b.SendDailyDigest(context.Background(), nil); err != nil || len(fs.sent) != 0 {
		t.Fatalf("digest without admin must be skipped: %v %d", err, len(fs.sent))
	}

	b.adminUserID = 999
	b.store.CreateLost(items.Fields{Category: "Wallet", Description: "d", Location: "l"})
	if err := b.SendDailyDigest(context.Background(), &memRecorder{}); err != nil {
		t.Fatalf("digest: %v", err)
	}
	if len(fs.sent) != 1 || fs.sent[0].ChatID != 999 || !strings.Contains(fs.sent[0].Text, "New lost reports: 1") {
		t.Fatalf("unexpected digest: %+v", fs.sent)
	}
}

func assertFits(t *testing.T, sent []tgbotapi.MessageConfig) {
	t.Helper()
	for i, m := range sent {
		if n := textLen(m.Text); n > maxMessageLen {
			t.Fatalf("message %d is %d units long, limit %d", i, n, maxMessageLen)
		}
	}
}

func TestSearchCommand_LongResultIsSplit(t *testing.T) {
	b, fs := newTestBot(nil)
	desc := strings.Repeat("blue backpack with a laptop sleeve & stickers ", 4)
	for i := 0; i < 30; i++ {
		b.store.CreateFound(items.Fields{ReporterName: "Sara Ahmed", Contact: "0311-7654321", Category: "Bag", Description: desc, Location: "Main Library, second floor"})
	}

	b.feed(command("/search found"))

	if len(fs.sent) < 2 {
		t.Fatalf("expected the listing to be split, got %d message(s)", len(fs.sent))
	}
	assertFits(t, fs.sent)
	var all strings.Builder
	for _, m := range fs.sent {
		all.WriteString(m.Text + "\n")
	}
	for i := 1; i <= 30; i++ {
		if !strings.Contains(all.String(), "FOUND-"+strconv.Itoa(i)+":") {
			t.Fatalf("FOUND-%d missing from the listing", i)
		}
	}
	if !strings.HasPrefix(fs.sent[0].Text, "✅ Found 30 matching item(s)") {
		t.Fatalf("header must open the first message: %q", fs.sent[0].Text)
	}
}

func TestChat_LongTranscriptIsSplit(t *testing.T) {
	reply := strings.Repeat("Please visit the security office near the main gate. ", 30)
	b, fs := newTestBot(fakeLLM{resp: llm.Response{Content: reply}})
	b.feed(command("/chat"))
	for i := 0; i < 4; i++ {
		b.feed(text("where can I find my card?"))
	}
	fs.sent = nil

	b.feed(command("/chat"))

	if len(fs.sent) < 2 {
		t.Fatalf("expected the transcript to be split, got %d message(s)", len(fs.sent))
	}
	assertFits(t, fs.sent)
	last := fs.sent[len(fs.sent)-1]
	if _, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Fatalf("clear button must stay on the last message")
	}
	for _, m := range fs.sent[:len(fs.sent)-1] {
		if m.ReplyMarkup != nil {
			t.Fatalf("only the last message carries the keyboard")
		}
	}
}

func TestChunkMessages_CutsOversizedPart(t *testing.T) {
	long := strings.Repeat("a&amp;", 2000)
	chunks := chunkMessages([]string{"head", long}, "\n\n", maxMessageLen)
	if len(chunks) < 3 {
		t.Fatalf("want at least 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if textLen(c) > maxMessageLen {
			t.Fatalf("chunk %d too long: %d", i, textLen(c))
		}
		if i > 0 && strings.HasPrefix(c, "amp;") {
			t.Fatalf("chunk %d starts inside an entity", i)
		}
	}
	if chunks[0] != "head" {
		t.Fatalf("a part that cannot share a message must start a new one: %q", chunks[0])
	}
}
