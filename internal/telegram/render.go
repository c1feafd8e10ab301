package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf16"

	"campus-lostfound/internal/items"
	"campus-lostfound/internal/llm"
	"campus-lostfound/internal/relay"
)

const (
	recentActivityLimit = 10
	activityPreviewLen  = 80
)

const helpText = "Commands:\n" +
	"/start - home\n" +
	"/lost - report a lost item\n" +
	"/found - report a found item\n" +
	"/search lost|found keywords - search reports\n" +
	"/stats - statistics\n" +
	"/chat - talk to the AI assistant\n" +
	"/clear - clear chat history\n" +
	"/cancel - stop the current report"

// esc escapes user-supplied text when messages are sent as HTML.
func (b *Bot) esc(s string) string {
	if strings.EqualFold(b.parseMode, "HTML") {
		return html.EscapeString(s)
	}
	return s
}

func renderHome(st items.Stats, esc func(string) string) string {
	var bld strings.Builder
	bld.WriteString("🎓 " + esc("AWKUM Lost & Found") + "\n")
	bld.WriteString("Official AI-Powered Recovery System\n\n")
	bld.WriteString("📢 Lost Something? Report it with /lost and a detailed description.\n")
	bld.WriteString("🎉 Found Something? Report it with /found and help someone recover their belongings.\n\n")
	fmt.Fprintf(&bld, "Lost reports: %d\nFound reports: %d\n\n", st.Lost, st.Found)
	bld.WriteString(helpText)
	return bld.String()
}

// renderSearch returns the header and one block per result, to be joined
// with blank lines.
func renderSearch(kind items.Kind, results []items.Item, esc func(string) string) []string {
	if len(results) == 0 {
		return []string{"📭 No matching items found. Try different keywords or check other category."}
	}
	parts := make([]string, 0, len(results)+1)
	parts = append(parts, fmt.Sprintf("✅ Found %d matching item(s)", len(results)))
	for _, it := range results {
		var bld strings.Builder
		fmt.Fprintf(&bld, "%s-%d: %s\n", kind.Label(), it.ID, esc(it.Category))
		fmt.Fprintf(&bld, "📝 %s\n", esc(it.Description))
		fmt.Fprintf(&bld, "📍 %s\n", esc(it.Location))
		fmt.Fprintf(&bld, "👤 %s\n", esc(it.ReporterName))
		fmt.Fprintf(&bld, "📞 %s: %s\n", kind.ContactLabel(), esc(it.Contact))
		fmt.Fprintf(&bld, "🕐 %s", esc(it.Timestamp))
		parts = append(parts, bld.String())
	}
	return parts
}

func renderStats(st items.Stats, recent []items.Activity, esc func(string) string) string {
	var bld strings.Builder
	fmt.Fprintf(&bld, "📢 Lost Items: %d\n🎉 Found Items: %d\n📊 Total Reports: %d\n\n", st.Lost, st.Found, st.Total)
	bld.WriteString("Recent Activity\n")
	if len(recent) == 0 {
		bld.WriteString("📭 No activity yet. Be the first to report an item!")
		return bld.String()
	}
	for _, a := range recent {
		icon := "📢"
		if a.Kind == items.KindFound {
			icon = "🎉"
		}
		fmt.Fprintf(&bld, "%s %s: %s - %s (%s)\n", icon, a.Kind.Title(), esc(a.Category),
			esc(items.Truncate(a.Description, activityPreviewLen)), esc(a.Timestamp))
	}
	return bld.String()
}

// renderTranscript returns one entry per turn.
func renderTranscript(msgs []llm.Message, esc func(string) string) []string {
	if len(msgs) == 0 {
		return []string{"🤖 Assistant: " + esc(relay.Greeting)}
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		label := "You"
		if m.Role == llm.RoleAssistant {
			label = "🤖 Assistant"
		}
		parts = append(parts, label+": "+esc(m.Content))
	}
	return parts
}

// maxMessageLen is Telegram's limit, counted in UTF-16 code units.
const maxMessageLen = 4096

// chunkMessages packs parts, joined by sep, into messages of at most limit
// units. A part is only split across messages when it exceeds limit alone.
func chunkMessages(parts []string, sep string, limit int) []string {
	var out []string
	var cur strings.Builder
	curLen, sepLen := 0, textLen(sep)
	for _, p := range parts {
		for _, piece := range splitLong(p, limit) {
			n := textLen(piece)
			if cur.Len() > 0 && curLen+sepLen+n > limit {
				out = append(out, cur.String())
				cur.Reset()
				curLen = 0
			}
			if cur.Len() > 0 {
				cur.WriteString(sep)
				curLen += sepLen
			}
			cur.WriteString(piece)
			curLen += n
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// splitLong cuts s into pieces of at most limit UTF-16 units, never inside
// an HTML entity.
func splitLong(s string, limit int) []string {
	var out []string
	for textLen(s) > limit {
		cut, n := 0, 0
		for i, r := range s {
			w := 1
			if r >= 0x10000 {
				w = 2
			}
			if n+w > limit {
				cut = i
				break
			}
			n += w
		}
		if amp := strings.LastIndexByte(s[:cut], '&'); amp > 0 && cut-amp < 10 && !strings.Contains(s[amp:cut], ";") {
			cut = amp
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return append(out, s)
}
