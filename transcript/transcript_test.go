package transcript

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

// fakeFetcher serves a chronological message slice through the Discord
// history API shape: newest-first pages before the given message ID.
type fakeFetcher struct {
	msgs  []*discordgo.Message
	calls int
}

func (f *fakeFetcher) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.calls++
	end := len(f.msgs)
	if beforeID != "" {
		end = 0
		for idx, m := range f.msgs {
			if m.ID == beforeID {
				end = idx
				break
			}
		}
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	page := make([]*discordgo.Message, 0, end-start)
	for k := end - 1; k >= start; k-- {
		page = append(page, f.msgs[k])
	}
	return page, nil
}

func userMsg(id, author, content string, ts time.Time) *discordgo.Message {
	return &discordgo.Message{
		ID:        id,
		Content:   content,
		Timestamp: ts,
		Author:    &discordgo.User{Username: author},
		Type:      discordgo.MessageTypeDefault,
	}
}

func TestFetchAllChronologicalAcrossPages(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var msgs []*discordgo.Message
	for k := 0; k < 250; k++ {
		msgs = append(msgs, userMsg(fmt.Sprintf("m%04d", k), "alice", fmt.Sprintf("message %d", k), base.Add(time.Duration(k)*time.Second)))
	}
	f := &fakeFetcher{msgs: msgs}

	got, err := FetchAll(f, "c1")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 250 {
		t.Fatalf("got %d messages, want 250", len(got))
	}
	for k, m := range got {
		if want := fmt.Sprintf("m%04d", k); m.ID != want {
			t.Fatalf("message %d has ID %s, want %s", k, m.ID, want)
		}
	}
	// 100 + 100 + 50 + empty terminator.
	if f.calls != 4 {
		t.Errorf("fetch calls = %d, want 4", f.calls)
	}
}

func TestFetchAllEmptyChannel(t *testing.T) {
	f := &fakeFetcher{}
	got, err := FetchAll(f, "c1")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d messages, want 0", len(got))
	}
}

func TestRenderOrderAndIdempotency(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msgs := []*discordgo.Message{
		userMsg("m1", "alice", "login issue", base),
		userMsg("m2", "staffer", "looking into it", base.Add(time.Minute)),
		userMsg("m3", "alice", "thanks", base.Add(2*time.Minute)),
	}

	first, err := Render("support-ticket-alice", msgs)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := Render("support-ticket-alice", msgs)
	if err != nil {
		t.Fatalf("Render again: %v", err)
	}
	if first != second {
		t.Error("repeated render over an unchanged message set must be identical")
	}

	a := strings.Index(first, "login issue")
	b := strings.Index(first, "looking into it")
	c := strings.Index(first, "thanks")
	if a < 0 || b < 0 || c < 0 || !(a < b && b < c) {
		t.Errorf("messages out of chronological order: %d %d %d", a, b, c)
	}
}

func TestRenderTagsAndFilters(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	bot := userMsg("m2", "ticketbot", "Welcome!", base.Add(time.Second))
	bot.Author.Bot = true
	system := userMsg("m3", "alice", "", base.Add(2*time.Second))
	system.Type = discordgo.MessageTypeChannelPinnedMessage

	html, err := Render("support-ticket-alice", []*discordgo.Message{
		userMsg("m1", "alice", "hello", base),
		bot,
		system,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		`class="tag tag-user">USER<`,
		`class="tag tag-bot">BOT<`,
		`class="tag tag-system">SYSTEM<`,
		`id="search"`,
		`id="jump"`,
		`<option value="alice">alice</option>`,
		`<option value="ticketbot">ticketbot</option>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}
}

func TestRenderAttachmentsAndReactions(t *testing.T) {
	m := userMsg("m1", "alice", "see screenshot", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	m.Attachments = []*discordgo.MessageAttachment{
		{Filename: "shot.png", URL: "https://cdn.example/shot.png", ContentType: "image/png"},
		{Filename: "log.txt", URL: "https://cdn.example/log.txt", ContentType: "text/plain"},
	}
	m.Reactions = []*discordgo.MessageReactions{
		{Emoji: &discordgo.Emoji{Name: "👍"}, Count: 3},
	}

	html, err := Render("support-ticket-alice", []*discordgo.Message{m})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(html, `<img src="https://cdn.example/shot.png"`) {
		t.Error("image attachment should render an inline preview")
	}
	if strings.Contains(html, `<img src="https://cdn.example/log.txt"`) {
		t.Error("non-image attachment must not render a preview")
	}
	if !strings.Contains(html, "log.txt") {
		t.Error("non-image attachment link missing")
	}
	if !strings.Contains(html, "👍 3") {
		t.Error("reaction emoji and count missing")
	}
}

func TestRenderEscapesContent(t *testing.T) {
	m := userMsg("m1", "alice", `<script>alert("x")</script>`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	html, err := Render("support-ticket-alice", []*discordgo.Message{m})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, `<script>alert`) {
		t.Error("message content must be escaped")
	}
}
