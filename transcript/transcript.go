// Package transcript renders a ticket channel's full message history into a
// single self-contained HTML document and delivers it at close time.
package transcript

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// pageSize is the Discord API maximum per history request.
const pageSize = 100

// Fetcher is the slice of the discordgo session the generator reads from.
type Fetcher interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// Sender is the slice of the discordgo session the generator delivers
// through.
type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Summary is the close report posted alongside the transcript file.
type Summary struct {
	ChannelName  string
	Category     string
	OwnerID      string
	CloserID     string
	OpenedAt     time.Time
	ClosedAt     time.Time
	MessageCount int
}

// FetchAll pages backward through the channel history until an empty page,
// then returns the messages oldest to newest.
func FetchAll(f Fetcher, channelID string) ([]*discordgo.Message, error) {
	var all []*discordgo.Message
	before := ""
	for {
		page, err := f.ChannelMessages(channelID, pageSize, before, "", "")
		if err != nil {
			return nil, fmt.Errorf("fetch history: %w", err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		before = page[len(page)-1].ID
	}

	// Pages arrive newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

// Generate fetches the channel history and renders the HTML document.
// Rendering the same message set twice yields identical output.
func Generate(f Fetcher, channelID, channelName string) (string, int, error) {
	msgs, err := FetchAll(f, channelID)
	if err != nil {
		return "", 0, err
	}
	html, err := Render(channelName, msgs)
	if err != nil {
		return "", 0, err
	}
	return html, len(msgs), nil
}

// WriteTemp writes the document to transient storage under a name derived
// from the channel name and the close timestamp.
func WriteTemp(channelName string, closedAt time.Time, html string) (string, error) {
	name := fmt.Sprintf("%s-%s.html", channelName, closedAt.UTC().Format("20060102-150405"))
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// Deliver posts the transcript and summary to the log channel, attempts a
// direct-message copy to the ticket owner, then removes the file. DM
// failures (closed DMs and the like) are swallowed; the file is removed no
// matter how delivery went.
func Deliver(s Sender, logChannel, dmIntro, path string, sum Summary) {
	defer func() { _ = os.Remove(path) }()

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ticket Closed: %s", sum.ChannelName),
		Color: 0xED4245,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Opened By", Value: fmt.Sprintf("<@%s>", sum.OwnerID), Inline: true},
			{Name: "Closed By", Value: fmt.Sprintf("<@%s>", sum.CloserID), Inline: true},
			{Name: "Category", Value: sum.Category, Inline: true},
			{Name: "Opened At", Value: sum.OpenedAt.UTC().Format(time.RFC3339), Inline: true},
			{Name: "Closed At", Value: sum.ClosedAt.UTC().Format(time.RFC3339), Inline: true},
			{Name: "Messages", Value: fmt.Sprintf("%d", sum.MessageCount), Inline: true},
		},
		Timestamp: sum.ClosedAt.UTC().Format(time.RFC3339),
	}

	if logChannel != "" {
		file, err := os.Open(path)
		if err == nil {
			_, err = s.ChannelMessageSendComplex(logChannel, &discordgo.MessageSend{
				Embeds: []*discordgo.MessageEmbed{embed},
				Files: []*discordgo.File{
					{Name: filepath.Base(path), ContentType: "text/html", Reader: file},
				},
			})
			_ = file.Close()
		}
		if err != nil {
			log.Printf("[tickets] Failed to deliver transcript to log channel: %v", err)
		}
	}

	dm, err := s.UserChannelCreate(sum.OwnerID)
	if err != nil {
		log.Printf("[tickets] Owner DM unavailable: %v", err)
		return
	}
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = s.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
		Content: dmIntro,
		Files: []*discordgo.File{
			{Name: filepath.Base(path), ContentType: "text/html", Reader: file},
		},
	})
}

type entry struct {
	Timestamp   string
	Author      string
	Tag         string
	TagClass    string
	Content     string
	Attachments []attachment
	Reactions   []reaction
}

type attachment struct {
	Name  string
	URL   string
	Image bool
}

type reaction struct {
	Emoji string
	Count int
}

// Render produces the HTML document for the given messages, which must
// already be in chronological order.
func Render(channelName string, msgs []*discordgo.Message) (string, error) {
	entries := make([]entry, 0, len(msgs))
	seen := make(map[string]bool)
	var authors []string

	for _, m := range msgs {
		e := entry{
			Timestamp: m.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			Content:   m.Content,
			Author:    "unknown",
		}
		if m.Author != nil {
			e.Author = m.Author.Username
		}
		e.Tag, e.TagClass = classify(m)

		for _, a := range m.Attachments {
			e.Attachments = append(e.Attachments, attachment{
				Name:  a.Filename,
				URL:   a.URL,
				Image: strings.HasPrefix(a.ContentType, "image/"),
			})
		}
		for _, r := range m.Reactions {
			if r.Emoji == nil {
				continue
			}
			e.Reactions = append(e.Reactions, reaction{Emoji: r.Emoji.Name, Count: r.Count})
		}

		if !seen[e.Author] {
			seen[e.Author] = true
			authors = append(authors, e.Author)
		}
		entries = append(entries, e)
	}

	var sb strings.Builder
	err := page.Execute(&sb, map[string]interface{}{
		"Channel": channelName,
		"Authors": authors,
		"Entries": entries,
	})
	if err != nil {
		return "", fmt.Errorf("render transcript: %w", err)
	}
	return sb.String(), nil
}

func classify(m *discordgo.Message) (tag, class string) {
	if m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply {
		return "SYSTEM", "system"
	}
	if m.Author != nil && m.Author.Bot {
		return "BOT", "bot"
	}
	return "USER", "user"
}
