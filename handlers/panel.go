package handlers

import (
	"log"
	"strings"

	"ticket-bot/lang"
	"ticket-bot/settings"

	"github.com/bwmarrin/discordgo"
)

const panelColor = 0x36FFF8

// ticketTypes are the panel's menu entries, in display order. Each value
// must be mapped to a Discord category in tickets.categories.
var ticketTypes = []struct {
	Label string
	Value string
}{
	{"Support", "support"},
	{"HWID Reset", "hwid-reset"},
	{"Purchase", "purchase"},
	{"Media", "media"},
}

// panelMessage builds the panel embed and category menu from the current
// panel settings.
func panelMessage(ps settings.PanelSettings) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       ps.Title,
		Description: ps.Description,
		Color:       panelColor,
	}
	if strings.HasPrefix(ps.Image, "http") {
		embed.Image = &discordgo.MessageEmbedImage{URL: ps.Image}
	}

	opts := make([]discordgo.SelectMenuOption, 0, len(ticketTypes))
	for _, t := range ticketTypes {
		opts = append(opts, discordgo.SelectMenuOption{Label: t.Label, Value: t.Value})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    "ticket_type_select",
						Placeholder: lang.T("panel_placeholder"),
						Options:     opts,
					},
				},
			},
		},
	}
}

func sendPanel(s *discordgo.Session, channelID string) {
	if _, err := s.ChannelMessageSendComplex(channelID, panelMessage(Panel.Get())); err != nil {
		log.Printf("[tickets] Failed to send panel: %v", err)
	}
}

func handlePanelCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !requireAdmin(s, m) {
		return
	}

	if len(args) == 0 {
		reply(s, m, lang.T("panel_usage", "prefix", Cfg.Discord.Prefix))
		return
	}

	sub := strings.ToLower(args[0])
	rest := strings.Join(args[1:], " ")

	switch sub {
	case "set_title":
		if err := Panel.SetTitle(rest); err != nil {
			log.Printf("[tickets] Failed to save panel settings: %v", err)
		}
		reply(s, m, lang.T("panel_title_set"))
	case "set_description":
		if err := Panel.SetDescription(rest); err != nil {
			log.Printf("[tickets] Failed to save panel settings: %v", err)
		}
		reply(s, m, lang.T("panel_desc_set"))
	case "set_image":
		url := ""
		if len(args) > 1 {
			url = args[1]
		}
		if err := Panel.SetImage(url); err != nil {
			log.Printf("[tickets] Failed to save panel settings: %v", err)
		}
		reply(s, m, lang.T("panel_image_set"))
	case "show":
		sendPanel(s, m.ChannelID)
	default:
		reply(s, m, lang.T("panel_usage", "prefix", Cfg.Discord.Prefix))
	}
}
