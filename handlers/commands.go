// Package handlers wires Discord events to the ticket system: prefix text
// commands, the panel select menu, the reason modal, and the
// claim/unclaim/close buttons.
package handlers

import (
	"log"
	"strings"

	"ticket-bot/config"
	"ticket-bot/lang"
	"ticket-bot/settings"
	"ticket-bot/storage"

	"github.com/bwmarrin/discordgo"
)

var (
	Cfg   *config.Config
	Reg   storage.Registry
	Panel *settings.Store
	Locks = storage.NewChannelLocks()
)

func Register(s *discordgo.Session, cfg *config.Config, reg storage.Registry, ps *settings.Store) {
	Cfg = cfg
	Reg = reg
	Panel = ps

	s.AddHandler(onMessageCreate)
	s.AddHandler(onInteractionCreate)
}

func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	cmd, args, ok := parseCommand(Cfg.Discord.Prefix, m.Content)
	if !ok {
		return
	}

	switch cmd {
	case "panel":
		handlePanelCommand(s, m, args)
	case "ticket":
		sendPanel(s, m.ChannelID)
	case "closeall":
		handleCloseAll(s, m)
	}
}

// parseCommand splits a prefixed message into a lowercased command name and
// its arguments. ok is false for non-command messages.
func parseCommand(prefix, content string) (cmd string, args []string, ok bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		return
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().CustomID {
		case "ticket_type_select":
			handleTypeSelect(s, i)
		case "ticket_claim":
			handleClaim(s, i)
		case "ticket_unclaim":
			handleUnclaim(s, i)
		case "ticket_close":
			handleClose(s, i)
		default:
			log.Printf("[tickets] Unknown component: %s", i.MessageComponentData().CustomID)
		}
	case discordgo.InteractionModalSubmit:
		if strings.HasPrefix(i.ModalSubmitData().CustomID, "ticket_reason:") {
			handleReasonSubmit(s, i)
		}
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
	if err != nil {
		log.Printf("[tickets] Failed to respond: %v", err)
	}
}

func reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	_, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference())
	if err != nil {
		log.Printf("[tickets] Failed to reply: %v", err)
	}
}

// isStaff reports whether the member holds the staff capability: the
// configured staff role or the Administrator permission.
func isStaff(member *discordgo.Member, staffRole string) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, r := range member.Roles {
		if r == staffRole {
			return true
		}
	}
	return false
}

func isAdminMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.State.MessagePermissions(m.Message)
	if err != nil {
		perms, err = s.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func requireAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if isAdminMessage(s, m) {
		return true
	}
	reply(s, m, lang.T("need_admin"))
	return false
}
