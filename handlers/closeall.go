package handlers

import (
	"fmt"
	"log"

	"ticket-bot/lang"

	"github.com/bwmarrin/discordgo"
)

// handleCloseAll deletes every channel the registry knows about. Membership
// in the registry is the only criterion; renamed (claimed) tickets are
// covered and unrelated channels that merely look like tickets are not.
// The panel channel is skipped outright as a guard against a registry
// backend fed bad data.
func handleCloseAll(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !requireAdmin(s, m) {
		return
	}

	tickets, err := Reg.ListOpen()
	if err != nil {
		log.Printf("[tickets] Failed to list open tickets: %v", err)
		return
	}

	closed := 0
	for _, t := range tickets {
		if t.ChannelID == Cfg.Tickets.PanelChannel {
			continue
		}
		if err := Reg.Remove(t.ChannelID); err != nil {
			log.Printf("[tickets] Failed to remove ticket %s: %v", t.ChannelID, err)
			continue
		}
		Locks.Forget(t.ChannelID)
		_, _ = s.ChannelDelete(t.ChannelID)
		closed++
	}

	reply(s, m, lang.T("closeall_done", "count", fmt.Sprintf("%d", closed)))
}
