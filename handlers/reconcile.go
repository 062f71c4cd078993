package handlers

import (
	"log"
	"net/http"

	"ticket-bot/storage"

	"github.com/bwmarrin/discordgo"
)

// ChannelChecker is the slice of the discordgo session the reconciler
// needs.
type ChannelChecker interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Reconcile drops registry rows whose channels no longer exist on Discord.
// Channels can outlive or predecease the registry after a restart with a
// memory backend, or after someone deletes a ticket channel by hand. Only a
// definite 404 removes a row; transient API errors leave it alone.
func Reconcile(c ChannelChecker, reg storage.Registry) int {
	tickets, err := reg.ListOpen()
	if err != nil {
		log.Printf("[tickets] Reconcile: list failed: %v", err)
		return 0
	}

	removed := 0
	for _, t := range tickets {
		if _, err := c.Channel(t.ChannelID); err == nil {
			continue
		} else if restErr, ok := err.(*discordgo.RESTError); ok &&
			restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			if err := reg.Remove(t.ChannelID); err != nil {
				log.Printf("[tickets] Reconcile: remove %s failed: %v", t.ChannelID, err)
				continue
			}
			Locks.Forget(t.ChannelID)
			removed++
		}
	}

	if removed > 0 {
		log.Printf("[tickets] Reconcile: dropped %d stale ticket(s)", removed)
	}
	return removed
}
