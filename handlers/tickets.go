package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"ticket-bot/lang"
	"ticket-bot/storage"
	"ticket-bot/transcript"

	"github.com/bwmarrin/discordgo"
)

const reasonMaxLength = 1000

// ticketButtons returns the claim/unclaim/close row for the given claim
// state. Claim and unclaim are mutually exclusive; close is always live.
func ticketButtons(claimed bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Claim", Style: discordgo.SuccessButton, CustomID: "ticket_claim", Disabled: claimed},
				discordgo.Button{Label: "Unclaim", Style: discordgo.SecondaryButton, CustomID: "ticket_unclaim", Disabled: !claimed},
				discordgo.Button{Label: "Close", Style: discordgo.DangerButton, CustomID: "ticket_close"},
			},
		},
	}
}

// handleTypeSelect opens the reason modal after checking the requester is
// under the open-ticket cap.
func handleTypeSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if len(data.Values) == 0 {
		return
	}

	userID := i.Member.User.ID
	count, err := Reg.CountOpenFor(userID)
	if err != nil {
		log.Printf("[tickets] Open-ticket count failed: %v", err)
		respond(s, i, lang.T("ticket_create_failed"), true)
		return
	}
	if count >= Cfg.Tickets.MaxOpenPerUser {
		respond(s, i, lang.T("ticket_already_open"), true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "ticket_reason:" + data.Values[0],
			Title:    lang.T("ticket_modal_title"),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "reason",
							Label:     lang.T("ticket_reason_label"),
							Style:     discordgo.TextInputParagraph,
							Required:  true,
							MaxLength: reasonMaxLength,
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("[tickets] Failed to open reason modal: %v", err)
	}
}

// handleReasonSubmit provisions the ticket channel and records ownership.
func handleReasonSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	ticketType := strings.TrimPrefix(data.CustomID, "ticket_reason:")
	reason := modalInput(data, "reason")
	user := i.Member.User

	// The cap was checked at menu time, but the modal can sit open for as
	// long as the user likes.
	count, err := Reg.CountOpenFor(user.ID)
	if err == nil && count >= Cfg.Tickets.MaxOpenPerUser {
		respond(s, i, lang.T("ticket_already_open"), true)
		return
	}

	parentID, ok := Cfg.Tickets.Categories[ticketType]
	if !ok {
		respond(s, i, lang.T("ticket_bad_category"), true)
		return
	}

	channelName := strings.ToLower(fmt.Sprintf("%s-ticket-%s", ticketType, user.ID))
	memberPerms := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages |
		discordgo.PermissionAttachFiles | discordgo.PermissionReadMessageHistory)

	ch, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:     channelName,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: parentID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: i.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
			{ID: user.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberPerms},
			{ID: Cfg.Tickets.StaffRole, Type: discordgo.PermissionOverwriteTypeRole, Allow: memberPerms | discordgo.PermissionManageMessages},
		},
	})
	if err != nil {
		log.Printf("[tickets] Channel creation failed: %v", err)
		respond(s, i, lang.T("ticket_create_failed"), true)
		return
	}

	err = Reg.RecordOwner(storage.Ticket{
		ChannelID: ch.ID,
		OwnerID:   user.ID,
		Category:  ticketType,
		BaseName:  channelName,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[tickets] Failed to record ticket: %v", err)
		_, _ = s.ChannelDelete(ch.ID)
		respond(s, i, lang.T("ticket_create_failed"), true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "New Ticket Created",
		Description: fmt.Sprintf("**Type:** %s\n**Reason:** %s", ticketType, reason),
		Color:       panelColor,
		Author:      &discordgo.MessageEmbedAuthor{Name: user.Username, IconURL: user.AvatarURL("")},
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	_, _ = s.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content:    lang.T("ticket_welcome", "user", fmt.Sprintf("<@%s>", user.ID)),
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: ticketButtons(false),
	})

	respond(s, i, lang.T("ticket_created", "channel", fmt.Sprintf("<#%s>", ch.ID)), true)
}

// The claim/unclaim/close guards below return the lang key of the
// rejection, or "" when the transition may proceed. Callers must hold the
// channel lock so the check and the registry write are one step.

func claimDenied(t *storage.Ticket, actorIsStaff bool) string {
	switch {
	case t == nil:
		return "not_a_ticket"
	case !actorIsStaff:
		return "claim_staff_only"
	case t.Claimed():
		return "claim_taken"
	}
	return ""
}

func unclaimDenied(t *storage.Ticket, actorID string) string {
	switch {
	case t == nil:
		return "not_a_ticket"
	case t.ClaimantID != actorID:
		return "unclaim_denied"
	}
	return ""
}

func closeDenied(t *storage.Ticket, actorID string, actorIsStaff bool) string {
	switch {
	case t == nil:
		return "already_closed"
	case t.OwnerID != actorID && !actorIsStaff:
		return "close_denied"
	}
	return ""
}

func handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	unlock := Locks.Lock(i.ChannelID)
	defer unlock()

	t, err := Reg.Get(i.ChannelID)
	if err != nil {
		log.Printf("[tickets] Registry lookup failed: %v", err)
		respond(s, i, lang.T("not_a_ticket"), true)
		return
	}

	actor := i.Member.User
	if key := claimDenied(t, isStaff(i.Member, Cfg.Tickets.StaffRole)); key != "" {
		respond(s, i, lang.T(key), true)
		return
	}

	if err := Reg.SetClaimant(i.ChannelID, actor.ID); err != nil {
		log.Printf("[tickets] Failed to record claim: %v", err)
		respond(s, i, lang.T("claim_taken"), true)
		return
	}

	// The rename is a projection of registry state; a failure here leaves
	// the claim in force.
	if _, err := s.ChannelEdit(i.ChannelID, &discordgo.ChannelEdit{Name: t.BaseName + "-claimed-by-" + actor.ID}); err != nil {
		log.Printf("[tickets] Claim rename failed: %v", err)
	}
	_, _ = s.ChannelMessageSend(i.ChannelID, lang.T("ticket_claimed", "user", fmt.Sprintf("<@%s>", actor.ID)))

	updateButtons(s, i, true)
}

func handleUnclaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	unlock := Locks.Lock(i.ChannelID)
	defer unlock()

	t, err := Reg.Get(i.ChannelID)
	if err != nil {
		log.Printf("[tickets] Registry lookup failed: %v", err)
		respond(s, i, lang.T("not_a_ticket"), true)
		return
	}

	if key := unclaimDenied(t, i.Member.User.ID); key != "" {
		respond(s, i, lang.T(key), true)
		return
	}

	if err := Reg.ClearClaimant(i.ChannelID); err != nil {
		log.Printf("[tickets] Failed to clear claim: %v", err)
		return
	}

	if _, err := s.ChannelEdit(i.ChannelID, &discordgo.ChannelEdit{Name: t.BaseName}); err != nil {
		log.Printf("[tickets] Unclaim rename failed: %v", err)
	}
	_, _ = s.ChannelMessageSend(i.ChannelID, lang.T("ticket_unclaimed"))

	updateButtons(s, i, false)
}

func handleClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	unlock := Locks.Lock(i.ChannelID)
	defer unlock()

	t, err := Reg.Get(i.ChannelID)
	if err != nil {
		log.Printf("[tickets] Registry lookup failed: %v", err)
		respond(s, i, lang.T("ticket_create_failed"), true)
		return
	}
	actor := i.Member.User
	if key := closeDenied(t, actor.ID, isStaff(i.Member, Cfg.Tickets.StaffRole)); key != "" {
		// A second close racing the first finds no row and lands on
		// "already_closed" instead of an error.
		respond(s, i, lang.T(key), true)
		return
	}

	respond(s, i, lang.T("ticket_closing"), false)

	closeTicket(s, t, actor.ID)
	Locks.Forget(i.ChannelID)
}

// closeTicket generates and delivers the transcript, retires the registry
// row, and deletes the channel. Channel deletion failures are swallowed;
// the registry entry is already gone and the reconciler will not resurrect
// it.
func closeTicket(s *discordgo.Session, t *storage.Ticket, closerID string) {
	closedAt := time.Now()

	html, count, err := transcript.Generate(s, t.ChannelID, t.BaseName)
	if err != nil {
		log.Printf("[tickets] Transcript generation failed: %v", err)
	} else {
		path, werr := transcript.WriteTemp(t.BaseName, closedAt, html)
		if werr != nil {
			log.Printf("[tickets] %v", werr)
		} else {
			transcript.Deliver(s, Cfg.Tickets.LogChannel, lang.T("transcript_dm"), path, transcript.Summary{
				ChannelName:  t.BaseName,
				Category:     t.Category,
				OwnerID:      t.OwnerID,
				CloserID:     closerID,
				OpenedAt:     t.CreatedAt,
				ClosedAt:     closedAt,
				MessageCount: count,
			})
		}
	}

	if err := Reg.Remove(t.ChannelID); err != nil {
		log.Printf("[tickets] Failed to remove ticket %s: %v", t.ChannelID, err)
	}

	_, _ = s.ChannelMessageSend(t.ChannelID, lang.T("ticket_closed"))
	time.Sleep(3 * time.Second)
	if _, err := s.ChannelDelete(t.ChannelID); err != nil {
		log.Printf("[tickets] Channel delete failed: %v", err)
	}
}

func updateButtons(s *discordgo.Session, i *discordgo.InteractionCreate, claimed bool) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Components: ticketButtons(claimed),
		},
	})
	if err != nil {
		log.Printf("[tickets] Failed to update buttons: %v", err)
	}
}

func modalInput(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range ar.Components {
			if in, ok := c.(*discordgo.TextInput); ok && in.CustomID == customID {
				return in.Value
			}
		}
	}
	return ""
}
