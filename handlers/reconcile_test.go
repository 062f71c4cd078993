package handlers

import (
	"errors"
	"net/http"
	"testing"

	"ticket-bot/storage"

	"github.com/bwmarrin/discordgo"
)

// fakeChecker answers Channel lookups from a fixed set of live channels.
type fakeChecker struct {
	live    map[string]bool
	flaky   map[string]bool
	checked []string
}

func (f *fakeChecker) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.checked = append(f.checked, channelID)
	if f.flaky[channelID] {
		return nil, errors.New("connection reset")
	}
	if f.live[channelID] {
		return &discordgo.Channel{ID: channelID}, nil
	}
	return nil, &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
}

func TestReconcileDropsDeadChannels(t *testing.T) {
	reg := storage.NewMemory()
	for _, ch := range []string{"live", "dead", "flaky"} {
		if err := reg.RecordOwner(storage.Ticket{ChannelID: ch, OwnerID: "alice-" + ch, Category: "support", BaseName: ch}); err != nil {
			t.Fatal(err)
		}
	}

	checker := &fakeChecker{
		live:  map[string]bool{"live": true},
		flaky: map[string]bool{"flaky": true},
	}

	if removed := Reconcile(checker, reg); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if got, _ := reg.Get("live"); got == nil {
		t.Error("live ticket was dropped")
	}
	if got, _ := reg.Get("dead"); got != nil {
		t.Error("dead ticket survived")
	}
	// Transient API errors must not lose bookkeeping.
	if got, _ := reg.Get("flaky"); got == nil {
		t.Error("ticket dropped on a transient error")
	}
	if len(checker.checked) != 3 {
		t.Errorf("checked %d channels, want 3", len(checker.checked))
	}
}

func TestReconcileEmptyRegistry(t *testing.T) {
	if removed := Reconcile(&fakeChecker{}, storage.NewMemory()); removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
