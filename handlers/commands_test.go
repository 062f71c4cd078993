package handlers

import (
	"reflect"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cmd     string
		args    []string
		ok      bool
	}{
		{"plain command", "#ticket", "ticket", []string{}, true},
		{"uppercase", "#PANEL show", "panel", []string{"show"}, true},
		{"args preserved", "#panel set_title Ticket System", "panel", []string{"set_title", "Ticket", "System"}, true},
		{"extra whitespace", "#panel   set_image   https://x/y.png", "panel", []string{"set_image", "https://x/y.png"}, true},
		{"no prefix", "ticket", "", nil, false},
		{"prefix only", "#", "", nil, false},
		{"prefix and spaces", "#   ", "", nil, false},
		{"chatter", "hello there", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, ok := parseCommand("#", tt.content)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if cmd != tt.cmd {
				t.Errorf("cmd = %q, want %q", cmd, tt.cmd)
			}
			if len(args) != 0 || len(tt.args) != 0 {
				if !reflect.DeepEqual(args, tt.args) {
					t.Errorf("args = %v, want %v", args, tt.args)
				}
			}
		})
	}
}

func TestParseCommandCustomPrefix(t *testing.T) {
	cmd, _, ok := parseCommand("!", "!closeall")
	if !ok || cmd != "closeall" {
		t.Errorf("parseCommand(!, !closeall) = %q, %v", cmd, ok)
	}
	if _, _, ok := parseCommand("!", "#closeall"); ok {
		t.Error("wrong prefix should not parse")
	}
}

func TestIsStaff(t *testing.T) {
	const staffRole = "role-staff"

	tests := []struct {
		name   string
		member *discordgo.Member
		want   bool
	}{
		{"nil member", nil, false},
		{"no roles", &discordgo.Member{}, false},
		{"staff role", &discordgo.Member{Roles: []string{"other", staffRole}}, true},
		{"unrelated roles", &discordgo.Member{Roles: []string{"other"}}, false},
		{"administrator without role", &discordgo.Member{Permissions: discordgo.PermissionAdministrator}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStaff(tt.member, staffRole); got != tt.want {
				t.Errorf("isStaff = %v, want %v", got, tt.want)
			}
		})
	}
}
