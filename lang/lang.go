// Package lang serves the bot's user-facing strings. The file format is a
// YAML document with an active_language key and one block per language;
// missing files or keys fall back to the built-in bilingual defaults.
package lang

import (
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	mu       sync.RWMutex
	messages map[string]string
)

// defaults carry the Arabic/English strings the bot shipped with.
var defaults = map[string]string{
	"need_admin":           "❌ تحتاج صلاحيات Administrator / You need Administrator permissions.",
	"panel_usage":          "الاستخدام / Usage: {prefix}panel set_title <title> | set_description <desc> | set_image <url> | show",
	"panel_title_set":      "✔ تم تغيير عنوان اللوحة / Panel title updated.",
	"panel_desc_set":       "✔ تم تغيير وصف اللوحة / Panel description updated.",
	"panel_image_set":      "✔ تم تغيير صورة اللوحة / Panel image updated.",
	"panel_placeholder":    "اختر نوع التذكرة / Choose your ticket type",
	"ticket_already_open":  "❌ لديك تذكرة مفتوحة مسبقًا / You already have an open ticket.",
	"ticket_modal_title":   "سبب فتح التذكرة / Ticket Reason",
	"ticket_reason_label":  "اشرح مشكلتك / Explain your issue",
	"ticket_created":       "✔ تم إنشاء التذكرة / Ticket created: {channel}",
	"ticket_create_failed": "❌ تعذر إنشاء التذكرة، تواصل مع الإدارة / Could not create the ticket, please contact an admin.",
	"ticket_bad_category":  "❌ نوع التذكرة غير مهيأ، تواصل مع الإدارة / This ticket type is not configured, please contact an admin.",
	"ticket_welcome":       "مرحبا {user}! سيتم خدمتك قريبًا.\nHello {user}! Staff will assist you shortly.",
	"ticket_claimed":       "🏷️ تم استلام التذكرة بواسطة {user} / Ticket claimed by {user}.",
	"claim_taken":          "❌ التذكرة مستلمة بالفعل / This ticket is already claimed.",
	"claim_staff_only":     "❌ استلام التذاكر للطاقم فقط / Only staff can claim tickets.",
	"ticket_unclaimed":     "❌ تم فك استلام التذكرة / Ticket unclaimed.",
	"unclaim_denied":       "❌ فقط الشخص الذي استلم التذكرة يمكنه إلغاء الاستلام / Only the claimant can unclaim this ticket.",
	"close_denied":         "❌ لا يمكنك إغلاق هذه التذكرة / You cannot close this ticket.",
	"ticket_closing":       "✔ جارٍ إغلاق التذكرة / Closing the ticket...",
	"ticket_closed":        "✔ تم إغلاق التذكرة / Ticket closed.",
	"already_closed":       "هذه التذكرة مغلقة بالفعل / This ticket is already closed.",
	"not_a_ticket":         "❌ هذه ليست قناة تذكرة / This is not a ticket channel.",
	"closeall_done":        "✅ تم إغلاق جميع التذاكر ({count}) بنجاح / Closed all tickets ({count}).",
	"transcript_dm":        "نسخة من محادثة تذكرتك / Here is the transcript of your ticket.",
}

// Load reads the YAML file and installs the active language block on top of
// the defaults. Safe to call again to reload.
func Load(path string) {
	m := make(map[string]string, len(defaults))
	for k, v := range defaults {
		m[k] = v
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[lang] Could not read %s: %v — using built-in strings", path, err)
		install(m)
		return
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Printf("[lang] Failed to parse %s: %v — using built-in strings", path, err)
		install(m)
		return
	}

	activeLang := "en"
	if v, ok := raw["active_language"]; ok {
		if s, ok := v.(string); ok && s != "" {
			activeLang = s
		}
	}

	block, ok := raw[activeLang].(map[string]interface{})
	if !ok {
		log.Printf("[lang] Language %q not found in %s — using built-in strings", activeLang, path)
		install(m)
		return
	}

	n := 0
	for k, v := range block {
		if s, ok := v.(string); ok {
			m[k] = s
			n++
		}
	}
	install(m)
	log.Printf("[lang] Loaded language %q (%d keys)", activeLang, n)
}

func install(m map[string]string) {
	mu.Lock()
	messages = m
	mu.Unlock()
}

// T returns the string for key with {placeholder} pairs substituted.
func T(key string, pairs ...string) string {
	mu.RLock()
	s, ok := messages[key]
	mu.RUnlock()

	if !ok {
		if s, ok = defaults[key]; !ok {
			return "{" + key + "}"
		}
	}

	for j := 0; j+1 < len(pairs); j += 2 {
		s = strings.ReplaceAll(s, "{"+pairs[j]+"}", pairs[j+1])
	}
	return s
}
