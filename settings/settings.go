// Package settings persists the ticket panel's title, description and image.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type PanelSettings struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func Defaults() PanelSettings {
	return PanelSettings{
		Title: "نظام التذاكر — Ticket System",
		Description: "الرجاء فتح تذكرة لأي استفسار أو مشكلة / Please submit a ticket for any question or concern.\n\n" +
			"لا تفتح أكثر من تذكرة واحدة / Do not open multiple tickets.\n\n" +
			"اكتب مشكلتك بالتفصيل مع الصور إن وجدت / Explain your issue clearly with screenshots if possible.\n\n" +
			"التعاون مطلوب لضمان سرعة الخدمة / Cooperation is required to help us serve you faster.\n\n" +
			"سنقدم لك أفضل مساعدة ممكنة بإذن الله / We will provide the best support possible.\n",
		Image: "",
	}
}

// Store is the panel-settings singleton. Every write rewrites the whole
// file; the last write wins. A missing or malformed file is replaced by
// the defaults rather than surfaced as an error.
type Store struct {
	mu   sync.RWMutex
	path string
	cur  PanelSettings
}

func Open(path string) *Store {
	s := &Store{path: path, cur: Defaults()}

	data, err := os.ReadFile(path)
	if err == nil {
		var ps PanelSettings
		if json.Unmarshal(data, &ps) == nil && ps.Title != "" {
			s.cur = ps
			return s
		}
	}
	_ = s.save()
	return s
}

func (s *Store) Get() PanelSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *Store) SetTitle(v string) error {
	s.mu.Lock()
	s.cur.Title = v
	s.mu.Unlock()
	return s.save()
}

func (s *Store) SetDescription(v string) error {
	s.mu.Lock()
	s.cur.Description = v
	s.mu.Unlock()
	return s.save()
}

func (s *Store) SetImage(v string) error {
	s.mu.Lock()
	s.cur.Image = v
	s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.cur, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0755)
	return os.WriteFile(s.path, data, 0644)
}
