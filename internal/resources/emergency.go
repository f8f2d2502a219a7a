// Package resources supplies crisis and warning text assembled from an
// optional emergency-contact configuration file, with a built-in
// fallback so a crisis message is always available.
package resources

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Contact is one emergency resource a user can reach out to.
type Contact struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description,omitempty"`
	Country     string `json:"country,omitempty"`
	Type        string `json:"type,omitempty"`
	Available24 bool   `json:"available_24_7,omitempty"`
	Website     string `json:"website,omitempty"`
}

type crisisConfig struct {
	PrimaryMessage  string `json:"primary_message,omitempty"`
	IncludeContacts bool   `json:"include_contacts"`
	Disclaimer      string `json:"disclaimer,omitempty"`
}

type configFile struct {
	Contacts []Contact    `json:"emergency_contacts"`
	Crisis   crisisConfig `json:"crisis_message"`
}

const defaultPrimaryMessage = "I'm really concerned about what you've shared. Your safety matters, and support is available right now."

const defaultDisclaimer = "If you are in immediate danger, please call emergency services."

const warningText = "It sounds like things have been heavy lately. If these feelings get stronger, support lines are available any time."

// Built-in contacts used when no configuration file is loaded, or when
// a country filter leaves nothing.
var builtinContacts = []Contact{
	{
		Name:        "988 Suicide & Crisis Lifeline",
		Number:      "988",
		Description: "Call or text, 24/7",
		Country:     "US",
		Type:        "helpline",
		Available24: true,
	},
	{
		Name:        "Emergency Services",
		Number:      "911",
		Description: "Immediate danger",
		Country:     "US",
		Type:        "emergency",
		Available24: true,
	},
	{
		Name:        "Crisis Text Line",
		Number:      "Text HOME to 741741",
		Description: "24/7 text support",
		Country:     "US",
		Type:        "helpline",
		Available24: true,
	},
}

// Manager renders crisis and warning messages. Safe for concurrent use;
// all fields are set at construction and never mutated.
type Manager struct {
	contacts        []Contact
	primaryMessage  string
	disclaimer      string
	includeContacts bool
}

// NewManager builds a Manager from the JSON config at path. An empty
// path or a load failure falls back to the built-in resources; a crisis
// message is always available either way.
func NewManager(path string) *Manager {
	m := &Manager{
		contacts:        builtinContacts,
		primaryMessage:  defaultPrimaryMessage,
		disclaimer:      defaultDisclaimer,
		includeContacts: true,
	}
	if path == "" {
		return m
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("emergency resource config not loaded, using built-in resources")
		return m
	}

	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Error().Err(err).Str("path", path).Msg("emergency resource config invalid, using built-in resources")
		return m
	}

	if len(cfg.Contacts) > 0 {
		m.contacts = cfg.Contacts
	}
	if cfg.Crisis.PrimaryMessage != "" {
		m.primaryMessage = cfg.Crisis.PrimaryMessage
	}
	if cfg.Crisis.Disclaimer != "" {
		m.disclaimer = cfg.Crisis.Disclaimer
	}
	m.includeContacts = cfg.Crisis.IncludeContacts || cfg.Crisis.PrimaryMessage == ""

	log.Info().Int("contacts", len(m.contacts)).Str("path", path).Msg("emergency resources loaded")
	return m
}

// CrisisMessage assembles the full crisis response. When countryHint
// matches any contact's country those contacts are listed; otherwise
// every contact is. The result is never empty.
func (m *Manager) CrisisMessage(countryHint string) string {
	var sb strings.Builder
	sb.WriteString(m.primaryMessage)

	if m.includeContacts {
		contacts := m.contactsFor(countryHint)
		sb.WriteString("\n")
		for _, c := range contacts {
			fmt.Fprintf(&sb, "\n%s: %s", c.Name, c.Number)
			if c.Description != "" {
				fmt.Fprintf(&sb, " (%s)", c.Description)
			}
		}
	}

	if m.disclaimer != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.disclaimer)
	}
	return sb.String()
}

// WarningMessage is the advisory attached when text raises concern
// without reaching the crisis threshold.
func (m *Manager) WarningMessage() string {
	return warningText
}

// Contacts returns the contacts matching the country hint, or all of
// them when nothing matches.
func (m *Manager) Contacts(countryHint string) []Contact {
	return m.contactsFor(countryHint)
}

func (m *Manager) contactsFor(countryHint string) []Contact {
	hint := strings.ToUpper(strings.TrimSpace(countryHint))
	if hint == "" {
		return m.contacts
	}

	var matched []Contact
	for _, c := range m.contacts {
		if strings.ToUpper(c.Country) == hint {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return m.contacts
	}
	return matched
}
