package models

import "time"

type SiteSetting struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     *string   `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	SettingWhatsAppNumber = "whatsapp_number"
	SettingHeroTitle      = "hero_title"
	SettingHeroSubtitle   = "hero_subtitle"
	SettingAboutTitle     = "about_title"
	SettingAboutText      = "about_text"
)

// SettingKeys lists every key the settings form edits, in form order.
var SettingKeys = []string{
	SettingWhatsAppNumber,
	SettingHeroTitle,
	SettingHeroSubtitle,
	SettingAboutTitle,
	SettingAboutText,
}
