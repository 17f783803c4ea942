package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

var defaultSettings = map[string]string{
	models.SettingWhatsAppNumber: "",
	models.SettingHeroTitle:      "Regalos que Emocionan",
	models.SettingHeroSubtitle:   "Arreglos florales, bandejas de desayuno y bordados personalizados para cada ocasión especial",
	models.SettingAboutTitle:     "Sobre Nosotros",
	models.SettingAboutText:      "Creamos arreglos únicos y personalizados con amor y dedicación para hacer de cada momento algo especial.",
}

var copySanitizer = bluemonday.UGCPolicy()

// DefaultSettings returns a copy of the built-in site copy.
func DefaultSettings() map[string]string {
	out := make(map[string]string, len(defaultSettings))
	for k, v := range defaultSettings {
		out[k] = v
	}
	return out
}

// Settings is the flattened key/value view of site_settings. Blank or
// missing keys read as their defaults.
type Settings struct {
	values map[string]string
}

func NewSettings(rows []models.SiteSetting) Settings {
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Value != nil {
			values[row.Key] = *row.Value
		}
	}
	return Settings{values: values}
}

func (s Settings) Get(key string) string {
	if v := strings.TrimSpace(s.values[key]); v != "" {
		return s.values[key]
	}
	return defaultSettings[key]
}

// Raw returns the stored value with no default applied, for the edit form.
func (s Settings) Raw(key string) string {
	return s.values[key]
}

func (s Settings) WhatsAppNumber() string { return s.Get(models.SettingWhatsAppNumber) }
func (s Settings) HeroTitle() string      { return s.Get(models.SettingHeroTitle) }
func (s Settings) HeroSubtitle() string   { return s.Get(models.SettingHeroSubtitle) }
func (s Settings) AboutTitle() string     { return s.Get(models.SettingAboutTitle) }
func (s Settings) AboutText() string      { return s.Get(models.SettingAboutText) }

// AboutHTML renders about_text as Markdown and strips anything unsafe.
func (s Settings) AboutHTML() template.HTML {
	return RenderMarkdown(s.AboutText())
}

func (s Settings) OrderLink() string {
	return helpers.WhatsAppLink(s.WhatsAppNumber(), helpers.DefaultOrderMessage)
}

func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		zap.S().Warnw("RenderMarkdown: conversion failed, falling back to escaped text", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(copySanitizer.SanitizeBytes(buf.Bytes()))
}

type SettingsService struct {
	settings repositories.SettingRepositoryImpl
}

func NewSettingsService(settings repositories.SettingRepositoryImpl) *SettingsService {
	return &SettingsService{settings: settings}
}

// Load never blocks page rendering: a failed read logs and yields defaults.
func (s *SettingsService) Load(ctx context.Context) Settings {
	rows, err := s.settings.GetAll(ctx)
	if err != nil {
		zap.S().Errorw("SettingsService.Load: failed to read settings, using defaults", "error", err)
		return NewSettings(nil)
	}
	return NewSettings(rows)
}

// Save writes the known keys one after another and stops at the first
// failure; keys written before it stay written.
func (s *SettingsService) Save(ctx context.Context, values map[string]string) error {
	for _, key := range models.SettingKeys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if err := s.settings.UpdateValue(ctx, key, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("setting %s: %w", key, storeError(err))
		}
	}
	return nil
}

// Seed creates any missing setting with its default value.
func (s *SettingsService) Seed(ctx context.Context) (int, error) {
	created, err := s.settings.EnsureDefaults(ctx, DefaultSettings())
	return created, storeError(err)
}
