package store

import "time"

// Prompt is a named, reusable analysis instruction pair.
type Prompt struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SystemPrompt string    `json:"system_prompt"`
	UserPrompt   string    `json:"user_prompt"`
	AnalysisType string    `json:"analysis_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PromptFields carries the writable content of a Prompt.
type PromptFields struct {
	Name         string
	SystemPrompt string
	UserPrompt   string
	AnalysisType string
}

// Settings is the singleton record naming the default prompt.
// DefaultPromptID is empty when no default is configured.
type Settings struct {
	ID              string    `json:"id"`
	DefaultPromptID string    `json:"default_prompt_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Stats summarizes stored prompts for the admin dashboard.
type Stats struct {
	TotalPrompts int            `json:"totalPrompts"`
	TodayPrompts int            `json:"todayPrompts"`
	MonthPrompts int            `json:"monthPrompts"`
	TypeStats    map[string]int `json:"typeStats"`
}
