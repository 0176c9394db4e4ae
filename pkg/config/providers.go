package config

import "strings"

// placeholders are values shipped in example env files. They count as unset.
var placeholders = []string{
	"your_key_here",
	"your_api_key",
	"your_secret_here",
	"changeme",
}

// IsSet reports whether a credential carries a real value
func IsSet(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	if strings.HasPrefix(v, "your_") && strings.HasSuffix(v, "_here") {
		return false
	}
	for _, p := range placeholders {
		if v == p {
			return false
		}
	}
	return true
}

// HasLLM reports whether the selected LLM provider has a key
func (p ProvidersConfig) HasLLM() bool {
	if p.Mock {
		return false
	}
	if p.LLM.Provider == "groq" {
		return IsSet(p.LLM.GroqAPIKey)
	}
	return IsSet(p.LLM.OpenAIAPIKey)
}

// HasHeldra reports whether video generation can run live
func (p ProvidersConfig) HasHeldra() bool {
	return !p.Mock && IsSet(p.Heldra.APIKey)
}

// HasSerpAPI reports whether trend research can run live
func (p ProvidersConfig) HasSerpAPI() bool {
	return !p.Mock && IsSet(p.SerpAPI.APIKey)
}

// HasPlatform reports whether a social platform has a usable token
func (p ProvidersConfig) HasPlatform(platform string) bool {
	if p.Mock {
		return false
	}
	switch platform {
	case "tiktok":
		return IsSet(p.TikTok.AccessToken)
	case "instagram":
		return IsSet(p.Instagram.AccessToken)
	case "youtube", "youtube_shorts":
		return IsSet(p.YouTube.AccessToken)
	}
	return false
}

// MissingKeys lists the credentials that are absent, each of which puts its
// provider into mock mode.
func (p ProvidersConfig) MissingKeys() []string {
	var missing []string
	if !p.HasLLM() {
		if p.LLM.Provider == "groq" {
			missing = append(missing, "GROQ_API_KEY")
		} else {
			missing = append(missing, "OPENAI_API_KEY")
		}
	}
	if !p.HasHeldra() {
		missing = append(missing, "HELDRA_API_KEY")
	}
	if !p.HasSerpAPI() {
		missing = append(missing, "SERPAPI_API_KEY")
	}
	if !p.HasPlatform("tiktok") {
		missing = append(missing, "TIKTOK_ACCESS_TOKEN")
	}
	if !p.HasPlatform("instagram") {
		missing = append(missing, "INSTAGRAM_ACCESS_TOKEN")
	}
	if !p.HasPlatform("youtube") {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	return missing
}
