package copywriter

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mclantax/content-pipeline/internal/fixtures"
	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/llm"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
	"github.com/mclantax/content-pipeline/pkg/prompts"
)

// Limits are the maximum caption lengths in characters per platform
var Limits = map[string]int{
	models.PlatformTikTok:        2200,
	models.PlatformInstagram:     2200,
	models.PlatformYouTubeShorts: 100,
}

// Generator writes social copy for each configured platform
type Generator interface {
	Generate(ctx context.Context, topic models.Topic, script models.Script) (models.PlatformCopy, error)
}

// Brand is who the copy promotes
type Brand struct {
	Name   string
	Handle string
}

// Truncate cuts s to at most limit runes. A trimmed result ends in an ellipsis.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := strings.TrimSpace(string(runes[:limit-1]))
	return cut + "…"
}

func checkPlatforms(platforms []string) error {
	if len(platforms) == 0 {
		return apperrors.ValidationError("platforms", "at least one platform is required")
	}
	for _, p := range platforms {
		if _, ok := Limits[p]; !ok {
			return apperrors.InvalidInput("platform", p, []string{
				models.PlatformTikTok, models.PlatformInstagram, models.PlatformYouTubeShorts,
			})
		}
	}
	return nil
}

// TemplateGenerator fills fixed per-platform templates. It is deterministic.
type TemplateGenerator struct {
	brand     Brand
	platforms []string
	log       *logger.Logger
}

func NewTemplateGenerator(brand Brand, platforms []string, log *logger.Logger) *TemplateGenerator {
	return &TemplateGenerator{brand: brand, platforms: platforms, log: log}
}

func (g *TemplateGenerator) Generate(_ context.Context, topic models.Topic, _ models.Script) (models.PlatformCopy, error) {
	if err := checkPlatforms(g.platforms); err != nil {
		return nil, err
	}

	scenario, matched := fixtures.Match(topic.Title)
	tag := hashtag(g.brand.Name)

	out := make(models.PlatformCopy, len(g.platforms))
	for _, p := range g.platforms {
		var text string
		switch p {
		case models.PlatformTikTok:
			text = fmt.Sprintf("When this baby knows more about %s than you do 😂👶 Comment 'BABY TAX' if you need help with your returns! #BabyTax #TaxSeason #%s #FYP",
				strings.ToLower(topic.Title), tag)
			if matched {
				text = scenario.TikTok
			}
		case models.PlatformInstagram:
			text = fmt.Sprintf("POV: A baby explains %s better than your accountant 💀 This little one knows what's up! 👶✨ Let %s handle it. Link in bio! #reels #viral #tax",
				topic.Title, g.brand.Handle)
			if matched {
				text = scenario.Instagram
			}
		case models.PlatformYouTubeShorts:
			text = fmt.Sprintf("Baby Explains %s (%s) #shorts #tax #baby", topic.Title, g.brand.Name)
			if matched {
				text = scenario.YouTube
			}
		}
		out[p] = Truncate(text, Limits[p])
	}

	g.log.Debug("Template copy generated", "topic", topic.Title, "platforms", len(out), "scenario", matched)
	return out, nil
}

// LLMGenerator asks a language model for each platform's copy
type LLMGenerator struct {
	completer llm.Completer
	prompts   *prompts.Prompts
	brand     Brand
	platforms []string
	log       *logger.Logger
}

func NewLLMGenerator(completer llm.Completer, p *prompts.Prompts, brand Brand, platforms []string, log *logger.Logger) *LLMGenerator {
	return &LLMGenerator{completer: completer, prompts: p, brand: brand, platforms: platforms, log: log}
}

func (g *LLMGenerator) Generate(ctx context.Context, topic models.Topic, script models.Script) (models.PlatformCopy, error) {
	if err := checkPlatforms(g.platforms); err != nil {
		return nil, err
	}

	system, err := g.prompts.RenderCopySystem(prompts.BrandParams{Brand: g.brand.Name, Handle: g.brand.Handle})
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	out := make(models.PlatformCopy, len(g.platforms))
	for _, p := range g.platforms {
		user, err := g.prompts.RenderCopy(prompts.CopyParams{
			Platform:  p,
			Topic:     topic.Title,
			Script:    script.Text,
			Brand:     g.brand.Name,
			Handle:    g.brand.Handle,
			MaxLength: Limits[p],
		})
		if err != nil {
			return nil, fmt.Errorf("render %s prompt: %w", p, err)
		}

		text, err := g.completer.Complete(ctx, system, user)
		if err != nil {
			return nil, err
		}
		if p == models.PlatformYouTubeShorts {
			text = firstLine(text)
		}
		out[p] = Truncate(text, Limits[p])
	}

	g.log.Info("Copy generated", "provider", g.completer.Name(), "topic", topic.Title, "platforms", len(out))
	return out, nil
}

func hashtag(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
