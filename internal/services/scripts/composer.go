package scripts

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mclantax/content-pipeline/internal/fixtures"
	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/llm"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
	"github.com/mclantax/content-pipeline/pkg/prompts"
)

// Composer writes the persona script for a topic
type Composer interface {
	Compose(ctx context.Context, topic models.Topic) (models.Script, error)
}

// Policy bounds script length and makes sure the brand is mentioned
type Policy struct {
	Brand       string
	MinDuration float64
	MaxDuration float64
}

// MaxWords is the longest script that fits MaxDuration
func (p Policy) MaxWords() int {
	return int(p.MaxDuration / models.SecondsPerWord)
}

var stageDirection = regexp.MustCompile(`\*[^*]*\*`)

// Apply cleans text and enforces the policy. Over-long scripts are cut at
// the word limit, keeping a brand sign-off. Scripts shorter than the
// minimum are rejected.
func (p Policy) Apply(text string) (models.Script, error) {
	words := strings.Fields(stageDirection.ReplaceAllString(text, " "))

	limit := p.MaxWords()
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}

	if !p.mentionsBrand(words) {
		signoff := strings.Fields(fmt.Sprintf("Call %s!", p.Brand))
		if room := limit - len(signoff); room > 0 && len(words) > room {
			words = words[:room]
		}
		words = append(words, signoff...)
	}

	script := models.NewScript(strings.Join(words, " "))
	if script.EstimatedDurationSeconds < p.MinDuration {
		return models.Script{}, apperrors.ValidationError("script",
			fmt.Sprintf("%.1fs is shorter than the %.1fs minimum", script.EstimatedDurationSeconds, p.MinDuration))
	}
	return script, nil
}

func (p Policy) mentionsBrand(words []string) bool {
	return p.Brand == "" || strings.Contains(strings.ToLower(strings.Join(words, " ")), strings.ToLower(p.Brand))
}

// TemplateComposer builds scripts from canned scenarios without calling an LLM
type TemplateComposer struct {
	policy Policy
	log    *logger.Logger
}

func NewTemplateComposer(policy Policy, log *logger.Logger) *TemplateComposer {
	return &TemplateComposer{policy: policy, log: log}
}

func (c *TemplateComposer) Compose(_ context.Context, topic models.Topic) (models.Script, error) {
	if strings.TrimSpace(topic.Title) == "" {
		return models.Script{}, apperrors.ValidationError("topic", "title is required")
	}

	text := ""
	if s, ok := fixtures.Match(topic.Title); ok {
		text = s.Script
	} else {
		text = fmt.Sprintf("Hey grownups! Everybody is talking about %s and you look stressed. "+
			"I'm just a baby and even I know that means tax questions. "+
			"Stop crying about it and call %s! They make taxes as easy as taking candy from a baby!",
			strings.TrimSuffix(topic.Title, "."), c.policy.Brand)
	}

	script, err := c.policy.Apply(text)
	if err != nil {
		return models.Script{}, err
	}
	c.log.Info("Template script composed", "topic", topic.Title, "duration", script.EstimatedDurationSeconds)
	return script, nil
}

// LLMComposer prompts a language model for the script
type LLMComposer struct {
	completer llm.Completer
	prompts   *prompts.Prompts
	policy    Policy
	log       *logger.Logger
}

func NewLLMComposer(completer llm.Completer, p *prompts.Prompts, policy Policy, log *logger.Logger) *LLMComposer {
	return &LLMComposer{completer: completer, prompts: p, policy: policy, log: log}
}

func (c *LLMComposer) Compose(ctx context.Context, topic models.Topic) (models.Script, error) {
	if strings.TrimSpace(topic.Title) == "" {
		return models.Script{}, apperrors.ValidationError("topic", "title is required")
	}

	system, err := c.prompts.RenderScriptSystem(prompts.BrandParams{Brand: c.policy.Brand})
	if err != nil {
		return models.Script{}, fmt.Errorf("render system prompt: %w", err)
	}
	user, err := c.prompts.RenderScript(prompts.ScriptParams{
		Topic:       topic.Title,
		Description: topic.Description,
		Brand:       c.policy.Brand,
		MinSeconds:  c.policy.MinDuration,
		MaxSeconds:  c.policy.MaxDuration,
		MaxWords:    c.policy.MaxWords(),
	})
	if err != nil {
		return models.Script{}, fmt.Errorf("render prompt: %w", err)
	}

	text, err := c.completer.Complete(ctx, system, user)
	if err != nil {
		return models.Script{}, err
	}

	script, err := c.policy.Apply(text)
	if err != nil {
		return models.Script{}, err
	}
	c.log.Info("Script composed", "provider", c.completer.Name(), "topic", topic.Title,
		"words", models.WordCount(script.Text), "duration", script.EstimatedDurationSeconds)
	return script, nil
}
