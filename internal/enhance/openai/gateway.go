// Package openai adapts the OpenAI chat completions API to the enhancement
// gateway boundary. The model is prompted for strict JSON; anything it gets
// wrong surfaces as a gateway failure for the session to handle.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/enhance"
	"github.com/futureletter/futureletter/internal/letter"
)

const systemPrompt = `You are a thoughtful writing coach helping someone write a letter to their future self.
Given the letter's title, goal, content, and delivery date, return an improved version of each field
and 3-5 concrete milestones toward the goal.

Respond with ONLY a JSON object in this exact shape, no prose around it:
{
  "title": "improved title",
  "goal": "improved goal",
  "content": "improved letter content",
  "milestones": [
    {"title": "...", "description": "...", "percentage": 25, "target_date": "YYYY-MM-DD"}
  ]
}

Keep the writer's voice. Milestone percentages are cumulative progress toward the goal (0-100).
Target dates must fall before the delivery date when one is given; omit target_date if unsure.`

// Gateway implements enhance.Gateway using the official openai-go SDK.
type Gateway struct {
	model string
	opts  []option.RequestOption
}

// New builds a gateway from application config.
func New(cfg *config.Config) (*Gateway, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return nil, errors.New("openai api key missing; set llm.api_key in config.json or OPENAI_API_KEY")
	}
	if cfg.LLM.Model == "" {
		return nil, errors.New("llm model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}

	return &Gateway{model: cfg.LLM.Model, opts: opts}, nil
}

// Enhance sends the draft to the model and decodes its JSON reply.
func (g *Gateway) Enhance(ctx context.Context, req enhance.Request) (*enhance.Result, error) {
	client := oai.NewClient(g.opts...)

	resp, err := client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: oai.ChatModel(g.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(userPrompt(req)),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: empty choices")
	}

	return parseResult(resp.Choices[0].Message.Content)
}

// userPrompt lays out the draft fields for the model.
func userPrompt(req enhance.Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", req.Title)
	fmt.Fprintf(&sb, "Goal: %s\n", req.Goal)
	fmt.Fprintf(&sb, "Delivery date: %s\n", req.SendDate)
	fmt.Fprintf(&sb, "Letter:\n%s\n", req.Content)
	return sb.String()
}

// wireResult mirrors the JSON shape the model is asked for.
type wireResult struct {
	Title      string `json:"title"`
	Goal       string `json:"goal"`
	Content    string `json:"content"`
	Milestones []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Percentage  int    `json:"percentage"`
		TargetDate  string `json:"target_date"`
	} `json:"milestones"`
}

// parseResult decodes the model reply into a Result. Models occasionally wrap
// JSON in a markdown fence despite instructions; strip it before decoding.
func parseResult(raw string) (*enhance.Result, error) {
	cleaned := stripFence(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, errors.New("openai: empty response body")
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("openai: malformed response: %w", err)
	}
	if wire.Title == "" && wire.Goal == "" && wire.Content == "" {
		return nil, errors.New("openai: response carried no enhanced fields")
	}

	result := &enhance.Result{
		Letter: enhance.EnhancedLetter{
			Title:   wire.Title,
			Goal:    wire.Goal,
			Content: wire.Content,
		},
	}
	for _, m := range wire.Milestones {
		if strings.TrimSpace(m.Title) == "" {
			continue
		}
		result.Milestones = append(result.Milestones, letter.MilestoneSuggestion{
			Title:       m.Title,
			Description: m.Description,
			Percentage:  m.Percentage,
			TargetDate:  m.TargetDate,
		})
	}

	return result, nil
}

// stripFence removes a surrounding markdown code fence, if present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
