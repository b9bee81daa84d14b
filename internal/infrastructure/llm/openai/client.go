// Package openai provides a MedicineSuggester implementation using an
// OpenAI-compatible chat completion service.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/infrastructure/config"
)

const suggestPrompt = `You are a medicine search assistant. Given a free-text query, propose up to %d real medicines that match it.

For each medicine provide:
- name: The medicine's display name (required)
- generic_name: The generic/chemical name
- manufacturer: The manufacturer, if commonly known
- description: One short sentence describing what it treats
- common_names: A list of common aliases
- category: One of: tablet, capsule, syrup, injection, ointment, drops, other
- prescription_required: true or false

Return ONLY a valid JSON array of objects with those fields, no other text.

Example:
Query: "headache"
Output: [
  {"name": "Aspirin", "generic_name": "Acetylsalicylic acid", "description": "Pain reliever for headaches and fever", "common_names": ["ASA"], "category": "tablet", "prescription_required": false}
]`

const (
	// probeTimeout bounds the liveness check.
	probeTimeout = 5 * time.Second
	// generateTimeout bounds the suggestion call.
	generateTimeout = 30 * time.Second
)

// ErrMalformedResponse indicates the service returned output that could not
// be parsed into a candidate list.
var ErrMalformedResponse = errors.New("malformed suggestion response")

// Client implements the MedicineSuggester interface using an
// OpenAI-compatible API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new suggester client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Available probes the service by listing models. Any failure, including
// timeout, reports false.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := c.client.ListModels(ctx)
	return err == nil
}

// SuggestMedicines asks the service for candidate medicines matching the
// query. The response is parsed defensively; candidates without a usable
// name are dropped.
func (c *Client) SuggestMedicines(ctx context.Context, query string, limit int) ([]entities.Medicine, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(suggestPrompt, limit),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: query,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("calling completion API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from completion API")
	}

	candidates, err := ParseCandidates(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// rawCandidate is the JSON structure for suggested medicines.
type rawCandidate struct {
	Name                 string   `json:"name"`
	GenericName          string   `json:"generic_name"`
	Manufacturer         string   `json:"manufacturer"`
	Description          string   `json:"description"`
	CommonNames          []string `json:"common_names"`
	Category             string   `json:"category"`
	PrescriptionRequired bool     `json:"prescription_required"`
}

// ParseCandidates extracts a candidate list from untrusted model output.
// The service is not trusted to emit only JSON, so the outermost array
// delimiters are located in the raw text before parsing.
func ParseCandidates(content string) ([]entities.Medicine, error) {
	arr, err := extractJSONArray(content)
	if err != nil {
		return nil, err
	}

	var raw []rawCandidate
	if err := json.Unmarshal([]byte(arr), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	candidates := make([]entities.Medicine, 0, len(raw))
	for _, rc := range raw {
		if strings.TrimSpace(rc.Name) == "" {
			continue
		}
		candidates = append(candidates, entities.Medicine{
			Name:                 strings.TrimSpace(rc.Name),
			GenericName:          strings.TrimSpace(rc.GenericName),
			Manufacturer:         strings.TrimSpace(rc.Manufacturer),
			Description:          strings.TrimSpace(rc.Description),
			CommonNames:          rc.CommonNames,
			Category:             strings.TrimSpace(rc.Category),
			PrescriptionRequired: rc.PrescriptionRequired,
		})
	}
	return candidates, nil
}

// extractJSONArray locates the outermost array delimiters in raw text.
func extractJSONArray(content string) (string, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON array found", ErrMalformedResponse)
	}
	return content[start : end+1], nil
}
