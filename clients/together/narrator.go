package together

import (
	"context"
	"fmt"
	"strings"
)

// Narrative generation parameters. Low temperature keeps the section
// structure the parser depends on; the penalties discourage the model from
// repeating the same recommendation across sections.
const (
	narrateTemperature      = 0.4
	narrateTopP             = 0.9
	narrateMaxTokens        = 1500
	narrateFrequencyPenalty = 0.3
	narratePresencePenalty  = 0.3
)

// Narrator adapts the Client to the advice pipeline's Narrator interface.
type Narrator struct {
	client *Client
	model  string
}

// NewNarrator wraps a client for narrative generation. An empty model picks
// DefaultModel.
func NewNarrator(client *Client, model string) *Narrator {
	if model == "" {
		model = DefaultModel
	}
	return &Narrator{client: client, model: model}
}

// Narrate sends a system+user prompt pair and returns the generated text.
func (n *Narrator) Narrate(ctx context.Context, system, user string) (string, error) {
	resp, err := n.client.ChatCompletion(ctx, ChatCompletionRequest{
		Model: n.model,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
		Temperature:      narrateTemperature,
		TopP:             narrateTopP,
		MaxTokens:        narrateMaxTokens,
		FrequencyPenalty: narrateFrequencyPenalty,
		PresencePenalty:  narratePresencePenalty,
	})
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}

	content, ok := resp.Content()
	if !ok {
		return "", fmt.Errorf("narrative response was empty")
	}
	return strings.TrimSpace(content), nil
}
