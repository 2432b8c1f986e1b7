package ensemble

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/stopgate/stopgate/internal/config"
	"github.com/stopgate/stopgate/internal/models"
)

const defaultMaxTokens = 256

// Client produces one independent vote on whether the session should resume.
type Client interface {
	// ID identifies the client in logs, as "provider/model".
	ID() string

	// Judge sends the transcript window to the model and parses its verdict.
	// Any error is treated as an abstention by the ensemble.
	Judge(ctx context.Context, window string) (models.Vote, error)
}

// RequestOptions are per-provider request overrides decoded from the
// loosely-typed options map in the provider config.
type RequestOptions struct {
	Temperature *float32 `mapstructure:"temperature"`
	MaxTokens   *int     `mapstructure:"max_tokens"`

	// JSONMode controls response_format json_object. Defaults to on; some
	// OpenAI-compatible backends reject the field and need it off.
	JSONMode *bool `mapstructure:"json_mode"`
}

// OpenAIClient votes via an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	providerID   string
	model        string
	timeout      time.Duration
	systemPrompt string
	opts         RequestOptions
	api          *openai.Client
}

// NewOpenAIClient builds a client for one (provider, model) pair.
func NewOpenAIClient(p config.Provider, model string, timeout time.Duration, systemPrompt string) (*OpenAIClient, error) {
	var opts RequestOptions
	if err := mapstructure.Decode(p.Options, &opts); err != nil {
		return nil, fmt.Errorf("provider %q: decoding options: %w", p.ID, err)
	}

	apiCfg := openai.DefaultConfig(p.APIKey)
	apiCfg.BaseURL = p.APIBase

	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	return &OpenAIClient{
		providerID:   p.ID,
		model:        model,
		timeout:      timeout,
		systemPrompt: systemPrompt,
		opts:         opts,
		api:          openai.NewClientWithConfig(apiCfg),
	}, nil
}

// ID implements [Client].
func (c *OpenAIClient) ID() string {
	return c.providerID + "/" + c.model
}

// Judge implements [Client]. The call is bounded by the client's timeout;
// once it elapses the request is abandoned.
func (c *OpenAIClient) Judge(ctx context.Context, window string) (models.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: window},
		},
		MaxTokens: defaultMaxTokens,
	}
	if c.opts.Temperature != nil {
		req.Temperature = *c.opts.Temperature
	}
	if c.opts.MaxTokens != nil {
		req.MaxTokens = *c.opts.MaxTokens
	}
	if c.opts.JSONMode == nil || *c.opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.Vote{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Vote{}, errors.New("response has no choices")
	}

	verdict, ok := ParseVerdict(resp.Choices[0].Message.Content)
	if !ok {
		return models.Vote{}, fmt.Errorf("unparseable verdict: %q", resp.Choices[0].Message.Content)
	}

	rationale := verdict.Reason
	if rationale == "" {
		if verdict.ShouldContinue {
			rationale = "model judged the task incomplete"
		} else {
			rationale = "model judged the task complete"
		}
	}

	return models.Vote{
		ProviderID:     c.providerID,
		ModelID:        c.model,
		ShouldContinue: verdict.ShouldContinue,
		Rationale:      rationale,
	}, nil
}
