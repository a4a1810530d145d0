package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"askpdf/internal/domain"
)

// Config configures the OpenAI client shared by chat and embeddings.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// NewOpenAIClient builds an SDK client from cfg.
func NewOpenAIClient(cfg Config) (openai.Client, error) {
	if cfg.APIKey == "" {
		return openai.Client{}, errors.New("openai: empty API key")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return openai.NewClient(opts...), nil
}

var _ domain.ChatModel = (*Chat)(nil)

// Chat is a domain.ChatModel backed by the chat completions API.
type Chat struct {
	client openai.Client
}

func NewChat(client openai.Client) *Chat {
	return &Chat{client: client}
}

func (c *Chat) Generate(ctx context.Context, model string, messages []domain.Message, temperature float64) (domain.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    toParams(messages),
		Temperature: openai.Float(temperature),
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.Completion{}, WrapError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Completion{}, &domain.Error{Op: "chat completion", Kind: domain.KindUnknown, Err: errors.New("no choices returned")}
	}
	name := resp.Model
	if name == "" {
		name = model
	}
	return domain.Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: name,
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

func toParams(messages []domain.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
