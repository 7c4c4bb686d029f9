package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

// Replies used when the completions API cannot produce an answer.
const (
	FallbackUnavailable = "Sorry, I could not generate a response at the moment. Please try again."
	FallbackNetwork     = "Network error contacting AI service. Please try again."
	FallbackEmpty       = "No response generated."
)

// Fallback reasons reported to CompletionOptions.OnFallback.
const (
	ReasonStatus  = "status"
	ReasonNetwork = "network"
	ReasonEmpty   = "empty"
)

// CompletionOptions configures an OpenAI-compatible chat completions backend
// (Groq by default).
type CompletionOptions struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
	// OnFallback, when set, is called with the reason whenever a fallback reply is returned.
	OnFallback func(reason string)
}

// CompletionGenerator asks a chat completions endpoint for a reply, sending
// the persona's system prompt and the user's message as the only user turn.
// It makes exactly one attempt per call.
type CompletionGenerator struct {
	client      openai.Client
	persona     Persona
	model       string
	maxTokens   int64
	temperature float64
	onFallback  func(reason string)
}

func NewCompletionGenerator(persona Persona, opts CompletionOptions) *CompletionGenerator {
	baseURL := opts.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	requestOptions := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.HTTPClient != nil {
		requestOptions = append(requestOptions, option.WithHTTPClient(opts.HTTPClient))
	}

	return &CompletionGenerator{
		client:      openai.NewClient(requestOptions...),
		persona:     persona,
		model:       opts.Model,
		maxTokens:   int64(opts.MaxTokens),
		temperature: opts.Temperature,
		onFallback:  opts.OnFallback,
	}
}

func (g *CompletionGenerator) GenerateReply(ctx context.Context, userText string) string {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.persona.SystemPrompt),
			openai.UserMessage(userText),
		},
		Model:       g.model,
		MaxTokens:   openai.Int(g.maxTokens),
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			log.Error().Int("status_code", apiErr.StatusCode).Str("persona", g.persona.Name).Err(err).Msg("Completions API returned an error")
			return g.fallback(ReasonStatus, FallbackUnavailable)
		}
		log.Error().Str("persona", g.persona.Name).Err(err).Msg("Completions API request failed")
		return g.fallback(ReasonNetwork, FallbackNetwork)
	}

	if len(resp.Choices) == 0 {
		return g.fallback(ReasonEmpty, FallbackEmpty)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return g.fallback(ReasonEmpty, FallbackEmpty)
	}
	return content
}

func (g *CompletionGenerator) fallback(reason, reply string) string {
	if g.onFallback != nil {
		g.onFallback(reason)
	}
	return reply
}

// Selector picks the completions backend when an API key is configured and
// the canned replies otherwise. The check runs on every call.
type Selector struct {
	apiKey      string
	completions Generator
	heuristic   Generator
}

// NewSelector builds both variants for persona from opts.
func NewSelector(persona Persona, opts CompletionOptions) *Selector {
	s := &Selector{
		apiKey:    strings.TrimSpace(opts.APIKey),
		heuristic: NewHeuristicGenerator(persona),
	}
	if s.apiKey != "" {
		s.completions = NewCompletionGenerator(persona, opts)
	}
	return s
}

func (s *Selector) GenerateReply(ctx context.Context, userText string) string {
	if s.apiKey != "" && s.completions != nil {
		return s.completions.GenerateReply(ctx, userText)
	}
	return s.heuristic.GenerateReply(ctx, userText)
}
