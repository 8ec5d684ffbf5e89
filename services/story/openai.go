package story

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	statuserrors "github.com/status-im/nftstory/errors"
	"github.com/status-im/nftstory/services/wallet/thirdparty"
)

const (
	OpenAIID              = "openai"
	OpenAIAPIKeySetting   = "OPENAI_API_KEY"
	DefaultOpenAIURL      = "https://api.openai.com"
	DefaultOpenAIModel    = "gpt-4o-mini"
	openAIUnreachable     = "check your internet connection"
	openAICompletionsPath = "/v1/chat/completions"
	openAITemperature     = 0.8
	openAIMaxTokens       = 1000
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClient calls a chat completions endpoint. Requests are not retried.
type OpenAIClient struct {
	client *thirdparty.HTTPClient
	url    string
	apiKey string
	model  string
	logger *zap.Logger
}

func NewOpenAIClient(httpClient *thirdparty.HTTPClient, url string, apiKey string, model string, logger *zap.Logger) *OpenAIClient {
	if url == "" {
		url = DefaultOpenAIURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		client: httpClient,
		url:    strings.TrimRight(url, "/"),
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}
}

func (o *OpenAIClient) ID() string {
	return OpenAIID
}

func (o *OpenAIClient) chat(ctx context.Context, messages []chatMessage, maxTokens int) (string, error) {
	if o.apiKey == "" {
		return "", statuserrors.NewMissingSettingError(OpenAIAPIKeySetting)
	}

	body, err := o.client.DoPostRequest(ctx, o.url+openAICompletionsPath, chatRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: openAITemperature,
		MaxTokens:   maxTokens,
	}, &thirdparty.BearerCreds{Token: o.apiKey})
	if err != nil {
		return "", backendError(OpenAIID, openAIUnreachable, err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &statuserrors.GenerationBackendError{
			Backend: OpenAIID,
			Reason:  statuserrors.GenerationFailed,
			Err:     errors.Wrap(err, "decoding chat completion"),
		}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAIClient) Complete(ctx context.Context, prompt string, characters []Character) (string, error) {
	text, err := o.chat(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: BuildPrompt(prompt, characters)},
	}, openAIMaxTokens)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", emptyCompletionError(OpenAIID)
	}
	o.logger.Debug("story generated", zap.String("backend", OpenAIID), zap.Int("length", len(text)))
	return text, nil
}

func (o *OpenAIClient) GenerateName(ctx context.Context, collection string, traits []string) (string, error) {
	return o.chat(ctx, []chatMessage{
		{Role: "user", Content: buildNamePrompt(collection, traits)},
	}, 20)
}
