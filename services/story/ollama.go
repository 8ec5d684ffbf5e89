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
	OllamaID           = "ollama"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.1:8b"
	ollamaUnreachable  = "start the local service with ollama serve"
	ollamaGeneratePath = "/api/generate"
)

var storyStopSequences = []string{
	"**Generated Story:**",
	"**Story:**",
	"Here is your story:",
	"Here's your story:",
	"The end.",
	"---",
}

type ollamaOptions struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	TopK          int      `json:"top_k,omitempty"`
	RepeatPenalty float64  `json:"repeat_penalty,omitempty"`
	NumCtx        int      `json:"num_ctx,omitempty"`
	NumPredict    int      `json:"num_predict"`
	Stop          []string `json:"stop,omitempty"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

var storyOptions = ollamaOptions{
	Temperature:   0.8,
	TopP:          0.9,
	TopK:          50,
	RepeatPenalty: 1.15,
	NumCtx:        4096,
	NumPredict:    1000,
	Stop:          storyStopSequences,
}

var nameOptions = ollamaOptions{
	Temperature: 0.7,
	TopP:        0.8,
	NumPredict:  20,
	Stop:        []string{"\n", ".", ",", " "},
}

// OllamaClient talks to a local Ollama server. It implements both Backend and Namer.
type OllamaClient struct {
	client *thirdparty.HTTPClient
	url    string
	model  string
	logger *zap.Logger
}

func NewOllamaClient(httpClient *thirdparty.HTTPClient, url string, model string, logger *zap.Logger) *OllamaClient {
	if url == "" {
		url = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaClient{
		client: httpClient,
		url:    strings.TrimRight(url, "/"),
		model:  model,
		logger: logger,
	}
}

func (o *OllamaClient) ID() string {
	return OllamaID
}

func (o *OllamaClient) generate(ctx context.Context, prompt string, system string, options ollamaOptions) (string, error) {
	body, err := o.client.DoPostRequest(ctx, o.url+ollamaGeneratePath, ollamaRequest{
		Model:   o.model,
		Prompt:  prompt,
		System:  system,
		Stream:  false,
		Options: options,
	}, nil)
	if err != nil {
		return "", backendError(OllamaID, ollamaUnreachable, err)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &statuserrors.GenerationBackendError{
			Backend: OllamaID,
			Reason:  statuserrors.GenerationFailed,
			Err:     errors.Wrap(err, "decoding ollama response"),
		}
	}
	return strings.TrimSpace(resp.Response), nil
}

func (o *OllamaClient) Complete(ctx context.Context, prompt string, characters []Character) (string, error) {
	text, err := o.generate(ctx, BuildPrompt(prompt, characters), systemPrompt, storyOptions)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", emptyCompletionError(OllamaID)
	}
	o.logger.Debug("story generated", zap.String("backend", OllamaID), zap.Int("length", len(text)))
	return text, nil
}

func (o *OllamaClient) GenerateName(ctx context.Context, collection string, traits []string) (string, error) {
	return o.generate(ctx, buildNamePrompt(collection, traits), "", nameOptions)
}
