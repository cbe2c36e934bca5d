package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const analystPrompt = `You are a Stock Trader specializing in Technical Analysis at a top financial institution.
Analyze the stock chart's technical indicators and provide a buy/hold/sell recommendation.
Base your recommendation only on the candlestick chart and the displayed technical indicators.
First, provide the recommendation, then, provide your detailed reasoning.`

var (
	ErrNoImage       = errors.New("no chart image to analyze")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Result is the model's recommendation text, returned as is.
type Result struct {
	Text  string
	Model string
}

// ImageAnalyzer is the session's view of the vision model.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, image []byte) (Result, error)
}

// Analyst submits a chart image with the fixed analyst prompt to an OpenAI-compatible
// vision endpoint. It keeps no state between calls.
type Analyst struct {
	cli   oa.Client
	model string
}

type AnalystOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	// HTTPClient overrides the transport; tests point it at httptest servers.
	HTTPClient *http.Client
}

func NewAnalyst(o AnalystOptions) *Analyst {
	opts := []option.RequestOption{option.WithAPIKey(o.APIKey), option.WithMaxRetries(0)}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.BaseURL))
	}
	if o.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(o.HTTPClient))
	}
	model := o.Model
	if model == "" {
		model = "gpt-4o"
	}
	return &Analyst{cli: oa.NewClient(opts...), model: model}
}

// Analyze blocks until the model answers or the request fails.
func (a *Analyst) Analyze(ctx context.Context, image []byte) (Result, error) {
	if len(image) == 0 {
		return Result{}, ErrNoImage
	}
	dataURL := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := a.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: oa.ChatModel(a.model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.UserMessage([]oa.ChatCompletionContentPartUnionParam{
				oa.TextContentPart(analystPrompt),
				oa.ImageContentPart(oa.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
		MaxTokens: oa.Int(1500),
	})
	if err != nil {
		return Result{}, fmt.Errorf("analysis request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Result{}, ErrEmptyResponse
	}
	return Result{Text: text, Model: resp.Model}, nil
}
