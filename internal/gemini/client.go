// Package gemini implements the scam classifier on top of Google's Gemini API.
// Each classification is a single structured-output GenerateContent call.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/autoreply/internal/config"
)

// classifyTimeout bounds one GenerateContent call.
const classifyTimeout = 30 * time.Second

// ErrClassification is matched by every error returned from Classify.
var ErrClassification = errors.New("classification failed")

// ClassificationError reports why a verdict could not be obtained.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Reason, e.Err)
	}
	return "classification failed: " + e.Reason
}

// Unwrap exposes both ErrClassification and the underlying cause.
func (e *ClassificationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrClassification}
	}
	return []error{ErrClassification, e.Err}
}

// contentGenerator is the subset of *genai.Models used by the client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client classifies message texts as scam or not.
type Client struct {
	models        contentGenerator
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
}

// NewClient creates a classifier backed by the Gemini API.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := newClient(gi.Models, cfg.ModelName, log)
	c.log.Info("Gemini classifier initialized", "model", cfg.ModelName)
	return c, nil
}

func newClient(models contentGenerator, modelName string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		models:    models,
		log:       log.With("component", "gemini_classifier"),
		modelName: modelName,
		contentConfig: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: ScamCheckInstruction}},
			},
			ResponseMIMEType: "application/json",
			ResponseSchema:   verdictSchema,
		},
	}
}

// Classify returns true when the model flags text as a scam. There are no
// retries; any failure is returned as a *ClassificationError.
func (c *Client) Classify(ctx context.Context, text string) (bool, error) {
	c.log.DebugContext(ctx, "Classifying message", "text_length", len(text))
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := c.models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
	if err != nil {
		return false, &ClassificationError{Reason: "gemini API call failed", Err: err}
	}

	jsonText, err := extractText(resp)
	if err != nil {
		return false, err
	}

	verdict, err := parseVerdict(jsonText)
	if err != nil {
		c.log.WarnContext(ctx, "Unusable classifier response", "error", err, "response_text", jsonText)
		return false, err
	}

	c.log.DebugContext(ctx, "Classifier verdict", "scammer", verdict)
	return verdict, nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", &ClassificationError{Reason: "no response from Gemini API"}
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		reason := string(fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			reason = fb.BlockReasonMessage
		}
		return "", &ClassificationError{Reason: "request blocked: " + reason}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			finishReason = string(resp.Candidates[0].FinishReason)
		}
		return "", &ClassificationError{Reason: "no content in response, finish reason " + finishReason}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &ClassificationError{Reason: "empty response text"}
	}
	return text, nil
}

type verdictPayload struct {
	Scammer *bool `json:"scammer"`
}

func parseVerdict(text string) (bool, error) {
	var payload verdictPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return false, &ClassificationError{Reason: "malformed structured output", Err: err}
	}
	if payload.Scammer == nil {
		return false, &ClassificationError{Reason: `structured output lacks boolean "scammer"`}
	}
	return *payload.Scammer, nil
}
