package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/metrics"
	"google.golang.org/api/option"
)

// ErrNoData is reported when an extraction produced no usable record
var ErrNoData = errors.New("no data could be extracted")

// Extractor turns unstructured input into delivery-like records.
// Implementations return an empty slice on any failure.
type Extractor interface {
	ExtractFromText(ctx context.Context, raw string) []Record
	ExtractFromFile(ctx context.Context, payload, mimeType string) []Record
}

// Assistant answers free-form operator questions
type Assistant interface {
	Chat(ctx context.Context, message string, history []ChatTurn) (string, error)
}

// ChatTurn is one prior message of a conversation
type ChatTurn struct {
	Role string `json:"role"` // user | model
	Text string `json:"text"`
}

// GeminiClient interacts with Google Gemini API using the official SDK
type GeminiClient struct {
	client    *genai.Client
	extractor *genai.GenerativeModel
	assistant *genai.GenerativeModel
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-3-flash-preview"
	}

	extractor := client.GenerativeModel(modelName)
	extractor.ResponseMIMEType = "application/json"
	extractor.ResponseSchema = deliverySchema

	assistant := client.GenerativeModel(modelName)
	assistant.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(AssistantInstruction)}}

	return &GeminiClient{
		client:    client,
		extractor: extractor,
		assistant: assistant,
	}, nil
}

// Close closes the client connection
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// ExtractFromText parses text pasted from a spreadsheet
func (c *GeminiClient) ExtractFromText(ctx context.Context, raw string) []Record {
	if strings.TrimSpace(raw) == "" {
		return []Record{}
	}
	return c.extract(ctx, "text", genai.Text(textExtractionPrompt+raw))
}

// ExtractFromFile parses a base64 document (image or PDF). A data URL
// prefix ("data:image/png;base64,") is accepted.
func (c *GeminiClient) ExtractFromFile(ctx context.Context, payload, mimeType string) []Record {
	if i := strings.Index(payload, ","); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		log.Warn().Err(err).Msg("⚠️  AI: file payload is not valid base64")
		metrics.AIExtractions.WithLabelValues("file", "error").Inc()
		return []Record{}
	}
	return c.extract(ctx, "file", genai.Blob{MIMEType: mimeType, Data: data}, genai.Text(fileExtractionPrompt))
}

func (c *GeminiClient) extract(ctx context.Context, source string, parts ...genai.Part) []Record {
	resp, err := c.extractor.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Str("source", source).Msg("❌ AI: extraction request failed")
		metrics.AIExtractions.WithLabelValues(source, "error").Inc()
		return []Record{}
	}

	records, err := DecodeRecords(responseText(resp))
	if err != nil {
		log.Warn().Err(err).Str("source", source).Msg("⚠️  AI: could not decode extraction")
		metrics.AIExtractions.WithLabelValues(source, "error").Inc()
		return []Record{}
	}
	if len(records) == 0 {
		metrics.AIExtractions.WithLabelValues(source, "empty").Inc()
		return records
	}

	metrics.AIExtractions.WithLabelValues(source, "ok").Inc()
	log.Info().Str("source", source).Int("records", len(records)).Msg("🤖 AI: extraction finished")
	return records
}

// Chat sends message to the logistics assistant after replaying history
func (c *GeminiClient) Chat(ctx context.Context, message string, history []ChatTurn) (string, error) {
	cs := c.assistant.StartChat()
	for _, turn := range history {
		role := "user"
		if turn.Role == "model" || turn.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(turn.Text)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini chat error: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

var deliverySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":           {Type: genai.TypeString},
			"customerId":   {Type: genai.TypeString, Description: "Matrícula do cliente"},
			"customerName": {Type: genai.TypeString},
			"address":      {Type: genai.TypeString},
			"status":       {Type: genai.TypeString},
			"date":         {Type: genai.TypeString},
			"trackingCode": {Type: genai.TypeString},
			"driverName":   {Type: genai.TypeString},
			"branch":       {Type: genai.TypeString},
			"boxQuantity":  {Type: genai.TypeInteger, Description: "Quantidade total de caixas/volumes"},
			"items":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"customerId", "customerName", "address", "trackingCode"},
	},
}
