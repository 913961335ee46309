package dictation

import (
	"context"
	"fmt"

	"stillhouse/domain"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

type geminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter asks Gemini for JSON output constrained to the form schema.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiCompleter{client: client, model: model}, nil
}

func (c *geminiCompleter) Complete(ctx context.Context, prompt string, fields []domain.DictationField) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(fields),
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func responseSchema(fields []domain.DictationField) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = &genai.Schema{
			Type:        schemaType(f.Type),
			Description: f.Description,
			Nullable:    genai.Ptr(true),
		}
		order = append(order, f.Name)
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		PropertyOrdering: order,
	}
}

func schemaType(fieldType string) genai.Type {
	switch fieldType {
	case domain.FieldTypeNumber:
		return genai.TypeNumber
	case domain.FieldTypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
