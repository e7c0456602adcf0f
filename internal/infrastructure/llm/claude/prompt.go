package claude

import (
	"encoding/base64"
	"strings"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

func buildExtractionPrompt(fields []string) string {
	parts := []string{
		"You are reading an insurance claim invoice.",
		"Extract the following fields and return ONLY a JSON object whose keys are exactly these field names:",
		strings.Join(fields, ", "),
		"Copy each value exactly as printed in the document, including its original date and number formatting.",
		"Omit a key entirely when the field does not appear in the document. Do not guess.",
		"Ignore handwritten notes or annotations.",
		"Return the JSON object and nothing else.",
	}
	return strings.Join(parts, "\n")
}

func messagesRequest(model string, maxTokens int, handle domain.DocumentHandle, prompt string) map[string]any {
	return map[string]any{
		"model":      model,
		"max_tokens": maxTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type": "document",
						"source": map[string]any{
							"type":       "base64",
							"media_type": "application/pdf",
							"data":       base64.StdEncoding.EncodeToString(handle.Data),
						},
					},
					{
						"type": "text",
						"text": prompt,
					},
				},
			},
		},
	}
}
