// Package ai wraps the Gemini API for the assistant features: chat,
// image generation and speech synthesis.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"seiva/internal/log"
)

const (
	chatModel   = "gemini-3-pro-preview"
	imageModel  = "gemini-3-pro-image-preview"
	speechModel = "gemini-2.5-flash-preview-tts"

	systemInstruction = "Você é um assistente financeiro e escolar inteligente para o sistema 'Seiva da Nação'. Responda de forma concisa, profissional e amigável em Português."
)

// ErrNoContent is returned when the model answers without a usable part.
var ErrNoContent = errors.New("model returned no content")

// ChatTurn is one prior exchange in a conversation. Role is "user" or
// "model".
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SpeechClip is raw PCM audio: 16-bit little endian, mono, 24 kHz. The
// model does not wrap it in a container format.
type SpeechClip struct {
	MIMEType   string `json:"mimeType"`
	SampleRate int    `json:"sampleRate"`
	Data       []byte `json:"data"`
}

type Client struct {
	client *genai.Client
	logger *log.Logger
}

func NewClient(ctx context.Context, apiKey string, logger *log.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{
		client: client,
		logger: logger.WithComponent("ai"),
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Chat sends a message with prior history and returns the model's reply.
func (c *Client) Chat(ctx context.Context, message string, history []ChatTurn) (string, error) {
	model := c.client.GenerativeModel(chatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	cs := model.StartChat()
	for _, turn := range history {
		role := turn.Role
		if role != "user" && role != "model" {
			role = "user"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini: chat: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// GenerateImage renders the prompt as a square image and returns it as a
// data URI. size is a quality tier hint: 1K, 2K or 4K.
func (c *Client) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	model := c.client.GenerativeModel(imageModel)

	full := prompt
	if size != "" {
		full = fmt.Sprintf("%s (resolution: %s, aspect ratio 1:1)", prompt, size)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(full))
	if err != nil {
		return "", fmt.Errorf("gemini: generate image: %w", err)
	}

	blob := firstBlob(resp)
	if blob == nil {
		return "", ErrNoContent
	}

	c.logger.Info("Generated image", "mime_type", blob.MIMEType, "bytes", len(blob.Data))
	return fmt.Sprintf("data:%s;base64,%s", blob.MIMEType, base64.StdEncoding.EncodeToString(blob.Data)), nil
}

// SynthesizeSpeech reads the text aloud, returning raw PCM samples.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string) (*SpeechClip, error) {
	model := c.client.GenerativeModel(speechModel)

	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini: synthesize speech: %w", err)
	}

	blob := firstBlob(resp)
	if blob == nil {
		return nil, ErrNoContent
	}

	return &SpeechClip{
		MIMEType:   blob.MIMEType,
		SampleRate: 24000,
		Data:       blob.Data,
	}, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok && text != "" {
				return string(text)
			}
		}
	}
	return ""
}

func firstBlob(resp *genai.GenerateContentResponse) *genai.Blob {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return &blob
			}
		}
	}
	return nil
}
