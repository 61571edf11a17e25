package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"tjbot/internal/domain"
)

// MessagePayload is the message body of an interaction response or webhook edit.
type MessagePayload struct {
	Content     string               `json:"content,omitempty"`
	Flags       int                  `json:"flags,omitempty"`
	Embeds      []EmbedPayload       `json:"embeds,omitempty"`
	Attachments []AttachmentMetadata `json:"attachments,omitempty"`
}

// EmbedPayload is a rich embed.
type EmbedPayload struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Color       int         `json:"color,omitempty"`
	Image       *EmbedImage `json:"image,omitempty"`
}

// EmbedImage points an embed at an image URL.
type EmbedImage struct {
	URL string `json:"url"`
}

// AttachmentMetadata links a multipart file part to the message.
type AttachmentMetadata struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

// InteractionResponse is the body answering an interaction.
type InteractionResponse struct {
	Type int             `json:"type"`
	Data *MessagePayload `json:"data,omitempty"`
}

// NewMessagePayload converts a reply into its wire shape.
func NewMessagePayload(reply domain.Reply) *MessagePayload {
	payload := &MessagePayload{Content: reply.Content}
	if reply.Ephemeral {
		payload.Flags = MessageFlagEphemeral
	}
	for _, e := range reply.Embeds {
		embed := EmbedPayload{Title: e.Title, Description: e.Description, Color: e.Color}
		if e.ImageURL != "" {
			embed.Image = &EmbedImage{URL: e.ImageURL}
		}
		payload.Embeds = append(payload.Embeds, embed)
	}
	if reply.File != nil {
		payload.Attachments = []AttachmentMetadata{{ID: 0, Filename: reply.File.Filename}}
	}
	return payload
}

// Pong answers a ping interaction.
func Pong() InteractionResponse {
	return InteractionResponse{Type: ResponseTypePong}
}

// Deferred acknowledges a command whose reply follows as an edit of the original response.
func Deferred(ephemeral bool) InteractionResponse {
	resp := InteractionResponse{Type: ResponseTypeDeferredChannelMessage}
	if ephemeral {
		resp.Data = &MessagePayload{Flags: MessageFlagEphemeral}
	}
	return resp
}

// ChannelMessage answers a command with reply.
func ChannelMessage(reply domain.Reply) InteractionResponse {
	return InteractionResponse{Type: ResponseTypeChannelMessage, Data: NewMessagePayload(reply)}
}

// EncodeResponse encodes resp as the JSON body answering an interaction request.
// Files cannot ride on this body; they go out through a follow-up edit.
func EncodeResponse(resp InteractionResponse) (contentType string, body []byte, err error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return "application/json", raw, nil
}

// NewEditPayload converts a reply into the body of an original-response edit.
// Visibility is fixed when the response is deferred, so no flags are sent.
func NewEditPayload(reply domain.Reply) *MessagePayload {
	payload := NewMessagePayload(reply)
	payload.Flags = 0
	return payload
}

// EncodeMessage encodes a bare message payload, switching to multipart when file is set.
func EncodeMessage(payload *MessagePayload, file *domain.Attachment) (contentType string, body []byte, err error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	if file == nil {
		return "application/json", payloadJSON, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="payload_json"`)
	header.Set("Content-Type", "application/json")
	part, err := w.CreatePart(header)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create payload part: %w", err)
	}
	if _, err := part.Write(payloadJSON); err != nil {
		return "", nil, fmt.Errorf("failed to write payload part: %w", err)
	}
	filePart, err := w.CreateFormFile("files[0]", file.Filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := filePart.Write(file.Data); err != nil {
		return "", nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to close multipart body: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
