package actai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"actai-dashboard/internal/domain"
)

// SpeechToText uploads audio as the multipart field "audio_file" and returns
// the transcribed text.
func (c *Client) SpeechToText(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio_file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out struct {
		ProcessedText string `json:"processed_text"`
	}
	if err := c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        "/audio/stt/",
		endpoint:    "POST /audio/stt/",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &out); err != nil {
		return "", err
	}
	return out.ProcessedText, nil
}

// TextToSpeech returns the synthesized audio bytes for text.
func (c *Client) TextToSpeech(ctx context.Context, text, gender string) ([]byte, error) {
	body, err := jsonBody(map[string]string{"text": text, "gender": gender})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/audio/tts/",
		endpoint:    "POST /audio/tts/",
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: "POST /audio/tts/", Err: err}
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("actai: POST /audio/tts/: %w: empty audio", domain.ErrMalformedResponse)
	}
	return audio, nil
}
