package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

// VoicePlanner turns a spoken objective into a plan.
type VoicePlanner struct {
	Log    *zap.Logger
	Audio  ports.AudioAPI
	Editor *Editor
}

// PlanFromAudio transcribes the recording and creates a plan from the text.
// It returns the transcription along with the created project.
func (uc *VoicePlanner) PlanFromAudio(ctx context.Context, filename string, audio io.Reader, weeks int) (string, domain.Project, error) {
	text, err := uc.Audio.SpeechToText(ctx, filename, audio)
	if err != nil {
		return "", domain.Project{}, fmt.Errorf("speech to text: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.Project{}, errors.New("no speech recognized in recording")
	}
	uc.Log.Info("objective transcribed", zap.Int("chars", len(text)))

	p, err := uc.Editor.CreateProject(ctx, text, weeks)
	if err != nil {
		return text, domain.Project{}, err
	}
	return text, p, nil
}

// Speak synthesizes text. gender selects the voice and defaults to female.
func (uc *VoicePlanner) Speak(ctx context.Context, text, gender string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	switch gender {
	case "":
		gender = "female"
	case "female", "male":
	default:
		return nil, fmt.Errorf("unknown voice %q, expected female or male", gender)
	}
	return uc.Audio.TextToSpeech(ctx, text, gender)
}
