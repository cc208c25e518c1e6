package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
)

// TextGenerator is the part of the ollama client the team name generator needs.
type TextGenerator interface {
	Generate(ctx context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error
}

// TeamNameStore persists the team name chosen for a workspace.
type TeamNameStore interface {
	UpdateTeamName(ctx context.Context, requesterID, workspaceID uint64, teamName string) (*dto.WorkspaceResponse, error)
}

const maxTeamNameLen = 100

type TeamNameService struct {
	generator TextGenerator
	store     TeamNameStore
	model     string
}

func NewTeamNameService(generator TextGenerator, store TeamNameStore, model string) *TeamNameService {
	return &TeamNameService{generator: generator, store: store, model: model}
}

// GenerateTeamName asks the language model for a single team name built from seedWords.
func (s *TeamNameService) GenerateTeamName(ctx context.Context, seedWords string) (string, error) {
	seedWords = strings.TrimSpace(seedWords)
	if seedWords == "" {
		return "", apperr.New(apperr.InvalidRequest)
	}

	stream := false
	req := &api.GenerateRequest{
		Model: s.model,
		Prompt: fmt.Sprintf(
			"Suggest one short, friendly name for a work team using these words as inspiration: %s. "+
				"Reply with the team name only, without quotes, numbering or explanation.",
			seedWords),
		Stream: &stream,
	}

	var out strings.Builder
	err := s.generator.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "team name generation failed", "model", s.model, "error", err)
		return "", apperr.Wrap(apperr.TeamNameGenerationFailed, err)
	}

	name := cleanTeamName(out.String())
	if name == "" {
		return "", apperr.New(apperr.TeamNameGenerationFailed)
	}
	return name, nil
}

// SaveTeamName stores the name the requester picked for the workspace.
func (s *TeamNameService) SaveTeamName(ctx context.Context, requesterID, workspaceID uint64, teamName string) (*dto.WorkspaceResponse, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" || len([]rune(teamName)) > maxTeamNameLen {
		return nil, apperr.New(apperr.InvalidRequest)
	}
	return s.store.UpdateTeamName(ctx, requesterID, workspaceID, teamName)
}

// cleanTeamName keeps the first non-empty line of model output and strips list markers
// and surrounding quotes.
func cleanTeamName(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		line = strings.Trim(line, "\"'`“”")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxTeamNameLen {
			line = string(r[:maxTeamNameLen])
		}
		return line
	}
	return ""
}
