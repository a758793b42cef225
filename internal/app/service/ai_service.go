package service

import (
	"codecourse/internal/common"
	"codecourse/internal/domain/model"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
)

const aiNotConfigured = "AI service not configured"

// GeneratedExercise is the draft an author reviews before saving it as an
// exercise.
type GeneratedExercise struct {
	Title        string `json:"title" mapstructure:"title"`
	Description  string `json:"description" mapstructure:"description"`
	StartingCode string `json:"starting_code" mapstructure:"starting_code"`
	TestCases    string `json:"test_cases" mapstructure:"test_cases"`
}

type GenerateExerciseRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	Language string `json:"language"`
}

type DiscussRequest struct {
	Message string `json:"message" validate:"required"`
	Context string `json:"context"`
}

type DiscussResponse struct {
	Response string `json:"response"`
}

type AIService struct {
	gen    TextGenerator
	logger zerolog.Logger
}

// NewAIService accepts a nil generator; every call then reports that AI is
// not configured.
func NewAIService(gen TextGenerator, logger zerolog.Logger) *AIService {
	return &AIService{
		gen:    gen,
		logger: logger.With().Str("service", "AIService").Logger(),
	}
}

func (s *AIService) Configured() bool {
	return s.gen != nil
}

// Discuss never fails: problems are reported in the reply text.
func (s *AIService) Discuss(ctx context.Context, req DiscussRequest) DiscussResponse {
	if !s.Configured() {
		return DiscussResponse{Response: aiNotConfigured + "."}
	}

	prompt := fmt.Sprintf("Context: %s\n\nUser: %s", req.Context, req.Message)
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("Discuss request failed")
		return DiscussResponse{Response: "Error communicating with AI: " + err.Error()}
	}
	return DiscussResponse{Response: text}
}

func (s *AIService) GenerateExercise(ctx context.Context, req GenerateExerciseRequest) (*GeneratedExercise, error) {
	if !s.Configured() {
		return nil, common.WithDetail(common.ErrInternalServer, aiNotConfigured)
	}

	text, err := s.gen.GenerateText(ctx, exercisePrompt(req.Prompt, req.Language))
	if err != nil {
		s.logger.Error().Err(err).Msg("Exercise generation failed")
		return nil, common.WithDetail(common.ErrInternalServer, "Failed to generate valid exercise data: "+err.Error())
	}

	exercise, err := ParseGeneratedExercise(text)
	if err != nil {
		s.logger.Warn().Err(err).Str("raw", text).Msg("Could not parse generated exercise")
		return nil, common.WithDetail(common.ErrInternalServer, "Failed to generate valid exercise data: "+err.Error())
	}
	return exercise, nil
}

func exercisePrompt(request, language string) string {
	language = model.LanguageOrDefault(language)
	return fmt.Sprintf(`Create a %s coding exercise based on this request: %q.
Provide the response in raw JSON format (no markdown code blocks) with the following structure:
{
    "title": "Exercise Title",
    "description": "Markdown description of the problem",
    "starting_code": "code stub",
    "test_cases": "%s code validation logic"
}`, language, request, language)
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject pulls the JSON object out of a model reply: a fenced code
// block wins, otherwise the span from the first '{' to the last '}'. Text
// with neither is returned trimmed.
func ExtractJSONObject(text string) string {
	text = strings.TrimSpace(text)
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last != -1 && last > first {
		return text[first : last+1]
	}
	return text
}

// ParseGeneratedExercise decodes a model reply into a GeneratedExercise.
// Non-string values (a list of test cases, say) are rendered as JSON text.
func ParseGeneratedExercise(text string) (*GeneratedExercise, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(ExtractJSONObject(text)), &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		switch v.(type) {
		case string, nil:
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			raw[k] = string(b)
		}
	}

	var exercise GeneratedExercise
	if err := mapstructure.Decode(raw, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}
