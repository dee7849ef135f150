// Package narrative turns a run's headline numbers into the short prose
// paragraph shown at the top of the report. With an OpenAI key present the
// text is generated; without one a deterministic fallback is used.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Stats are the facts the narrative is allowed to draw on.
type Stats struct {
	TheftCount int
	YearFrom   int
	YearTo     int
	PeakHour   int
	TopStreet  string

	// Per-capita extremes over neighbourhoods with a known population.
	SafestNeighbourhood string
	SafestRate          float64
	WorstNeighbourhood  string
	WorstRate           float64
}

// Generator produces the narrative paragraph using OpenAI's API.
type Generator struct {
	client openai.Client
	model  openai.ChatModel
}

// NewGenerator creates a narrative generator.
// It reads the OPENAI_API_KEY environment variable for authentication.
func NewGenerator() (*Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Generator{
		client: client,
		model:  openai.ChatModelGPT4oMini,
	}, nil
}

// Generate asks the model for a short paragraph summarising the stats.
func (g *Generator) Generate(ctx context.Context, s Stats) (string, error) {
	log.Printf("generating narrative for %d thefts %d-%d", s.TheftCount, s.YearFrom, s.YearTo)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You write one short, factual paragraph for a crime data report. Use only the numbers given. No headings, no bullet points."),
			openai.UserMessage(prompt(s)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion returned")
	}

	log.Printf("generated narrative (%d bytes)", len(text))
	return text, nil
}

func prompt(s Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Auto theft (theft of and from vehicles) in Vancouver, %d to %d: %d incidents.\n",
		s.YearFrom, s.YearTo, s.TheftCount)
	fmt.Fprintf(&b, "Peak hour of day: %02d:00.\n", s.PeakHour)
	if s.TopStreet != "" {
		fmt.Fprintf(&b, "Worst street: %s.\n", s.TopStreet)
	}
	if s.WorstNeighbourhood != "" {
		fmt.Fprintf(&b, "Highest per-capita rate: %s at %.2f thefts per 1,000 residents.\n",
			s.WorstNeighbourhood, s.WorstRate)
	}
	if s.SafestNeighbourhood != "" {
		fmt.Fprintf(&b, "Lowest per-capita rate: %s at %.2f thefts per 1,000 residents.\n",
			s.SafestNeighbourhood, s.SafestRate)
	}
	b.WriteString("Write a paragraph answering: where is it safe to park?")
	return b.String()
}

// Fallback builds the same paragraph from a fixed template, for runs
// without an API key.
func Fallback(s Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Between %d and %d there were %d reported auto thefts, peaking around %02d:00.",
		s.YearFrom, s.YearTo, s.TheftCount, s.PeakHour)
	if s.TopStreet != "" {
		fmt.Fprintf(&b, " The worst single street was %s.", s.TopStreet)
	}
	if s.WorstNeighbourhood != "" && s.SafestNeighbourhood != "" {
		fmt.Fprintf(&b, " Per 1,000 residents, %s saw the most thefts (%.2f) and %s the fewest (%.2f).",
			s.WorstNeighbourhood, s.WorstRate, s.SafestNeighbourhood, s.SafestRate)
	}
	return b.String()
}
