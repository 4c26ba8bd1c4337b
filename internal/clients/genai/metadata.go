package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
)

const metadataSystemPrompt = `You are a comic book reference librarian. Reply with a single JSON object and nothing else.
Only include the fields you are asked for. Use these names and types:
publisher (string), releaseYear (integer), writer (string), artist (string), coverArtist (string),
keyInfo (array of short strings, e.g. "1st appearance of Venom"). Omit a field you cannot determine.`

// CompleteMetadata fills every missing field in one request.
func (c *Client) CompleteMetadata(ctx context.Context, details domain.ComicDetails, missing []string) (*domain.MetadataCompletion, error) {
	if len(missing) == 0 {
		return &domain.MetadataCompletion{}, nil
	}

	prompt := fmt.Sprintf("Comic: %s #%s", details.Title, details.IssueNumber)
	if details.Variant != "" {
		prompt += fmt.Sprintf(" (%s)", details.Variant)
	}
	if details.Publisher != "" {
		prompt += fmt.Sprintf(", published by %s", details.Publisher)
	}
	if details.ReleaseYear != nil {
		prompt += fmt.Sprintf(", %d", *details.ReleaseYear)
	}
	prompt += fmt.Sprintf("\nProvide: %s", strings.Join(missing, ", "))

	text, err := c.complete(ctx, "genai_complete_metadata", metadataSystemPrompt, []contentBlock{textBlock(prompt)})
	if err != nil {
		return nil, err
	}

	return parseMetadataCompletion(text)
}

func parseMetadataCompletion(text string) (*domain.MetadataCompletion, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var out domain.MetadataCompletion
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &out, nil
}
