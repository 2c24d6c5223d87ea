package rag

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// contextTokenBudget caps how many tokens of transcript excerpts go into the
// prompt. Excerpts past the budget are dropped in similarity order, so the
// best matches always survive.
const contextTokenBudget = 3000

// promptEncoding is the tokenizer used to measure the context block.
const promptEncoding = "cl100k_base"

const systemPrompt = "You are the host of the channel, a friendly, knowledgeable expert. " +
	"Speak in the host's personable, practical tone. Be concise, helpful, and honest. " +
	"Ground your answers in the provided video transcript excerpts when relevant. " +
	"If you don't know, say so and suggest where to learn more."

// newPromptEncoder loads the tokenizer for the prompt budget.
func newPromptEncoder() (*tiktoken.Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(promptEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", promptEncoding, err)
	}
	return enc, nil
}

// buildContextBlock renders excerpts as Title/URL/Excerpt paragraphs, keeping
// as many as fit the token budget. Returns a placeholder when nothing fits or
// nothing was retrieved.
func buildContextBlock(encoder *tiktoken.Tiktoken, excerpts []Excerpt) string {
	var parts []string
	used := 0
	for _, e := range excerpts {
		part := fmt.Sprintf("Title: %s\nURL: %s\nExcerpt: %s", e.Title, e.URL, e.Text)
		n := len(encoder.Encode(part, nil, nil))
		if used+n > contextTokenBudget {
			break
		}
		used += n
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "(no context available)"
	}
	return strings.Join(parts, "\n\n")
}

// buildUserPrompt composes the final user message: context block, the
// question, and instructions for the answer format.
func buildUserPrompt(encoder *tiktoken.Tiktoken, question string, excerpts []Excerpt) string {
	ctxBlock := buildContextBlock(encoder, excerpts)
	return fmt.Sprintf(
		"Context from the channel's videos (may be partial excerpts):\n\n%s\n\n"+
			"User: %s\n"+
			"Answer as the host. Be concise and direct. At the end, add a section titled "+
			"'Sources' with 1-3 bullet points in the form 'Title - URL' for the most "+
			"relevant videos from the context.",
		ctxBlock, question,
	)
}
