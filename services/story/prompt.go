package story

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a creative storyteller. Write vivid, original short stories " +
	"in which the given characters are the protagonists. Use every character by name."

// BuildPrompt renders the user prompt and the ordered cast into a single completion prompt.
func BuildPrompt(prompt string, characters []Character) string {
	var b strings.Builder
	b.WriteString("Characters:\n")
	for i, c := range characters {
		fmt.Fprintf(&b, "%d. %s from %s", i+1, c.DisplayName, c.Collection)
		if len(c.Traits) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(c.Traits, ", "))
		}
		if c.Description != "" {
			fmt.Fprintf(&b, ". %s", c.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nStory idea: %s\n\nWrite the story now.", strings.TrimSpace(prompt))
	return b.String()
}

func buildNamePrompt(collection string, traits []string) string {
	traitText := "none"
	if len(traits) > 0 {
		traitText = strings.Join(traits, ", ")
	}
	return fmt.Sprintf("Invent one short, unique first name for a character from the %s collection with these traits: %s. "+
		"Reply with the name only.", collection, traitText)
}
