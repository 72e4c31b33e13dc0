package prompts

import (
	"fmt"
	"strings"

	"sitegen_server/internal/types"
)

// GetComponentBatchPrompt asks for several UI components in one JSON response.
func GetComponentBatchPrompt(bp *types.Blueprint, names []string) string {
	var b strings.Builder
	b.WriteString(describe(bp))
	fmt.Fprintf(&b, "\nPlease create the following reusable UI components: %s.\n", strings.Join(names, ", "))
	b.WriteString("Each component must be a default-exported React function component in TypeScript, styled with Tailwind classes, with typed props.\n\n")
	b.WriteString("Respond with JSON in the following format:\n\n")
	b.WriteString("```json\n{\n  \"components\": [\n    {\n      \"name\": \"Button\",\n      \"code\": \"...\"\n    }\n  ]\n}\n```\n\n")
	b.WriteString("Only include JSON, no extra explanation. Your output will be parsed and saved as project files.")
	return b.String()
}
