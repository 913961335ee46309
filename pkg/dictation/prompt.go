package dictation

import (
	"fmt"
	"strings"

	"stillhouse/domain"
)

func buildPrompt(kind string, fields []domain.DictationField, transcript string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for a distillery log app. ")
	b.WriteString("Parse the following dictation and extract the relevant information into a JSON object.\n")
	b.WriteString("The fields to extract are:\n")
	for _, f := range fields {
		if f.Description != "" {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", f.Name, f.Type, f.Description)
		} else {
			fmt.Fprintf(&b, "- %s (%s)\n", f.Name, f.Type)
		}
	}
	if kind == domain.LogKindDistillation {
		b.WriteString(distillationHints)
		b.WriteString("\n")
	}
	b.WriteString("If a field is not mentioned, it should be set to null.\n")
	fmt.Fprintf(&b, "Here is the user's dictation:\n%q\n", transcript)
	return b.String()
}
