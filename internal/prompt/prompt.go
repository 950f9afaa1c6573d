package prompt

import (
	"fmt"
	"strings"
)

// Fallback is the exact phrase the model is instructed to emit when the
// answer is not present in the supplied context. The agent also returns it
// directly when retrieval comes back empty. It is a contract with the
// chat client, not a suggestion.
const Fallback = "Not found in the book."

// separator delimits independent context passages so the model can tell
// them apart.
const separator = "\n---\n"

const template = `You are a helpful assistant for the book. Your name is 'BookBot'.
You must answer questions based ONLY on the provided context.
If the information to answer the question is not in the context, you MUST respond with '%s'.
Do not add any other information or pleasantries.

CONTEXT:
---
%s
---

QUESTION: %s

ANSWER:`

// Assemble combines the retrieved passages and the question into a single
// grounding-constrained instruction for the generative model.
func Assemble(passages []string, question string) string {
	context := strings.Join(passages, separator)
	return fmt.Sprintf(template, Fallback, context, question)
}
