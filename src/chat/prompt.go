package chat

import "fmt"

// promptTemplate instructs the model to answer strictly from the
// supplied context block and to admit when the context is silent.
const promptTemplate = `You are a helpful assistant answering questions about restaurants based **ONLY** on the provided context information.

Context Information:
---
%s
---

Based *solely* on the context above, answer the following question concisely and accurately.
If the answer cannot be found in the context, explicitly state that the information is not available in the provided data. Do not make up information or use external knowledge.
Answer very politely and attach few lines which support the statement.
Question: %s

Answer:`

// BuildPrompt renders the grounded prompt for one query.
func BuildPrompt(query, contextText string) string {
	return fmt.Sprintf(promptTemplate, contextText, query)
}
