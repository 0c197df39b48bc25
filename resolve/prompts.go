package resolve

import (
	"fmt"
	"strings"

	"github.com/lexibase/lexibase/core"
)

// NotFoundSentinel is the phrase the model is instructed to emit when the
// supplied context does not answer the question. Its presence in a
// grounded answer triggers the ungrounded fallback.
const NotFoundSentinel = "Not found in knowledge base"

// NotLegalSentinel is the exact reply for questions outside the legal domain.
const NotLegalSentinel = "Not a legal question."

const kbPromptTemplate = `You are a legal assistant. Use the knowledge base context provided below.

Rules:
- If the context contains a legal answer, explain it clearly in simple language.
- If context is EMPTY/irrelevant, do NOT say 'I will search' - only reply '%s.'
- If context is insufficient, you may expand using general legal knowledge but prioritize the KB.

Context:
%s

Query:
%s
`

const webPromptTemplate = `You are a legal assistant.

Rules:
1. If the query is NOT legal, reply exactly: "%s"
2. If the query IS legal, provide a clear, accurate legal explanation in simple language. Use external knowledge if needed.

Query:
%s
`

// buildKBPrompt creates the grounded prompt with retrieved context embedded.
func buildKBPrompt(context, query string) string {
	return fmt.Sprintf(kbPromptTemplate, NotFoundSentinel, context, query)
}

// buildWebPrompt creates the ungrounded prompt used when retrieval found
// nothing relevant.
func buildWebPrompt(query string) string {
	return fmt.Sprintf(webPromptTemplate, NotLegalSentinel, query)
}

// joinContext renders matches as "Title - Text" blocks separated by blank
// lines, in score order.
func joinContext(matches []core.ScoredFragment) string {
	blocks := make([]string, len(matches))
	for i, match := range matches {
		blocks[i] = match.Fragment.Title + " - " + match.Fragment.Text
	}
	return strings.Join(blocks, "\n\n")
}
