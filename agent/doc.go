// Package agent implements the model-backed collaborators of an exchange:
//
//   - Decider classifies the latest user intent into proceed or inquire.
//   - Inquirer streams a single clarifying question.
//   - Writer runs one generation attempt, projecting code fragments onto
//     the exchange's progress log and recording its turns.
//   - Suggester streams follow-up prompt suggestions.
//
// Agents never commit the conversation. They read the window they are given
// and, in the Writer's case, append through a conversation.Transcript.
package agent
