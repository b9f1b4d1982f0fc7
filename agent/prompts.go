package agent

// Default instruction templates. Vars available to every template:
// .Language, .Date and anything passed through the agent options.
const (
	defaultDecisionInstruction = `As a smart contract engineer, decide whether the request below is specific enough to write a complete {{.Language}} contract.

Answer "proceed" when the conversation already states the contract's purpose and its essential parameters, or when the user has answered a previous clarifying question.
Answer "inquire" when a single clarifying question would materially change the contract (for example the token name or symbol, supply, ownership model or upgradeability).
Prefer "proceed" when in doubt.`

	defaultInquiryInstruction = `You help a user specify a {{.Language}} smart contract. Ask exactly one short clarifying question that resolves the most important missing detail.
Offer up to four concrete options when the answer is a choice, and allow free input when the answer is open-ended (names, symbols, addresses, amounts).`

	defaultWriterInstruction = `You are an expert {{.Language}} developer. Today is {{.Date}}.
Write a complete, compilable {{.Language}} contract that satisfies the conversation so far.
Output only the source code: start with the SPDX license identifier and pragma line, do not wrap the code in Markdown fences and do not add explanations outside of code comments.
Prefer audited patterns (OpenZeppelin imports), explicit visibility and custom errors.`

	defaultSuggestionInstruction = `Given the contract conversation so far, suggest three short follow-up requests the user might ask next (extensions, tests, security hardening).
Each suggestion is a single imperative sentence.`
)

// DefaultErrorNotice is appended to the code text when the model stream
// reports an error.
const DefaultErrorNotice = "\n// An error occurred while generating the contract. Please try again.\n"
