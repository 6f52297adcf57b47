package openai

import (
	json "encoding/json/v2"
	"fmt"
	"strings"

	perr "birdwatch/internal/platform/errors"
)

// Message is a single chat message on the wire
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Verdict is the model's ruling for one post.
// Policy, RuleID, RuleViolated and Reason are only meaningful when the
// verdict flags a violation
type Verdict struct {
	Violation    string `json:"violation"`
	Tweet        string `json:"tweet"`
	Policy       string `json:"policy"`
	RuleID       string `json:"rule_id"`
	RuleViolated string `json:"rule_violated"`
	Reason       string `json:"reason"`
}

// IsViolation reports whether the verdict flags the post
func (v Verdict) IsViolation() bool {
	return strings.EqualFold(strings.TrimSpace(v.Violation), "YES")
}

const systemPrompt = "You are an AI compliance officer. Analyze tweets based on compliance policies."

const verdictSchema = `Respond in JSON format:
{
"violation": "YES" or "NO",
"tweet": "Tweet text",
"policy": "Policy name just if violation is YES",
"rule_id": "Rule ID just if violation is YES",
"rule_violated": "Rule description just if violation is YES",
"reason": "Explain why just if violation is YES",
}`

// buildMessages assembles the fixed three message framing for one post
func buildMessages(rulesText, postText string) []Message {
	user := fmt.Sprintf("Analyze the following tweet based on these compliance policies:\n%s\n\nTweet: %q", rulesText, postText)
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
		{Role: "assistant", Content: verdictSchema},
	}
}

// parseVerdict decodes the model's reply after stripping markdown fences.
// Malformed payloads come back as ErrorCodeJSON so the pipeline can mark
// the post and keep going
func parseVerdict(content string) (Verdict, error) {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var v Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return Verdict{}, perr.Wrapf(err, perr.ErrorCodeJSON, "classifier returned malformed verdict")
	}
	return v, nil
}

// IsMalformed reports whether err marks an undecodable classifier reply
func IsMalformed(err error) bool {
	return perr.IsCode(err, perr.ErrorCodeJSON)
}
