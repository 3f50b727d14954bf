package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"referral-outreach-server/models"
)

// NoReply is the sentinel the generator returns when the inbound text was
// not directed at the automated agent and no reply should be sent. It is a
// distinguished value, not an error: transport failures are errors, an
// intentional silence is NoReply.
const NoReply = "[NO_REPLY]"

// IsNoReply reports whether a generated string is the withhold-reply sentinel.
func IsNoReply(s string) bool {
	return strings.TrimSpace(s) == NoReply
}

// ReplyPrompt carries the identities a reply is written on behalf of.
type ReplyPrompt struct {
	AgentName    string
	ClientName   string
	ReferralName string
	BookingLink  string
}

// ReplyGenerator produces the automated side of a referral conversation.
// With an empty history it writes the 1:1 opener; otherwise it replies to
// the latest inbound message, or returns NoReply to stay silent.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, history []models.Message, prompt ReplyPrompt) (string, error)
}

// OpenAIGenerator implements ReplyGenerator on the OpenAI chat API.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAIGenerator() *OpenAIGenerator {
	model := openai.ChatModel(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = openai.ChatModelGPT4o
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(os.Getenv("OPENAI_API_KEY"))),
		model:  model,
	}
}

func systemPrompt(p ReplyPrompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are texting on behalf of %s, a salesperson. ", p.AgentName)
	fmt.Fprintf(&b, "The contact, %s, was referred by %s, an existing customer. ", p.ReferralName, p.ClientName)
	b.WriteString("Write like a friendly human over SMS: short, warm, no corporate tone, at most two sentences. ")
	if p.BookingLink != "" {
		fmt.Fprintf(&b, "When the contact is ready to meet, share this scheduling link exactly as written: %s. Do not share it earlier. ", p.BookingLink)
	}
	fmt.Fprintf(&b, "If the latest message is clearly not meant for you (for example the contact is talking to %s, a wrong number, or spam), respond with exactly %s and nothing else.", p.ClientName, NoReply)
	return b.String()
}

func (g *OpenAIGenerator) GenerateReply(ctx context.Context, history []models.Message, prompt ReplyPrompt) (string, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt(prompt)),
	}
	for _, m := range history {
		if m.Role == models.RoleReferral {
			msgs = append(msgs, openai.UserMessage(m.Body))
		} else {
			msgs = append(msgs, openai.AssistantMessage(m.Body))
		}
	}
	if len(history) == 0 {
		// opener: no conversation yet, just identity
		msgs = append(msgs, openai.UserMessage(fmt.Sprintf("Write your first one-on-one text to %s now.", prompt.ReferralName)))
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    g.model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
