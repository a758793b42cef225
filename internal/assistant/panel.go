package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const (
	Greeting      = "Greetings, Apprentice! I am **Boots**, the Master of Code and Casting. How may I assist you with your spell-casting (coding) today?"
	FallbackReply = "My mana is low... I cannot respond right now."
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("still waiting for the previous reply")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type Discusser interface {
	Discuss(ctx context.Context, message, codeContext string) (string, error)
}

// Panel is a conversation with the assistant about one piece of code.
type Panel struct {
	mu       sync.Mutex
	api      Discusser
	context  string
	messages []Message
	busy     atomic.Bool
	logger   zerolog.Logger
}

func NewPanel(api Discusser, codeContext string, logger zerolog.Logger) *Panel {
	return &Panel{
		api:      api,
		context:  codeContext,
		messages: []Message{{Role: RoleAssistant, Content: Greeting}},
		logger:   logger.With().Str("component", "assistant").Logger(),
	}
}

// SetContext replaces the code the assistant is told about.
func (p *Panel) SetContext(codeContext string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.context = codeContext
}

// Send posts input and returns the assistant's reply. A failed call is
// answered with FallbackReply rather than an error.
func (p *Panel) Send(ctx context.Context, input string) (Message, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Message{}, ErrEmptyMessage
	}
	if !p.busy.CompareAndSwap(false, true) {
		return Message{}, ErrBusy
	}
	defer p.busy.Store(false)

	p.mu.Lock()
	p.messages = append(p.messages, Message{Role: RoleUser, Content: input})
	codeContext := p.context
	p.mu.Unlock()

	reply := Message{Role: RoleAssistant}
	text, err := p.api.Discuss(ctx, input, codeContext)
	if err != nil {
		p.logger.Error().Err(err).Msg("Discuss call failed")
		reply.Content = FallbackReply
	} else {
		reply.Content = text
	}

	p.mu.Lock()
	p.messages = append(p.messages, reply)
	p.mu.Unlock()
	return reply, nil
}

func (p *Panel) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}
