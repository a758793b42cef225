package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiscusser struct {
	reply      string
	err        error
	gotMessage string
	gotContext string
}

func (f *fakeDiscusser) Discuss(_ context.Context, message, codeContext string) (string, error) {
	f.gotMessage, f.gotContext = message, codeContext
	return f.reply, f.err
}

func TestPanelStartsWithGreeting(t *testing.T) {
	p := NewPanel(&fakeDiscusser{}, "", zerolog.Nop())
	msgs := p.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Role: RoleAssistant, Content: Greeting}, msgs[0])
}

func TestPanelSend(t *testing.T) {
	api := &fakeDiscusser{reply: "Use a loop."}
	p := NewPanel(api, "for i in range(3): pass", zerolog.Nop())

	reply, err := p.Send(context.Background(), "  how do I repeat?  ")
	require.NoError(t, err)
	assert.Equal(t, "Use a loop.", reply.Content)
	assert.Equal(t, "how do I repeat?", api.gotMessage)
	assert.Equal(t, "for i in range(3): pass", api.gotContext)

	p.SetContext("while True: break")
	_, err = p.Send(context.Background(), "and now?")
	require.NoError(t, err)
	assert.Equal(t, "while True: break", api.gotContext)

	msgs := p.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, RoleAssistant, msgs[2].Role)
}

func TestPanelFallbackOnError(t *testing.T) {
	p := NewPanel(&fakeDiscusser{err: errors.New("503")}, "", zerolog.Nop())

	reply, err := p.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply.Content)
	assert.Equal(t, FallbackReply, p.Messages()[2].Content)
}

func TestPanelRejectsEmptyMessage(t *testing.T) {
	api := &fakeDiscusser{}
	p := NewPanel(api, "", zerolog.Nop())

	_, err := p.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, p.Messages(), 1)
	assert.Empty(t, api.gotMessage)
}
