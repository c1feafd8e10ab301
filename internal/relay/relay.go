// Package relay forwards a session's conversation to the completion service.
//
// A Relay is either configured (it has a client) or not, and stays that way for
// its lifetime. Service failures never reach the caller: they become a fixed
// assistant message in the transcript.
package relay

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"campus-lostfound/internal/history"
	"campus-lostfound/internal/llm"
	"campus-lostfound/internal/storage"
)

const (
	DefaultSystemPrompt = "You are the AWKUM Lost & Found AI Assistant. Be helpful, friendly, and concise. " +
		"Location: Abdul Wali Khan University Mardan, Pakistan. Help users with lost and found queries, " +
		"guide them on using the system, and provide relevant information."

	// Greeting is shown for an empty conversation; it is never stored.
	Greeting = "Hi! I'm your AWKUM Lost & Found AI Assistant. How can I help you today?"

	UnavailableMessage = "⚠️ AI service is currently unavailable. Please configure your Groq API key."
	FailureMessage     = "❌ I encountered an error. Please check your API key and try again."
)

var ErrEmptyMessage = errors.New("empty chat message")

type Option func(*Relay)

func WithSystemPrompt(prompt string) Option {
	return func(r *Relay) {
		if strings.TrimSpace(prompt) != "" {
			r.systemPrompt = prompt
		}
	}
}

// WithRecorder logs every completed turn for analytics.
func WithRecorder(rec storage.Recorder) Option {
	return func(r *Relay) { r.recorder = rec }
}

type Relay struct {
	client       llm.Client
	history      *history.Manager
	systemPrompt string
	recorder     storage.Recorder
	now          func() time.Time
}

// New builds a relay. A nil client puts it in the unavailable state.
func New(client llm.Client, hist *history.Manager, opts ...Option) *Relay {
	if hist == nil {
		hist = history.NewManager()
	}
	r := &Relay{
		client:       client,
		history:      hist,
		systemPrompt: DefaultSystemPrompt,
		now:          time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Relay) Configured() bool { return r.client != nil }

// SendTurn appends the user's text, then the assistant's answer, to the
// session and returns the answer. Only blank input is rejected with an error.
func (r *Relay) SendTurn(ctx context.Context, sessionKey, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	r.history.AppendUser(sessionKey, text)

	reply, live := r.complete(ctx, sessionKey)
	r.history.AppendAssistant(sessionKey, reply)
	r.record(sessionKey, text, reply, live)
	return reply, nil
}

func (r *Relay) complete(ctx context.Context, sessionKey string) (string, bool) {
	if r.client == nil {
		return UnavailableMessage, false
	}

	contextMsgs := append([]llm.Message{{Role: llm.RoleSystem, Content: r.systemPrompt}}, r.history.Get(sessionKey)...)
	resp, err := r.client.Generate(ctx, contextMsgs)
	if err != nil {
		log.Printf("⚠️ completion failed for %s: %v", sessionKey, err)
		return FailureMessage, false
	}
	if strings.TrimSpace(resp.Content) == "" {
		log.Printf("⚠️ completion for %s returned empty content", sessionKey)
		return FailureMessage, false
	}
	log.Printf("LLM response [model=%s, tokens: prompt=%d, completion=%d, total=%d, turns=%d]",
		resp.Model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens, len(contextMsgs))
	return resp.Content, true
}

func (r *Relay) record(sessionKey, userText, reply string, live bool) {
	if r.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         r.now().UTC(),
		SessionKey:        sessionKey,
		UserMessage:       userText,
		AssistantResponse: reply,
		Live:              live,
	}
	if err := r.recorder.AppendInteraction(ev); err != nil {
		log.Printf("⚠️ failed to record chat interaction: %v", err)
	}
}

// Clear empties the session's visible history.
func (r *Relay) Clear(sessionKey string) {
	r.history.Reset(sessionKey)
}

// Transcript returns the session's user and assistant turns.
func (r *Relay) Transcript(sessionKey string) []llm.Message {
	return r.history.Get(sessionKey)
}
