package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campus-lostfound/internal/llm"
)

type fakeFactory struct {
	client llm.Client
	err    error
}

func (f fakeFactory) CreateClient(string) (llm.Client, error) { return f.client, f.err }

type stubClient struct{}

func (stubClient) Generate(context.Context, []llm.Message) (llm.Response, error) {
	return llm.Response{}, nil
}

func TestChatClient(t *testing.T) {
	c, reason := chatClient(fakeFactory{err: errors.New("iam token: 401")}, "yandex")
	if c != nil || !strings.Contains(reason, "iam token: 401") || strings.Contains(reason, "no API key") {
		t.Fatalf("init failure must report only the real cause, got %q", reason)
	}

	c, reason = chatClient(fakeFactory{}, "openai")
	if c != nil || reason != "AI chat unavailable: no API key configured" {
		t.Fatalf("missing key: got %v %q", c, reason)
	}

	c, reason = chatClient(fakeFactory{client: stubClient{}}, "openai")
	if c == nil || reason != "" {
		t.Fatalf("configured client: got %v %q", c, reason)
	}
}
