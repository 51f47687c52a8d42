package controllers

import (
	"context"

	"github.com/jonboulle/clockwork"
	openai "github.com/sashabaranov/go-openai"

	"github.com/nelnel19/BAHA-ALERT/observability"
	"github.com/nelnel19/BAHA-ALERT/storage"
	"github.com/nelnel19/BAHA-ALERT/store"
)

// ChatClient is the slice of the OpenAI client the AI proxy needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Handlers bundles the route handlers and their dependencies.
type Handlers struct {
	Reports   store.ReportStore
	Schedules store.ScheduleStore
	Users     store.UserStore
	Storage   storage.Storage
	Metrics   *observability.Metrics

	JWTSecret string
	AI        ChatClient
	AIModel   string
}

func New(h Handlers) *Handlers { return &h }

// clk is the handlers' time source; tests freeze it via SetClock.
var clk = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clk = clockwork.NewRealClock()
		return
	}
	clk = c
}
