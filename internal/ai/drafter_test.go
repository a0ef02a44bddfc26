package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCompleter returns canned completion content, or an error
type stubCompleter struct {
	content  string
	err      error
	requests []openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
}

func TestDrafterDraft(t *testing.T) {
	stub := &stubCompleter{content: `{
		"customer": {"name": "Dave", "emails": []},
		"invoice_meta": {"invoice_number": "INV-9999", "invoice_date": "", "due_date": ""},
		"line_items": [
			{"description": "2 hours labour", "quantity": 2, "unit": "hr", "unit_price": 90},
			{"description": "Bags of cement", "quantity": 10, "unit": "ea", "unit_price": 8}
		],
		"notes": ""
	}`}

	drafter := NewDrafter(stub, "gpt-4o", 0.2, 14, zap.NewNop())
	drafter.now = fixedNow

	d, err := drafter.Draft(context.Background(), "did 2 hours at daves place plus ten bags of cement", 90)
	require.NoError(t, err)

	assert.Equal(t, "Dave", d.Customer.Name)
	assert.Equal(t, "2026-08-28", d.Meta.InvoiceDate, "empty date backfilled with today")
	assert.Equal(t, "2026-09-11", d.Meta.DueDate, "empty due date backfilled with today + 14")
	assert.Empty(t, d.Meta.InvoiceNumber, "numbers only come from the save sequence")
	assert.True(t, d.Meta.GSTEnabled)

	require.Len(t, d.LineItems, 2)
	assert.Equal(t, "labour", d.LineItems[0].ItemType)
	assert.Equal(t, "material", d.LineItems[1].ItemType)
	assert.Empty(t, d.ChangesSummary)

	require.Len(t, stub.requests, 1)
	require.NotNil(t, stub.requests[0].ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, stub.requests[0].ResponseFormat.Type)
}

func TestDrafterUpstreamFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("rate limited")}
	drafter := NewDrafter(stub, "gpt-4o", 0.2, 14, zap.NewNop())
	drafter.now = fixedNow

	_, err := drafter.Draft(context.Background(), "some job", 0)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestDrafterRejectsInvalidResponse(t *testing.T) {
	stub := &stubCompleter{content: `{"customer": {"name": "Dave"}, "wat": 1}`}
	drafter := NewDrafter(stub, "gpt-4o", 0.2, 14, zap.NewNop())
	drafter.now = fixedNow

	_, err := drafter.Draft(context.Background(), "some job", 0)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}
