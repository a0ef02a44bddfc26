package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"go.uber.org/zap"
)

// Drafter turns free-text job descriptions into invoice drafts via a
// constrained chat completion.
type Drafter struct {
	client      ChatCompleter
	model       string
	temperature float32
	dueDays     int
	now         func() time.Time
	logger      *zap.Logger
}

// NewDrafter creates a new drafter. dueDays is the payment term applied
// when the description states no due date; zero falls back to the
// default 14 days.
func NewDrafter(client ChatCompleter, model string, temperature float32, dueDays int, logger *zap.Logger) *Drafter {
	if dueDays <= 0 {
		dueDays = entity.DefaultDueDays
	}
	return &Drafter{
		client:      client,
		model:       model,
		temperature: temperature,
		dueDays:     dueDays,
		now:         time.Now,
		logger:      logger,
	}
}

// Draft generates an invoice draft from the given description.
// hourlyRateHint is the profile's default hourly rate, or zero when the
// profile has none. Header defaults: invoice date today, due date
// today plus the payment term, GST enabled.
func (d *Drafter) Draft(ctx context.Context, text string, hourlyRateHint float64) (*entity.InvoiceDraft, error) {
	today := d.now().Format("2006-01-02")
	due := d.now().AddDate(0, 0, d.dueDays).Format("2006-01-02")

	d.logger.Info("Drafting invoice from text",
		zap.Int("text_length", len(text)),
		zap.Float64("hourly_rate_hint", hourlyRateHint))

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       d.model,
		Temperature: d.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: draftSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildDraftPrompt(text, today, due, hourlyRateHint),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		d.logger.Error("Draft completion failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion response", ErrUpstream)
	}

	parsed, err := DecodeDraft([]byte(resp.Choices[0].Message.Content), nil)
	if err != nil {
		d.logger.Error("Draft response rejected",
			zap.Error(err),
			zap.String("content", resp.Choices[0].Message.Content))
		return nil, err
	}

	applyDraftDefaults(&parsed, today, due)
	parsed.LineItems = draft.ClassifyItems(parsed.LineItems)
	parsed.ChangesSummary = []string{}

	d.logger.Info("Invoice draft generated",
		zap.String("customer", parsed.Customer.Name),
		zap.Int("line_items", len(parsed.LineItems)))

	return &parsed, nil
}

// applyDraftDefaults backfills header fields the model omitted
func applyDraftDefaults(d *entity.InvoiceDraft, today, due string) {
	if d.Meta.InvoiceDate == "" {
		d.Meta.InvoiceDate = today
	}
	if d.Meta.DueDate == "" {
		d.Meta.DueDate = due
	}
	// A freshly drafted invoice never carries a number; numbers are
	// assigned from the profile sequence on save.
	d.Meta.InvoiceNumber = ""
}
