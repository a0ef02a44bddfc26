package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"go.uber.org/zap"
)

// Reconciler applies free-text corrections to an existing draft through
// a constrained chat completion. Application is atomic: either a fully
// schema-valid replacement draft comes back, or the caller keeps the
// current draft and the error is retryable. A partially applied
// correction is never returned.
type Reconciler struct {
	client      ChatCompleter
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewReconciler creates a new correction reconciler
func NewReconciler(client ChatCompleter, model string, temperature float32, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		client:      client,
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Apply sends the current draft plus the correction text to the model
// and returns the replacement draft. The current draft is never
// modified; on any failure it remains the caller's draft of record.
func (r *Reconciler) Apply(ctx context.Context, current entity.InvoiceDraft, correctionText string) (*entity.InvoiceDraft, error) {
	serialized, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize current draft: %w", err)
	}

	r.logger.Info("Applying correction",
		zap.Int("correction_length", len(correctionText)),
		zap.Int("line_items", len(current.LineItems)))

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: draftSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildCorrectionPrompt(serialized, correctionText),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		r.logger.Error("Correction completion failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion response", ErrUpstream)
	}

	corrected, err := DecodeDraft([]byte(resp.Choices[0].Message.Content), &current)
	if err != nil {
		r.logger.Error("Correction response rejected",
			zap.Error(err),
			zap.String("content", resp.Choices[0].Message.Content))
		return nil, err
	}

	// Invoice numbers belong to the persistence sequence; a correction
	// can never assign or alter one.
	corrected.Meta.InvoiceNumber = current.Meta.InvoiceNumber

	corrected.LineItems = draft.ClassifyItems(corrected.LineItems)

	r.verify(current, &corrected)

	r.logger.Info("Correction applied",
		zap.Strings("changes", corrected.ChangesSummary))

	return &corrected, nil
}

// verify runs the post-hoc diff pass. The model is instructed to only
// change what the correction asks for, but that instruction is not
// independently enforceable against natural language; the diff makes
// violations of the sensitive categories observable in the logs, and
// backfills the change summary when the model returned none.
func (r *Reconciler) verify(before entity.InvoiceDraft, after *entity.InvoiceDraft) {
	diff := DiffDrafts(before, *after)

	if diff.ItemCountChanged || diff.PricesChanged || diff.QuantitiesChanged {
		r.logger.Warn("Correction touched guarded fields",
			zap.Bool("item_count_changed", diff.ItemCountChanged),
			zap.Bool("prices_changed", diff.PricesChanged),
			zap.Bool("quantities_changed", diff.QuantitiesChanged))
	}

	if len(after.ChangesSummary) == 0 && len(diff.Entries) > 0 {
		after.ChangesSummary = diff.Entries
	}
}
