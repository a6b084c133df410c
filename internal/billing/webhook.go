// Package billing ingests Stripe payment events into the record store so
// revenue metrics can be computed without calling Stripe at report time.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/metrics"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

type WebhookHandler struct {
	store  store.Store
	secret string
	logger *slog.Logger
	now    func() time.Time
}

func NewWebhookHandler(st store.Store, secret string, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		store:  st,
		secret: secret,
		logger: logger,
		now:    time.Now,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	signatureHeader := r.Header.Get("Stripe-Signature")
	if signatureHeader == "" {
		h.logger.Warn("missing stripe signature header")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	event, err := webhook.ConstructEvent(payload, signatureHeader, h.secret)
	if err != nil {
		h.logger.Error("webhook signature verification failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.handleEvent(r.Context(), event); err != nil {
		h.logger.Error("failed to handle webhook event", "type", event.Type, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleEvent(ctx context.Context, event stripe.Event) error {
	h.logger.Info("processing webhook event", "type", event.Type, "id", event.ID)

	switch event.Type {
	case "payment_intent.succeeded":
		return h.ingestPaymentIntent(ctx, event, store.PaymentCompleted)
	case "payment_intent.payment_failed":
		return h.ingestPaymentIntent(ctx, event, store.PaymentFailed)
	case "payment_intent.created":
		return h.ingestPaymentIntent(ctx, event, store.PaymentPending)
	default:
		h.logger.Debug("unhandled event type", "type", event.Type)
		return nil
	}
}

// ingestPaymentIntent records one payment row. The platform's checkout
// flow stamps owner_id into payment intent metadata; intents without it
// are acknowledged and skipped so Stripe stops retrying.
func (h *WebhookHandler) ingestPaymentIntent(ctx context.Context, event stripe.Event, status store.PaymentStatus) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	rawOwner := intent.Metadata["owner_id"]
	ownerID, err := uuid.Parse(rawOwner)
	if err != nil {
		h.logger.Warn("payment intent without usable owner_id metadata",
			"intent_id", intent.ID,
			"owner_id", rawOwner,
		)
		metrics.PaymentsIngestedTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	payment := store.Payment{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Amount:  float64(intent.Amount) / 100,
		Status:  status,
		PaidAt:  h.now().UTC(),
	}
	if intent.Created > 0 {
		payment.PaidAt = time.Unix(intent.Created, 0).UTC()
	}

	if err := h.store.InsertPayment(ctx, payment); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	metrics.PaymentsIngestedTotal.WithLabelValues(string(status)).Inc()
	h.logger.Info("payment ingested",
		"intent_id", intent.ID,
		"owner_id", ownerID.String(),
		"amount", payment.Amount,
		"status", string(status),
	)
	return nil
}
