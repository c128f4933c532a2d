package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/riahunter/backend/internal/app/service/billingevent"
	"github.com/riahunter/backend/internal/app/service/ledger"
	subscriptionsvc "github.com/riahunter/backend/internal/app/service/subscription"
	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/config"
	"github.com/riahunter/backend/pkg/logctx"
	"github.com/riahunter/backend/pkg/types"
)

// StripeHandler ingests billing provider events. Every event is recorded to
// the billing_event log before processing; redelivered events are silent
// no-ops. Ledger writes go through the ledger service with deterministic
// idempotency keys, so even a partially processed event can be retried safely.
type StripeHandler struct {
	cfg      *config.Config
	ledger   *ledger.Service
	subSvc   *subscriptionsvc.Service
	eventSvc *billingevent.Service
	Logger   *zap.SugaredLogger
}

func NewStripeHandler(cfg *config.Config, l *ledger.Service, sub *subscriptionsvc.Service, events *billingevent.Service, log *zap.SugaredLogger) *StripeHandler {
	return &StripeHandler{cfg: cfg, ledger: l, subSvc: sub, eventSvc: events, Logger: log}
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func (h *StripeHandler) HandleEvent(c *gin.Context) (resErr error) {
	ctx := c.Request.Context()
	log := logctx.FromGin(c, h.Logger)

	body, err := c.GetRawData()
	if err != nil {
		return fmt.Errorf("failed to read webhook body: %w", err)
	}

	var event stripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if event.ID == "" || event.Type == "" {
		return fmt.Errorf("webhook payload missing event id or type")
	}

	var traceID string
	if v, ok := c.Get("traceID"); ok {
		if s, ok2 := v.(string); ok2 {
			traceID = s
		}
	}

	created, err := h.eventSvc.Record(ctx, &models.BillingEvent{
		EventID:    event.ID,
		Type:       event.Type,
		TraceID:    traceID,
		Payload:    datatypes.JSON(body),
		ReceivedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !created {
		log.Infow("billing event replayed, skipping", "event_id", event.ID, "type", event.Type)
		return nil
	}

	defer func() {
		if err := h.eventSvc.MarkProcessed(ctx, event.ID, resErr == nil, resErr); err != nil {
			log.Errorf("failed to record processing outcome: %v", err)
		}
	}()

	switch event.Type {
	case "invoice.paid", "invoice.payment_succeeded":
		resErr = h.handleInvoicePaid(ctx, event.Data.Object)
	case "checkout.session.completed":
		resErr = h.handleCheckoutCompleted(ctx, event.Data.Object)
	case "charge.refunded":
		resErr = h.handleChargeRefunded(ctx, event.Data.Object)
	case "customer.subscription.updated", "customer.subscription.deleted":
		resErr = h.handleSubscriptionChanged(ctx, event.Type, event.Data.Object)
	default:
		// Providers send many event types we do not act on; recording the
		// event is enough.
		log.Infow("billing event ignored", "event_id", event.ID, "type", event.Type)
	}
	if resErr != nil {
		log.Errorw("billing event processing failed", "event_id", event.ID, "type", event.Type, "error", resErr.Error())
	}
	return resErr
}

type stripeInvoice struct {
	ID           string            `json:"id"`
	Customer     string            `json:"customer"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
	Lines        struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
			Period struct {
				End int64 `json:"end"`
			} `json:"period"`
		} `json:"data"`
	} `json:"lines"`
}

func (h *StripeHandler) handleInvoicePaid(ctx context.Context, raw json.RawMessage) error {
	var inv stripeInvoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}
	if len(inv.Lines.Data) == 0 {
		return fmt.Errorf("invoice %s has no lines", inv.ID)
	}

	userID, err := h.resolveUser(ctx, inv.Metadata, inv.Customer)
	if err != nil {
		return err
	}

	line := inv.Lines.Data[0]
	plan, err := h.cfg.GetCreditPlanByPriceID(line.Price.ID)
	if err != nil {
		return fmt.Errorf("invoice %s: %w", inv.ID, err)
	}

	if _, err := h.ledger.AddCredits(ctx, userID, plan.Credits, ledger.Options{
		Source:  types.CreditSourceSubscription,
		RefType: "stripe_invoice",
		RefID:   inv.ID,
		Metadata: map[string]any{
			"plan_id":  plan.ID,
			"price_id": line.Price.ID,
		},
	}); err != nil {
		return fmt.Errorf("failed to grant invoice credits: %w", err)
	}

	sub := &models.Subscription{
		UserID: userID,
		Status: types.SubscriptionStatusActive,
	}
	if line.Period.End > 0 {
		end := time.Unix(line.Period.End, 0)
		sub.CurrentPeriodEnd = &end
	}
	if inv.Customer != "" {
		sub.StripeCustomerID = &inv.Customer
	}
	if inv.Subscription != "" {
		sub.StripeSubID = &inv.Subscription
	}
	return h.subSvc.Upsert(ctx, sub, types.SubscriptionChangeReasonInvoicePaid)
}

type stripeCheckoutSession struct {
	ID                string            `json:"id"`
	Customer          string            `json:"customer"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

func (h *StripeHandler) handleCheckoutCompleted(ctx context.Context, raw json.RawMessage) error {
	var sess stripeCheckoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	userID := sess.ClientReferenceID
	if userID == "" {
		userID = sess.Metadata["user_id"]
	}
	if userID == "" {
		return fmt.Errorf("checkout session %s carries no user reference", sess.ID)
	}

	plan := h.cfg.GetCreditPlanByID(sess.Metadata["plan_id"])
	if plan == nil {
		return fmt.Errorf("checkout session %s: unknown plan %q", sess.ID, sess.Metadata["plan_id"])
	}

	_, err := h.ledger.AddCredits(ctx, userID, plan.Credits, ledger.Options{
		Source:   types.CreditSourceCoupon,
		RefType:  "stripe_checkout",
		RefID:    sess.ID,
		Metadata: map[string]any{"plan_id": plan.ID},
	})
	if err != nil {
		return fmt.Errorf("failed to grant checkout credits: %w", err)
	}
	return nil
}

type stripeCharge struct {
	ID       string            `json:"id"`
	Customer string            `json:"customer"`
	Metadata map[string]string `json:"metadata"`
}

func (h *StripeHandler) handleChargeRefunded(ctx context.Context, raw json.RawMessage) error {
	var charge stripeCharge
	if err := json.Unmarshal(raw, &charge); err != nil {
		return fmt.Errorf("failed to parse charge: %w", err)
	}

	userID, err := h.resolveUser(ctx, charge.Metadata, charge.Customer)
	if err != nil {
		return err
	}
	plan := h.cfg.GetCreditPlanByID(charge.Metadata["plan_id"])
	if plan == nil {
		return fmt.Errorf("charge %s: unknown plan %q", charge.ID, charge.Metadata["plan_id"])
	}

	if _, err := h.ledger.DeductCredits(ctx, userID, plan.Credits, ledger.Options{
		Source:   types.CreditSourceRefund,
		RefType:  "stripe_refund",
		RefID:    charge.ID,
		Metadata: map[string]any{"plan_id": plan.ID},
	}); err != nil {
		return fmt.Errorf("failed to claw back refunded credits: %w", err)
	}
	return nil
}

type stripeSubscription struct {
	ID               string            `json:"id"`
	Customer         string            `json:"customer"`
	Status           string            `json:"status"`
	CurrentPeriodEnd int64             `json:"current_period_end"`
	Metadata         map[string]string `json:"metadata"`
}

func (h *StripeHandler) handleSubscriptionChanged(ctx context.Context, eventType string, raw json.RawMessage) error {
	var sub stripeSubscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	userID, err := h.resolveUser(ctx, sub.Metadata, sub.Customer)
	if err != nil {
		return err
	}

	status := mapSubscriptionStatus(sub.Status)
	reason := types.SubscriptionChangeReasonProviderSync
	if eventType == "customer.subscription.deleted" {
		status = types.SubscriptionStatusCanceled
		reason = types.SubscriptionChangeReasonCanceled
	}

	m := &models.Subscription{
		UserID: userID,
		Status: status,
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0)
		m.CurrentPeriodEnd = &end
	}
	if sub.Customer != "" {
		m.StripeCustomerID = &sub.Customer
	}
	if sub.ID != "" {
		m.StripeSubID = &sub.ID
	}
	return h.subSvc.Upsert(ctx, m, reason)
}

// resolveUser maps a provider event to a user id: metadata first, then the
// stored stripe customer id.
func (h *StripeHandler) resolveUser(ctx context.Context, metadata map[string]string, customerID string) (string, error) {
	if uid := metadata["user_id"]; uid != "" {
		return uid, nil
	}
	if customerID != "" {
		var sub models.Subscription
		err := h.subSvc.FindByCustomer(ctx, customerID, &sub)
		if err == nil && sub.UserID != "" {
			return sub.UserID, nil
		}
	}
	return "", fmt.Errorf("unable to resolve user for customer %q", customerID)
}

func mapSubscriptionStatus(providerStatus string) types.SubscriptionStatus {
	switch providerStatus {
	case "active":
		return types.SubscriptionStatusActive
	case "trialing":
		return types.SubscriptionStatusTrialing
	case "past_due":
		return types.SubscriptionStatusPastDue
	case "canceled", "unpaid", "incomplete_expired":
		return types.SubscriptionStatusCanceled
	default:
		return types.SubscriptionStatusNone
	}
}
