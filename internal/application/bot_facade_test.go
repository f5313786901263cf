package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"telegram-docs-bank/internal/catalog"
	"telegram-docs-bank/internal/domain"
	"telegram-docs-bank/internal/domain/model"
	"telegram-docs-bank/internal/domain/ports/repository"
	"telegram-docs-bank/internal/infra/memstate"
	"telegram-docs-bank/internal/usecase"

	"github.com/rs/zerolog"
)

// mockDelivery records dispatched requests and returns a canned outcome.
type mockDelivery struct {
	mu       sync.Mutex
	Requests []model.DeliveryRequest

	DeliverFunc func(ctx context.Context, req model.DeliveryRequest) model.DeliveryOutcome
}

var _ usecase.DeliveryUseCase = (*mockDelivery)(nil)

func (m *mockDelivery) Deliver(ctx context.Context, req model.DeliveryRequest) model.DeliveryOutcome {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, req)
	}
	asset := model.AssetDescriptor{Key: req.AssetKey, Title: req.AssetKey, Filename: req.AssetKey + ".pdf"}
	return model.Delivered(asset, req.Email, true)
}

func (m *mockDelivery) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

func newTestFacade(delivery *mockDelivery, states repository.StateRepository) *BotFacade {
	logger := zerolog.New(io.Discard)
	cat, err := catalog.New(catalog.Default(), "https://files.example.com/docs")
	if err != nil {
		panic(err)
	}
	return NewBotFacade(delivery, cat, states,
		"https://example.github.io/docs-webapp/",
		"support@example.com", "+7 000 000-00-00", "Mon-Fri 9:00-18:00",
		&logger)
}

func TestEmailFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("should walk idle -> awaiting email -> dispatch -> idle", func(t *testing.T) {
		// --- Arrange ---
		delivery := &mockDelivery{}
		states := memstate.NewStateRepo()
		f := newTestFacade(delivery, states)

		// --- Act: pick the email flow for an asset ---
		reply := f.StartEmailFlow(ctx, 42, "warehouse")
		if !strings.Contains(reply.Text, "email") {
			t.Errorf("prompt %q should ask for an email address", reply.Text)
		}
		st, err := states.GetState(ctx, 42)
		if err != nil || !st.AwaitingEmail() || st.AssetKey != "warehouse" {
			t.Fatalf("state after selection = %+v, err %v", st, err)
		}

		// --- Act: the next text message is treated as the address ---
		f.HandleText(ctx, 42, "Ivan", "user@example.com")

		// --- Assert ---
		if delivery.Count() != 1 {
			t.Fatalf("expected one dispatch, got %d", delivery.Count())
		}
		req := delivery.Requests[0]
		if req.AssetKey != "warehouse" || req.Email != "user@example.com" {
			t.Errorf("dispatched %+v", req)
		}
		if _, err := states.GetState(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Error("state must be reset to idle after dispatch")
		}
	})

	t.Run("should return to idle even when delivery fails", func(t *testing.T) {
		// --- Arrange ---
		delivery := &mockDelivery{
			DeliverFunc: func(ctx context.Context, req model.DeliveryRequest) model.DeliveryOutcome {
				return model.Undelivered(model.FailureValidation, model.AssetDescriptor{}, req.Email)
			},
		}
		states := memstate.NewStateRepo()
		f := newTestFacade(delivery, states)
		f.StartEmailFlow(ctx, 42, "hotel")

		// --- Act ---
		f.HandleText(ctx, 42, "Ivan", "not-an-email")

		// --- Assert ---
		if _, err := states.GetState(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Error("state must be reset even after a failed dispatch")
		}
	})

	t.Run("should cancel the flow without dispatching", func(t *testing.T) {
		// --- Arrange ---
		delivery := &mockDelivery{}
		states := memstate.NewStateRepo()
		f := newTestFacade(delivery, states)
		f.StartEmailFlow(ctx, 42, "hotel")

		// --- Act ---
		f.HandleCancel(ctx, 42)

		// --- Assert ---
		if delivery.Count() != 0 {
			t.Error("cancel must not invoke the dispatcher")
		}
		if _, err := states.GetState(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Error("cancel must clear the state")
		}
	})

	t.Run("should not start the flow for an unknown asset", func(t *testing.T) {
		// --- Arrange ---
		states := memstate.NewStateRepo()
		f := newTestFacade(&mockDelivery{}, states)

		// --- Act ---
		reply := f.StartEmailFlow(ctx, 42, "unknown-key")

		// --- Assert ---
		if !strings.Contains(reply.Text, "Unknown asset") {
			t.Errorf("reply = %q", reply.Text)
		}
		if _, err := states.GetState(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Error("no state may be stored for an unknown asset")
		}
	})

	t.Run("should treat a state violating the invariant as idle", func(t *testing.T) {
		// --- Arrange: awaiting email without a pending asset ---
		delivery := &mockDelivery{}
		states := memstate.NewStateRepo()
		_ = states.SetState(ctx, 42, &repository.ConversationState{Step: repository.StepAwaitingEmail})
		f := newTestFacade(delivery, states)

		// --- Act ---
		f.HandleText(ctx, 42, "Ivan", "user@example.com")

		// --- Assert ---
		if delivery.Count() != 0 {
			t.Error("a broken state must not dispatch")
		}
		if _, err := states.GetState(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Error("the broken state must be cleared")
		}
	})

	t.Run("should keep flows of different users independent", func(t *testing.T) {
		// --- Arrange ---
		delivery := &mockDelivery{}
		states := memstate.NewStateRepo()
		f := newTestFacade(delivery, states)
		f.StartEmailFlow(ctx, 1, "warehouse")
		f.StartEmailFlow(ctx, 2, "hotel")

		// --- Act ---
		f.HandleText(ctx, 1, "A", "a@example.com")

		// --- Assert ---
		if delivery.Count() != 1 {
			t.Fatalf("expected one dispatch, got %d", delivery.Count())
		}
		st, err := states.GetState(ctx, 2)
		if err != nil || st.AssetKey != "hotel" {
			t.Errorf("user 2 state must be untouched, got %+v, err %v", st, err)
		}
	})
}

func TestHandleText(t *testing.T) {
	ctx := context.Background()

	t.Run("should show an asset card for a single keyword match", func(t *testing.T) {
		f := newTestFacade(&mockDelivery{}, memstate.NewStateRepo())

		reply := f.HandleText(ctx, 42, "Ivan", "warehouse")

		if !strings.Contains(reply.Text, "Warehouse") {
			t.Errorf("reply = %q", reply.Text)
		}
		if len(reply.Rows) == 0 {
			t.Error("asset card must carry action buttons")
		}
	})

	t.Run("should list candidates for an ambiguous query", func(t *testing.T) {
		f := newTestFacade(&mockDelivery{}, memstate.NewStateRepo())

		reply := f.HandleText(ctx, 42, "Ivan", "center")

		if !strings.Contains(reply.Text, "Found 2") {
			t.Errorf("reply = %q", reply.Text)
		}
	})

	t.Run("should fall back to the catalog listing on no match", func(t *testing.T) {
		f := newTestFacade(&mockDelivery{}, memstate.NewStateRepo())

		reply := f.HandleText(ctx, 42, "Ivan", "submarine")

		if !strings.Contains(reply.Text, "No asset matches") {
			t.Errorf("reply = %q", reply.Text)
		}
	})
}

func TestHandleEmailCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("should dispatch directly when address and asset are given", func(t *testing.T) {
		delivery := &mockDelivery{}
		f := newTestFacade(delivery, memstate.NewStateRepo())

		f.HandleEmailCommand(ctx, 42, "Ivan", "user@example.com warehouse")

		if delivery.Count() != 1 {
			t.Fatalf("expected one dispatch, got %d", delivery.Count())
		}
		if delivery.Requests[0].AssetKey != "warehouse" {
			t.Errorf("asset = %q", delivery.Requests[0].AssetKey)
		}
	})

	t.Run("should reject an invalid address without dispatching", func(t *testing.T) {
		delivery := &mockDelivery{}
		f := newTestFacade(delivery, memstate.NewStateRepo())

		reply := f.HandleEmailCommand(ctx, 42, "Ivan", "bad@@email warehouse")

		if delivery.Count() != 0 {
			t.Error("invalid address must not dispatch")
		}
		if !strings.Contains(reply.Text, "valid email") {
			t.Errorf("reply = %q", reply.Text)
		}
	})

	t.Run("should print usage when no arguments given", func(t *testing.T) {
		f := newTestFacade(&mockDelivery{}, memstate.NewStateRepo())

		reply := f.HandleEmailCommand(ctx, 42, "Ivan", "")

		if !strings.Contains(reply.Text, "Usage") {
			t.Errorf("reply = %q", reply.Text)
		}
	})
}

func TestHandleWebAppPayload(t *testing.T) {
	ctx := context.Background()

	t.Run("should dispatch a send_email action", func(t *testing.T) {
		delivery := &mockDelivery{}
		f := newTestFacade(delivery, memstate.NewStateRepo())

		f.HandleWebAppPayload(ctx, 42, "Ivan", `{"action":"send_email","asset_type":"hotel","email":"user@example.com"}`)

		if delivery.Count() != 1 {
			t.Fatalf("expected one dispatch, got %d", delivery.Count())
		}
		req := delivery.Requests[0]
		if req.AssetKey != "hotel" || req.Email != "user@example.com" {
			t.Errorf("dispatched %+v", req)
		}
	})

	t.Run("should report malformed JSON as a validation error, not crash", func(t *testing.T) {
		delivery := &mockDelivery{}
		f := newTestFacade(delivery, memstate.NewStateRepo())

		reply := f.HandleWebAppPayload(ctx, 42, "Ivan", `{"action":`)

		if delivery.Count() != 0 {
			t.Error("malformed payload must not dispatch")
		}
		if !strings.Contains(reply.Text, "Could not read") {
			t.Errorf("reply = %q", reply.Text)
		}
	})

	t.Run("should report a wrong-typed field as a validation error", func(t *testing.T) {
		delivery := &mockDelivery{}
		f := newTestFacade(delivery, memstate.NewStateRepo())

		reply := f.HandleWebAppPayload(ctx, 42, "Ivan", `{"action":123}`)

		if delivery.Count() != 0 {
			t.Error("wrong-typed payload must not dispatch")
		}
		if !strings.Contains(reply.Text, "Could not read") {
			t.Errorf("reply = %q", reply.Text)
		}
	})

	t.Run("should report a missing action", func(t *testing.T) {
		f := newTestFacade(&mockDelivery{}, memstate.NewStateRepo())

		reply := f.HandleWebAppPayload(ctx, 42, "Ivan", `{"asset_type":"hotel"}`)

		if !strings.Contains(reply.Text, "Could not read") {
			t.Errorf("reply = %q", reply.Text)
		}
	})

	t.Run("should acknowledge a completed download", func(t *testing.T) {
		f := newTestFacade(&mockDelivery{}, memstate.NewStateRepo())

		reply := f.HandleWebAppPayload(ctx, 42, "Ivan", `{"action":"download_completed","asset_type":"warehouse"}`)

		if !strings.Contains(reply.Text, "downloaded") {
			t.Errorf("reply = %q", reply.Text)
		}
		if !strings.Contains(reply.Text, "warehouse.pdf") {
			t.Errorf("reply %q should name the file", reply.Text)
		}
	})

	t.Run("should reject an empty email on send_email before dispatching", func(t *testing.T) {
		delivery := &mockDelivery{}
		f := newTestFacade(delivery, memstate.NewStateRepo())

		f.HandleWebAppPayload(ctx, 42, "Ivan", `{"action":"send_email","asset_type":"hotel"}`)

		if delivery.Count() != 0 {
			t.Error("an email action without an address must not dispatch")
		}
	})
}

func TestHandleStartResetsState(t *testing.T) {
	ctx := context.Background()
	delivery := &mockDelivery{}
	states := memstate.NewStateRepo()
	f := newTestFacade(delivery, states)
	f.StartEmailFlow(ctx, 42, "warehouse")

	f.HandleStart(ctx, 42, "Ivan")

	if _, err := states.GetState(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Error("/start must reset any half-finished flow")
	}
}
