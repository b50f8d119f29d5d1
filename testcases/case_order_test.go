package testcases

import (
	"testing"

	"github.com/tbxark/pizzaform/types"
)

func TestPickupOrder(t *testing.T) {
	t.Parallel()
	a := NewTestAgent(t)

	resp := a.Say(t, "Hi, I'd like one Margherita for pickup at 20:00")
	if resp.State.Phase != types.PhaseConfirming {
		t.Fatalf("expected confirming, got %s", resp.State.Phase)
	}
	if got := resp.State.FormState.Pizzas; len(got) != 1 || got[0] != "Margherita" {
		t.Errorf("expected [Margherita], got %v", got)
	}

	resp = a.Say(t, "Yes, place the order")
	if resp.State.Phase != types.PhaseConfirmed {
		t.Fatalf("expected confirmed, got %s", resp.State.Phase)
	}
	if len(a.Orders) != 1 || a.Orders[0].Kind() != "pickup" {
		t.Errorf("expected one pickup order, got %+v", a.Orders)
	}
}

func TestDeliveryNeedsAddressAndFreeSlot(t *testing.T) {
	t.Parallel()
	a := NewTestAgent(t)

	resp := a.Say(t, "Deliver a Pepperoni at 22:00 please")
	if resp.State.Phase != types.PhaseCollecting {
		t.Fatalf("expected collecting, got %s", resp.State.Phase)
	}
	if !resp.State.FormState.WantsDelivery() {
		t.Errorf("expected delivery to be set")
	}

	resp = a.Say(t, "Make it 20:30 then, to 1 Pizza Way")
	if resp.State.Phase != types.PhaseConfirming {
		t.Fatalf("expected confirming, got %s", resp.State.Phase)
	}
	if resp.State.FormState.Address == "" {
		t.Errorf("expected address to be captured")
	}
}
