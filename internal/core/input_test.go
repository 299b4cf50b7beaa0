package core

import "testing"

func TestPlayerID(t *testing.T) {
	if Player1.Index() != 0 || Player2.Index() != 1 {
		t.Errorf("Index() = %d/%d, expected 0/1", Player1.Index(), Player2.Index())
	}
	if PlayerID(3).Valid() {
		t.Error("PlayerID(3) should be invalid")
	}
}

func TestPlayerIDIndexPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Index() on invalid player should panic")
		}
	}()
	_ = PlayerID(0).Index()
}

func TestActionHeld(t *testing.T) {
	tests := []struct {
		action   Action
		expected bool
	}{
		{ActionUp, true},
		{ActionRight, true},
		{ActionFire, true},
		{ActionPause, false},
		{ActionSave, false},
		{ActionQuit, false},
	}

	for _, tc := range tests {
		if got := tc.action.Held(); got != tc.expected {
			t.Errorf("%s.Held() = %v, expected %v", tc.action, got, tc.expected)
		}
	}
}

func TestMultiInputFrameClone(t *testing.T) {
	m := NewMultiInputFrame()
	f := NewInputFrame()
	f.Set(ActionFire)
	m.SetPlayer(Player2, f)

	clone := m.Clone()
	f.Unset(ActionFire)

	if !clone.Player(Player2).Has(ActionFire) {
		t.Error("Clone() should not share frames with the original")
	}
	if clone.Player(Player1).Has(ActionFire) {
		t.Error("Player(Player1) should be empty")
	}
}
