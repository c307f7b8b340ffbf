package observe

import "testing"

func TestSet_SubscribeNotifyCancel(t *testing.T) {
	var s Set
	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	s.Notify()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	cancel()
	s.Notify()
	if calls != 1 {
		t.Fatalf("calls after cancel = %d, want 1", calls)
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestSet_CallbackMaySubscribe(t *testing.T) {
	var s Set
	inner := 0
	s.Subscribe(func() {
		s.Subscribe(func() { inner++ })
	})

	s.Notify()
	if got := s.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	s.Notify()
	if inner != 1 {
		t.Fatalf("inner calls = %d, want 1", inner)
	}
}
