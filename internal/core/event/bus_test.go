package event

import "testing"

type scoreChanged struct{ Delta int }
type doorOpened struct{ ID string }

func TestBus_DeliversAfterSwap(t *testing.T) {
	b := NewBus()
	var got []scoreChanged
	Subscribe(b, func(ev scoreChanged) { got = append(got, ev) })

	Emit(b, scoreChanged{Delta: 3})

	// Nothing lands until the buffers rotate.
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("event delivered before swap: %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].Delta != 3 {
		t.Fatalf("delivered %v, want one event with delta 3", got)
	}
}

// Events emitted during dispatch land in the next tick's batch, never the
// current one.
func TestBus_EmitDuringDispatchDefersOneTick(t *testing.T) {
	b := NewBus()
	var rounds []int
	round := 0
	Subscribe(b, func(ev scoreChanged) {
		rounds = append(rounds, round)
		if ev.Delta > 0 {
			Emit(b, scoreChanged{Delta: ev.Delta - 1})
		}
	})

	Emit(b, scoreChanged{Delta: 2})

	round = 1
	b.SwapBuffers()
	b.DispatchAll()
	round = 2
	b.SwapBuffers()
	b.DispatchAll()
	round = 3
	b.SwapBuffers()
	b.DispatchAll()

	want := []int{1, 2, 3}
	if len(rounds) != len(want) {
		t.Fatalf("delivered in rounds %v, want %v", rounds, want)
	}
	for i := range want {
		if rounds[i] != want[i] {
			t.Fatalf("delivered in rounds %v, want %v", rounds, want)
		}
	}
}

func TestBus_TypedRouting(t *testing.T) {
	b := NewBus()
	scores := 0
	doors := 0
	Subscribe(b, func(scoreChanged) { scores++ })
	Subscribe(b, func(doorOpened) { doors++ })

	Emit(b, scoreChanged{Delta: 1})
	Emit(b, doorOpened{ID: "gate"})
	Emit(b, doorOpened{ID: "cellar"})

	b.SwapBuffers()
	b.DispatchAll()

	if scores != 1 || doors != 2 {
		t.Fatalf("scores=%d doors=%d, want 1 and 2", scores, doors)
	}
}

func TestBus_NoSubscriberIsFine(t *testing.T) {
	b := NewBus()
	Emit(b, doorOpened{ID: "gate"})
	b.SwapBuffers()
	b.DispatchAll()
}
