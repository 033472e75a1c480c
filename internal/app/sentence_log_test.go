package app

import (
	"reflect"
	"testing"
)

func TestSentenceLogKeepsNewest(t *testing.T) {
	t.Parallel()

	l := NewSentenceLog(3)
	if l.Values() != nil {
		t.Fatalf("empty log should return nil")
	}
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		l.Push(s)
	}
	if got := l.Values(); !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Fatalf("got %v", got)
	}
	if got := l.Last(2); !reflect.DeepEqual(got, []string{"d", "e"}) {
		t.Fatalf("Last(2): got %v", got)
	}
	if l.Total() != 5 {
		t.Fatalf("total: got %d want 5", l.Total())
	}
}

func TestSentenceLogPartial(t *testing.T) {
	t.Parallel()

	l := NewSentenceLog(4)
	l.Push("a")
	l.Push("b")
	if got := l.Last(10); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
}
