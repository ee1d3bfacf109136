package arena

import "testing"

func TestPushByteTracksCharsVsBytes(t *testing.T) {
	a := New(true)
	r := a.PushEmpty()
	for _, c := range []byte("a\xC3\xA9b") { // "aéb"
		a.PushByte(r, c)
	}
	if got := a.NBytes(r); got != 4 {
		t.Fatalf("NBytes = %d, want 4", got)
	}
	if got := a.NChars(r); got != 3 {
		t.Fatalf("NChars = %d, want 3", got)
	}
	if got := a.String(r); got != "a\xC3\xA9b" {
		t.Fatalf("String = %q", got)
	}
	a.Pop(r)
	if a.Size() != 0 {
		t.Fatalf("arena not empty after pop: size=%d", a.Size())
	}
}

func TestAppendBulk(t *testing.T) {
	a := New(true)
	r := a.PushEmpty()
	a.Append(r, []byte("hello"))
	a.Append(r, []byte(" world"))
	if got := a.String(r); got != "hello world" {
		t.Fatalf("String = %q", got)
	}
	a.Pop(r)
}

func TestNestedPushPop(t *testing.T) {
	a := New(true)
	outer := a.PushEmpty()
	a.Append(outer, []byte("outer"))
	before := a.Size()
	inner := a.PushEmpty()
	a.Append(inner, []byte("inner"))
	a.Pop(inner)
	if a.Size() != before {
		t.Fatalf("size after inner pop = %d, want %d", a.Size(), before)
	}
	if got := a.String(outer); got != "outer" {
		t.Fatalf("outer corrupted: %q", got)
	}
	a.Pop(outer)
}

func TestPopNotTopPanics(t *testing.T) {
	a := New(true)
	first := a.PushEmpty()
	_ = a.PushEmpty()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic popping non-top ref")
		}
	}()
	a.Pop(first)
}

func TestPreRegisterIsPopNoop(t *testing.T) {
	a := New(true)
	nilRef := a.PreRegister("http://www.w3.org/1999/02/22-rdf-syntax-ns#nil")
	before := a.Size()
	r := a.PushEmpty()
	a.Append(r, []byte("mid-document"))
	a.Pop(nilRef) // must be a no-op: nilRef is not the top
	if a.String(r) != "mid-document" {
		t.Fatalf("PreRegister pop corrupted the live top record")
	}
	a.Pop(r)
	if a.Size() != before {
		t.Fatalf("size mismatch after popping live record: %d want %d", a.Size(), before)
	}
}

func TestAssertBalancedPanicsOnLeak(t *testing.T) {
	a := New(true)
	before := a.Size()
	a.PushEmpty()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unbalanced push")
		}
	}()
	a.AssertBalanced(before, "test construct")
}
