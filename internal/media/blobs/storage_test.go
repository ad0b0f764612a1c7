package blobs

import (
	"bytes"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	data := []byte("fake-image-bytes")
	if err := s.Put("cover-abc.jpg", data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get("cover-abc.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get returned %q, want %q", got, data)
	}
}

func TestPutOverwriteSameKey(t *testing.T) {
	s := newTestStorage(t)

	if err := s.Put("cover-abc.jpg", []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("cover-abc.jpg", []byte("one")); err != nil {
		t.Fatalf("Put second time: %v", err)
	}

	keys, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("expected 1 blob after double Put, got %d", len(keys))
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.Get("cover-nope.jpg"); err == nil {
		t.Error("expected error for missing blob")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestStorage(t)

	if err := s.Put("cover-abc.jpg", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete("cover-abc.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("cover-abc.jpg") {
		t.Error("blob still exists after Delete")
	}

	// Deleting again must not fail.
	if err := s.Delete("cover-abc.jpg"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestList(t *testing.T) {
	s := newTestStorage(t)

	for _, key := range []string{"a.jpg", "b.png", "c.gif"} {
		if err := s.Put(key, []byte("x")); err != nil {
			t.Fatalf("Put(%s): %v", key, err)
		}
	}

	keys, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("List returned %d keys, want 3", len(keys))
	}
}

func TestInvalidKeys(t *testing.T) {
	s := newTestStorage(t)

	for _, key := range []string{"", "../escape.jpg", "a/b.jpg"} {
		if err := s.Put(key, []byte("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}
