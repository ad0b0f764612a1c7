package sqlite

import (
	"context"
	"testing"

	"github.com/inkshelf/inkshelf-server/internal/errors"
)

func TestDeleteCoverIfUnreferenced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := newBook("Solaris", 1961)
	cover := newCover("a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6")
	if _, err := s.CreateBook(ctx, book, nil, cover); err != nil {
		t.Fatalf("create book: %v", err)
	}

	// Still referenced; must not delete.
	deleted, _, err := s.DeleteCoverIfUnreferenced(ctx, cover.ID)
	if err != nil {
		t.Fatalf("delete cover: %v", err)
	}
	if deleted {
		t.Error("cover deleted while still referenced")
	}

	if _, err := s.DeleteBook(ctx, book.ID); err != nil {
		t.Fatalf("delete book: %v", err)
	}

	// Now unreferenced; must delete and return the key.
	deleted, key, err := s.DeleteCoverIfUnreferenced(ctx, cover.ID)
	if err != nil {
		t.Fatalf("delete cover: %v", err)
	}
	if !deleted {
		t.Fatal("cover not deleted after last reference removed")
	}
	if key != cover.Key {
		t.Errorf("returned key = %s, want %s", key, cover.Key)
	}

	if _, err := s.GetCover(ctx, cover.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("cover row still present: %v", err)
	}
}

func TestDeleteCoverIfUnreferencedSharedCover(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hash := "deadbeefdeadbeefdeadbeefdeadbeef"

	first := newBook("First", 2001)
	res, err := s.CreateBook(ctx, first, nil, newCover(hash))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	second := newBook("Second", 2002)
	if _, err := s.CreateBook(ctx, second, nil, newCover(hash)); err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Delete the first book; the shared cover must survive.
	if _, err := s.DeleteBook(ctx, first.ID); err != nil {
		t.Fatalf("delete first: %v", err)
	}
	deleted, _, err := s.DeleteCoverIfUnreferenced(ctx, res.CoverID)
	if err != nil {
		t.Fatalf("delete cover: %v", err)
	}
	if deleted {
		t.Error("shared cover deleted while second book still references it")
	}

	if _, err := s.GetCover(ctx, res.CoverID); err != nil {
		t.Errorf("shared cover gone: %v", err)
	}
}

func TestDeleteCoverIfUnreferencedMissing(t *testing.T) {
	s := newTestStore(t)

	deleted, _, err := s.DeleteCoverIfUnreferenced(context.Background(), "cover-missing")
	if err != nil {
		t.Fatalf("delete cover: %v", err)
	}
	if deleted {
		t.Error("reported deletion of a missing cover")
	}
}

func TestGetCoverByHashAndKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := newBook("We", 1924)
	cover := newCover("0f1e2d3c4b5a69788796a5b4c3d2e1f0")
	if _, err := s.CreateBook(ctx, book, nil, cover); err != nil {
		t.Fatalf("create book: %v", err)
	}

	byHash, err := s.GetCoverByHash(ctx, cover.ContentHash)
	if err != nil {
		t.Fatalf("get by hash: %v", err)
	}
	if byHash.ID != cover.ID {
		t.Errorf("wrong cover by hash: %s", byHash.ID)
	}

	byKey, err := s.GetCoverByKey(ctx, cover.Key)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if byKey.ID != cover.ID {
		t.Errorf("wrong cover by key: %s", byKey.ID)
	}
	if byKey.BlurHash != cover.BlurHash {
		t.Errorf("blur hash not persisted: %s", byKey.BlurHash)
	}

	if _, err := s.GetCoverByHash(ctx, "nope"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown hash, got %v", err)
	}
}
