// Package main provides a tool to seed the database with reference data.
//
// This creates the canonical genre list and, optionally, test users and
// demo books with reviews for exercising the catalog listing.
//
// Usage:
//
//	DATA_PATH=~/Inkshelf/data go run ./cmd/seed
//	DATA_PATH=~/Inkshelf/data go run ./cmd/seed --create-users --demo-books
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
	"github.com/inkshelf/inkshelf-server/internal/genre"
	"github.com/inkshelf/inkshelf-server/internal/id"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
)

var (
	createUsers = flag.Bool("create-users", false, "Create test users for review testing")
	demoBooks   = flag.Bool("demo-books", false, "Create demo books with reviews")
	extraGenres = flag.String("genres", "", "Comma-separated extra genre names to seed")
)

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Inkshelf", "data")
	}

	dbPath := filepath.Join(dataPath, "inkshelf.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	seedGenres(ctx, s)

	if *createUsers {
		createTestUsers(ctx, s)
	}

	if *demoBooks {
		createDemoBooks(ctx, s)
	}

	fmt.Println("\nSeeding complete!")
}

// seedGenres inserts any canonical genres missing from the database.
func seedGenres(ctx context.Context, s *sqlite.Store) {
	fmt.Println("\n=== Seeding Genres ===")

	existing, err := s.ListGenres(ctx)
	if err != nil {
		log.Fatalf("Failed to list genres: %v", err)
	}

	// Track existing genres by slug so casing variants don't duplicate.
	present := make(map[string]bool, len(existing))
	for _, g := range existing {
		present[genre.Slugify(g.Name)] = true
	}

	names := append([]string{}, genre.Defaults...)
	for _, raw := range strings.Split(*extraGenres, ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			// Extra names collapse onto canonical genres where known.
			names = append(names, genre.Canonicalize(raw))
		}
	}

	created := 0
	for _, name := range names {
		if present[genre.Slugify(name)] {
			continue
		}
		g := &domain.Genre{ID: id.MustGenerate("genre"), Name: name}
		if err := s.CreateGenre(ctx, g); err != nil {
			log.Printf("  Failed to create genre %s: %v", name, err)
			continue
		}
		present[genre.Slugify(name)] = true
		fmt.Printf("  Created genre: %s\n", name)
		created++
	}

	fmt.Printf("Genres: %d created, %d already present\n", created, len(existing))
}

// testUsers are generated reviewer identities.
var testUsers = []domain.User{
	{Login: "arivera", FirstName: "Alex", LastName: "Rivera"},
	{Login: "jchen", FirstName: "Jordan", LastName: "Chen"},
	{Login: "staylor", FirstName: "Sam", LastName: "Taylor"},
	{Login: "cmorgan", FirstName: "Casey", LastName: "Morgan"},
	{Login: "rkim", FirstName: "Riley", LastName: "Kim"},
}

// createTestUsers creates reviewer accounts, skipping logins that exist.
func createTestUsers(ctx context.Context, s *sqlite.Store) {
	fmt.Println("\n=== Creating Test Users ===")

	for _, u := range testUsers {
		user := u
		user.ID = id.MustGenerate("user")

		if err := s.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, errors.ErrConflict) {
				fmt.Printf("  User %s already exists, skipping\n", user.Login)
				continue
			}
			log.Printf("  Failed to create user %s: %v", user.Login, err)
			continue
		}

		fmt.Printf("  Created user: %s (%s)\n", user.DisplayName(), user.Login)
	}

	fmt.Println("=== Test Users Created ===")
}

// demoTitles are sample books spread across years for pagination testing.
var demoTitles = []struct {
	Title  string
	Author string
	Year   int
}{
	{"The Glass Meridian", "H. Okafor", 2019},
	{"Salt and Circuit", "M. Lindqvist", 2021},
	{"A Field Guide to Vanishing", "T. Arseneau", 2015},
	{"Nine Letters North", "P. Duarte", 2018},
	{"The Cartographer's Debt", "I. Szabo", 2012},
	{"Low Tide Atlas", "R. Whitfield", 2020},
	{"Midnight at the Archive", "E. Castellanos", 2017},
	{"The Orchard Ledger", "F. Nakamura", 2014},
	{"Paper Winters", "G. Almeida", 2022},
	{"The Last Typesetter", "D. Kowalczyk", 2016},
}

// createDemoBooks creates sample books with genre links and random reviews.
func createDemoBooks(ctx context.Context, s *sqlite.Store) {
	fmt.Println("\n=== Creating Demo Books ===")

	genres, err := s.ListGenres(ctx)
	if err != nil || len(genres) == 0 {
		log.Printf("No genres available, run genre seeding first: %v", err)
		return
	}

	users, err := listSeededUsers(ctx, s)
	if err != nil {
		log.Printf("Failed to resolve users: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, d := range demoTitles {
		book := &domain.Book{
			Title:       d.Title,
			Description: fmt.Sprintf("A demo entry for *%s*.", d.Title),
			Year:        d.Year,
			Author:      d.Author,
			Pages:       120 + rng.Intn(400),
		}
		book.ID = id.MustGenerate("book")
		book.InitTimestamps()

		// Pick 1-3 random genres
		numGenres := min(1+rng.Intn(3), len(genres))
		picked := make([]string, 0, numGenres)
		seen := make(map[string]bool, numGenres)
		for len(picked) < numGenres {
			g := genres[rng.Intn(len(genres))]
			if seen[g.ID] {
				continue
			}
			seen[g.ID] = true
			picked = append(picked, g.ID)
		}

		if _, err := s.CreateBook(ctx, book, picked, nil); err != nil {
			log.Printf("  Failed to create book %s: %v", d.Title, err)
			continue
		}

		fmt.Printf("  Created book: %s (%d), %d genres\n", d.Title, d.Year, len(picked))

		// Each seeded user reviews roughly half the books
		reviewsCreated := 0
		for _, u := range users {
			if rng.Float32() > 0.5 {
				continue
			}
			review := &domain.Review{
				ID:        id.MustGenerate("review"),
				BookID:    book.ID,
				UserID:    u.ID,
				Rating:    1 + rng.Intn(5),
				Text:      "Seeded review.",
				CreatedAt: time.Now(),
			}
			if err := s.CreateReview(ctx, review); err != nil {
				continue
			}
			reviewsCreated++
		}

		if reviewsCreated > 0 {
			fmt.Printf("    Added %d reviews\n", reviewsCreated)
		}
	}

	fmt.Println("=== Demo Books Created ===")
}

// listSeededUsers resolves the test users by login for review attribution.
func listSeededUsers(ctx context.Context, s *sqlite.Store) ([]*domain.User, error) {
	var users []*domain.User
	for _, u := range testUsers {
		found, err := s.GetUserByLogin(ctx, u.Login)
		if err != nil {
			continue
		}
		users = append(users, found)
	}
	return users, nil
}
