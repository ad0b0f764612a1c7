package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json/v2"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkshelf/inkshelf-server/internal/config"
	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/id"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/media/blobs"
	"github.com/inkshelf/inkshelf-server/internal/service"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
	"github.com/inkshelf/inkshelf-server/internal/validation"
)

// testServer wraps the API server with its backing store for assertions.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
	blobs *blobs.Storage
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	log := logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel("error")})

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	blobStorage, err := blobs.NewStorage(dir)
	require.NoError(t, err)

	validator := validation.New()
	services := &Services{
		Books:   service.NewBookService(st, blobStorage, validator, log),
		Reviews: service.NewReviewService(st, validator, log),
		Catalog: service.NewCatalogService(st, 9, log),
		Genres:  service.NewGenreService(st),
		Covers:  service.NewCoverService(st, blobStorage),
	}

	cfg := &config.Config{}
	cfg.RateLimit.RequestsPerMinute = 6000
	cfg.RateLimit.Burst = 1000

	s := NewServer(services, cfg, log)
	t.Cleanup(s.Stop)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
		blobs:  blobStorage,
	}
}

func (ts *testServer) mustGenre(t *testing.T, name string) string {
	t.Helper()
	g := domain.Genre{ID: id.MustGenerate("genre"), Name: name}
	require.NoError(t, ts.store.CreateGenre(context.Background(), &g))
	return g.ID
}

func (ts *testServer) mustUser(t *testing.T, login, first, last string) string {
	t.Helper()
	u := domain.User{ID: id.MustGenerate("user"), Login: login, FirstName: first, LastName: last}
	require.NoError(t, ts.store.CreateUser(context.Background(), &u))
	return u.ID
}

// pngBase64 returns a small PNG as base64 for JSON upload bodies.
func pngBase64(t *testing.T, seed uint8) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.RGBA{R: seed, G: 90, B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "healthy")
}

func TestCreateAndGetBook(t *testing.T) {
	ts := setupTestServer(t)
	genreID := ts.mustGenre(t, "Fiction")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":          "Solaris",
		"description":    "An ocean that *thinks*.",
		"year":           1961,
		"author":         "Stanislaw Lem",
		"genre_ids":      []string{genreID},
		"cover_data":     pngBase64(t, 1),
		"cover_filename": "solaris.png",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created BookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"Fiction"}, created.Genres)
	assert.Contains(t, created.DescriptionHTML, "<em>thinks</em>")
	require.NotNil(t, created.Cover)
	assert.Equal(t, "image/png", created.Cover.MimeType)

	get := ts.api.Get("/api/v1/books/" + created.ID)
	require.Equal(t, http.StatusOK, get.Code)

	var fetched BookResponse
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 1961, fetched.Year)
}

func TestGetBookNotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books/book-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateBookUnsupportedCover(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":          "Trojan",
		"year":           2020,
		"cover_data":     base64.StdEncoding.EncodeToString([]byte("MZ\x90\x00")),
		"cover_filename": "payload.exe",
	})
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code, resp.Body.String())

	// Nothing persisted.
	page, err := ts.store.ListCatalogPage(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestCreateBookValidation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title": "",
		"year":  2020,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestUpdateBook(t *testing.T) {
	ts := setupTestServer(t)
	fiction := ts.mustGenre(t, "Fiction")
	horror := ts.mustGenre(t, "Horror")

	create := ts.api.Post("/api/v1/books", map[string]any{
		"title":     "Roadside Picnic",
		"year":      1972,
		"genre_ids": []string{fiction},
	})
	require.Equal(t, http.StatusCreated, create.Code)

	var created BookResponse
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &created))

	update := ts.api.Patch("/api/v1/books/"+created.ID, map[string]any{
		"title":     "Roadside Picnic (revised)",
		"year":      1972,
		"genre_ids": []string{horror},
	})
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	var updated BookResponse
	require.NoError(t, json.Unmarshal(update.Body.Bytes(), &updated))
	assert.Equal(t, "Roadside Picnic (revised)", updated.Title)
	assert.Equal(t, []string{"Horror"}, updated.Genres)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)

	create := ts.api.Post("/api/v1/books", map[string]any{
		"title":          "Doomed",
		"year":           2020,
		"cover_data":     pngBase64(t, 9),
		"cover_filename": "doomed.png",
	})
	require.Equal(t, http.StatusCreated, create.Code)

	var created BookResponse
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &created))
	require.NotNil(t, created.Cover)

	del := ts.api.Delete("/api/v1/books/" + created.ID)
	assert.Equal(t, http.StatusOK, del.Code)

	get := ts.api.Get("/api/v1/books/" + created.ID)
	assert.Equal(t, http.StatusNotFound, get.Code)

	// Cover blob was garbage-collected with the last reference.
	keys, err := ts.blobs.List()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestReviewsEndToEnd(t *testing.T) {
	ts := setupTestServer(t)
	userID := ts.mustUser(t, "anna", "Anna", "Petrova")

	create := ts.api.Post("/api/v1/books", map[string]any{"title": "We", "year": 1924})
	require.Equal(t, http.StatusCreated, create.Code)
	var book BookResponse
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &book))

	post := ts.api.Post("/api/v1/books/"+book.ID+"/reviews", map[string]any{
		"user_id": userID,
		"rating":  5,
		"text":    "a classic",
	})
	require.Equal(t, http.StatusCreated, post.Code, post.Body.String())

	var review ReviewResponse
	require.NoError(t, json.Unmarshal(post.Body.Bytes(), &review))
	assert.Equal(t, "Petrova Anna", review.ReviewerName)

	// Second review by the same user conflicts.
	dup := ts.api.Post("/api/v1/books/"+book.ID+"/reviews", map[string]any{
		"user_id": userID,
		"rating":  2,
	})
	assert.Equal(t, http.StatusConflict, dup.Code)

	list := ts.api.Get("/api/v1/books/" + book.ID + "/reviews")
	require.Equal(t, http.StatusOK, list.Code)

	var reviews ListReviewsResponse
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &reviews))
	assert.Len(t, reviews.Reviews, 1)
}

func TestCatalogListing(t *testing.T) {
	ts := setupTestServer(t)

	for _, year := range []int{2001, 2003, 2002} {
		resp := ts.api.Post("/api/v1/books", map[string]any{
			"title": "Book", "year": year,
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := ts.api.Get("/api/v1/catalog?page=1")
	require.Equal(t, http.StatusOK, resp.Code)

	var page CatalogPageResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Len(t, page.Items, 3)
	assert.Equal(t, 2003, page.Items[0].Year)
	assert.Equal(t, 3, page.TotalItems)
	assert.Nil(t, page.Items[0].AvgRating)
}

func TestListGenres(t *testing.T) {
	ts := setupTestServer(t)
	ts.mustGenre(t, "Horror")
	ts.mustGenre(t, "Fiction")

	resp := ts.api.Get("/api/v1/genres")
	require.Equal(t, http.StatusOK, resp.Code)

	var genres ListGenresResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &genres))
	require.Len(t, genres.Genres, 2)
	assert.Equal(t, "Fiction", genres.Genres[0].Name)
}

func TestServeCover(t *testing.T) {
	ts := setupTestServer(t)

	create := ts.api.Post("/api/v1/books", map[string]any{
		"title":          "Covered",
		"year":           2020,
		"cover_data":     pngBase64(t, 5),
		"cover_filename": "covered.png",
	})
	require.Equal(t, http.StatusCreated, create.Code)

	var book BookResponse
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &book))
	require.NotNil(t, book.Cover)

	req := httptest.NewRequest(http.MethodGet, book.Cover.URL, nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())

	// Unknown key 404s.
	req = httptest.NewRequest(http.MethodGet, "/covers/cover-missing.png", nil)
	rec = httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteRateLimit(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	defer limiter.Stop()

	log := logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel("error")})
	handler := WriteRateLimitMiddleware(limiter, log)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/books", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])

	// Reads are never limited.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
