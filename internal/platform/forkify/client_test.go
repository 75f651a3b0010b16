package forkify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"forkify/internal/platform/cache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const searchBody = `{"count":2,"recipes":[
	{"publisher":"Closet Cooking","title":"Pizza Dip","source_url":"http://x","recipe_id":"35477","image_url":"http://img/35477.jpg","social_rank":99.9},
	{"publisher":"101 Cookbooks","title":"Best Pizza Dough Ever","source_url":"http://y","recipe_id":"47746","image_url":"http://img/47746.jpg","social_rank":100}
]}`

const recipeBody = `{"recipe":{
	"publisher":"101 Cookbooks",
	"ingredients":["4 1/2 cups (20.25 ounces) unbleached high-gluten flour","1 3/4 teaspoons salt","2 eggs"],
	"source_url":"http://www.101cookbooks.com/archives/001199.html",
	"recipe_id":"47746",
	"image_url":"http://img/47746.jpg",
	"title":"Best Pizza Dough Ever"
}}`

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/search":
			if r.URL.Query().Get("q") != "pizza" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Please provide a valid query"}`))
				return
			}
			w.Write([]byte(searchBody))
		case "/api/get":
			if r.URL.Query().Get("rId") != "47746" {
				w.Write([]byte(`{"error":"Couldn't find recipe with that ID"}`))
				return
			}
			w.Write([]byte(recipeBody))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Search(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL + "/api/")

	results, err := c.Search(context.Background(), "pizza")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "35477", results[0].ID)
	assert.Equal(t, "Pizza Dip", results[0].Title)
	assert.Equal(t, "Closet Cooking", results[0].Publisher)
	assert.Equal(t, "http://img/35477.jpg", results[0].Image)
}

func TestClient_SearchInvalidQuery(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL + "/api")

	_, err := c.Search(context.Background(), "zzzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetRecipe(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL + "/api")

	r, err := c.GetRecipe(context.Background(), "47746")
	require.NoError(t, err)
	assert.Equal(t, "Best Pizza Dough Ever", r.Title)
	assert.Equal(t, "101 Cookbooks", r.Author)
	assert.Equal(t, "http://www.101cookbooks.com/archives/001199.html", r.URL)
	require.Len(t, r.Ingredients, 3)
	assert.Equal(t, 4.5, r.Ingredients[0].Count)
	assert.Equal(t, "cup", r.Ingredients[0].Unit)
	assert.Equal(t, "unbleached high-gluten flour", r.Ingredients[0].Ingredient)
	assert.Equal(t, "tsp", r.Ingredients[1].Unit)
	assert.Equal(t, 2.0, r.Ingredients[2].Count)
}

func TestClient_GetRecipeNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL + "/api")

	_, err := c.GetRecipe(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ServerError(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL + "/nowhere")

	_, err := c.Search(context.Background(), "pizza")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_UsesCache(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL+"/api", WithCache(cache.NewMemoryCache(), time.Minute))

	for i := 0; i < 3; i++ {
		_, err := c.GetRecipe(context.Background(), "47746")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(srv.URL+"/api", WithRateLimit(0.001, 1))

	_, err := c.Search(context.Background(), "pizza")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "pizza")
	assert.Error(t, err)
}
