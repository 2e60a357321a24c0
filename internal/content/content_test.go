package content

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "services", "industries", "process", "case-studies", "insights", "about"}, c.Pages)
	require.Len(t, c.Projects, 4)
	assert.Equal(t, "p-nexa", c.Projects[0].ID)
	assert.Equal(t, []string{"Firebase", "Cloud Functions", "Fintech Logic"}, c.Projects[0].TechStack)
	require.Len(t, c.Steps, 4)
	assert.Equal(t, "01", c.Steps[0].Number)
	assert.Equal(t, "Optimise", c.Steps[3].Title)
	require.Len(t, c.Sectors, 6)
	assert.Equal(t, "Security & Trust", c.Sectors[0].Tag)
	require.Len(t, c.Posts, 18)
	assert.Equal(t, "post-18", c.Posts[17].ID)
	assert.Len(t, c.PerformanceMetrics, 8)
	for _, p := range c.Posts {
		assert.NotEmpty(t, p.Content, p.ID)
	}
}

func TestParseRejectsDuplicatePosts(t *testing.T) {
	_, err := Parse([]byte("blog_posts:\n  - id: a\n  - id: a\n"))
	assert.ErrorContains(t, err, "duplicate post id")

	_, err = Parse([]byte("blog_posts: [\n"))
	assert.Error(t, err)
}

func TestSectionAndPost(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	records, err := c.Section("insights")
	require.NoError(t, err)
	summaries := records.([]Post)
	require.Len(t, summaries, 18)
	assert.Empty(t, summaries[0].Content)
	assert.NotEmpty(t, c.Posts[0].Content)

	_, err = c.Section("careers")
	assert.ErrorIs(t, err, ErrUnknownSection)

	post, err := c.Post("post-02")
	require.NoError(t, err)
	assert.Equal(t, "The Millisecond Economy", post.Title)

	_, err = c.Post("post-99")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestHandler(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	srv := httptest.NewServer(NewHandler(c, logging.NewWithWriter(io.Discard, "error")).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/steps")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var steps []Step
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&steps))
	assert.Equal(t, []string{"Audit", "Architect", "Build", "Optimise"}, []string{steps[0].Title, steps[1].Title, steps[2].Title, steps[3].Title})

	resp2, err := http.Get(srv.URL + "/insights/post-07")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	var post Post
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&post))
	assert.Equal(t, "Psychology of Trust", post.Title)
	assert.NotEmpty(t, post.Content)

	for _, path := range []string{"/careers", "/insights/missing"} {
		r, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		r.Body.Close()
		assert.Equal(t, http.StatusNotFound, r.StatusCode, path)
	}
}
