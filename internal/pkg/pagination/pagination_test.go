package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestFromQuery(t *testing.T) {
	cases := []struct {
		target string
		want   Params
	}{
		{"/api/recipes", Params{Page: 1, Limit: 6}},
		{"/api/recipes?page=3&limit=10", Params{Page: 3, Limit: 10}},
		{"/api/recipes?page=-1&limit=0", Params{Page: 1, Limit: 6}},
		{"/api/recipes?page=x&limit=y", Params{Page: 1, Limit: 6}},
		{"/api/recipes?limit=1000", Params{Page: 1, Limit: 100}},
	}
	for _, tc := range cases {
		got := FromQuery(testContext(tc.target), 6, 100)
		assert.Equal(t, tc.want, got, tc.target)
	}
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())
}

func TestNew_Links(t *testing.T) {
	c := testContext("http://example.com/api/recipes?page=2&limit=2&author=5")

	page := New(c, Params{Page: 2, Limit: 2}, 5, []int{3, 4})

	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/api/recipes?author=5&limit=2&page=3", *page.Next)
	assert.Equal(t, "http://example.com/api/recipes?author=5&limit=2", *page.Previous)
	assert.Equal(t, int64(5), page.Count)
}

func TestNew_LastPageAndEmpty(t *testing.T) {
	c := testContext("http://example.com/api/recipes")

	page := New[int](c, Params{Page: 1, Limit: 6}, 0, nil)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.NotNil(t, page.Results)
	assert.Len(t, page.Results, 0)
}
