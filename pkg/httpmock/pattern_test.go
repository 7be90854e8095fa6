package httpmock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

func TestRequestPattern_BuilderAccumulates(t *testing.T) {
	p := NewRequest().
		Name("getBar").
		Method("GET").
		URI("/bar?one=1").
		QueryParam("two", "2").
		Header("Accept", "application/json").
		Header("X-Trace", "abc")

	m := p.Matcher()
	assert.Equal(t, "GET", m.Method)
	assert.Equal(t, "/bar", m.Path)
	assert.Equal(t, []mock.Param{{Name: "one", Value: "1"}, {Name: "two", Value: "2"}}, m.QueryParams)
	assert.Len(t, m.Headers, 2)
	assert.Equal(t, "getBar", p.Label())
	assert.Equal(t, "getBar: GET /bar?one=1&two=2 header[Accept]=application/json header[X-Trace]=abc", p.String())
}

func TestRequestPattern_InlineQueryEqualsQueryParam(t *testing.T) {
	inline := NewRequest().Method("GET").URI("/bar?one=1")
	explicit := NewRequest().Method("GET").URI("/bar").QueryParam("one", "1")

	assert.Equal(t, inline.Matcher(), explicit.Matcher())
}

func TestRequestPattern_BodyKinds(t *testing.T) {
	form := NewRequest().RequestParam("one", "1").RequestParam("two", "2")
	assert.Equal(t, mock.BodyForm, form.Matcher().Body.Kind)
	assert.Len(t, form.Matcher().Body.Form, 2)

	multi := NewRequest().
		Multipart("key", "", "", "content").
		Multipart("file", "text/plain", "a.txt", "hello")
	assert.Equal(t, mock.BodyMultipart, multi.Matcher().Body.Kind)
	assert.Len(t, multi.Matcher().Body.Multipart, 2)

	// Last write wins across kinds.
	p := NewRequest().JSON(map[string]any{"a": 1}).Content("raw")
	assert.Equal(t, mock.Body{Kind: mock.BodyContent, Content: []byte("raw")}, p.Matcher().Body)

	p = NewRequest().RequestParam("one", "1").JSON([]int{1})
	assert.Equal(t, mock.BodyJSON, p.Matcher().Body.Kind)
	assert.Nil(t, p.Matcher().Body.Form)
}

func TestRequestPattern_Fallback(t *testing.T) {
	assert.True(t, NewRequest().IsFallback())
	assert.True(t, NewRequest().Name("named fallback").IsFallback())
	assert.False(t, NewRequest().Method("GET").IsFallback())
	assert.Equal(t, "* (fallback)", NewRequest().String())
}

func TestRequestPattern_UniqueIDs(t *testing.T) {
	assert.NotEqual(t, NewRequest().ID(), NewRequest().ID())
	assert.NotEmpty(t, NewRequest().ID())
}

func TestRequestPattern_ResponseReplay(t *testing.T) {
	first := NewResponse().Status(201)
	second := NewResponse().Status(202)
	p := NewRequest().WillRespond(first).WillRespond(second)

	r, _ := mock.NewRequest("GET", "/", mock.Options{})
	assert.Same(t, first, p.record(r))
	assert.Same(t, second, p.record(r))
	assert.Same(t, second, p.record(r))
	assert.Equal(t, 3, p.CallStack().Len())
	assert.Equal(t, []*ResponseBuilder{first, second}, p.Responses())

	assert.Nil(t, NewRequest().record(r))
}
