package httpmock

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RoundTrip(t *testing.T) {
	reg := NewRegistry()
	users := NewRequest().
		Method("GET").
		URI("https://api.example.com/users?page=1").
		Header("Accept", "application/json").
		WillRespond(NewResponse().Status(http.StatusOK).JSON([]string{"alice"}))
	reg.Add(users)

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/users?page=1&sort=name", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")

	resp, err := reg.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NotNil(t, resp.Request)
	assert.Equal(t, req.URL.String(), resp.Request.URL.String())
	assert.Equal(t, `["alice"]`, readBody(t, resp))

	users.CallStack().AssertCalledTimes(t, 1)
	users.CallStack().Last().AssertHeader(t, "Accept", "application/json")
}

func TestClient_JSONBody(t *testing.T) {
	reg := NewRegistry()
	post := NewRequest().Method("POST")
	postJSON := NewRequest().Method("POST").URI("/bar").JSON(map[string]any{"json": "data"})
	reg.Add(post, postJSON)

	resp, err := reg.Client().Post("http://localhost/bar", "application/json", strings.NewReader(`{"json": "data"}`))
	require.NoError(t, err)
	resp.Body.Close()

	postJSON.CallStack().AssertCalledTimes(t, 1)
	post.CallStack().AssertNotCalled(t)
}

func TestClient_FormBody(t *testing.T) {
	reg := NewRegistry()
	one := NewRequest().Method("POST").URI("/bar").RequestParam("one", "1")
	two := NewRequest().Method("POST").URI("/bar").RequestParam("one", "1").RequestParam("two", "2")
	reg.Add(one, two)

	resp, err := reg.Client().PostForm("http://localhost/bar", url.Values{"one": {"1"}, "two": {"2"}})
	require.NoError(t, err)
	resp.Body.Close()

	two.CallStack().AssertCalledTimes(t, 1)
	one.CallStack().AssertNotCalled(t)
	two.CallStack().First().AssertFormParam(t, "two", "2")
}

func TestClient_MultipartAnyBoundary(t *testing.T) {
	reg := NewRegistry()
	upload := NewRequest().
		Method("POST").
		URI("/upload").
		Multipart("key", "", "", "content").
		Multipart("file", "text/plain", "a.txt", "hello")
	reg.Add(upload)

	for _, boundary := range []string{"12345", "another-boundary"} {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.SetBoundary(boundary))
		require.NoError(t, w.WriteField("key", "content"))
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="file"; filename="a.txt"`}
		h["Content-Type"] = []string{"text/plain"}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("hello"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		resp, err := reg.Client().Post("http://localhost/upload", w.FormDataContentType(), &buf)
		require.NoError(t, err)
		resp.Body.Close()
	}

	upload.CallStack().AssertCalledTimes(t, 2)
}

func TestClient_NoMatch(t *testing.T) {
	reg := NewRegistry()
	reg.Add(NewRequest().Method("GET").URI("/known"))

	_, err := reg.Client().Get("http://localhost/unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatch))

	var nm *NoMatchError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "/unknown", nm.Request.Path)
}

func TestHeaderLines(t *testing.T) {
	h := http.Header{
		"X-B":    {"2"},
		"Accept": {"a", "b"},
	}
	assert.Equal(t, []string{"Accept: a", "Accept: b", "X-B: 2"}, headerLines(h))
	assert.Empty(t, headerLines(nil))
}
