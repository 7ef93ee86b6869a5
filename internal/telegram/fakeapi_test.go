package telegram

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/WebinarBoT/pkg/logger"
)

type apiCall struct {
	Method string
	Params url.Values
}

// fakeAPI emulates the subset of the Bot API used by Client.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []apiCall
	responses map[string]string
	failures  map[string]string
	srv       *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{
		responses: map[string]string{
			"getMe":               `{"id":1,"is_bot":true,"first_name":"Webinar","username":"webinar_bot"}`,
			"sendMessage":         `{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}`,
			"getUpdates":          `[]`,
			"answerCallbackQuery": `true`,
			"deleteWebhook":       `true`,
			"getChatMember":       `{"user":{"id":42,"is_bot":false,"first_name":"A"},"status":"member"}`,
		},
		failures: map[string]string{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) endpoint() string {
	return f.srv.URL + "/bot%s/%s"
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)
	_ = r.ParseForm()

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Params: r.PostForm})
	failure, failed := f.failures[method]
	result, ok := f.responses[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failed {
		fmt.Fprintf(w, `{"ok":false,"error_code":400,"description":%q}`, failure)
		return
	}
	if !ok {
		fmt.Fprint(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		return
	}
	fmt.Fprintf(w, `{"ok":true,"result":%s}`, result)
}

func (f *fakeAPI) setResponse(method, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method] = result
}

func (f *fakeAPI) setFailure(method, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = description
}

func (f *fakeAPI) callsTo(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()

	c, err := NewClient("TEST-TOKEN", ClientOptions{Endpoint: api.endpoint()}, logger.Discard())
	require.NoError(t, err)
	return c
}
