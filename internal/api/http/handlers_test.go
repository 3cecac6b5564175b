package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/fragment"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/gallery"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/records"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/weather"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/id"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeWeather struct {
	report map[string]interface{}
	err    error
	last   weather.Query
}

func (f *fakeWeather) Current(_ context.Context, q weather.Query) (map[string]interface{}, error) {
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	if q.City == "" && (q.Lat == "" || q.Lon == "") {
		return nil, weather.ErrMissingLocation
	}
	return f.report, nil
}

// manualClock holds echo-window timers until the test expires them
type manualClock struct {
	mu  sync.Mutex
	fns []func()
}

type manualTimer struct {
	mu      sync.Mutex
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) fragment.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{}
	c.fns = append(c.fns, func() {
		if !t.Stop() {
			return
		}
		f()
	})
	return t
}

// Expire fires every pending timer
func (c *manualClock) Expire() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

type testEnv struct {
	router  *gin.Engine
	manager *session.Manager
	weather *fakeWeather
	clock   *manualClock
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := &manualClock{}
	manager := session.NewManager(content.Default(), session.Config{Clock: clock, IDs: id.NewCounter("w")})
	t.Cleanup(manager.CloseAll)

	store := records.New(t.TempDir(), nil)
	_, err := store.Seed()
	require.NoError(t, err)

	assets := t.TempDir()
	full := filepath.Join(assets, "kennelPhotos", "indoor", "1.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, pngData, 0o644))

	w := &fakeWeather{report: map[string]interface{}{"name": "Springfield"}}
	h := NewHandlers(manager).
		WithRecords(store).
		WithPhotos(gallery.New(assets, nil)).
		WithWeather(w)

	router := gin.New()
	h.Register(router)
	return &testEnv{router: router, manager: manager, weather: w, clock: clock}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func (e *testEnv) createSession(t *testing.T, opts session.Options) session.Snapshot {
	t.Helper()
	w := e.do(t, "POST", "/sessions", opts)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap session.Snapshot
	decode(t, w, &snap)
	return snap
}

func TestTreeAndResolve(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, "GET", "/tree", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tree struct {
		Roots []treeNode `json:"roots"`
	}
	decode(t, w, &tree)
	require.NotEmpty(t, tree.Roots)
	assert.Equal(t, "ourKennel", tree.Roots[0].Key)
	assert.Equal(t, "ourKennel.children.aboutUs", tree.Roots[0].Children[0].Path)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"file", "ourDogs.children.championRex", http.StatusOK},
		{"folder", "ourDogs.children.breedingProgram", http.StatusOK},
		{"missing", "ourDogs.children.retiredDog", http.StatusNotFound},
		{"empty", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "GET", "/resolve?path="+tt.path, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	w = env.do(t, "GET", "/resolve?path=ourDogs.children.breedingProgram", nil)
	var resolved map[string]interface{}
	decode(t, w, &resolved)
	assert.Equal(t, "ourDogs#breedingProgram", resolved["fragment"])
	assert.Len(t, resolved["entries"], 3)
}

func TestMenuAndShare(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, "GET", "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var menu struct {
		Items []content.MenuItem `json:"items"`
	}
	decode(t, w, &menu)
	require.NotEmpty(t, menu.Items)
	assert.Equal(t, "browserApp", menu.Items[0].ID)
	assert.True(t, menu.Items[0].Favorite)

	req := httptest.NewRequest("GET", "/share?path=ourDogs.children.championRex", nil)
	req.Host = "kennel.example"
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var share map[string]string
	decode(t, rec, &share)
	assert.Equal(t, "http://kennel.example/#ourDogs#championRex", share["url"])

	w = env.do(t, "GET", "/share?path=nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionMountsFragment(t *testing.T) {
	env := setupTestRouter(t)

	snap := env.createSession(t, session.Options{Fragment: "#ourDogs#championRex"})

	require.Len(t, snap.Windows, 1)
	assert.Equal(t, "ourDogs.children.championRex", snap.Windows[0].Path)
	assert.Equal(t, "ourDogs#championRex", snap.Fragment)
	assert.Equal(t, snap.Windows[0].ID, snap.ActiveID)

	// an empty body is accepted
	w := env.do(t, "POST", "/sessions", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/sessions", nil)
	var list struct {
		Sessions []session.Info `json:"sessions"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Sessions, 2)
}

func TestSessionCommands(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{})
	base := "/sessions/" + snap.SessionID

	w := env.do(t, "POST", base+"/open", OpenRequest{Path: "ourDogs"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	require.Len(t, snap.Windows, 1)
	assert.Equal(t, "ourDogs", snap.Fragment)
	assert.Equal(t, "1", w.Header().Get(snapshotHeader))
	dogs := snap.Windows[0].ID

	w = env.do(t, "POST", base+"/menu/my-email", nil)
	decode(t, w, &snap)
	require.Len(t, snap.Windows, 2)
	assert.Equal(t, "emailApp", snap.Fragment)
	mail := snap.ActiveID

	w = env.do(t, "POST", base+"/windows/"+mail+"/move", map[string]int{"x": 300, "y": 120})
	decode(t, w, &snap)
	assert.Equal(t, 300, snap.Windows[1].Position.X)

	w = env.do(t, "POST", base+"/windows/"+mail+"/minimize", nil)
	decode(t, w, &snap)
	assert.True(t, snap.Windows[1].IsMinimized)
	assert.Equal(t, dogs, snap.ActiveID)

	w = env.do(t, "POST", base+"/windows/"+mail+"/focus", nil)
	decode(t, w, &snap)
	assert.False(t, snap.Windows[1].IsMinimized)
	assert.Equal(t, mail, snap.ActiveID)

	w = env.do(t, "POST", base+"/windows/"+mail+"/close", nil)
	decode(t, w, &snap)
	assert.Len(t, snap.Windows, 1)
	assert.Equal(t, dogs, snap.ActiveID)

	// unknown windows are no-ops
	w = env.do(t, "POST", base+"/windows/nope/close", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommandHeaderMatchesBody(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{})
	base := "/sessions/" + snap.SessionID

	steps := []struct {
		path string
		body interface{}
	}{
		{"/open", OpenRequest{Path: "ourDogs"}},
		{"/open", OpenRequest{Path: "emailApp"}},
		{"/fragment", FragmentRequest{Fragment: "ourDogs"}},
		{"/menu/my-computer", nil},
	}
	for _, step := range steps {
		w := env.do(t, "POST", base+step.path, step.body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decode(t, w, &snap)
		assert.Equal(t, strconv.FormatUint(snap.Generation, 10), w.Header().Get(snapshotHeader), step.path)
	}
}

func TestCreateSessionViewport(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{Viewport: &desktop.Viewport{Width: 330, Height: 330}})
	base := "/sessions/" + snap.SessionID

	for i := 0; i < 4; i++ {
		w := env.do(t, "POST", base+"/menu/ourDogs", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decode(t, w, &snap)
	}
	require.Len(t, snap.Windows, 4)
	assert.Equal(t, 50, snap.Windows[3].Position.X)
	assert.Equal(t, 110, snap.Windows[2].Position.X)
}

func TestSessionErrors(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{})
	base := "/sessions/" + snap.SessionID

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
	}{
		{"unknown session", "GET", "/sessions/missing", nil, http.StatusNotFound},
		{"open without path", "POST", base + "/open", map[string]string{}, http.StatusBadRequest},
		{"unknown menu item", "POST", base + "/menu/solitaire", nil, http.StatusNotFound},
		{"chat without contact", "POST", base + "/chat", map[string]string{}, http.StatusBadRequest},
		{"content of unknown window", "GET", base + "/windows/nope/content", nil, http.StatusNotFound},
		{"delete unknown session", "DELETE", "/sessions/missing", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			decode(t, w, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHashchangeEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{})
	base := "/sessions/" + snap.SessionID

	w := env.do(t, "POST", base+"/open", OpenRequest{Path: "ourDogs"})
	decode(t, w, &snap)

	// the tab reports the echo of the snapshot it just applied
	w = env.do(t, "POST", base+"/fragment", FragmentRequest{Fragment: "ourDogs", Generation: snap.Generation})
	decode(t, w, &snap)
	assert.Len(t, snap.Windows, 1)

	// an untagged change inside the echo window is ignored
	w = env.do(t, "POST", base+"/fragment", FragmentRequest{Fragment: "emailApp"})
	decode(t, w, &snap)
	assert.Len(t, snap.Windows, 1)

	// the user types a new fragment
	env.clock.Expire()
	w = env.do(t, "POST", base+"/fragment", FragmentRequest{Fragment: "#photoGallery#dogPhotos"})
	decode(t, w, &snap)
	require.Len(t, snap.Windows, 2)
	assert.Equal(t, "photoGallery.children.dogPhotos", snap.Windows[1].Path)
	assert.Equal(t, "photoGallery#dogPhotos", snap.Fragment)
}

func TestWindowContent(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{})
	base := "/sessions/" + snap.SessionID

	tests := []struct {
		name    string
		path    string
		wantKey string
	}{
		{"folder lists entries", "ourDogs.children.breedingProgram", "entries"},
		{"dog file loads profile", "ourDogs.children.ladyLuna", "profile"},
		{"album lists photos", "photoGallery.children.kennelPhotos.children.indoor", "photos"},
		{"contact folder lists contacts", "contactInfo.children.contact", "contacts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "POST", base+"/open", OpenRequest{Path: tt.path})
			decode(t, w, &snap)

			w = env.do(t, "GET", base+"/windows/"+snap.ActiveID+"/content", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]json.RawMessage
			decode(t, w, &body)
			assert.Contains(t, body, tt.wantKey)

			var window struct {
				Path string `json:"path"`
			}
			require.NoError(t, json.Unmarshal(body["window"], &window))
			assert.Equal(t, tt.path, window.Path)
		})
	}

	w := env.do(t, "POST", base+"/chat", ChatRequest{ContactID: "1", ContactName: "John Smith"})
	decode(t, w, &snap)
	assert.Equal(t, "", snap.Fragment)
	w = env.do(t, "GET", base+"/windows/"+snap.ActiveID+"/content", nil)
	var chat map[string]interface{}
	decode(t, w, &chat)
	assert.Contains(t, chat, "contact")
}

func TestActivateFolderChild(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{Fragment: "ourDogs#breedingProgram"})
	base := "/sessions/" + snap.SessionID
	folder := snap.ActiveID

	w := env.do(t, "POST", base+"/windows/"+folder+"/activate/studs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	require.Len(t, snap.Windows, 2)
	assert.Equal(t, "ourDogs#breedingProgram#studs", snap.Fragment)

	w = env.do(t, "POST", base+"/windows/"+folder+"/activate/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "GET", base+"/windows/"+snap.ActiveID+"/share", nil)
	var share map[string]string
	decode(t, w, &share)
	assert.Equal(t, "ourDogs#breedingProgram#studs", share["fragment"])
}

func TestDeleteSession(t *testing.T) {
	env := setupTestRouter(t)
	snap := env.createSession(t, session.Options{})

	w := env.do(t, "DELETE", "/sessions/"+snap.SessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/sessions/"+snap.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, env.manager.Stats().Active)
}

func TestContentAPI(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"dog by file", "/api/dogs/champion-rex", http.StatusOK},
		{"dog by tree key", "/api/dogs/kingMax", http.StatusOK},
		{"unknown dog", "/api/dogs/retired", http.StatusNotFound},
		{"contacts", "/api/contacts", http.StatusOK},
		{"contact", "/api/contacts/3", http.StatusOK},
		{"unmapped contact", "/api/contacts/99", http.StatusNotFound},
		{"gallery album", "/api/gallery?path=photoGallery.children.kennelPhotos", http.StatusOK},
		{"not a gallery", "/api/gallery?path=ourDogs", http.StatusNotFound},
		{"gallery without path", "/api/gallery", http.StatusBadRequest},
		{"photo file", "/api/photos/kennelPhotos/indoor/1.png", http.StatusOK},
		{"photo outside root", "/api/photos/../../etc/passwd", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "GET", tt.path, nil)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	w := env.do(t, "GET", "/api/contacts", nil)
	var body struct {
		Contacts []records.Contact `json:"contacts"`
	}
	decode(t, w, &body)
	require.Len(t, body.Contacts, 8)
	assert.Equal(t, "John Smith", body.Contacts[0].Name)
}

func TestWeatherAPI(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, "GET", "/api/weather?city=Springfield", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Springfield", env.weather.last.City)

	w = env.do(t, "GET", "/api/weather?lat=1.5&lon=2.5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.5", env.weather.last.Lat)

	w = env.do(t, "GET", "/api/weather", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.weather.err = weather.ErrUpstream
	w = env.do(t, "GET", "/api/weather?city=Springfield", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	env.weather.err = weather.ErrNotConfigured
	w = env.do(t, "GET", "/api/weather?city=Springfield", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWeatherWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandlers(session.NewManager(nil, session.Config{})).Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/weather?city=x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/dogs/champion-rex", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	env := setupTestRouter(t)
	env.createSession(t, session.Options{})

	w := env.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status   string        `json:"status"`
		Sessions session.Stats `json:"sessions"`
	}
	decode(t, w, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 1, body.Sessions.Active)
}
