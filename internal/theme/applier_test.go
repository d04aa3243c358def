package theme

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDoc records style writes by element id.
type fakeDoc struct {
	styles map[string]string
	writes int
}

func newFakeDoc() *fakeDoc { return &fakeDoc{styles: map[string]string{}} }

func (d *fakeDoc) SetStyle(id, css string) {
	d.styles[id] = css
	d.writes++
}

// memStore is an in-memory Storage with injectable failures.
type memStore struct {
	data   map[string]string
	getErr error
	setErr error
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (s *memStore) Get(key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.data[key], nil
}

func (s *memStore) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func TestApply_UnknownBehavesLikePurple(t *testing.T) {
	docA, storeA := newFakeDoc(), newMemStore()
	docB, storeB := newFakeDoc(), newMemStore()

	gotA := NewApplier(docA, storeA).Apply("not-a-real-theme")
	gotB := NewApplier(docB, storeB).Apply("purple")

	assert.Equal(t, gotB, gotA)
	assert.Equal(t, docB.styles, docA.styles)
	assert.Equal(t, storeB.data, storeA.data)
	assert.Equal(t, "purple", storeA.data[StorageKey])
}

func TestApply_ReplacesSingleElement(t *testing.T) {
	doc := newFakeDoc()
	a := NewApplier(doc, newMemStore())

	a.Apply("blue")
	first := doc.styles[StyleElementID]
	a.Apply("blue")
	require.Equal(t, first, doc.styles[StyleElementID], "same theme twice must be idempotent")

	a.Apply("green")
	require.Len(t, doc.styles, 1)
	assert.Equal(t, Stylesheet(Lookup(Green)), doc.styles[StyleElementID])
	assert.Equal(t, Green, a.Current())
}

func TestApply_PersistFailureSwallowed(t *testing.T) {
	doc := newFakeDoc()
	store := newMemStore()
	store.setErr = errors.New("quota exceeded")

	a := NewApplier(doc, store)
	got := a.Apply("red")

	assert.Equal(t, Red, got)
	assert.Equal(t, Stylesheet(Lookup(Red)), doc.styles[StyleElementID])
	assert.Empty(t, store.data)
}

func TestApply_NoDocumentIsNoop(t *testing.T) {
	store := newMemStore()
	a := NewApplier(nil, store)

	assert.Equal(t, Pink, a.Apply("pink"))
	assert.Empty(t, store.data)
	assert.Equal(t, Default, a.Current())

	var nilApplier *Applier
	assert.Equal(t, Orange, nilApplier.Apply("orange"))
}

func TestInit_UsesStoredPreferenceOnce(t *testing.T) {
	doc := newFakeDoc()
	store := newMemStore()
	store.data[StorageKey] = "orange"

	a := NewApplier(doc, store)
	assert.Equal(t, Orange, a.Init())

	store.data[StorageKey] = "green"
	assert.Equal(t, Orange, a.Init())
	assert.Equal(t, 1, doc.writes)
}

func TestInit_CorruptOrUnreadableFallsBack(t *testing.T) {
	store := newMemStore()
	store.data[StorageKey] = "%%garbage%%"
	assert.Equal(t, Purple, NewApplier(newFakeDoc(), store).Init())

	broken := newMemStore()
	broken.getErr = errors.New("storage disabled")
	assert.Equal(t, Purple, NewApplier(newFakeDoc(), broken).Init())
}

func TestInit_ExplicitPreferenceWins(t *testing.T) {
	doc := newFakeDoc()
	store := newMemStore()
	store.data[StorageKey] = "blue"

	a := NewApplier(doc, store)
	a.Init()
	a.Apply("brown")

	assert.Equal(t, Brown, a.Current())
	assert.Equal(t, Stylesheet(Lookup(Brown)), doc.styles[StyleElementID])
	assert.Equal(t, "brown", store.data[StorageKey])
}

func TestCookieStorage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "themeColor", Value: "yellow"})
	rr := httptest.NewRecorder()

	s := CookieStorage{W: rr, R: req, MaxAge: 24 * time.Hour}
	v, err := s.Get("themeColor")
	require.NoError(t, err)
	assert.Equal(t, "yellow", v)

	require.NoError(t, s.Set("themeColor", "green"))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "green", cookies[0].Value)
	assert.Equal(t, 86400, cookies[0].MaxAge)

	require.NoError(t, s.Set("themeColor", "red"))
	setCookies := rr.Header()["Set-Cookie"]
	require.Len(t, setCookies, 1, "a second Set replaces the first")
	assert.Contains(t, setCookies[0], "themeColor=red")

	assert.Error(t, s.Set("bad key;", "x"))

	_, err = CookieStorage{}.Get("themeColor")
	assert.Error(t, err)
}
