package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openContactForm(t *testing.T, f *fixture) string {
	t.Helper()
	w := f.get("/contact")
	require.Equal(t, http.StatusOK, w.Code)
	id := parseHTML(t, w).Find(`#contact-form input[name="form"]`).AttrOr("value", "")
	require.NotEmpty(t, id)
	return id
}

func validSubmission(form string) url.Values {
	return url.Values{
		"form":    {form},
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"subject": {"Engines"},
		"message": {"Hello there"},
	}
}

func panelStatus(doc *goquery.Document) string {
	return doc.Find("#contact-panel").AttrOr("data-status", "")
}

func TestContactSubmitSuccess(t *testing.T) {
	f := newFixture(t, nil, Config{})
	form := openContactForm(t, f)

	w := f.post("/contact", validSubmission(form), true)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w)
	assert.Equal(t, "submitted", panelStatus(doc))
	assert.Contains(t, doc.Find(".contact-success h2").Text(), "Message Sent Successfully!")
	assert.EqualValues(t, 1, f.relay.calls.Load())

	msgs, err := f.db.RecentMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, store.StatusSent, msgs[0].Status)
	assert.Equal(t, form, msgs[0].FormID)
	assert.Equal(t, "Engines", msgs[0].Subject)

	w = f.post("/contact/reset", url.Values{"form": {form}}, true)
	doc = parseHTML(t, w)
	assert.Equal(t, "idle", panelStatus(doc))
	assert.Empty(t, doc.Find(`input[name="name"]`).AttrOr("value", "x"))
	assert.Empty(t, doc.Find(`textarea[name="message"]`).Text())
}

func TestContactSubmitFailureKeepsInput(t *testing.T) {
	f := newFixture(t, &stubRelay{err: errors.New("relay down")}, Config{})
	form := openContactForm(t, f)

	w := f.post("/contact", validSubmission(form), true)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w)
	assert.Equal(t, "failed", panelStatus(doc))
	assert.Equal(t, contact.FailureMessage, doc.Find(".contact-error").Text())
	assert.Equal(t, "Ada Lovelace", doc.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Equal(t, "ada@example.com", doc.Find(`input[name="email"]`).AttrOr("value", ""))
	assert.Equal(t, "Hello there", doc.Find(`textarea[name="message"]`).Text())

	msgs, err := f.db.RecentMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, store.StatusFailed, msgs[0].Status)
	assert.Contains(t, msgs[0].Error, "relay down")

	// Reset only applies after success.
	w = f.post("/contact/reset", url.Values{"form": {form}}, true)
	assert.Equal(t, "failed", panelStatus(parseHTML(t, w)))
}

func TestContactValidationBlocksRelay(t *testing.T) {
	f := newFixture(t, nil, Config{})
	form := openContactForm(t, f)

	values := validSubmission(form)
	values.Set("email", "not-an-email")
	values.Del("subject")

	w := f.post("/contact", values, true)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w)
	assert.Equal(t, "idle", panelStatus(doc))
	assert.Equal(t, 1, doc.Find(`.field-error[data-field="email"]`).Length())
	assert.Equal(t, 1, doc.Find(`.field-error[data-field="subject"]`).Length())
	assert.Equal(t, 0, doc.Find(`.field-error[data-field="name"]`).Length())
	assert.Equal(t, "Ada Lovelace", doc.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Zero(t, f.relay.calls.Load())
}

func TestContactValidationWithoutHTMXRendersPage(t *testing.T) {
	f := newFixture(t, nil, Config{})
	form := openContactForm(t, f)

	w := f.post("/contact", url.Values{"form": {form}}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	doc := parseHTML(t, w)
	assert.Equal(t, []string{"contact"}, activeEntries(doc))
	assert.Equal(t, 4, doc.Find(".field-error").Length())
	assert.Zero(t, f.relay.calls.Load())
}

func TestContactSecondSubmitWhileInFlight(t *testing.T) {
	relay := &stubRelay{release: make(chan struct{})}
	f := newFixture(t, relay, Config{SubmitWait: 20 * time.Millisecond})
	form := openContactForm(t, f)

	w := f.post("/contact", validSubmission(form), true)
	doc := parseHTML(t, w)
	assert.Equal(t, "submitting", panelStatus(doc))
	_, disabled := doc.Find(`#contact-form button[type="submit"]`).Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, 1, doc.Find(".contact-poll").Length())

	changed := validSubmission(form)
	changed.Set("subject", "Something else")
	w = f.post("/contact", changed, true)
	assert.Equal(t, "submitting", panelStatus(parseHTML(t, w)))
	assert.EqualValues(t, 1, relay.calls.Load())

	close(relay.release)
	assert.Eventually(t, func() bool {
		w := f.get("/contact/status?form=" + form)
		return panelStatus(parseHTML(t, w)) == "submitted"
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, relay.calls.Load())

	msgs, err := f.db.RecentMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Engines", msgs[0].Subject)
}

func TestContactFieldEdits(t *testing.T) {
	f := newFixture(t, nil, Config{})
	form := openContactForm(t, f)

	req := newFormRequest("/contact/field", url.Values{"form": {form}, "name": {"Grace"}})
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Trigger-Name", "name")
	assert.Equal(t, http.StatusNoContent, f.do(req).Code)

	w := f.post("/contact/field", url.Values{"form": {form}, "field": {"email"}, "email": {"grace@example.com"}}, false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.post("/contact/field", url.Values{"form": {form}, "field": {"phone"}, "phone": {"555"}}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/contact/status?form="+form, nil)
	req.Header.Set("HX-Request", "true")
	doc := parseHTML(t, f.do(req))
	assert.Equal(t, "Grace", doc.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Equal(t, "grace@example.com", doc.Find(`input[name="email"]`).AttrOr("value", ""))
}

func TestContactUnknownFormStartsFresh(t *testing.T) {
	f := newFixture(t, nil, Config{})

	w := f.post("/contact", validSubmission("gone"), true)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w)
	assert.Equal(t, "submitted", panelStatus(doc))
	assert.NotEqual(t, "gone", doc.Find("#contact-panel").AttrOr("data-form", ""))
}
