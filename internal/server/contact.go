package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/gin-gonic/gin"
)

// formView is the view model of the contact panel.
type formView struct {
	ID         string
	Fields     contact.Fields
	Submitting bool
	Submitted  bool
	Failure    string
	Errors     map[string]string
}

func newFormView(st contact.State, verr *contact.ValidationError) *formView {
	fv := &formView{
		ID:         st.ID,
		Fields:     st.Fields,
		Submitting: st.Status == contact.Submitting,
		Submitted:  st.Status == contact.Submitted,
		Failure:    st.Failure,
	}
	if verr != nil {
		fv.Errors = verr.Fields
	}
	return fv
}

func (s *Server) handleContactPage(c *gin.Context) {
	form := s.forms.Create()
	data := s.newPageData(c, "Contact")
	data.Form = newFormView(form.State(), nil)
	c.HTML(http.StatusOK, "contact.html", data)
}

// handleContactField records a single field edit. htmx names the edited
// input in HX-Trigger-Name; plain posts name it in "field".
func (s *Server) handleContactField(c *gin.Context) {
	form := s.forms.GetOrCreate(c.PostForm("form"))
	name := c.GetHeader("HX-Trigger-Name")
	if name == "" {
		name = c.PostForm("field")
	}
	if err := form.SetField(name, c.PostForm(name)); err != nil {
		c.String(http.StatusBadRequest, "unknown field")
		return
	}
	c.Status(http.StatusNoContent)
}

// handleContactSubmit submits the form and waits up to SubmitWait for the
// relay. A submission still pending after that is rendered in the
// submitting state, which polls for the outcome. A post arriving while a
// submission is in flight only waits on that submission.
func (s *Server) handleContactSubmit(c *gin.Context) {
	form := s.forms.GetOrCreate(c.PostForm("form"))

	if pending := form.Pending(); pending != nil {
		s.awaitSubmission(c, pending)
		s.renderContactPanel(c, form, nil)
		return
	}
	for _, name := range contact.FieldNames {
		if v, ok := c.GetPostForm(name); ok {
			_ = form.SetField(name, v)
		}
	}

	sub, err := form.Submit(c.Request.Context())
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		s.renderContactPanel(c, form, verr)
		return
	case errors.Is(err, contact.ErrInFlight):
		s.renderContactPanel(c, form, nil)
		return
	case err != nil:
		c.Error(err)
		s.renderContactPanel(c, form, nil)
		return
	}

	s.awaitSubmission(c, sub)
	s.renderContactPanel(c, form, nil)
}

// awaitSubmission waits up to SubmitWait for sub to resolve. A relay
// failure is attached to the request for the request log.
func (s *Server) awaitSubmission(c *gin.Context, sub *contact.Submission) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.SubmitWait)
	defer cancel()
	res, err := sub.Wait(ctx)
	if err == nil && res.Outcome == contact.Failure {
		_ = c.Error(res.Err)
	}
}

// handleContactStatus renders the current panel; the submitting state polls
// it until the relay resolves.
func (s *Server) handleContactStatus(c *gin.Context) {
	form := s.forms.GetOrCreate(c.Query("form"))
	s.renderContactPanel(c, form, nil)
}

// handleContactReset answers "send another message".
func (s *Server) handleContactReset(c *gin.Context) {
	form := s.forms.GetOrCreate(c.PostForm("form"))
	form.ResetAfterSuccess()
	s.renderContactPanel(c, form, nil)
}

// renderContactPanel answers htmx with the panel fragment and plain form
// posts with the full contact page.
func (s *Server) renderContactPanel(c *gin.Context, form *contact.Form, verr *contact.ValidationError) {
	fv := newFormView(form.State(), verr)
	status := http.StatusOK
	if verr != nil && !isHTMX(c) {
		status = http.StatusUnprocessableEntity
	}
	if isHTMX(c) {
		c.HTML(status, "contact-panel", fv)
		return
	}
	data := s.newPageDataAt(c, "Contact", "/contact")
	data.Form = fv
	c.HTML(status, "contact.html", data)
}
