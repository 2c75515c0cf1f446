// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/validation"
	"gigdial/internal/models"
	bookingintent "gigdial/internal/workers/booking/booking-intent"
	sendcontactmessage "gigdial/internal/workers/booking/send-contact-message"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
	searchgigs "gigdial/internal/workers/catalog/search-gigs"
	getworkerprofile "gigdial/internal/workers/directory/get-worker-profile"
	listapprovedworkers "gigdial/internal/workers/directory/list-approved-workers"
	listcities "gigdial/internal/workers/locations/list-cities"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.WriteHTTPError(w, err)
	fields := map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"retryable": stdErr.Retryable,
	}
	if stdErr.Details != "" {
		fields["details"] = stdErr.Details
	}
	logger.FromContext(r.Context(), s.logger).Warn("request failed", fields)
}

// GET /api/catalog/rows
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	// Rows carry their own error state; the page renders either way.
	writeJSON(w, http.StatusOK, s.opts.Handlers.Rows.Build(r.Context()))
}

// GET /api/catalog/classify?category=...
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	out, err := s.opts.Handlers.Classify.Execute(r.Context(), &classifycategory.Input{
		Categories: r.URL.Query()["category"],
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/catalog/search?q=&bucket=&from=&size=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := intParam(q.Get("from"))
	if err != nil {
		s.writeError(w, r, apperrors.NewInvalidInputError("from must be an integer"))
		return
	}
	size, err := intParam(q.Get("size"))
	if err != nil {
		s.writeError(w, r, apperrors.NewInvalidInputError("size must be an integer"))
		return
	}

	out, err := s.opts.Handlers.Search.Execute(r.Context(), &searchgigs.Input{
		Query:  q.Get("q"),
		Bucket: classifycategory.Bucket(q.Get("bucket")),
		From:   from,
		Size:   size,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func intParam(v string) (int, error) {
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// GET /api/directory/workers?search=&category=
func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.opts.Handlers.Workers.Execute(r.Context(), &listapprovedworkers.Input{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/directory/workers/{id}
func (s *Server) handleWorkerProfile(w http.ResponseWriter, r *http.Request) {
	out, err := s.opts.Handlers.Profile.Execute(r.Context(), &getworkerprofile.Input{
		WorkerID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/booking/intents
func (s *Server) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var in bookingintent.CreateInput
	if err := s.opts.Schemas.DecodeAndValidate(r.Body, validation.SchemaBookingIntent, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.opts.Handlers.Intents.Create(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// POST /api/booking/intents/{id}/resume
func (s *Server) handleResumeIntent(w http.ResponseWriter, r *http.Request) {
	out, err := s.opts.Handlers.Intents.Resume(r.Context(), r.PathValue("id"))
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeIntentConsumed) {
			// The client only needs to know not to reopen the dialog.
			writeJSON(w, http.StatusGone, map[string]interface{}{
				"openDialog": false,
				"error":      apperrors.AsStandard(err),
			})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/booking/intents/{id}/dismiss
func (s *Server) handleDismissIntent(w http.ResponseWriter, r *http.Request) {
	out, err := s.opts.Handlers.Intents.Dismiss(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/messages
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var in sendcontactmessage.Input
	if err := s.opts.Schemas.DecodeAndValidate(r.Body, validation.SchemaContactMessage, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Identity comes from the session only.
	in.UserID, in.Token = "", ""

	out, err := s.opts.Handlers.Messages.Execute(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// POST /api/users
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.Registration
	if err := s.opts.Schemas.DecodeAndValidate(r.Body, validation.SchemaRegistration, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.opts.Handlers.Register.Execute(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// GET /api/cities
func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Handlers.Cities.Execute(r.Context(), &listcities.Input{}))
}
