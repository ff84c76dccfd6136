package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/jobfit/internal/db"
	"github.com/jonathan/jobfit/internal/dom/htmldom"
	"github.com/jonathan/jobfit/internal/formfields"
	"github.com/jonathan/jobfit/internal/ingestion"
	"github.com/jonathan/jobfit/internal/matching"
	"github.com/jonathan/jobfit/internal/schemas"
	"github.com/jonathan/jobfit/internal/types"
)

// LocateRequest is the body of POST /v1/locate. Exactly one of URL and HTML is
// required; URL may accompany HTML to name the page it was captured from.
type LocateRequest struct {
	URL  string `json:"url,omitempty" validate:"omitempty,url"`
	HTML string `json:"html,omitempty"`
}

// LocateResponse is the body returned by POST /v1/locate
type LocateResponse struct {
	Record      *types.JobDescriptionRecord `json:"record"`
	Source      ingestion.Source            `json:"source"`
	Platform    string                      `json:"platform"`
	CarriedFrom string                      `json:"carried_from,omitempty"`
	Rendered    bool                        `json:"rendered"`
}

// FitRequest is the body of POST /v1/fit. The job is given as text, an HTML
// snapshot or a URL, checked in that order.
type FitRequest struct {
	JobText string          `json:"job_text,omitempty"`
	HTML    string          `json:"html,omitempty"`
	URL     string          `json:"url,omitempty" validate:"omitempty,url"`
	Resume  json.RawMessage `json:"resume"`
}

// FieldsRequest is the body of POST /v1/fields
type FieldsRequest struct {
	HTML         string          `json:"html" validate:"required"`
	PersonalInfo json.RawMessage `json:"personal_info,omitempty"`
}

// FieldsResponse is the body returned by POST /v1/fields
type FieldsResponse struct {
	Fields    []formfields.Field `json:"fields"`
	Questions []formfields.Field `json:"questions"`
	Fills     []formfields.Fill  `json:"fills"`
}

// decodeRequest reads a JSON body into dst and runs struct validation.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: strings.ToLower(fe.Field()), Message: fmt.Sprintf("failed %q check", fe.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// locate runs ingestion for a request carrying a URL, HTML, or both.
func (s *Server) locate(r *http.Request, url, html string) (*ingestion.Result, error) {
	if html != "" {
		return s.ingestion.FromHTML(r.Context(), url, html)
	}
	return s.ingestion.FromURL(r.Context(), url)
}

// handleLocate finds the job description on a page
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var req LocateRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}
	if req.URL == "" && req.HTML == "" {
		s.errorFromErr(w, &ErrValidation{Field: "url", Message: "one of url or html is required"})
		return
	}

	res, err := s.locate(r, req.URL, req.HTML)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, LocateResponse{
		Record:      res.Record,
		Source:      res.Source,
		Platform:    string(res.Platform),
		CarriedFrom: res.CarriedFrom,
		Rendered:    res.Rendered,
	})
}

// handleFit scores a résumé against a job description
func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req FitRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}
	if len(req.Resume) == 0 || string(req.Resume) == "null" {
		s.errorFromErr(w, &ErrValidation{Field: "resume", Message: "required"})
		return
	}
	if req.JobText == "" && req.HTML == "" && req.URL == "" {
		s.errorFromErr(w, &ErrValidation{Field: "job_text", Message: "one of job_text, html or url is required"})
		return
	}

	resume, err := schemas.DecodeResumeData(req.Resume)
	if err != nil {
		s.errorFromErr(w, fmt.Errorf("resume: %w", err))
		return
	}

	jobText := req.JobText
	var page matching.PageInfo
	var saveURL string

	if jobText == "" {
		res, err := s.locate(r, req.URL, req.HTML)
		if err != nil {
			s.errorFromErr(w, err)
			return
		}
		jobText = res.Record.Text
		page = matching.PageInfoFromDocument(res.Document)
		switch res.Source {
		case ingestion.SourceLocated:
			saveURL = res.URL
		case ingestion.SourceCarriedOver:
			saveURL = res.CarriedFrom
		}
	}

	result := s.scorer.Score(jobText, page, resume)
	if result == nil {
		s.errorFromErr(w, &ErrNotApplicable{Reason: "job text is empty"})
		return
	}

	if err := s.ingestion.SaveFitScore(r.Context(), saveURL, result); err != nil {
		s.logger.Warn("failed to store fit score", zap.String("url", saveURL), zap.Error(err))
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleFields detects application-form fields and plans autofill values
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	var req FieldsRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	var info *types.PersonalInfo
	if len(req.PersonalInfo) > 0 && string(req.PersonalInfo) != "null" {
		p, err := schemas.DecodePersonalInfo(req.PersonalInfo)
		if err != nil {
			s.errorFromErr(w, fmt.Errorf("personal_info: %w", err))
			return
		}
		info = p
	}

	doc, err := htmldom.Parse(req.HTML)
	if err != nil {
		s.errorFromErr(w, fmt.Errorf("%w: %w", ingestion.ErrParseFailed, err))
		return
	}

	fields := formfields.Scan(doc)
	resp := FieldsResponse{
		Fields:    fields,
		Questions: formfields.Questions(doc),
		Fills:     formfields.Plan(fields, info),
	}
	if resp.Fields == nil {
		resp.Fields = []formfields.Field{}
	}
	if resp.Questions == nil {
		resp.Questions = []formfields.Field{}
	}
	if resp.Fills == nil {
		resp.Fills = []formfields.Fill{}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleLastJobDescription returns the most recently stored job description
func (s *Server) handleLastJobDescription(w http.ResponseWriter, r *http.Request) {
	last, err := s.ingestion.Last(r.Context())
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if last == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "job description"})
		return
	}
	s.jsonResponse(w, http.StatusOK, jobDescriptionResponse(last))
}

// pageURL reads and checks the url query parameter.
func (s *Server) pageURL(r *http.Request) (string, error) {
	u := strings.TrimSpace(r.URL.Query().Get("url"))
	if err := s.validate.Var(u, "required,url"); err != nil {
		return "", &ErrValidation{Field: "url", Message: "a valid url query parameter is required"}
	}
	return u, nil
}

// handleGetJobDescription returns the job description stored for ?url=
func (s *Server) handleGetJobDescription(w http.ResponseWriter, r *http.Request) {
	u, err := s.pageURL(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	jd, err := s.ingestion.Stored(r.Context(), u)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if jd == nil {
		s.errorFromErr(w, &ErrNotFound{Resource: "job description"})
		return
	}
	s.jsonResponse(w, http.StatusOK, jobDescriptionResponse(jd))
}

// handleDeleteJobDescription forgets the job description stored for ?url=
func (s *Server) handleDeleteJobDescription(w http.ResponseWriter, r *http.Request) {
	u, err := s.pageURL(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	deleted, err := s.ingestion.Forget(r.Context(), u)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if !deleted {
		s.errorFromErr(w, &ErrNotFound{Resource: "job description"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JobDescriptionResponse is the stored job description returned by the API
type JobDescriptionResponse struct {
	URL      string                      `json:"url"`
	Platform string                      `json:"platform"`
	Record   *types.JobDescriptionRecord `json:"record"`
	FitScore *types.FitScoreResult       `json:"fit_score,omitempty"`
	Updated  string                      `json:"updated_at"`
}

func jobDescriptionResponse(jd *db.JobDescription) JobDescriptionResponse {
	return JobDescriptionResponse{
		URL:      jd.URL,
		Platform: jd.Platform,
		Record:   jd.Record(),
		FitScore: jd.FitScore,
		Updated:  jd.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
