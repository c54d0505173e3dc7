package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"redirector/internal/controller"
	"redirector/internal/csvcodec"
	"redirector/internal/domain/models"
	jsonmodels "redirector/internal/domain/models/json"
	"redirector/internal/requests"
	"redirector/internal/session"
	"redirector/internal/storage"
)

// maxUploadMemory is the part of a multipart upload kept in memory.
const maxUploadMemory = 10 << 20

type panelData struct {
	View         controller.View
	Flashes      []session.Flash
	Journal      []models.JournalEntry
	PageNumbers  []int
	PageSizes    []int
	Scopes       []models.SearchScope
	ExportScopes []controller.ExportScope
	Errors       []string
}

// Panel renders the control panel. The first visit of a session loads the list.
func (con *Controller) Panel() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		s := sessionFrom(req)
		if !s.MarkMounted() {
			if err := s.Controller.Mount(req.Context()); err != nil {
				con.sugar.Warnw("loading redirects", "session", s.ID, "error", err)
			}
		}

		v := s.Controller.View()
		data := panelData{
			View:         v,
			Flashes:      s.PopFlashes(),
			PageNumbers:  pageWindow(v.Page, v.Pages),
			PageSizes:    pageSizes,
			Scopes:       models.Scopes,
			ExportScopes: []controller.ExportScope{controller.ExportSelected, controller.ExportFiltered, controller.ExportAll},
		}
		for _, op := range []requests.Op{requests.Get, requests.GetStatistics} {
			if err := v.Requests[op].Err; err != nil {
				data.Errors = append(data.Errors, err.Error())
			}
		}

		journal, err := con.journal.Recent(req.Context(), storage.DefaultRecent)
		if err != nil {
			con.sugar.Warnw("reading journal", "error", err)
		}
		data.Journal = journal

		res.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ExecuteTemplate(res, "panel.html", data); err != nil {
			con.sugar.Errorw("rendering panel", "error", err)
		}
	}
}

// State returns the list state as JSON.
func (con *Controller) State() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		v := sessionFrom(req).Controller.View()

		res.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(res).Encode(viewResponse(v)); err != nil {
			con.sugar.Errorw("encoding state", "error", err)
		}
	}
}

// Search runs a new query.
func (con *Controller) Search() http.HandlerFunc {
	return con.action(func(req *http.Request, s *session.Session) {
		err := s.Controller.Search(req.Context(), req.FormValue("q"), models.ParseScope(req.FormValue("scope")))
		flashError(s, err)
	})
}

// ChangePage moves to another page.
func (con *Controller) ChangePage() http.HandlerFunc {
	return con.action(func(req *http.Request, s *session.Session) {
		page, err := strconv.Atoi(req.FormValue("page"))
		if err != nil {
			s.AddFlash(session.FlashError, "Invalid page number")
			return
		}
		flashError(s, s.Controller.ChangePage(req.Context(), page))
	})
}

// ChangePageSize switches the page size.
func (con *Controller) ChangePageSize() http.HandlerFunc {
	return con.action(func(req *http.Request, s *session.Session) {
		size, err := strconv.Atoi(req.FormValue("size"))
		if err != nil {
			size = 0
		}
		flashError(s, s.Controller.ChangePageSize(req.Context(), size))
	})
}

// Select toggles one path.
func (con *Controller) Select() http.HandlerFunc {
	return con.action(func(req *http.Request, s *session.Session) {
		if path := req.FormValue("path"); path != "" {
			s.Controller.ToggleSelect(path)
		}
	})
}

// SelectAll toggles the selection of the current page.
func (con *Controller) SelectAll() http.HandlerFunc {
	return con.action(func(_ *http.Request, s *session.Session) {
		s.Controller.ToggleSelectAllOnPage()
	})
}

// Add adds one redirect from the form.
func (con *Controller) Add() http.HandlerFunc {
	return con.action(func(req *http.Request, s *session.Session) {
		err := s.Controller.SubmitAdd(req.Context(), req.FormValue("old"), req.FormValue("new"))
		if err != nil {
			flashError(s, err)
			return
		}
		s.AddFlash(session.FlashSuccess, "Redirect has been added")
	})
}

// Remove removes the posted paths, or the selection when none are posted.
func (con *Controller) Remove() http.HandlerFunc {
	return con.action(func(req *http.Request, s *session.Session) {
		var err error
		if paths := req.PostForm["path"]; len(paths) > 0 {
			err = s.Controller.SubmitRemove(req.Context(), paths)
		} else {
			err = s.Controller.RemoveSelected(req.Context())
		}
		if err != nil {
			flashError(s, err)
			return
		}
		s.AddFlash(session.FlashSuccess, "Redirect(s) have been removed")
	})
}

// Import adds every redirect of an uploaded CSV file.
func (con *Controller) Import() http.HandlerFunc {
	return con.action(func(req *http.Request, s *session.Session) {
		if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
			s.AddFlash(session.FlashError, "Please select a CSV file")
			return
		}
		file, header, err := req.FormFile("file")
		if err != nil {
			s.AddFlash(session.FlashError, "Please select a CSV file")
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				con.sugar.Errorw("closing upload", "error", err)
			}
		}()

		n, err := s.Controller.ImportCSV(req.Context(), header.Header.Get("Content-Type"), file)
		switch {
		case errors.Is(err, csvcodec.ErrUnsupportedType):
			s.AddFlash(session.FlashError, "Invalid file type. Please select a CSV file")
		case errors.Is(err, csvcodec.ErrFormat):
			s.AddFlash(session.FlashError, "Failed to import CSV: "+err.Error())
		case n > 0:
			s.AddFlash(session.FlashInfo, fmt.Sprintf("Importing %d redirect(s)...", n))
			flashError(s, err)
		default:
			flashError(s, err)
		}
	})
}

// Export downloads redirects as CSV.
func (con *Controller) Export() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		s := sessionFrom(req)

		scope, err := controller.ParseExportScope(req.URL.Query().Get("scope"))
		if err != nil {
			http.Error(res, err.Error(), http.StatusBadRequest)
			return
		}

		text, filename, err := s.Controller.Export(req.Context(), scope, con.now())
		if err != nil {
			var verr *models.ValidationError
			switch {
			case errors.Is(err, models.ErrNothingSelected), errors.As(err, &verr):
				http.Error(res, err.Error(), http.StatusBadRequest)
			default:
				con.sugar.Errorw("exporting redirects", "scope", scope, "error", err)
				http.Error(res, err.Error(), http.StatusBadGateway)
			}
			return
		}

		res.Header().Set("Content-Type", csvcodec.MIMEType+"; charset=utf-8")
		res.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		if _, err := res.Write([]byte(text)); err != nil {
			con.sugar.Errorw("writing export", "error", err)
		}
	}
}

// Close discards the session.
func (con *Controller) Close() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		con.sessions.Close(res, req)
		http.Redirect(res, req, "./", http.StatusSeeOther)
	}
}

// action runs fn for a form post and redirects back to the panel.
func (con *Controller) action(fn func(req *http.Request, s *session.Session)) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		if err := req.ParseForm(); err != nil {
			http.Error(res, "Bad Request", http.StatusBadRequest)
			return
		}
		fn(req, sessionFrom(req))
		http.Redirect(res, req, "./", http.StatusSeeOther)
	}
}

func flashError(s *session.Session, err error) {
	if err != nil {
		s.AddFlash(session.FlashError, err.Error())
	}
}

func viewResponse(v controller.View) jsonmodels.ViewResponse {
	out := jsonmodels.ViewResponse{
		Query:         v.Query,
		SearchScope:   string(v.Scope),
		Page:          v.Page,
		Pages:         v.Pages,
		BatchSize:     v.PageSize,
		BatchStart:    v.BatchStart,
		ItemsTotal:    v.Total,
		Items:         make([]jsonmodels.ViewItem, len(v.Items)),
		Selected:      v.Selected,
		AllOnPage:     v.AllOnPageSelected,
		AddError:      v.AddError,
		Requests:      make(map[string]jsonmodels.RequestState, len(v.Requests)),
		OldURL:        v.OldURL,
		NewURL:        v.NewURL,
		OldURLCorrect: v.OldURLCorrect,
		NewURLCorrect: v.NewURLCorrect,
	}
	for i, it := range v.Items {
		out.Items[i] = jsonmodels.ViewItem{Path: it.Path, RedirectTo: it.RedirectTo, Selected: it.Selected}
	}
	if st := v.Statistics; st != nil {
		out.Statistics = &jsonmodels.StatisticsBody{Total: st.Total, Internal: st.Internal, External: st.External, Gone: st.Gone}
	}
	for op, st := range v.Requests {
		rs := jsonmodels.RequestState{Loading: st.Loading, Loaded: st.Loaded}
		if st.Err != nil {
			rs.Error = st.Err.Error()
		}
		out.Requests[op.String()] = rs
	}
	return out
}
