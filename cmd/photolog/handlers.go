package main

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/uploads/pkg/binder"
	"github.com/dmitrymomot/uploads/pkg/file"
	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/uploads"
	"github.com/dmitrymomot/uploads/pkg/validator"
)

type postView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Filename  string    `json:"filename"`
	ImgSrc    string    `json:"imgsrc"`
	Published time.Time `json:"published"`
}

func (a *app) view(p post) (postView, error) {
	src, err := a.photos.URL(a.registry, p.Filename)
	if err != nil {
		return postView{}, err
	}
	return postView{
		ID:        p.ID,
		Title:     p.Title,
		Caption:   p.Caption,
		Filename:  p.Filename,
		ImgSrc:    src,
		Published: p.Published,
	}, nil
}

func (a *app) listPosts(w http.ResponseWriter, r *http.Request) {
	posts := a.posts.all()
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		v, err := a.view(p)
		if err != nil {
			a.internalError(w, r, err)
			return
		}
		views = append(views, v)
	}
	respondData(w, http.StatusOK, views)
}

type newPostForm struct {
	Title   string                `form:"title"`
	Caption string                `form:"caption"`
	Photo   *multipart.FileHeader `file:"photo"`
}

func (a *app) createPost(w http.ResponseWriter, r *http.Request) {
	var form newPostForm
	if err := a.bindForm(r, &form); err != nil {
		switch {
		case errors.Is(err, binder.ErrRequestTooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, "request_too_large", "The upload is too large")
		case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
			respondError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
		default:
			respondError(w, http.StatusBadRequest, "invalid_form", err.Error())
		}
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	photoName := ""
	if form.Photo != nil {
		photoName = form.Photo.Filename
	}
	if err := validator.Apply(
		validator.Required("title", form.Title),
		validator.MaxLen("title", form.Title, 200),
		validator.Required("caption", form.Caption),
		validator.MaxLen("caption", form.Caption, 2000),
		validator.Required("photo", photoName),
	); err != nil {
		respondValidation(w, err)
		return
	}

	ctx := r.Context()
	filename, err := a.photos.Save(ctx, a.registry, uploads.FromFileHeader(form.Photo),
		uploads.WithName(uuid.NewString()+"."),
	)
	switch {
	case errors.Is(err, uploads.ErrUploadNotAllowed):
		respondError(w, http.StatusUnprocessableEntity, "upload_not_allowed", "The upload was not allowed")
		return
	case errors.Is(err, uploads.ErrInvalidFilename):
		respondError(w, http.StatusUnprocessableEntity, "invalid_filename", "The photo has no usable filename")
		return
	case err != nil:
		a.internalError(w, r, err)
		return
	}

	p := post{
		ID:        uuid.NewString(),
		Title:     form.Title,
		Caption:   form.Caption,
		Filename:  filename,
		Published: time.Now().UTC(),
	}
	a.posts.add(p)
	a.log.InfoContext(ctx, "post created", "post_id", p.ID, logger.Filename(filename))

	v, err := a.view(p)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, v)
}

func (a *app) deletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := a.posts.remove(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "No such post")
		return
	}

	if err := a.photos.Delete(ctx, a.registry, p.Filename); err != nil && !errors.Is(err, file.ErrFileNotFound) {
		a.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type photoEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

func (a *app) listPhotos(w http.ResponseWriter, r *http.Request) {
	entries, err := a.photos.List(r.Context(), a.registry)
	if err != nil {
		a.internalError(w, r, err)
		return
	}

	out := make([]photoEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		u, err := a.photos.URL(a.registry, e.Name)
		if err != nil {
			a.internalError(w, r, err)
			return
		}
		out = append(out, photoEntry{Name: e.Name, Size: e.Size, URL: u})
	}
	respondData(w, http.StatusOK, out)
}

func respondValidation(w http.ResponseWriter, err error) {
	verrs := validator.ExtractValidationErrors(err)
	details := make(map[string][]string, len(verrs))
	for _, field := range verrs.Fields() {
		details[field] = verrs.Get(field)
	}
	writeJSON(w, http.StatusUnprocessableEntity, jsonResponse{Error: &errorDetail{
		Code:    "validation_error",
		Message: "You must fill in all the fields",
		Details: details,
	}})
}

func (a *app) internalError(w http.ResponseWriter, r *http.Request, err error) {
	a.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
	respondError(w, http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError))
}
