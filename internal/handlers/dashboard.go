// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"itab/internal/board"
	"itab/internal/models"
)

// Sites returns the whole document. The WebDAV password never leaves the
// server.
func (a *API) Sites(w http.ResponseWriter, r *http.Request) {
	doc, err := a.board.Document(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// CategoryCreate handles POST /api/categories.
func (a *API) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in board.CategoryInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	cat, err := a.board.CreateCategory(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// CategoryUpdate handles PUT /api/categories/{id}.
func (a *API) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var p board.CategoryPatch
	if err := decode(w, r, &p); err != nil {
		fail(w, r, err)
		return
	}
	cat, err := a.board.UpdateCategory(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CategoryDelete handles DELETE /api/categories/{id}.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.board.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderCategoriesRequest struct {
	CategoryIDs []string `json:"categoryIds"`
}

// CategoriesReorder handles PUT /api/categories/reorder.
func (a *API) CategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderCategoriesRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.CategoryIDs == nil {
		fail(w, r, fmt.Errorf("%w: categoryIds must be an array", board.ErrValidation))
		return
	}
	cats, err := a.board.ReorderCategories(r.Context(), req.CategoryIDs)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// SiteCreate handles POST /api/categories/{id}/sites.
func (a *API) SiteCreate(w http.ResponseWriter, r *http.Request) {
	var in board.SiteInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	site, err := a.board.CreateSite(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

// SiteUpdate handles PUT /api/categories/{id}/sites/{index}.
func (a *API) SiteUpdate(w http.ResponseWriter, r *http.Request) {
	index, err := siteIndex(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var p board.SitePatch
	if err := decode(w, r, &p); err != nil {
		fail(w, r, err)
		return
	}
	site, err := a.board.UpdateSite(r.Context(), chi.URLParam(r, "id"), index, p)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// SiteDelete handles DELETE /api/categories/{id}/sites/{index}.
func (a *API) SiteDelete(w http.ResponseWriter, r *http.Request) {
	index, err := siteIndex(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := a.board.DeleteSite(r.Context(), chi.URLParam(r, "id"), index); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveSiteRequest struct {
	TargetCategoryID string `json:"targetCategoryId"`
}

// SiteMove handles POST /api/categories/{id}/sites/{index}/move and
// returns the target category.
func (a *API) SiteMove(w http.ResponseWriter, r *http.Request) {
	index, err := siteIndex(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req moveSiteRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.TargetCategoryID == "" {
		fail(w, r, fmt.Errorf("%w: targetCategoryId is required", board.ErrValidation))
		return
	}
	cat, err := a.board.MoveSite(r.Context(), chi.URLParam(r, "id"), index, req.TargetCategoryID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

type reorderSitesRequest struct {
	SiteIndices []int `json:"siteIndices"`
}

// SitesReorder handles PUT /api/categories/{id}/sites/reorder.
func (a *API) SitesReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderSitesRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.SiteIndices == nil {
		fail(w, r, fmt.Errorf("%w: siteIndices must be an array", board.ErrValidation))
		return
	}
	sites, err := a.board.ReorderSites(r.Context(), chi.URLParam(r, "id"), req.SiteIndices)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

type replaceSitesRequest struct {
	Sites []*models.Site `json:"sites"`
}

// SitesReplace handles PUT /api/categories/{id}/sites/reorder-full. The
// list is stored as sent.
func (a *API) SitesReplace(w http.ResponseWriter, r *http.Request) {
	var req replaceSitesRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Sites == nil {
		fail(w, r, fmt.Errorf("%w: sites must be an array", board.ErrValidation))
		return
	}
	sites, err := a.board.ReplaceSites(r.Context(), chi.URLParam(r, "id"), req.Sites)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// Search handles GET /api/search?q=.
func (a *API) Search(w http.ResponseWriter, r *http.Request) {
	hits, err := a.board.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}
