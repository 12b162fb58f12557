package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"adboard/internal/domain"
	"adboard/internal/service"
)

type AdResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	AuthorID    int64   `json:"author_id"`
	Author      string  `json:"author"`
	Price       int64   `json:"price"`
	Description string  `json:"description"`
	IsPublished bool    `json:"is_published"`
	Image       *string `json:"image"`
	Category    string  `json:"category"`
	CategoryID  int64   `json:"category_id"`
}

type AdListResponse struct {
	Items    []AdResponse `json:"items"`
	NumPages int          `json:"num_pages"`
	Total    int          `json:"total"`
}

type createAdRequest struct {
	Name        string  `json:"name" binding:"required"`
	Author      *int64  `json:"author" binding:"required"`
	Price       *int64  `json:"price" binding:"required"`
	Description *string `json:"description" binding:"required"`
	IsPublished *bool   `json:"is_published" binding:"required"`
	Category    *int64  `json:"category" binding:"required"`
	Image       *string `json:"image"`
}

// updateAdRequest leaves absent and null fields unchanged.
type updateAdRequest struct {
	Name        *string `json:"name"`
	Author      *int64  `json:"author" binding:"required"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
	IsPublished *bool   `json:"is_published"`
	Category    *int64  `json:"category" binding:"required"`
}

func (h *Handler) listAds(c *gin.Context) {
	filter, err := parseAdFilter(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	page, err := h.ads.List(c.Request.Context(), filter, c.Query("page"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := AdListResponse{
		Items:    make([]AdResponse, len(page.Items)),
		NumPages: page.NumPages,
		Total:    page.Total,
	}
	for i := range page.Items {
		item, err := h.adToResponse(c.Request.Context(), &page.Items[i])
		if err != nil {
			h.writeError(c, err)
			return
		}
		resp.Items[i] = item
	}
	c.JSON(http.StatusOK, resp)
}

// getAd reports lookup failures as not found; other failures stay 500s.
func (h *Handler) getAd(c *gin.Context) {
	id, err := pathID(c, "ad")
	if err != nil {
		h.writeError(c, err)
		return
	}

	ad, err := h.ads.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondAd(c, ad)
}

func (h *Handler) createAd(c *gin.Context) {
	var req createAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ad, err := h.ads.Create(c.Request.Context(), service.CreateAdInput{
		Name:        req.Name,
		AuthorID:    *req.Author,
		Price:       *req.Price,
		Description: *req.Description,
		IsPublished: *req.IsPublished,
		CategoryID:  *req.Category,
		Image:       req.Image,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondAd(c, ad)
}

func (h *Handler) updateAd(c *gin.Context) {
	id, err := pathID(c, "ad")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req updateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ad, err := h.ads.Update(c.Request.Context(), id, service.UpdateAdInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		IsPublished: req.IsPublished,
		AuthorID:    *req.Author,
		CategoryID:  *req.Category,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondAd(c, ad)
}

// uploadAdImage replaces the ad image with the multipart "image" file.
// A request without that file clears the image.
func (h *Handler) uploadAdImage(c *gin.Context) {
	id, err := pathID(c, "ad")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var upload *service.ImageUpload
	fileHeader, err := c.FormFile("image")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			h.badRequest(c, fmt.Errorf("open image: %w", err))
			return
		}
		defer file.Close()
		upload = &service.ImageUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.badRequest(c, err)
		return
	}

	ad, err := h.ads.AttachImage(c.Request.Context(), id, upload)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondAd(c, ad)
}

func (h *Handler) deleteAd(c *gin.Context) {
	id, err := pathID(c, "ad")
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.ads.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

func (h *Handler) respondAd(c *gin.Context, ad *domain.Ad) {
	resp, err := h.adToResponse(c.Request.Context(), ad)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) adToResponse(ctx context.Context, ad *domain.Ad) (AdResponse, error) {
	image, err := h.ads.ImageURL(ctx, ad)
	if err != nil {
		return AdResponse{}, err
	}
	return AdResponse{
		ID:          ad.ID,
		Name:        ad.Name,
		AuthorID:    ad.AuthorID,
		Author:      ad.AuthorFirstName,
		Price:       ad.Price,
		Description: ad.Description,
		IsPublished: ad.IsPublished,
		Image:       image,
		Category:    ad.CategoryName,
		CategoryID:  ad.CategoryID,
	}, nil
}

func parseAdFilter(c *gin.Context) (domain.AdFilter, error) {
	var filter domain.AdFilter

	for _, raw := range c.QueryArray("cat") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, domain.Invalid("cat", fmt.Sprintf("category id %q is not an integer", raw))
		}
		filter.CategoryIDs = append(filter.CategoryIDs, id)
	}

	filter.Text = c.Query("text")
	filter.Location = c.Query("location")

	var err error
	if filter.PriceFrom, err = optionalInt(c, "price_from"); err != nil {
		return filter, err
	}
	if filter.PriceTo, err = optionalInt(c, "price_to"); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalInt(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.Invalid(key, fmt.Sprintf("%s must be an integer", key))
	}
	return &v, nil
}
