package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"adboard/internal/domain"
	"adboard/internal/repository"
	"adboard/internal/storage"
)

// AdPage is one page of the ad listing.
type AdPage struct {
	Items    []domain.Ad
	Page     int
	NumPages int
	Total    int
}

// CreateAdInput carries every field of a new ad; Image optionally references
// an object already in the image store.
type CreateAdInput struct {
	Name        string
	AuthorID    int64
	Price       int64
	Description string
	IsPublished bool
	CategoryID  int64
	Image       *string
}

// UpdateAdInput overwrites only the non-nil fields. Author and category are
// always re-resolved.
type UpdateAdInput struct {
	Name        *string
	Price       *int64
	Description *string
	IsPublished *bool
	AuthorID    int64
	CategoryID  int64
}

// ImageUpload is a file received for an ad.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AdService coordinates ad level operations backed by repositories and the image store.
type AdService interface {
	List(ctx context.Context, filter domain.AdFilter, page string) (*AdPage, error)
	Get(ctx context.Context, id int64) (*domain.Ad, error)
	Create(ctx context.Context, input CreateAdInput) (*domain.Ad, error)
	Update(ctx context.Context, id int64, input UpdateAdInput) (*domain.Ad, error)
	AttachImage(ctx context.Context, id int64, upload *ImageUpload) (*domain.Ad, error)
	Delete(ctx context.Context, id int64) error
	ImageURL(ctx context.Context, ad *domain.Ad) (*string, error)
}

// AdServiceConfig groups the non-repository settings of the ad service.
type AdServiceConfig struct {
	PageSize       int
	ImageKeyPrefix string
	Logger         logrus.FieldLogger
}

type adService struct {
	ads        repository.AdRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	images     storage.Service
	cfg        AdServiceConfig
}

func NewAdService(
	ads repository.AdRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	images storage.Service,
	cfg AdServiceConfig,
) AdService {
	if cfg.PageSize <= 0 {
		panic("service: ad page size must be positive")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	cfg.ImageKeyPrefix = strings.Trim(cfg.ImageKeyPrefix, "/")
	if cfg.ImageKeyPrefix == "" {
		cfg.ImageKeyPrefix = "ads"
	}
	return &adService{
		ads:        ads,
		users:      users,
		categories: categories,
		images:     images,
		cfg:        cfg,
	}
}

func (s *adService) List(ctx context.Context, filter domain.AdFilter, page string) (*AdPage, error) {
	total, err := s.ads.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	p := Paginate(total, s.cfg.PageSize, page)
	items := []domain.Ad{}
	if total > 0 {
		items, err = s.ads.List(ctx, filter, p.Limit, p.Offset)
		if err != nil {
			return nil, err
		}
	}

	return &AdPage{
		Items:    items,
		Page:     p.Number,
		NumPages: p.NumPages,
		Total:    p.Total,
	}, nil
}

func (s *adService) Get(ctx context.Context, id int64) (*domain.Ad, error) {
	return s.ads.Get(ctx, id)
}

func (s *adService) Create(ctx context.Context, input CreateAdInput) (*domain.Ad, error) {
	if err := s.resolveReferences(ctx, input.AuthorID, input.CategoryID); err != nil {
		return nil, err
	}

	var image *string
	if input.Image != nil && strings.TrimSpace(*input.Image) != "" {
		key, err := storage.CleanKey(*input.Image)
		if err != nil {
			return nil, domain.Invalid("image", fmt.Sprintf("image key %q is not a valid object key", *input.Image))
		}
		if !strings.HasPrefix(key, s.cfg.ImageKeyPrefix+"/") {
			return nil, domain.Invalid("image", fmt.Sprintf("image must reference an object under %q", s.cfg.ImageKeyPrefix+"/"))
		}
		image = &key
	}

	ad := &domain.Ad{
		Name:        input.Name,
		AuthorID:    input.AuthorID,
		Price:       input.Price,
		Description: input.Description,
		IsPublished: input.IsPublished,
		CategoryID:  input.CategoryID,
		Image:       image,
	}
	if _, err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	return s.ads.Get(ctx, ad.ID)
}

// Update resolves every reference before writing so a missing author or
// category leaves the stored ad untouched.
func (s *adService) Update(ctx context.Context, id int64, input UpdateAdInput) (*domain.Ad, error) {
	ad, err := s.ads.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, input.AuthorID, input.CategoryID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		ad.Name = *input.Name
	}
	if input.Price != nil {
		ad.Price = *input.Price
	}
	if input.Description != nil {
		ad.Description = *input.Description
	}
	if input.IsPublished != nil {
		ad.IsPublished = *input.IsPublished
	}
	ad.AuthorID = input.AuthorID
	ad.CategoryID = input.CategoryID

	if err := s.ads.Update(ctx, ad); err != nil {
		return nil, err
	}
	return s.ads.Get(ctx, id)
}

// AttachImage stores upload as the ad image, or clears the image when upload is nil.
// The replaced object is removed best-effort.
func (s *adService) AttachImage(ctx context.Context, id int64, upload *ImageUpload) (*domain.Ad, error) {
	ad, err := s.ads.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	logger := s.cfg.Logger.WithField("ad_id", id)

	var key *string
	if upload != nil {
		k := s.imageKey(id, upload.Filename)
		contentType := upload.ContentType
		if contentType == "" || contentType == "application/octet-stream" {
			if byExt := mime.TypeByExtension(filepath.Ext(k)); byExt != "" {
				contentType = byExt
			}
		}
		if err := s.images.Put(ctx, k, upload.Body, contentType); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		key = &k
	}

	if err := s.ads.UpdateImage(ctx, id, key); err != nil {
		if key != nil {
			if delErr := s.images.Delete(ctx, *key); delErr != nil {
				logger.Warnf("remove orphaned image %s: %v", *key, delErr)
			}
		}
		return nil, err
	}

	if ad.Image != nil && (key == nil || *ad.Image != *key) {
		if err := s.images.Delete(ctx, *ad.Image); err != nil {
			logger.Warnf("remove replaced image %s: %v", *ad.Image, err)
		}
	}

	return s.ads.Get(ctx, id)
}

func (s *adService) Delete(ctx context.Context, id int64) error {
	ad, err := s.ads.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ads.Delete(ctx, id); err != nil {
		return err
	}

	logger := s.cfg.Logger.WithField("ad_id", id)
	prefix := s.adImagePrefix(id)
	if err := s.images.DeletePrefix(ctx, prefix); err != nil {
		logger.Warnf("remove images under %s: %v", prefix, err)
	}
	if ad.Image != nil && !strings.HasPrefix(*ad.Image, prefix) {
		if err := s.images.Delete(ctx, *ad.Image); err != nil {
			logger.Warnf("remove image %s: %v", *ad.Image, err)
		}
	}
	return nil
}

func (s *adService) ImageURL(ctx context.Context, ad *domain.Ad) (*string, error) {
	if ad == nil || ad.Image == nil {
		return nil, nil
	}
	url, err := s.images.URL(ctx, *ad.Image)
	if err != nil {
		return nil, fmt.Errorf("resolve image url: %w", err)
	}
	return &url, nil
}

func (s *adService) resolveReferences(ctx context.Context, authorID, categoryID int64) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return err
	}
	return nil
}

func (s *adService) adImagePrefix(id int64) string {
	return fmt.Sprintf("%s/ad-%d/", s.cfg.ImageKeyPrefix, id)
}

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

func (s *adService) imageKey(id int64, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return s.adImagePrefix(id) + uuid.NewString() + ext
}
