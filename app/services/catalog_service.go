package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/arstoys/app/filters"
	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/cache"
	"github.com/shashiranjanraj/arstoys/pkg/images"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/validate"
	"github.com/shashiranjanraj/arstoys/pkg/workerpool"
)

const catalogNamespace = "catalog"

// CatalogCache caches product listings. *cache.Store satisfies it.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}) error
	Version(ctx context.Context, namespace string) int64
	Bump(ctx context.Context, namespace string)
}

// ProductInput carries product fields from a request. A nil field was not
// supplied: Create requires name, category, price, age and desc, and Update
// leaves nil fields untouched.
type ProductInput struct {
	Name          *string          `json:"name"          validate:"nullable,max=255"`
	Category      *string          `json:"category"      validate:"nullable,in=educational,outdoor,creative,vehicles,stuffed,electronic"`
	Emoji         *string          `json:"emoji"         validate:"nullable,max=32"`
	Img           *string          `json:"img"           validate:"nullable,max=1024"`
	Price         *decimal.Decimal `json:"price"         validate:"nullable,gte=0"`
	OriginalPrice *decimal.Decimal `json:"originalPrice" validate:"nullable,gte=0"`
	Age           *string          `json:"age"           validate:"nullable,max=64"`
	Desc          *string          `json:"desc"`
	Badge         *string          `json:"badge"`
	Bg            *string          `json:"bg"            validate:"nullable,max=32"`
	InStock       *bool            `json:"inStock"`
	Rating        *float64         `json:"rating"        validate:"nullable,gte=0,lte=5"`
	Reviews       *int             `json:"reviews"       validate:"nullable,gte=0"`
}

// CatalogService implements the product catalog.
type CatalogService struct {
	products ProductStore
	images   ImageStore
	jobs     Scheduler
	cache    CatalogCache
	now      func() time.Time
}

// NewCatalogService wires the catalog. jobs and c may be nil: releases then
// run inline and listings are read straight from the store.
func NewCatalogService(products ProductStore, imgs ImageStore, jobs Scheduler, c CatalogCache) *CatalogService {
	return &CatalogService{products: products, images: imgs, jobs: jobs, cache: c, now: time.Now}
}

// List returns products matching the category and search parameters,
// newest first.
func (s *CatalogService) List(ctx context.Context, q url.Values) ([]models.Product, error) {
	pred := filters.Build(filters.Products, q)

	var key string
	if s.cache != nil {
		key = cache.VersionedKey(catalogNamespace, s.cache.Version(ctx, catalogNamespace), pred.Key())
		var cached []models.Product
		if s.cache.Get(ctx, key, &cached) {
			return cached, nil
		}
	}

	products, err := s.products.List(ctx, pred)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, products); err != nil {
			logger.WithCtx(ctx).Warn("catalog: cache set failed", "error", err)
		}
	}
	return products, nil
}

// Get returns one product.
func (s *CatalogService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create validates in, stores the optional upload and persists the product.
func (s *CatalogService) Create(ctx context.Context, in ProductInput, upload *images.Upload) (models.Product, error) {
	if err := checkProductInput(in, true); err != nil {
		return models.Product{}, err
	}

	now := s.now()
	p := models.Product{
		ID:        uuid.NewString(),
		Emoji:     models.DefaultEmoji,
		Badge:     models.BadgeNew,
		Bg:        models.DefaultBg,
		InStock:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyProductInput(&p, in)

	var stored images.Ref
	if upload != nil {
		ref, err := s.images.Store(ctx, upload.Data, upload.Meta)
		if err != nil {
			return models.Product{}, err
		}
		stored = ref
		p.Img, p.ImageKey = ref.URL, ref.Key
	}

	if err := s.products.Create(ctx, &p); err != nil {
		s.releaseNow(ctx, stored)
		return models.Product{}, err
	}

	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("catalog: product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// Update applies the supplied fields. A new image replaces the old one,
// which is released in the background once the update has committed.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput, upload *images.Upload) (models.Product, error) {
	if err := checkProductInput(in, false); err != nil {
		return models.Product{}, err
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	old := images.Ref{Key: p.ImageKey, URL: p.Img}

	// Edit forms echo the current URL back; only a different one detaches
	// the stored file.
	replaced := in.Img != nil && strings.TrimSpace(*in.Img) != old.URL
	applyProductInput(&p, in)
	if replaced {
		p.ImageKey = ""
	}

	var stored images.Ref
	if upload != nil {
		ref, err := s.images.Store(ctx, upload.Data, upload.Meta)
		if err != nil {
			return models.Product{}, err
		}
		stored = ref
		p.Img, p.ImageKey = ref.URL, ref.Key
	}
	p.UpdatedAt = s.now()

	if err := s.products.Save(ctx, &p); err != nil {
		s.releaseNow(ctx, stored)
		return models.Product{}, err
	}

	if !old.IsZero() && old.Key != p.ImageKey {
		s.releaseLater(ctx, old)
	}
	s.invalidate(ctx)
	return p, nil
}

// Delete removes a product and releases its stored image, if any.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	p, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if p.ImageKey != "" {
		s.releaseNow(ctx, images.Ref{Key: p.ImageKey, URL: p.Img})
	}
	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("catalog: product deleted", "product_id", id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Bump(ctx, catalogNamespace)
	}
}

// releaseNow releases ref, logging failures: the product change has
// already committed, so an orphaned file is not worth failing the request.
func (s *CatalogService) releaseNow(ctx context.Context, ref images.Ref) {
	if ref.IsZero() || s.images == nil {
		return
	}
	if err := s.images.Release(ctx, ref); err != nil {
		logger.WithCtx(ctx).Warn("catalog: image release failed", "key", ref.Key, "error", err)
	}
}

// releaseLater hands the release to the worker pool, falling back to an
// inline release when the pool is saturated or gone.
func (s *CatalogService) releaseLater(ctx context.Context, ref images.Ref) {
	if s.jobs == nil {
		s.releaseNow(ctx, ref)
		return
	}
	err := s.jobs.Submit("release image "+ref.Key, func(jobCtx context.Context) error {
		return s.images.Release(jobCtx, ref)
	})
	if errors.Is(err, workerpool.ErrPoolFull) || errors.Is(err, workerpool.ErrPoolClosed) {
		s.releaseNow(ctx, ref)
	} else if err != nil {
		logger.WithCtx(ctx).Warn("catalog: schedule image release", "key", ref.Key, "error", err)
	}
}

var requiredProductFields = []struct {
	name    string
	present func(ProductInput) bool
}{
	{"name", func(in ProductInput) bool { return notBlank(in.Name) }},
	{"category", func(in ProductInput) bool { return notBlank(in.Category) }},
	{"price", func(in ProductInput) bool { return in.Price != nil }},
	{"age", func(in ProductInput) bool { return notBlank(in.Age) }},
	{"desc", func(in ProductInput) bool { return notBlank(in.Desc) }},
}

// checkProductInput enforces the product constraints. On create every
// required field must be present; on update only the supplied ones are
// checked, and none of them may be blanked.
func checkProductInput(in ProductInput, create bool) error {
	for _, f := range requiredProductFields {
		if f.present(in) {
			continue
		}
		if create || suppliedBlank(f.name, in) {
			return apperr.Validation("The %s field is required.", f.name)
		}
	}

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return apperr.Validation("%s", validate.First(errs))
	}

	if in.Badge != nil {
		if _, ok := models.ParseBadge(strings.TrimSpace(*in.Badge)); !ok {
			return apperr.Validation("The selected badge is invalid.")
		}
	}
	return nil
}

func suppliedBlank(field string, in ProductInput) bool {
	switch field {
	case "name":
		return in.Name != nil
	case "category":
		return in.Category != nil
	case "age":
		return in.Age != nil
	case "desc":
		return in.Desc != nil
	}
	return false
}

func applyProductInput(p *models.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		p.Category = models.Category(strings.TrimSpace(*in.Category))
	}
	if in.Emoji != nil && strings.TrimSpace(*in.Emoji) != "" {
		p.Emoji = strings.TrimSpace(*in.Emoji)
	}
	if in.Img != nil {
		p.Img = strings.TrimSpace(*in.Img)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		// Zero clears the strike-through price.
		if in.OriginalPrice.IsZero() {
			p.OriginalPrice = decimal.NullDecimal{}
		} else {
			p.OriginalPrice = decimal.NewNullDecimal(*in.OriginalPrice)
		}
	}
	if in.Age != nil {
		p.Age = strings.TrimSpace(*in.Age)
	}
	if in.Desc != nil {
		p.Desc = strings.TrimSpace(*in.Desc)
	}
	if in.Badge != nil {
		p.Badge, _ = models.ParseBadge(strings.TrimSpace(*in.Badge))
	}
	if in.Bg != nil && strings.TrimSpace(*in.Bg) != "" {
		p.Bg = strings.TrimSpace(*in.Bg)
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.Reviews != nil {
		p.Reviews = *in.Reviews
	}
}

func notBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
