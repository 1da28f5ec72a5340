package category

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/example/ec-storefront/internal/infrastructure/cache"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/model"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidSlug      = errors.New("invalid slug format")
)

// slugRegex validates slug format (lowercase letters, numbers, hyphens)
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
	repeatedHyphens  = regexp.MustCompile(`-+`)
)

const listCacheTTL = 10 * time.Minute

type Category = model.Category

// Service handles category reads and writes
type Service struct {
	store store.CategoryStore
	cache cache.Cache
	ttl   time.Duration
	log   *zap.SugaredLogger
}

// NewService creates a new category service
func NewService(s store.CategoryStore, c cache.Cache, log *zap.SugaredLogger) *Service {
	return &Service{store: s, cache: c, ttl: listCacheTTL, log: log}
}

// WithCacheTTL overrides how long the category list stays cached.
func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// GetCategories returns active categories ordered by name. The list is
// served from cache when possible; cache errors fall through to the store.
func (s *Service) GetCategories(ctx context.Context) ([]Category, error) {
	key := s.cache.GenerateKey("categories", "active")

	var cached []Category
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.log.Warnw("category cache read failed", "key", key, "err", err)
	}
	if hit {
		return cached, nil
	}

	categories, err := s.store.ListCategories(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	if err := cache.SetJSON(ctx, s.cache, key, categories, s.ttl); err != nil {
		s.log.Warnw("category cache write failed", "key", key, "err", err)
	}
	return categories, nil
}

func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	c, err := s.store.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", slug, err)
	}
	return c, nil
}

// Create creates a new category
func (s *Service) Create(ctx context.Context, name, slug, description, imageURL string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	// Generate slug from name if not provided
	if slug == "" {
		slug = generateSlug(name)
	}
	if !slugRegex.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	c := &Category{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        slug,
		Description: description,
		ImageURL:    imageURL,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := s.store.InsertCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	key := s.cache.GenerateKey("categories", "active")
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warnw("category cache invalidate failed", "key", key, "err", err)
	}
	return c, nil
}

// generateSlug creates a URL-friendly slug from a name. Vietnamese
// diacritics are folded to their base letters first.
func generateSlug(name string) string {
	slug := strings.ToLower(foldDiacritics(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = invalidSlugChars.ReplaceAllString(slug, "")
	slug = repeatedHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	// đ has no decomposition
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}
