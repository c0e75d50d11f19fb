package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/policy"
	"github.com/practicelearn/course-portal/internal/repository"
)

// downloadables is the closed allow-list of resource filenames and their
// content types. Download requests are matched against these names only;
// user-supplied paths never reach the blob store, and names off the list
// are indistinguishable from names that do not exist.
var downloadables = map[string]string{
	"wound-assessment-guide.pdf":   "application/pdf",
	"dressing-selection-chart.pdf": "application/pdf",
	"care-plan-templates.docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"documentation-forms.zip":      "application/zip",
}

// ResourceFetcher is the slice of the blob store the gateway needs.
type ResourceFetcher interface {
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}

type ContentUsecase struct {
	content repository.ContentRepository
	store   ResourceFetcher
}

func NewContentUsecase(content repository.ContentRepository, store ResourceFetcher) *ContentUsecase {
	return &ContentUsecase{content: content, store: store}
}

// ListModules returns catalog metadata for any authenticated tier.
// Section bodies and quiz content are never part of the listing.
func (u *ContentUsecase) ListModules(ctx context.Context, tier domain.Tier) ([]*domain.Module, error) {
	if d, err := policy.CanListMetadata(tier); err != nil || !d.Allowed {
		return nil, domain.ErrUnauthorized
	}

	modules, err := u.content.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

// GetModule returns the full module body when the tier satisfies the
// module's requirement. An insufficient tier learns only that an upgrade
// is required — not the module's sections or structure.
func (u *ContentUsecase) GetModule(ctx context.Context, tier domain.Tier, id string) (*domain.Module, error) {
	m, err := u.content.FindModule(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrModuleNotFound) {
			return nil, domain.ErrModuleNotFound
		}
		return nil, fmt.Errorf("find module: %w", err)
	}

	d, err := policy.CanReadModule(tier, m.MinTier)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !d.Allowed {
		return nil, domain.ErrUpgradeRequired
	}
	return m, nil
}

// Download streams an allow-listed resource for paid tiers. The policy
// check runs before the filename lookup so a preview caller learns nothing
// about which names exist.
func (u *ContentUsecase) Download(ctx context.Context, tier domain.Tier, filename string) (io.ReadCloser, string, error) {
	d, err := policy.CanDownload(tier)
	if err != nil {
		return nil, "", domain.ErrUnauthorized
	}
	if !d.Allowed {
		return nil, "", domain.ErrUpgradeRequired
	}

	contentType, ok := downloadables[filename]
	if !ok {
		return nil, "", domain.ErrResourceNotFound
	}

	body, err := u.store.Fetch(ctx, filename)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return body, contentType, nil
}
