package bookmark

import (
	"context"
	"log/slog"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/pkg/pagination"
	"github.com/phamduc/newsdesk/pkg/uuidv7"
)

type Service struct {
	repository Repository
	logger     *slog.Logger
}

func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// ListBookmarks returns the reader's list, newest first.
func (service *Service) ListBookmarks(context context.Context, userID string, params pagination.Params) ([]Listing, int, error) {
	return service.repository.ListByUser(context, userID, params)
}

// AddBookmark pins an article to the reader's list.
//
// A duplicate pin surfaces as a 409 from the unique constraint; an unknown
// article surfaces as a 422 from the foreign key.
func (service *Service) AddBookmark(context context.Context, userID, articleID string) (*Bookmark, error) {
	created := &Bookmark{
		ID:        uuidv7.New(),
		UserID:    userID,
		ArticleID: articleID,
	}

	if err := service.repository.Create(context, created); err != nil {
		return nil, err
	}

	return created, nil
}

// RemoveBookmark deletes a pin. Readers can only unpin their own list.
func (service *Service) RemoveBookmark(context context.Context, userID, id string) error {
	stored, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if stored.UserID != userID {
		return apperr.Forbidden("You can only remove your own bookmarks")
	}

	return service.repository.Delete(context, id)
}
