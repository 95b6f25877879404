package service

import (
	"context"
	"unicode/utf8"

	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/sanitize"
)

const maxCommentContentLen = 500

type CommentService struct {
	commentRepo repository.CommentRepository
	entryRepo   repository.EntryRepository
}

type AddCommentInput struct {
	EntryID    uint
	Content    string
	Identifier models.Identifier
}

func NewCommentService(commentRepo repository.CommentRepository, entryRepo repository.EntryRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, entryRepo: entryRepo}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.CommentView, error) {
	content := sanitize.Clean(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentContentLen {
		return nil, models.NewValidationError("Content too long (max 500 characters)")
	}

	if _, err := liveEntry(ctx, s.entryRepo, in.EntryID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		EntryID:        in.EntryID,
		Content:        content,
		Identifier:     in.Identifier.Value,
		IdentifierType: in.Identifier.Type,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment.View(), nil
}

// ListComments returns the thread of an entry, newest first. Archived and
// soft-deleted entries keep their threads readable; only a missing entry
// fails.
func (s *CommentService) ListComments(ctx context.Context, entryID uint) ([]*models.CommentView, error) {
	if _, err := s.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, models.NewNotFoundError("Entry", entryID)
	}

	comments, err := s.commentRepo.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	views := make([]*models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return views, nil
}
