package service

import (
	"context"
	"crypto/subtle"
	"time"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/session"

	"golang.org/x/crypto/bcrypt"
)

// AdminService covers the authenticated moderation surface: sessions, the
// dashboard, and direct entry manipulation.
type AdminService struct {
	entryRepo  repository.EntryRepository
	reportRepo repository.ReportRepository
	sessions   *session.Store

	passkey     string
	passkeyHash string
	secret      string
	ttl         time.Duration
}

func NewAdminService(
	entryRepo repository.EntryRepository,
	reportRepo repository.ReportRepository,
	sessions *session.Store,
	passkey, passkeyHash, secret string,
	ttl time.Duration,
) *AdminService {
	return &AdminService{
		entryRepo:   entryRepo,
		reportRepo:  reportRepo,
		sessions:    sessions,
		passkey:     passkey,
		passkeyHash: passkeyHash,
		secret:      secret,
		ttl:         ttl,
	}
}

// Login checks the passkey and mints a session token. The bcrypt hash wins
// over the plaintext passkey when both are configured.
func (s *AdminService) Login(ctx context.Context, passkey string) (string, error) {
	if passkey == "" {
		return "", models.NewUnauthorizedError("Passkey is required")
	}

	if s.passkeyHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.passkeyHash), []byte(passkey)) != nil {
			return "", models.NewUnauthorizedError("Invalid passkey")
		}
	} else if subtle.ConstantTimeCompare([]byte(s.passkey), []byte(passkey)) != 1 {
		return "", models.NewUnauthorizedError("Invalid passkey")
	}

	token, _, err := s.sessions.Issue(ctx, s.secret, s.ttl)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// Logout revokes the session behind the token.
func (s *AdminService) Logout(ctx context.Context, jti string) error {
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Authorize validates a token and confirms its session is still active.
func (s *AdminService) Authorize(ctx context.Context, token string) (string, error) {
	jti, err := session.Verify(token, s.secret)
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid or expired session")
	}
	if !s.sessions.Active(ctx, jti) {
		return "", models.NewUnauthorizedError("Session has been revoked")
	}
	return jti, nil
}

// SoftDelete moves an entry to the recycle bin. Already-deleted entries are
// left as they are.
func (s *AdminService) SoftDelete(ctx context.Context, id uint) error {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return models.NewNotFoundError("Entry", id)
	}
	if entry.Deleted {
		return nil
	}
	now := time.Now()
	entry.Deleted = true
	entry.DeletedAt = &now
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Restore brings an entry back from the recycle bin with its ledgers intact.
func (s *AdminService) Restore(ctx context.Context, id uint) error {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return models.NewNotFoundError("Entry", id)
	}
	if !entry.Deleted {
		return models.NewValidationError("Entry is not in the recycle bin")
	}
	entry.Deleted = false
	entry.DeletedAt = nil
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Purge removes an entry permanently, comments and ledger rows included.
func (s *AdminService) Purge(ctx context.Context, id uint) error {
	if _, err := s.entryRepo.GetByID(ctx, id); err != nil {
		return models.NewNotFoundError("Entry", id)
	}
	if err := s.entryRepo.HardDelete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// TogglePin flips the pinned flag and returns the new state.
func (s *AdminService) TogglePin(ctx context.Context, id uint) (bool, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return false, models.NewNotFoundError("Entry", id)
	}
	if entry.Deleted {
		return false, models.NewLockedError("Entry has been deleted")
	}
	entry.IsPinned = !entry.IsPinned
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return false, models.NewInternalError(err)
	}
	return entry.IsPinned, nil
}

// AdjustVotes applies signed deltas to the displayed counters, clamped so
// neither goes below zero, and marks the entry manipulated from this point
// on. The first adjustment starts from the ledger tallies; later ones run
// against the stored override counters.
func (s *AdminService) AdjustVotes(ctx context.Context, id uint, upvoteChange, downvoteChange int) (*models.EntryView, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewNotFoundError("Entry", id)
	}
	baseUp, baseDown := entry.Upvotes, entry.Downvotes
	if !entry.Manipulated {
		baseUp, baseDown = entry.TalliedUpvotes, entry.TalliedDownvotes
	}
	newUp := baseUp + upvoteChange
	if newUp < 0 {
		newUp = 0
	}
	newDown := baseDown + downvoteChange
	if newDown < 0 {
		newDown = 0
	}
	now := time.Now()
	entry.Upvotes = newUp
	entry.Downvotes = newDown
	entry.Manipulated = true
	entry.ManipulatedAt = &now
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, models.NewInternalError(err)
	}
	return entry.View(), nil
}

// BrowserInfo exposes the submitter metadata blob of an entry.
func (s *AdminService) BrowserInfo(ctx context.Context, id uint) (string, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return "", models.NewNotFoundError("Entry", id)
	}
	return entry.BrowserInfo, nil
}

// Dashboard assembles the stats block, both flagged rollups, and the current
// recycle bin contents.
func (s *AdminService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var dashboard models.Dashboard
	err := cache.Aside(ctx, cache.DashboardKey, &dashboard, cache.DashboardTTL, func() error {
		stats, err := s.entryRepo.Stats(ctx)
		if err != nil {
			return err
		}
		dashboard.Stats = *stats

		if dashboard.FlaggedEntries, err = s.reportRepo.FlaggedEntries(ctx); err != nil {
			return err
		}
		if dashboard.FlaggedComments, err = s.reportRepo.FlaggedComments(ctx); err != nil {
			return err
		}

		deleted, err := s.entryRepo.ListDeleted(ctx)
		if err != nil {
			return err
		}
		dashboard.RecycleBin = make([]*models.EntryView, 0, len(deleted))
		for _, entry := range deleted {
			dashboard.RecycleBin = append(dashboard.RecycleBin, entry.View())
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &dashboard, nil
}
