package service

import (
	"context"
	"time"

	"github.com/hearthfire/questboard/internal/model"
)

// UserRepositoryInterface defines the repository interface
type UserRepositoryInterface interface {
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id model.UserID) (*model.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id model.UserID) error
}

// UserIDAllocator allocates user IDs
type UserIDAllocator interface {
	NextUserID(ctx context.Context) (model.UserID, error)
}

// RegisterUserRequest carries the optional chat linkage for a new user.
type RegisterUserRequest struct {
	GuildID     *int64  `json:"guild_id,omitempty"`
	DiscordID   *string `json:"discord_id,omitempty"`
	DMChannelID *string `json:"dm_channel_id,omitempty"`
	DMOptIn     *bool   `json:"dm_opt_in,omitempty"`
}

// UserService handles user business logic
type UserService struct {
	repo      UserRepositoryInterface
	allocator UserIDAllocator
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(repo UserRepositoryInterface, allocator UserIDAllocator) *UserService {
	return &UserService{
		repo:      repo,
		allocator: allocator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new member-only user with a freshly allocated ID. A
// Discord identity may be linked to at most one user.
func (s *UserService) Register(ctx context.Context, req *RegisterUserRequest) (*model.User, error) {
	if req != nil && req.DiscordID != nil {
		existing, err := s.repo.GetByDiscordID(ctx, *req.DiscordID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDiscordIDLinked
		}
	}

	id, err := s.allocator.NextUserID(ctx)
	if err != nil {
		return nil, err
	}

	user := model.NewUser(id)
	now := s.now()
	user.JoinedAt = &now
	if req != nil {
		user.GuildID = req.GuildID
		user.DiscordID = req.DiscordID
		user.DMChannelID = req.DMChannelID
		if req.DMOptIn != nil {
			user.DMOptIn = *req.DMOptIn
		}
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByDiscordID retrieves a user by linked chat identity
func (s *UserService) GetByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	user, err := s.repo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

// PromoteToPlayer grants the PLAYER role, creating the profile on first
// promotion. Idempotent.
func (s *UserService) PromoteToPlayer(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.EnablePlayer()
	if user.Player.JoinedOn == nil {
		now := s.now()
		user.Player.JoinedOn = &now
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DemotePlayer drops the PLAYER role. Fails while REFEREE is held; the
// profile is retained either way.
func (s *UserService) DemotePlayer(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.DisablePlayer(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// PromoteToReferee grants the REFEREE role, granting PLAYER first when
// absent. Idempotent.
func (s *UserService) PromoteToReferee(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.EnableReferee()
	if user.Player.JoinedOn == nil {
		now := s.now()
		user.Player.JoinedOn = &now
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DemoteReferee drops the REFEREE role, retaining the profile.
func (s *UserService) DemoteReferee(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DisableReferee()
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetDMOptIn flips whether the user receives direct-message reminders.
func (s *UserService) SetDMOptIn(ctx context.Context, id model.UserID, optIn bool) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DMOptIn = optIn
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RecordMessageActivity bumps the message counter and last-active stamp.
func (s *UserService) RecordMessageActivity(ctx context.Context, id model.UserID, count int) error {
	return s.recordActivity(ctx, id, func(u *model.User) error {
		return u.RecordMessages(count)
	})
}

// RecordReactionActivity bumps the reaction counters and last-active stamp.
func (s *UserService) RecordReactionActivity(ctx context.Context, id model.UserID, given, received int) error {
	return s.recordActivity(ctx, id, func(u *model.User) error {
		if err := u.RecordReactionsGiven(given); err != nil {
			return err
		}
		return u.RecordReactionsReceived(received)
	})
}

// RecordVoiceActivity adds voice time and bumps the last-active stamp.
func (s *UserService) RecordVoiceActivity(ctx context.Context, id model.UserID, seconds int) error {
	return s.recordActivity(ctx, id, func(u *model.User) error {
		return u.RecordVoiceTime(seconds)
	})
}

func (s *UserService) recordActivity(ctx context.Context, id model.UserID, apply func(*model.User) error) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := apply(user); err != nil {
		return err
	}
	user.Touch(s.now())
	return s.repo.Upsert(ctx, user)
}

// Delete removes the user record.
func (s *UserService) Delete(ctx context.Context, id model.UserID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
