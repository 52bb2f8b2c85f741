package profile

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"backend-ecoroute/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	DefaultStorageBaseURL = "https://storage.ecoroute.app"
	avatarKind            = "avatar"
	uploadWindow          = 15 * time.Minute
)

const profileColumns = `id, email, COALESCE(full_name,''), COALESCE(avatar_url,''), COALESCE(phone,''), created_at, updated_at`

type Service struct {
	db          db.Querier
	storageBase string
	now         func() time.Time
}

func NewService(db db.Querier, storageBaseURL string) *Service {
	if storageBaseURL == "" {
		storageBaseURL = DefaultStorageBaseURL
	}
	return &Service{db: db, storageBase: strings.TrimRight(storageBaseURL, "/"), now: time.Now}
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id=$1`, userID)
	return scanProfile(row)
}

func (s *Service) Update(ctx context.Context, userID string, in ProfileUpdate) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET full_name=COALESCE($2, full_name), phone=COALESCE($3, phone), updated_at=now()
		WHERE id=$1
		RETURNING `+profileColumns, userID, in.FullName, in.Phone)
	return scanProfile(row)
}

// Preferences returns the stored preferences or the defaults when none were
// saved yet.
func (s *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	p := Preferences{UserID: userID}
	err := s.db.QueryRow(ctx, `
		SELECT notifications, location_tracking, accessibility_mode, eco_friendly, auto_save, data_collection, created_at, updated_at
		FROM user_preferences WHERE user_id=$1
	`, userID).Scan(&p.Notifications, &p.LocationTracking, &p.AccessibilityMode, &p.EcoFriendly, &p.AutoSave, &p.DataCollection, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID string, in PreferencesUpdate) (Preferences, error) {
	p, err := s.Preferences(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	in.apply(&p)

	err = s.db.QueryRow(ctx, `
		INSERT INTO user_preferences (user_id, notifications, location_tracking, accessibility_mode, eco_friendly, auto_save, data_collection)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO UPDATE
		SET notifications=EXCLUDED.notifications, location_tracking=EXCLUDED.location_tracking,
		    accessibility_mode=EXCLUDED.accessibility_mode, eco_friendly=EXCLUDED.eco_friendly,
		    auto_save=EXCLUDED.auto_save, data_collection=EXCLUDED.data_collection, updated_at=now()
		RETURNING created_at, updated_at
	`, userID, p.Notifications, p.LocationTracking, p.AccessibilityMode, p.EcoFriendly, p.AutoSave, p.DataCollection).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Preferences{}, err
	}
	return p, nil
}

// RegisterAvatar records a storage object for the user's avatar and points
// the profile at it.
func (s *Service) RegisterAvatar(ctx context.Context, userID, fileName string) (Avatar, error) {
	name := path.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" {
		return Avatar{}, ErrFileNameRequired
	}
	id := uuid.NewString()
	url := s.storageBase + "/avatars/" + userID + "/" + id + "-" + name

	if _, err := s.SaveObject(ctx, id, userID, url, avatarKind); err != nil {
		return Avatar{}, err
	}
	tag, err := s.db.Exec(ctx, `UPDATE users SET avatar_url=$2, updated_at=now() WHERE id=$1`, userID, url)
	if err != nil {
		return Avatar{}, err
	}
	if tag.RowsAffected() == 0 {
		return Avatar{}, ErrNotFound
	}
	return Avatar{ID: id, URL: url, ExpiresAt: s.now().Add(uploadWindow)}, nil
}

func (s *Service) SaveObject(ctx context.Context, id, userID, url, kind string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, kind)
	if err != nil {
		return "", err
	}
	return id, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}
