// Package memory provides in-process repository implementations for tests
// and local runs without a database. All repositories created by New share
// one mutex, so every operation is atomic with respect to the others.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"streamsite/internal/models"
	"streamsite/internal/repository"
)

type store struct {
	mu sync.Mutex

	users         []models.User
	streams       []models.Stream
	announcements []models.Announcement
	gallery       []models.GalleryImage
	settings      *models.SiteSettings

	nextUserID         uint
	nextStreamID       uint
	nextAnnouncementID uint
	nextGalleryID      uint

	now func() time.Time
}

// New returns a fresh, empty set of in-memory repositories.
func New() *repository.Repositories {
	s := &store{now: func() time.Time { return time.Now().UTC() }}
	return &repository.Repositories{
		Users:         &userRepo{s},
		Streams:       &streamRepo{s},
		Announcements: &announcementRepo{s},
		Gallery:       &galleryRepo{s},
		SiteSettings:  &settingsRepo{s},
	}
}

func indexOf[T any](items []T, id uint, idOf func(*T) uint) int {
	return slices.IndexFunc(items, func(it T) bool { return idOf(&it) == id })
}

// users

type userRepo struct{ s *store }

func userID(u *models.User) uint { return u.ID }

func (r *userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.users, id, userID)
	if i < 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	u := r.s.users[i]
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, models.NewMissingError("User " + username + " not found")
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return models.NewConflictError("User already exists", nil)
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id uint, change repository.PasswordChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.users, id, userID)
	if i < 0 {
		return models.NewNotFoundError("User", id)
	}
	current := r.s.users[i]
	hash, err := change(&current)
	if err != nil {
		return err
	}
	r.s.users[i].Password = hash
	r.s.users[i].UpdatedAt = r.s.now()
	return nil
}

func (r *userRepo) ListAdmins(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.User{}
	for _, u := range r.s.users {
		if u.IsAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

// streams

type streamRepo struct{ s *store }

func streamID(st *models.Stream) uint { return st.ID }

func (r *streamRepo) List(_ context.Context) ([]models.Stream, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Stream{}, r.s.streams...), nil
}

func (r *streamRepo) GetByID(_ context.Context, id uint) (*models.Stream, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.streams, id, streamID)
	if i < 0 {
		return nil, models.NewNotFoundError("Stream", id)
	}
	st := r.s.streams[i]
	return &st, nil
}

func (r *streamRepo) GetFeatured(_ context.Context) (*models.Stream, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, st := range r.s.streams {
		if st.IsFeatured {
			return &st, nil
		}
	}
	return nil, models.NewMissingError("No featured stream")
}

func (r *streamRepo) clearFeaturedLocked(keepID uint) {
	for i := range r.s.streams {
		if r.s.streams[i].ID != keepID {
			r.s.streams[i].IsFeatured = false
		}
	}
}

func (r *streamRepo) Create(_ context.Context, stream *models.Stream) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextStreamID++
	stream.ID = r.s.nextStreamID
	if stream.IsFeatured {
		r.clearFeaturedLocked(stream.ID)
	}
	r.s.streams = append(r.s.streams, *stream)
	return nil
}

func (r *streamRepo) Update(_ context.Context, stream *models.Stream) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.streams, stream.ID, streamID)
	if i < 0 {
		return models.NewNotFoundError("Stream", stream.ID)
	}
	if stream.IsFeatured {
		r.clearFeaturedLocked(stream.ID)
	}
	r.s.streams[i] = *stream
	return nil
}

func (r *streamRepo) SetFeatured(_ context.Context, id uint) (*models.Stream, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.streams, id, streamID)
	if i < 0 {
		return nil, models.NewNotFoundError("Stream", id)
	}
	r.clearFeaturedLocked(id)
	r.s.streams[i].IsFeatured = true
	st := r.s.streams[i]
	return &st, nil
}

func (r *streamRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.streams, id, streamID)
	if i < 0 {
		return models.NewNotFoundError("Stream", id)
	}
	r.s.streams = slices.Delete(r.s.streams, i, i+1)
	return nil
}

func (r *streamRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.streams)), nil
}

// announcements

type announcementRepo struct{ s *store }

func announcementID(a *models.Announcement) uint { return a.ID }

func (r *announcementRepo) List(_ context.Context) ([]models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := append([]models.Announcement{}, r.s.announcements...)
	slices.SortStableFunc(out, func(a, b models.Announcement) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r *announcementRepo) Create(_ context.Context, a *models.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.CreatedAt = r.s.now()
	r.insertLocked(a)
	return nil
}

func (r *announcementRepo) Import(_ context.Context, a *models.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.s.now()
	}
	r.insertLocked(a)
	return nil
}

func (r *announcementRepo) insertLocked(a *models.Announcement) {
	r.s.nextAnnouncementID++
	a.ID = r.s.nextAnnouncementID
	r.s.announcements = append(r.s.announcements, *a)
}

func (r *announcementRepo) Update(_ context.Context, a *models.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.announcements, a.ID, announcementID)
	if i < 0 {
		return models.NewNotFoundError("Announcement", a.ID)
	}
	a.CreatedAt = r.s.announcements[i].CreatedAt
	r.s.announcements[i] = *a
	return nil
}

func (r *announcementRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.announcements, id, announcementID)
	if i < 0 {
		return models.NewNotFoundError("Announcement", id)
	}
	r.s.announcements = slices.Delete(r.s.announcements, i, i+1)
	return nil
}

func (r *announcementRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.announcements)), nil
}

// gallery

type galleryRepo struct{ s *store }

func galleryID(g *models.GalleryImage) uint { return g.ID }

func (r *galleryRepo) List(_ context.Context) ([]models.GalleryImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.GalleryImage{}, r.s.gallery...), nil
}

func (r *galleryRepo) Create(_ context.Context, img *models.GalleryImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextGalleryID++
	img.ID = r.s.nextGalleryID
	r.s.gallery = append(r.s.gallery, *img)
	return nil
}

func (r *galleryRepo) Update(_ context.Context, img *models.GalleryImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.gallery, img.ID, galleryID)
	if i < 0 {
		return models.NewNotFoundError("Gallery image", img.ID)
	}
	r.s.gallery[i] = *img
	return nil
}

func (r *galleryRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := indexOf(r.s.gallery, id, galleryID)
	if i < 0 {
		return models.NewNotFoundError("Gallery image", id)
	}
	r.s.gallery = slices.Delete(r.s.gallery, i, i+1)
	return nil
}

func (r *galleryRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.gallery)), nil
}

// site settings

type settingsRepo struct{ s *store }

var errSettingsMissing = models.NewMissingError("Site settings not found")

func (r *settingsRepo) Get(_ context.Context) (*models.SiteSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.settings == nil {
		return nil, errSettingsMissing
	}
	return r.s.settings.Clone(), nil
}

func (r *settingsRepo) Initialize(_ context.Context, defaults *models.SiteSettings) (*models.SiteSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.settings == nil {
		row := defaults.Clone()
		row.ID = models.SiteSettingsID
		r.s.settings = row
	}
	return r.s.settings.Clone(), nil
}

func (r *settingsRepo) Update(_ context.Context, patch models.SiteSettingsPatch) (*models.SiteSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.settings == nil {
		return nil, errSettingsMissing
	}
	patch.Apply(r.s.settings)
	return r.s.settings.Clone(), nil
}
