package http

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
)

type mockUserRepo struct {
	mu        sync.Mutex
	usersByID map[string]domain.User
	idsByName map[string]string
	getErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID: make(map[string]domain.User),
		idsByName: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.idsByName[user.Username]; ok {
		return repository.ErrDuplicate
	}
	m.usersByID[user.ID] = user
	m.idsByName[user.Username] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	id, ok := m.idsByName[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) SearchByUsername(_ context.Context, prefix string, limit int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for name, id := range m.idsByName {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			out = append(out, m.usersByID[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id, bio string, profileImageID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Bio = bio
	user.ProfileImageID = profileImageID
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByID, id)
	delete(m.idsByName, user.Username)
	return nil
}

type mockPostRepo struct {
	mu    sync.Mutex
	posts map[string]domain.Post
	order []string
	likes map[string]map[string]bool
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts: make(map[string]domain.Post),
		likes: make(map[string]map[string]bool),
	}
}

func (m *mockPostRepo) Create(_ context.Context, post domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *mockPostRepo) get(id string) (domain.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return domain.Post{}, pgx.ErrNoRows
	}
	post.LikeCount = len(m.likes[id])
	return post, nil
}

func (m *mockPostRepo) ListAll(_ context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Post
	for _, id := range m.order {
		if p, err := m.get(id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	all, _ := m.ListAll(ctx)
	var out []domain.Post
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *mockPostRepo) ListByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error) {
	recent, _ := m.ListRecent(ctx, math.MaxInt)
	var out []domain.Post
	for _, p := range recent {
		if p.AuthorID == authorID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) AddLike(_ context.Context, postID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[string]bool)
	}
	m.likes[postID][userID] = true
	return nil
}

func (m *mockPostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes[postID], userID)
	return nil
}

type mockCommentRepo struct {
	mu       sync.Mutex
	comments map[string]domain.Comment
	order    []string
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[string]domain.Comment)}
}

func (m *mockCommentRepo) Create(_ context.Context, c domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[c.ID] = c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *mockCommentRepo) GetByID(_ context.Context, id string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return domain.Comment{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCommentRepo) ListByPost(_ context.Context, postID string) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Comment{}
	for _, id := range m.order {
		if c, ok := m.comments[id]; ok && c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.comments, id)
	return nil
}

type mockFriendshipRepo struct {
	mu    sync.Mutex
	items map[string]domain.Friendship
}

func newMockFriendshipRepo() *mockFriendshipRepo {
	return &mockFriendshipRepo{items: make(map[string]domain.Friendship)}
}

func (m *mockFriendshipRepo) Create(_ context.Context, f domain.Friendship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.between(f.RequesterID, f.AddresseeID); ok {
		return repository.ErrDuplicate
	}
	m.items[f.ID] = f
	return nil
}

func (m *mockFriendshipRepo) GetByID(_ context.Context, id string) (domain.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[id]
	if !ok {
		return domain.Friendship{}, pgx.ErrNoRows
	}
	return f, nil
}

func (m *mockFriendshipRepo) GetBetween(_ context.Context, a, b string) (domain.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.between(a, b)
	if !ok {
		return domain.Friendship{}, pgx.ErrNoRows
	}
	return f, nil
}

func (m *mockFriendshipRepo) between(a, b string) (domain.Friendship, bool) {
	for _, f := range m.items {
		if (f.RequesterID == a && f.AddresseeID == b) || (f.RequesterID == b && f.AddresseeID == a) {
			return f, true
		}
	}
	return domain.Friendship{}, false
}

func (m *mockFriendshipRepo) Accept(_ context.Context, id string, acceptedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	f.Status = domain.FriendshipAccepted
	f.AcceptedAt = &acceptedAt
	m.items[id] = f
	return nil
}

func (m *mockFriendshipRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockFriendshipRepo) ListByUser(_ context.Context, userID, status string) ([]domain.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Friendship
	for _, f := range m.items {
		if (f.RequesterID == userID || f.AddresseeID == userID) && f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
}

func (m *mockMessageRepo) Create(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) ListConversation(_ context.Context, a, b string, limit int) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Message{}
	for _, msg := range m.messages {
		if (msg.SenderID == a && msg.RecipientID == b) || (msg.SenderID == b && msg.RecipientID == a) {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type mockImageRepo struct {
	mu     sync.Mutex
	images map[string]domain.Image
}

func newMockImageRepo() *mockImageRepo {
	return &mockImageRepo{images: make(map[string]domain.Image)}
}

func (m *mockImageRepo) Create(_ context.Context, img domain.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[img.ID] = img
	return nil
}

func (m *mockImageRepo) GetByID(_ context.Context, id string) (domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return domain.Image{}, pgx.ErrNoRows
	}
	return img, nil
}
