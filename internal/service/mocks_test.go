package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
)

type mockUserRepo struct {
	mu         sync.Mutex
	usersByID  map[string]domain.User
	idsByName  map[string]string
	getErr     error
	createHook func(user domain.User) error
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
	if m.createHook != nil {
		if err := m.createHook(user); err != nil {
			return err
		}
	}
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

func (m *mockUserRepo) add(user domain.User) domain.User {
	_ = m.Create(context.Background(), user)
	return user
}

type mockPostRepo struct {
	posts   map[string]domain.Post
	order   []string
	likes   map[string]map[string]bool
	listErr error
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts: make(map[string]domain.Post),
		likes: make(map[string]map[string]bool),
	}
}

func (m *mockPostRepo) Create(_ context.Context, post domain.Post) error {
	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (domain.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return domain.Post{}, pgx.ErrNoRows
	}
	post.LikeCount = len(m.likes[id])
	return post, nil
}

func (m *mockPostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Post
	for _, id := range m.order {
		if p, err := m.GetByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Post
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *mockPostRepo) ListByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error) {
	recent, err := m.ListRecent(ctx, len(m.order))
	if err != nil {
		return nil, err
	}
	var out []domain.Post
	for _, p := range recent {
		if p.AuthorID == authorID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.posts, id)
	delete(m.likes, id)
	return nil
}

func (m *mockPostRepo) AddLike(_ context.Context, postID, userID string) error {
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[string]bool)
	}
	m.likes[postID][userID] = true
	return nil
}

func (m *mockPostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	delete(m.likes[postID], userID)
	return nil
}

type mockCommentRepo struct {
	comments map[string]domain.Comment
	order    []string
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[string]domain.Comment)}
}

func (m *mockCommentRepo) Create(_ context.Context, c domain.Comment) error {
	m.comments[c.ID] = c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *mockCommentRepo) GetByID(_ context.Context, id string) (domain.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return domain.Comment{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCommentRepo) ListByPost(_ context.Context, postID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, id := range m.order {
		if c, ok := m.comments[id]; ok && c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.comments, id)
	return nil
}

type mockFriendshipRepo struct {
	items map[string]domain.Friendship
}

func newMockFriendshipRepo() *mockFriendshipRepo {
	return &mockFriendshipRepo{items: make(map[string]domain.Friendship)}
}

func (m *mockFriendshipRepo) Create(_ context.Context, f domain.Friendship) error {
	for _, existing := range m.items {
		if samePair(existing, f.RequesterID, f.AddresseeID) {
			return repository.ErrDuplicate
		}
	}
	m.items[f.ID] = f
	return nil
}

func (m *mockFriendshipRepo) GetByID(_ context.Context, id string) (domain.Friendship, error) {
	f, ok := m.items[id]
	if !ok {
		return domain.Friendship{}, pgx.ErrNoRows
	}
	return f, nil
}

func (m *mockFriendshipRepo) GetBetween(_ context.Context, a, b string) (domain.Friendship, error) {
	for _, f := range m.items {
		if samePair(f, a, b) {
			return f, nil
		}
	}
	return domain.Friendship{}, pgx.ErrNoRows
}

func (m *mockFriendshipRepo) Accept(_ context.Context, id string, acceptedAt time.Time) error {
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
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockFriendshipRepo) ListByUser(_ context.Context, userID, status string) ([]domain.Friendship, error) {
	var out []domain.Friendship
	for _, f := range m.items {
		if (f.RequesterID == userID || f.AddresseeID == userID) && f.Status == status {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func samePair(f domain.Friendship, a, b string) bool {
	return (f.RequesterID == a && f.AddresseeID == b) || (f.RequesterID == b && f.AddresseeID == a)
}

type mockMessageRepo struct {
	messages []domain.Message
}

func (m *mockMessageRepo) Create(_ context.Context, msg domain.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) ListConversation(_ context.Context, a, b string, limit int) ([]domain.Message, error) {
	var out []domain.Message
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
	images    map[string]domain.Image
	createErr error
}

func newMockImageRepo() *mockImageRepo {
	return &mockImageRepo{images: make(map[string]domain.Image)}
}

func (m *mockImageRepo) Create(_ context.Context, img domain.Image) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.images[img.ID] = img
	return nil
}

func (m *mockImageRepo) GetByID(_ context.Context, id string) (domain.Image, error) {
	img, ok := m.images[id]
	if !ok {
		return domain.Image{}, pgx.ErrNoRows
	}
	return img, nil
}

type recordingFeed struct {
	mu        sync.Mutex
	posts     []domain.Post
	forgotten []string
	authors   []string
}

func (r *recordingFeed) Forget(postID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forgotten = append(r.forgotten, postID)
}

func (r *recordingFeed) ForgetAuthor(authorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authors = append(r.authors, authorID)
}

func (r *recordingFeed) Publish(post domain.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, post)
}

var errDBDown = errors.New("db down")
