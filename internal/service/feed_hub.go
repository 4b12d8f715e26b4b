package service

import (
	"context"
	"sync"

	"socialnet/internal/domain"
)

// PostLister lista los posts persistidos para sembrar el feed.
type PostLister interface {
	ListAll(ctx context.Context) ([]domain.Post, error)
}

// FeedHub difunde posts nuevos a todas las conexiones del feed en vivo.
//
// Cada suscriptor tiene su propia cola sin limite, asi Publish nunca espera a
// un consumidor lento. El buffer de replay guarda los posts sembrados y
// publicados; un suscriptor nuevo recibe su contenido antes de los eventos en
// vivo. Con replayLimit > 0 se descartan los mas antiguos.
type FeedHub struct {
	mu          sync.Mutex
	replay      []domain.Post
	replayLimit int
	subs        map[uint64]*feedSubscriber
	nextID      uint64
	closed      bool
}

func NewFeedHub(replayLimit int) *FeedHub {
	if replayLimit < 0 {
		replayLimit = 0
	}
	return &FeedHub{
		replayLimit: replayLimit,
		subs:        make(map[uint64]*feedSubscriber),
	}
}

// Seed carga los posts existentes en el buffer de replay.
func (h *FeedHub) Seed(ctx context.Context, lister PostLister) error {
	posts, err := lister.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		h.Publish(p)
	}
	return nil
}

// Publish entrega el post a cada suscriptor. Sin suscriptores es un no-op
// salvo por el buffer de replay.
func (h *FeedHub) Publish(post domain.Post) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.replay = append(h.replay, post)
	if h.replayLimit > 0 && len(h.replay) > h.replayLimit {
		n := copy(h.replay, h.replay[len(h.replay)-h.replayLimit:])
		clear(h.replay[n:])
		h.replay = h.replay[:n]
	}
	for _, sub := range h.subs {
		sub.push(post)
	}
}

// Forget saca el post del replay y de las colas pendientes. Lo que ya fue
// entregado a una conexion no se puede retirar.
func (h *FeedHub) Forget(postID string) {
	h.drop(func(p domain.Post) bool { return p.ID == postID })
}

// ForgetAuthor hace lo mismo que Forget con todos los posts de un autor.
func (h *FeedHub) ForgetAuthor(authorID string) {
	h.drop(func(p domain.Post) bool { return p.AuthorID == authorID })
}

func (h *FeedHub) drop(match func(domain.Post) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.replay = filterPosts(h.replay, match)
	for _, sub := range h.subs {
		sub.mu.Lock()
		sub.queue = filterPosts(sub.queue, match)
		sub.mu.Unlock()
	}
}

func filterPosts(posts []domain.Post, match func(domain.Post) bool) []domain.Post {
	kept := posts[:0]
	for _, p := range posts {
		if !match(p) {
			kept = append(kept, p)
		}
	}
	clear(posts[len(kept):])
	return kept
}

// Subscribe devuelve un canal con el replay actual seguido de los posts en
// vivo. El canal se cierra cuando ctx termina o el hub se cierra.
func (h *FeedHub) Subscribe(ctx context.Context) <-chan domain.Post {
	out := make(chan domain.Post)
	sub := &feedSubscriber{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(out)
		return out
	}
	sub.queue = append([]domain.Post(nil), h.replay...)
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	sub.signal()
	go h.pump(ctx, id, sub, out)
	return out
}

// Subscribers devuelve la cantidad de conexiones activas.
func (h *FeedHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close desconecta a todos los suscriptores y descarta publicaciones futuras.
func (h *FeedHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.done)
		delete(h.subs, id)
	}
	h.replay = nil
}

func (h *FeedHub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

func (h *FeedHub) pump(ctx context.Context, id uint64, sub *feedSubscriber, out chan<- domain.Post) {
	defer close(out)
	defer h.remove(id)

	for {
		post, ok := sub.pop()
		if !ok {
			select {
			case <-sub.notify:
				continue
			case <-sub.done:
				return
			case <-ctx.Done():
				return
			}
		}
		select {
		case out <- post:
		case <-sub.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

type feedSubscriber struct {
	mu     sync.Mutex
	queue  []domain.Post
	notify chan struct{}
	done   chan struct{}
}

func (s *feedSubscriber) push(post domain.Post) {
	s.mu.Lock()
	s.queue = append(s.queue, post)
	s.mu.Unlock()
	s.signal()
}

func (s *feedSubscriber) pop() (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return domain.Post{}, false
	}
	post := s.queue[0]
	s.queue[0] = domain.Post{}
	s.queue = s.queue[1:]
	return post, true
}

func (s *feedSubscriber) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
