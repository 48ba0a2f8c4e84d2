package service

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	C "github.com/lesiontracker/tracker-server/constant"
)

// ビューアセッションの一覧。期限切れもしくは削除されたセッションは破棄される。
type SessionRegistry struct {
	mu       sync.Mutex
	sessions *cache.Cache
}

func NewSessionRegistry(ttl time.Duration, cleanupInterval time.Duration) *SessionRegistry {
	c := cache.New(ttl, cleanupInterval)

	c.OnEvicted(func(_ string, value interface{}) {
		if s, ok := value.(*ViewerSession); ok {
			s.Destroy()
		}
	})

	return &SessionRegistry{sessions: c}
}

func (r *SessionRegistry) Put(session *ViewerSession) {
	r.sessions.SetDefault(session.Id, session)
}

// セッションを取得し、有効期限を延長する。
// 破棄済みのセッションは延長せず、一覧から取り除く。
func (r *SessionRegistry) Get(id string) (*ViewerSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.sessions.Get(id)
	if !ok {
		return nil, C.SESSION_NOT_FOUND(id)
	}

	session := value.(*ViewerSession)
	if session.Destroyed() {
		r.sessions.Delete(id)
		return nil, C.SESSION_NOT_FOUND(id)
	}

	r.sessions.SetDefault(id, session)

	// 延長の直前に期限切れで破棄された場合。
	if session.Destroyed() {
		r.sessions.Delete(id)
		return nil, C.SESSION_NOT_FOUND(id)
	}

	return session, nil
}

func (r *SessionRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions.Get(id); !ok {
		return C.SESSION_NOT_FOUND(id)
	}

	r.sessions.Delete(id)

	return nil
}

func (r *SessionRegistry) Count() int {
	return r.sessions.ItemCount()
}
