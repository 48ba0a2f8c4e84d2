package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	C "github.com/lesiontracker/tracker-server/constant"
)

func TestServiceRegistry(t *testing.T) {
	r := NewSessionRegistry(time.Hour, time.Hour)

	f := newGateFixture("p1-tp2")
	r.Put(f.session)

	assert.Equal(t, 1, r.Count())

	s, err := r.Get(f.session.Id)
	require.NoError(t, err)
	assert.Same(t, f.session, s)

	_, err = r.Get("unknown")
	assert.Equal(t, C.SESSION_NOT_FOUND("unknown"), err)

	// 削除したセッションは破棄される。
	require.NoError(t, r.Close(f.session.Id))
	assert.True(t, f.session.Destroyed())
	assert.Equal(t, 0, r.Count())

	assert.Equal(t, C.SESSION_NOT_FOUND(f.session.Id), r.Close(f.session.Id))
}

func TestServiceRegistry_Expiration(t *testing.T) {
	r := NewSessionRegistry(time.Duration(50)*time.Millisecond, time.Duration(10)*time.Millisecond)

	f := newGateFixture("p1-tp2")
	r.Put(f.session)

	assert.Eventually(t, f.session.Destroyed, time.Second, time.Duration(10)*time.Millisecond)

	_, err := r.Get(f.session.Id)
	assert.Error(t, err)

	// 期限切れ後の読み込み完了は無視される。
	assert.EqualValues(t, SkipSessionDestroyed, f.session.SetTimepointsReady().Reason)
	assert.Equal(t, 0, f.sink.count())
}

func TestServiceRegistry_DestroyedSession(t *testing.T) {
	r := NewSessionRegistry(time.Hour, time.Hour)

	f := newGateFixture("p1-tp2")
	r.Put(f.session)

	// 一覧に残ったまま破棄されたセッションは返さない。
	f.session.Destroy()

	_, err := r.Get(f.session.Id)
	assert.Equal(t, C.SESSION_NOT_FOUND(f.session.Id), err)
	assert.Equal(t, 0, r.Count())

	_, err = r.Get(f.session.Id)
	assert.Error(t, err)
}

func TestServiceRegistry_ConcurrentGetAndClose(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := NewSessionRegistry(time.Hour, time.Hour)

		f := newGateFixture("p1-tp2")
		r.Put(f.session)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Get(f.session.Id)
		}()
		go func() {
			defer wg.Done()
			r.Close(f.session.Id)
		}()
		wg.Wait()

		// 終了したセッションが延長されて残ることはない。
		assert.True(t, f.session.Destroyed())
		assert.Equal(t, 0, r.Count())
	}
}
