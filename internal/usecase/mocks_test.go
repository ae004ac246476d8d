//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/adapter"
	"telegram-affiliate-bot/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockTxManager simply runs the callback; the in-memory repositories enforce
// the uniqueness rules a real database would.
type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// memUserRepo is a small in-memory implementation used by unit tests.
// It mirrors the database's unique indexes on telegram_id and referral_code.
type memUserRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.User // by TelegramID

	SaveErr            error
	FindByTelegramFunc func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error)
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.store {
		if other.TelegramID != u.TelegramID && other.ReferralCode == u.ReferralCode {
			return domain.ErrAlreadyExists
		}
	}
	if existing, ok := m.store[u.TelegramID]; ok && existing.ID != u.ID {
		return domain.ErrAlreadyExists
	}
	cp := *u
	m.store[u.TelegramID] = &cp
	return nil
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	if m.FindByTelegramFunc != nil {
		return m.FindByTelegramFunc(ctx, tx, tgID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByReferralCode(ctx context.Context, tx repository.Tx, code string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) CreditReferral(ctx context.Context, tx repository.Tx, code string, points int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.ReferralCode == code {
			u.ReferralCount++
			u.Points += points
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memUserRepo) Leaderboard(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.User, 0, len(m.store))
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ReferralCount != out[j].ReferralCount {
			return out[i].ReferralCount > out[j].ReferralCount
		}
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// memEventRepo enforces the unique (referrer_code, referred_tg_id) pair.
type memEventRepo struct {
	mu     sync.RWMutex
	events []*model.ReferralEvent
}

func newMemEventRepo() *memEventRepo { return &memEventRepo{} }

func (m *memEventRepo) Append(ctx context.Context, tx repository.Tx, ev *model.ReferralEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ReferrerCode == ev.ReferrerCode && e.ReferredTgID == ev.ReferredTgID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *ev
	m.events = append(m.events, &cp)
	return nil
}

func (m *memEventRepo) ListByReferrer(ctx context.Context, tx repository.Tx, referrerCode string) ([]*model.ReferralEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ReferralEvent
	for _, e := range m.events {
		if e.ReferrerCode == referrerCode {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memEventRepo) CountEvents(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events), nil
}

// memOfferRepo samples without replacement from an in-memory slice.
type memOfferRepo struct {
	mu     sync.RWMutex
	offers []*model.Offer
	rng    *rand.Rand

	SaveAllErr error
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{rng: rand.New(rand.NewSource(42))}
}

func (m *memOfferRepo) SaveAll(ctx context.Context, tx repository.Tx, offers []*model.Offer) error {
	if m.SaveAllErr != nil {
		return m.SaveAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range offers {
		cp := *o
		m.offers = append(m.offers, &cp)
	}
	return nil
}

func (m *memOfferRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.offers {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOfferRepo) SampleRandom(ctx context.Context, tx repository.Tx, n int) ([]*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := m.rng.Perm(len(m.offers))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]*model.Offer, 0, n)
	for _, i := range idx[:n] {
		cp := *m.offers[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memOfferRepo) SampleByCategory(ctx context.Context, tx repository.Tx, category model.Category, n int) ([]*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pool []*model.Offer
	for _, o := range m.offers {
		if o.Category == category {
			pool = append(pool, o)
		}
	}
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]*model.Offer, 0, n)
	for _, i := range m.rng.Perm(len(pool))[:n] {
		cp := *pool[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memOfferRepo) CountOffers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.offers), nil
}

// memPostLog records appends in order.
type memPostLog struct {
	mu      sync.RWMutex
	records []*model.PostRecord

	AppendErr error
}

func newMemPostLog() *memPostLog { return &memPostLog{} }

func (m *memPostLog) Append(ctx context.Context, tx repository.Tx, rec *model.PostRecord) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *memPostLog) LastPost(ctx context.Context, tx repository.Tx) (*model.PostRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.records) == 0 {
		return nil, domain.ErrNotFound
	}
	cp := *m.records[len(m.records)-1]
	return &cp, nil
}

func (m *memPostLog) CountPosts(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// mockBot records sends; safe for concurrent use by the worker pool.
type mockBot struct {
	mu       sync.Mutex
	messages []struct {
		TgID int64
		Text string
	}
	SendErr error
}

func (b *mockBot) SendMessage(ctx context.Context, tgID int64, text string) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, struct {
		TgID int64
		Text string
	}{tgID, text})
	return nil
}

func (b *mockBot) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	return b.SendMessage(ctx, tgID, text)
}

func (b *mockBot) sent() []struct {
	TgID int64
	Text string
} {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]struct {
		TgID int64
		Text string
	}, len(b.messages))
	copy(out, b.messages)
	return out
}

// mockPublisher simulates the channel transport.
type mockPublisher struct {
	mu         sync.Mutex
	PublishErr error
	nextMsgID  int64
	published  []string
}

func (p *mockPublisher) Publish(ctx context.Context, channel, text string) (int64, error) {
	if p.PublishErr != nil {
		return 0, p.PublishErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextMsgID++
	p.published = append(p.published, text)
	return p.nextMsgID, nil
}

// staticRenderer keeps broadcast tests independent of the content package.
type staticRenderer struct{}

func (staticRenderer) Render(o *model.Offer) string { return "post: " + o.Title }
