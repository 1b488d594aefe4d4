package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"affwp-generate/pkg/models"

	"go.uber.org/zap"
)

// MemoryStore хранит сущности в памяти процесса. Используется для dry-run и тестов.
type MemoryStore struct {
	mu     sync.Mutex
	logger *zap.Logger

	users       []models.User
	affiliates  []models.Affiliate
	creatives   []models.Creative
	referrals   []models.Referral
	visits      []models.Visit
	wpAccounts  []models.WPAffiliateAccount
	wpAvailable bool
	existing    int64 // пользователи, существовавшие до запуска
}

// NewMemoryStore создает пустое хранилище в памяти
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		logger:      logger,
		wpAvailable: true,
	}
}

// SetExistingUsers задает количество пользователей, уже существующих на сайте
func (s *MemoryStore) SetExistingUsers(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existing = n
}

// SetWPAffiliateAvailable включает или отключает эмуляцию плагина WP Affiliate
func (s *MemoryStore) SetWPAffiliateAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wpAvailable = available
}

// Users возвращает копию созданных пользователей
func (s *MemoryStore) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

// Affiliates возвращает копию созданных аффилиатов
func (s *MemoryStore) Affiliates() []models.Affiliate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Affiliate(nil), s.affiliates...)
}

// Creatives возвращает копию созданных промо-материалов
func (s *MemoryStore) Creatives() []models.Creative {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Creative(nil), s.creatives...)
}

// Referrals возвращает копию созданных рефералов
func (s *MemoryStore) Referrals() []models.Referral {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Referral(nil), s.referrals...)
}

// Visits возвращает копию созданных визитов
func (s *MemoryStore) Visits() []models.Visit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Visit(nil), s.visits...)
}

// WPAffiliateAccounts возвращает копию созданных аккаунтов WP Affiliate
func (s *MemoryStore) WPAffiliateAccounts() []models.WPAffiliateAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WPAffiliateAccount(nil), s.wpAccounts...)
}

func (s *MemoryStore) User() UserRepository               { return memoryUsers{s} }
func (s *MemoryStore) Affiliate() AffiliateRepository     { return memoryAffiliates{s} }
func (s *MemoryStore) Creative() CreativeRepository       { return memoryCreatives{s} }
func (s *MemoryStore) Referral() ReferralRepository       { return memoryReferrals{s} }
func (s *MemoryStore) Visit() VisitRepository             { return memoryVisits{s} }
func (s *MemoryStore) WPAffiliate() WPAffiliateRepository { return memoryWPAffiliates{s} }

// Close ничего не делает: данные живут до конца процесса
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("закрытие хранилища в памяти",
		zap.Int("users", len(s.users)),
		zap.Int("affiliates", len(s.affiliates)),
		zap.Int("referrals", len(s.referrals)),
		zap.Int("visits", len(s.visits)))
	return nil
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Login == user.Login {
			return fmt.Errorf("ошибка создания пользователя %s: логин уже занят", user.Login)
		}
	}

	user.ID = r.s.existing + int64(len(r.s.users)) + 1
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r memoryUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.users {
		if r.s.users[i].ID == id {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("пользователь с ID %d: %w", id, ErrNotFound)
}

func (r memoryUsers) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.existing + int64(len(r.s.users)), nil
}

type memoryAffiliates struct{ s *MemoryStore }

func (r memoryAffiliates) Create(ctx context.Context, affiliate *models.Affiliate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	affiliate.ID = int64(len(r.s.affiliates)) + 1
	if affiliate.CreatedAt.IsZero() {
		affiliate.CreatedAt = time.Now()
	}
	r.s.affiliates = append(r.s.affiliates, *affiliate)
	return nil
}

func (r memoryAffiliates) GetByID(ctx context.Context, id int64) (*models.Affiliate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id < 1 || id > int64(len(r.s.affiliates)) {
		return nil, fmt.Errorf("аффилиат с ID %d: %w", id, ErrNotFound)
	}
	a := r.s.affiliates[id-1]
	return &a, nil
}

type memoryCreatives struct{ s *MemoryStore }

func (r memoryCreatives) Create(ctx context.Context, creative *models.Creative) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	creative.ID = int64(len(r.s.creatives)) + 1
	if creative.CreatedAt.IsZero() {
		creative.CreatedAt = time.Now()
	}
	r.s.creatives = append(r.s.creatives, *creative)
	return nil
}

func (r memoryCreatives) GetByID(ctx context.Context, id int64) (*models.Creative, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id < 1 || id > int64(len(r.s.creatives)) {
		return nil, fmt.Errorf("промо-материал с ID %d: %w", id, ErrNotFound)
	}
	c := r.s.creatives[id-1]
	return &c, nil
}

type memoryReferrals struct{ s *MemoryStore }

func (r memoryReferrals) Create(ctx context.Context, referral *models.Referral) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	referral.ID = int64(len(r.s.referrals)) + 1
	if referral.CreatedAt.IsZero() {
		referral.CreatedAt = now
	}
	if referral.Date.IsZero() {
		referral.Date = now
	}
	r.s.referrals = append(r.s.referrals, *referral)
	return nil
}

func (r memoryReferrals) GetByID(ctx context.Context, id int64) (*models.Referral, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id < 1 || id > int64(len(r.s.referrals)) {
		return nil, fmt.Errorf("реферал с ID %d: %w", id, ErrNotFound)
	}
	ref := r.s.referrals[id-1]
	return &ref, nil
}

func (r memoryReferrals) SetVisitID(ctx context.Context, referralID, visitID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if referralID < 1 || referralID > int64(len(r.s.referrals)) {
		return fmt.Errorf("реферал с ID %d: %w", referralID, ErrNotFound)
	}
	r.s.referrals[referralID-1].VisitID = visitID
	return nil
}

type memoryVisits struct{ s *MemoryStore }

func (r memoryVisits) Create(ctx context.Context, visit *models.Visit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	visit.ID = int64(len(r.s.visits)) + 1
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}
	r.s.visits = append(r.s.visits, *visit)
	return nil
}

func (r memoryVisits) GetByID(ctx context.Context, id int64) (*models.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id < 1 || id > int64(len(r.s.visits)) {
		return nil, fmt.Errorf("визит с ID %d: %w", id, ErrNotFound)
	}
	v := r.s.visits[id-1]
	return &v, nil
}

type memoryWPAffiliates struct{ s *MemoryStore }

func (r memoryWPAffiliates) Available(ctx context.Context) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.wpAvailable, nil
}

func (r memoryWPAffiliates) Create(ctx context.Context, account *models.WPAffiliateAccount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	account.ID = int64(len(r.s.wpAccounts)) + 1
	if account.Date.IsZero() {
		account.Date = time.Now()
	}
	r.s.wpAccounts = append(r.s.wpAccounts, *account)
	return nil
}
