package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"affwp-generate/internal/config"
	"affwp-generate/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrNotFound возвращается, когда запись не найдена
var ErrNotFound = errors.New("запись не найдена")

// Store представляет интерфейс для работы с хранилищем сущностей
type Store interface {
	User() UserRepository
	Affiliate() AffiliateRepository
	Creative() CreativeRepository
	Referral() ReferralRepository
	Visit() VisitRepository
	WPAffiliate() WPAffiliateRepository
	Close() error
}

// UserRepository интерфейс для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// AffiliateRepository интерфейс для работы с аффилиатами
type AffiliateRepository interface {
	Create(ctx context.Context, affiliate *models.Affiliate) error
	GetByID(ctx context.Context, id int64) (*models.Affiliate, error)
}

// CreativeRepository интерфейс для работы с промо-материалами
type CreativeRepository interface {
	Create(ctx context.Context, creative *models.Creative) error
	GetByID(ctx context.Context, id int64) (*models.Creative, error)
}

// ReferralRepository интерфейс для работы с рефералами
type ReferralRepository interface {
	Create(ctx context.Context, referral *models.Referral) error
	GetByID(ctx context.Context, id int64) (*models.Referral, error)
	SetVisitID(ctx context.Context, referralID, visitID int64) error
}

// VisitRepository интерфейс для работы с визитами
type VisitRepository interface {
	Create(ctx context.Context, visit *models.Visit) error
	GetByID(ctx context.Context, id int64) (*models.Visit, error)
}

// WPAffiliateRepository интерфейс для работы с таблицами плагина WP Affiliate
type WPAffiliateRepository interface {
	Available(ctx context.Context) (bool, error)
	Create(ctx context.Context, account *models.WPAffiliateAccount) error
}

// store реализует интерфейс Store поверх PostgreSQL
type store struct {
	db          *pgxpool.Pool
	sqlDB       *sql.DB
	logger      *zap.Logger
	user        UserRepository
	affiliate   AffiliateRepository
	creative    CreativeRepository
	referral    ReferralRepository
	visit       VisitRepository
	wpAffiliate WPAffiliateRepository
}

// NewStore создает новое подключение к базе данных
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создание пула подключений
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	// Генерация последовательная, большой пул не нужен
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка проверки подключения к базе данных: %w", err)
	}

	// Таблицы WP Affiliate принадлежат стороннему плагину и могут жить в другой базе
	wpDSN := cfg.WPAffiliate.DSN
	if wpDSN == "" {
		wpDSN = cfg.Database.GetURL()
	}
	sqlDB, err := sql.Open("postgres", wpDSN)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к базе данных WP Affiliate: %w", err)
	}

	logger.Info("успешное подключение к базе данных PostgreSQL")

	s := &store{
		db:     db,
		sqlDB:  sqlDB,
		logger: logger,
	}

	// Инициализация репозиториев
	s.user = NewUserRepository(db, logger)
	s.affiliate = NewAffiliateRepository(db, logger)
	s.creative = NewCreativeRepository(db, logger)
	s.referral = NewReferralRepository(db, logger)
	s.visit = NewVisitRepository(db, logger)
	s.wpAffiliate = NewWPAffiliateRepository(sqlDB, logger)

	return s, nil
}

// User возвращает репозиторий пользователей
func (s *store) User() UserRepository {
	return s.user
}

// Affiliate возвращает репозиторий аффилиатов
func (s *store) Affiliate() AffiliateRepository {
	return s.affiliate
}

// Creative возвращает репозиторий промо-материалов
func (s *store) Creative() CreativeRepository {
	return s.creative
}

// Referral возвращает репозиторий рефералов
func (s *store) Referral() ReferralRepository {
	return s.referral
}

// Visit возвращает репозиторий визитов
func (s *store) Visit() VisitRepository {
	return s.visit
}

// WPAffiliate возвращает репозиторий плагина WP Affiliate
func (s *store) WPAffiliate() WPAffiliateRepository {
	return s.wpAffiliate
}

// Close закрывает подключения к базе данных
func (s *store) Close() error {
	s.logger.Info("закрытие подключения к базе данных")
	s.db.Close()
	return s.sqlDB.Close()
}

// userRepository реализует UserRepository
type userRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает нового пользователя
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (login, password, email, nickname, display_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx, query,
		user.Login, user.Password, user.Email, user.Nickname, user.DisplayName, user.Role, user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		return fmt.Errorf("ошибка создания пользователя %s: %w", user.Login, err)
	}

	r.logger.Debug("пользователь создан",
		zap.Int64("user_id", user.ID),
		zap.String("login", user.Login),
		zap.String("role", user.Role))

	return nil
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, login, password, email, nickname, display_name, role, created_at
		FROM users WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Login, &user.Password, &user.Email, &user.Nickname, &user.DisplayName, &user.Role, &user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения пользователя по ID: %w", err)
	}

	return user, nil
}

// Count возвращает общее количество пользователей
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}

	return count, nil
}
