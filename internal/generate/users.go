package generate

import (
	"context"
	"fmt"

	"affwp-generate/internal/progress"
	"affwp-generate/pkg/models"

	"go.uber.org/zap"
)

// userBatch описывает пачку пользователей, создаваемых под аффилиатов
type userBatch struct {
	prefix    string // affwp_user, wp_affiliate_user
	salt      int
	count     int
	withEmail bool
}

func (b userBatch) login(i int64) string {
	return fmt.Sprintf("%s_%d_%d", b.prefix, b.salt, i)
}

// createUsers резервирует логины начиная с текущего числа пользователей
// и создает по одному пользователю на каждый слот
func createUsers(ctx context.Context, env Env, observer progress.Observer, batch userBatch) ([]models.User, error) {
	total, err := env.Store.User().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения количества пользователей: %w", err)
	}

	observer.Start(fmt.Sprintf("Generating %d user(s) for affiliates", batch.count), batch.count)

	users := make([]models.User, 0, prealloc(batch.count))
	for i := total; i < total+int64(batch.count); i++ {
		login := batch.login(i)
		name := fmt.Sprintf("AffWP User %d", i)

		user := models.User{
			Login:       login,
			Password:    login,
			Nickname:    name,
			DisplayName: name,
			Role:        env.Site.DefaultRole,
		}
		if batch.withEmail {
			user.Email = login + "@" + env.Site.EmailDomain
		}

		if err := env.Store.User().Create(ctx, &user); err != nil {
			return users, fmt.Errorf("ошибка создания пользователя %s: %w", login, err)
		}
		env.Metrics.RecordCreated("user")

		users = append(users, user)
		observer.Tick()
	}

	observer.Finish()

	env.Logger.Debug("пользователи созданы",
		zap.Int("count", len(users)),
		zap.Int64("offset", total),
		zap.Int("salt", batch.salt))

	return users, nil
}
