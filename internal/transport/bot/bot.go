// Package bot serves the Telegram bot over long polling. Every update is
// attributed to an account through the same resolver the HTTP API uses.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lifeguard-api/internal/domain"
	"github.com/lifeguard-api/internal/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const pollTimeout = 60 // seconds

// sender is the subset of *tgbotapi.BotAPI used to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type accountResolver interface {
	Resolve(ctx context.Context, profile domain.TelegramProfile) (*domain.Account, error)
}

type workoutLister interface {
	ListOn(ctx context.Context, userID, day string) ([]domain.Workout, error)
}

type nutritionService interface {
	DailySummary(ctx context.Context, account *domain.Account, date string) (*domain.DailyNutritionSummary, error)
	LogWater(ctx context.Context, userID string, req domain.CreateWaterLogRequest) (*domain.WaterLog, error)
	TodayWater(ctx context.Context, userID string) (int, error)
	Today() string
}

type shoppingService interface {
	List(ctx context.Context, userID string, f domain.ShoppingFilter) ([]domain.ShoppingItem, error)
	CreateMany(ctx context.Context, userID string, reqs []domain.CreateShoppingItemRequest) ([]domain.ShoppingItem, error)
}

// Deps are the services the bot reads and writes through.
type Deps struct {
	Accounts  accountResolver
	Workouts  workoutLister
	Nutrition nutritionService
	Shopping  shoppingService
	// WebAppURL is the Mini App base URL, without a trailing slash.
	WebAppURL string
}

// Bot dispatches updates to command and callback handlers.
type Bot struct {
	api  sender
	deps Deps
}

func New(api sender, deps Deps) *Bot {
	return &Bot{api: api, deps: deps}
}

// Start connects with token, drops updates queued while the service was
// down and polls until ctx is cancelled.
func Start(ctx context.Context, token string, deps Deps) error {
	tgbotapi.SetLogger(botLogger{})
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("connect bot: %w", err)
	}
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("drop pending updates: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	log.Info().Str("bot", api.Self.UserName).Msg("bot polling started")
	New(api, deps).Run(ctx, updates)
	log.Info().Msg("bot stopped")
	return nil
}

// Run handles updates one at a time until ctx is done or updates closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			b.Handle(ctx, u)
		}
	}
}

// Handle processes a single update. Failures are logged and reported to the
// chat; they never stop the loop.
func (b *Bot) Handle(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.Message != nil && u.Message.IsCommand():
		b.handleCommand(ctx, u.Message)
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	if m.From == nil || m.Chat == nil {
		return
	}
	name := m.Command()
	l := log.With().Int64("telegram_id", m.From.ID).Str("command", name).Logger()
	ctx = l.WithContext(ctx)

	var err error
	switch name {
	case "start":
		err = b.start(ctx, m)
	case "help":
		err = b.reply(m.Chat.ID, helpText, nil)
	case "today":
		err = b.today(ctx, m.Chat.ID, m.From)
	case "shop":
		err = b.shop(ctx, m.Chat.ID, m.From)
	case "add":
		err = b.add(ctx, m)
	case "water":
		err = b.water(ctx, m)
	default:
		name = "unknown"
	}
	metrics.BotUpdates.WithLabelValues("command", name).Inc()
	if err != nil {
		b.fail(ctx, m.Chat.ID, err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.From == nil || q.Message == nil || q.Message.Chat == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Warn().Err(err).Msg("answer callback failed")
	}
	l := log.With().Int64("telegram_id", q.From.ID).Str("callback", q.Data).Logger()
	ctx = l.WithContext(ctx)

	chatID, msgID := q.Message.Chat.ID, q.Message.MessageID
	name := q.Data
	var err error
	switch q.Data {
	case "today":
		err = b.today(ctx, chatID, q.From)
	case "shopping":
		err = b.shop(ctx, chatID, q.From)
	case "water_add":
		err = b.waterAdd(ctx, chatID, msgID, q.From)
	case "menu":
		err = b.edit(chatID, msgID, "🏠 Main Menu\n\nChoose an option below:", b.mainMenu())
	case "settings":
		err = b.edit(chatID, msgID, "⚙️ Settings\n\nOpen the app to manage your goals and preferences.",
			tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("⚙️ Open Settings", b.deps.WebAppURL+"/settings")),
				tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "menu")),
			))
	default:
		name = "unknown"
	}
	metrics.BotUpdates.WithLabelValues("callback", name).Inc()
	if err != nil {
		b.fail(ctx, chatID, err)
	}
}

// account resolves the sender. Bot API updates are authenticated by
// Telegram itself, so the profile is taken as is.
func (b *Bot) account(ctx context.Context, u *tgbotapi.User) (*domain.Account, error) {
	return b.deps.Accounts.Resolve(ctx, profileOf(u))
}

func profileOf(u *tgbotapi.User) domain.TelegramProfile {
	p := domain.TelegramProfile{ID: u.ID, FirstName: u.FirstName, LanguageCode: u.LanguageCode}
	if u.UserName != "" {
		username := u.UserName
		p.Username = &username
	}
	if u.LastName != "" {
		last := u.LastName
		p.LastName = &last
	}
	return p
}

func (b *Bot) reply(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) edit(chatID int64, msgID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	_, err := b.api.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, markup))
	return err
}

func (b *Bot) fail(ctx context.Context, chatID int64, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Msg("bot update failed")
	if sendErr := b.reply(chatID, "Something went wrong. Please try again later.", nil); sendErr != nil {
		zerolog.Ctx(ctx).Warn().Err(sendErr).Msg("send failure notice")
	}
}

func (b *Bot) mainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("🏋️ Open Fitness App", b.deps.WebAppURL)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Today's Summary", "today"),
			tgbotapi.NewInlineKeyboardButtonData("🛒 Shopping List", "shopping"),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", "settings")),
	)
}

// botLogger routes the library's own logging through zerolog.
type botLogger struct{}

func (botLogger) Println(v ...interface{}) { log.Debug().Msg(fmt.Sprint(v...)) }

func (botLogger) Printf(format string, v ...interface{}) { log.Debug().Msgf(format, v...) }
