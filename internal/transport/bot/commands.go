package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lifeguard-api/internal/domain"
)

const helpText = `🆘 Lifeguard Help

Commands:
/start - Main menu and open the app
/today - View today's summary
/shop - View shopping list
/add - Quick add items (e.g. /add milk, eggs)
/water - Log water intake (e.g. /water 2)
/help - Show this help message

Open the Web App for the full set of features.`

// maxGlasses matches the upper bound the HTTP API accepts for one log.
const maxGlasses = 100

const addUsage = "Usage: /add item1, item2, item3\n\nExample: /add milk, eggs, bread"

func (b *Bot) start(ctx context.Context, m *tgbotapi.Message) error {
	a, err := b.account(ctx, m.From)
	if err != nil {
		return err
	}
	text := fmt.Sprintf(`👋 Welcome to Lifeguard, %s!

I'm your personal fitness and nutrition assistant.

🏋️ Fitness: log workouts, track exercises and monitor your progress.
🍎 Nutrition: log meals, track calories and macros, stay hydrated.
🛒 Shopping: keep track of groceries and health products to buy.

Use the buttons below or open the full app for more features!`, a.FirstName)
	menu := b.mainMenu()
	return b.reply(m.Chat.ID, text, &menu)
}

func (b *Bot) today(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	a, err := b.account(ctx, from)
	if err != nil {
		return err
	}
	day := b.deps.Nutrition.Today()
	sum, err := b.deps.Nutrition.DailySummary(ctx, a, day)
	if err != nil {
		return err
	}
	workouts, err := b.deps.Workouts.ListOn(ctx, a.AccountID, day)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("📊 Today's Summary\n\n🏋️ Workouts\n")
	if len(workouts) == 0 {
		sb.WriteString("No workouts logged yet.\n")
	}
	for _, w := range workouts {
		fmt.Fprintf(&sb, "• %s (%d min)\n", w.Name, w.DurationMinutes)
	}
	fmt.Fprintf(&sb, "\n🍎 Nutrition\nCalories: %d / %d\nProtein: %sg / %dg\nCarbs: %sg / %dg\nFat: %sg / %dg\n",
		sum.TotalCalories, sum.CalorieGoal,
		grams(sum.TotalProtein), sum.ProteinGoal,
		grams(sum.TotalCarbs), sum.CarbsGoal,
		grams(sum.TotalFat), sum.FatGoal)
	fmt.Fprintf(&sb, "\n💧 Water\n%d / %d glasses", sum.WaterGlasses, sum.WaterGoal)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📝 Log Activity", b.deps.WebAppURL+"/workout/new"),
			tgbotapi.NewInlineKeyboardButtonURL("🍽️ Log Meal", b.deps.WebAppURL+"/nutrition/new"),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💧 +1 Water", "water_add")),
	)
	return b.reply(chatID, sb.String(), &kb)
}

func (b *Bot) shop(ctx context.Context, chatID int64, from *tgbotapi.User) error {
	a, err := b.account(ctx, from)
	if err != nil {
		return err
	}
	pending := false
	items, err := b.deps.Shopping.List(ctx, a.AccountID, domain.ShoppingFilter{Purchased: &pending})
	if err != nil {
		return err
	}

	var text string
	if len(items) == 0 {
		text = "🛒 Your shopping list is empty!\n\nUse /add item1, item2 to add items."
	} else {
		var sb strings.Builder
		sb.WriteString("🛒 Shopping List\n\n")
		for _, it := range items {
			sb.WriteString("• " + it.Name)
			if it.Quantity != nil && *it.Quantity != "" {
				sb.WriteString(" (" + *it.Quantity + ")")
			}
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "\n📦 %d items pending", len(items))
		text = sb.String()
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("📝 Manage List", b.deps.WebAppURL+"/shopping")),
	)
	return b.reply(chatID, text, &kb)
}

func (b *Bot) add(ctx context.Context, m *tgbotapi.Message) error {
	names := splitItems(m.CommandArguments())
	if len(names) == 0 {
		return b.reply(m.Chat.ID, addUsage, nil)
	}
	a, err := b.account(ctx, m.From)
	if err != nil {
		return err
	}
	reqs := make([]domain.CreateShoppingItemRequest, len(names))
	for i, n := range names {
		reqs[i] = domain.CreateShoppingItemRequest{Name: n}
	}
	if _, err := b.deps.Shopping.CreateMany(ctx, a.AccountID, reqs); err != nil {
		return err
	}
	return b.reply(m.Chat.ID, fmt.Sprintf("✅ Added %d item(s) to your shopping list:\n• %s",
		len(names), strings.Join(names, "\n• ")), nil)
}

func (b *Bot) water(ctx context.Context, m *tgbotapi.Message) error {
	glasses := parseGlasses(m.CommandArguments())
	a, err := b.account(ctx, m.From)
	if err != nil {
		return err
	}
	total, err := b.logWater(ctx, a, glasses)
	if err != nil {
		return err
	}
	return b.reply(m.Chat.ID, fmt.Sprintf("💧 Logged %d glass(es) of water!\n\nToday's total: %d / %d glasses",
		glasses, total, a.DailyWaterGoal), nil)
}

func (b *Bot) waterAdd(ctx context.Context, chatID int64, msgID int, from *tgbotapi.User) error {
	a, err := b.account(ctx, from)
	if err != nil {
		return err
	}
	total, err := b.logWater(ctx, a, 1)
	if err != nil {
		return err
	}
	return b.edit(chatID, msgID, fmt.Sprintf("💧 +1 glass of water!\n\nToday's total: %d / %d glasses", total, a.DailyWaterGoal),
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💧 +1 More", "water_add")),
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Menu", "menu")),
		))
}

// logWater records glasses for today and returns the new daily total.
func (b *Bot) logWater(ctx context.Context, a *domain.Account, glasses int) (int, error) {
	if _, err := b.deps.Nutrition.LogWater(ctx, a.AccountID, domain.CreateWaterLogRequest{Glasses: glasses}); err != nil {
		return 0, err
	}
	return b.deps.Nutrition.TodayWater(ctx, a.AccountID)
}

// splitItems splits a comma separated list, dropping blanks.
func splitItems(args string) []string {
	var out []string
	for _, s := range strings.Split(args, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseGlasses reads the first argument as a glass count. Anything missing,
// non-numeric or below one counts as a single glass; large counts are capped.
func parseGlasses(args string) int {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 1
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxGlasses)
}

func grams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
