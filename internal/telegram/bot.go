package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/config"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
	"recipe-shopper/internal/validation"
)

// botAPI is the part of tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot wraps the Telegram API and the shopping list use cases.
type Bot struct {
	api          botAPI
	app          *app.App
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       *zap.Logger
	httpClient   *http.Client
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, metricsStore *metrics.Store, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("response", resp.Description))

	return newBot(api, application, metricsStore, cfg, logger), nil
}

func newBot(api botAPI, application *app.App, metricsStore *metrics.Store, cfg *config.Config, logger *zap.Logger) *Bot {
	return &Bot{
		api:          api,
		app:          application,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logger,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if !b.authorized(update.CallbackQuery.From) {
			return
		}
		go b.handleCallbackQuery(context.Background(), update.CallbackQuery)
		return
	}

	if update.Message == nil || !b.authorized(update.Message.From) {
		return
	}

	go b.processMessage(context.Background(), update.Message)
}

func (b *Bot) authorized(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if user.ID == id {
			return true
		}
	}
	b.logger.Warn("unauthorized access attempt", zap.Int64("user_id", user.ID), zap.String("username", user.UserName))
	return false
}

func ownerOf(user *tgbotapi.User) string {
	return strconv.FormatInt(user.ID, 10)
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	if msg.IsCommand() {
		args := msg.CommandArguments()
		switch msg.Command() {
		case "start", "help":
			b.reply(msg.Chat.ID, helpText)
		case "recipes":
			b.handleRecipes(ctx, msg)
		case "shop":
			b.handleShop(ctx, msg, args)
		case "list":
			b.handleList(ctx, msg, args)
		case "fridge":
			b.handleFridge(ctx, msg, args)
		case "clear":
			b.handleClear(ctx, msg)
		case "delete":
			b.handleDelete(ctx, msg, args)
		case "stats":
			b.handleStatsRequest(ctx, msg)
		default:
			b.reply(msg.Chat.ID, "Unknown command.\n\n"+helpText)
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImport(ctx, msg, text)
		return
	}

	b.reply(msg.Chat.ID, helpText)
}

const helpText = "🛒 *Recipe Shopper*\n\n" +
	"/recipes - list saved recipes\n" +
	"/shop 1 2=6 - build a list from recipes 1 and 2 (2 for 6 servings)\n" +
	"/list - show the shopping list\n" +
	"/fridge - one line per item you already have, e.g. `200 g Mehl`\n" +
	"/clear - delete the shopping list\n" +
	"/delete 3 - delete recipe 3\n\n" +
	"Send a recipe URL to import it. Send a photo captioned with a recipe number to attach it."

func (b *Bot) handleRecipes(ctx context.Context, msg *tgbotapi.Message) {
	recipes, err := b.app.ListRecipes(ctx)
	if err != nil {
		b.replyError(msg.Chat.ID, "Error loading recipes", err)
		return
	}
	b.reply(msg.Chat.ID, formatRecipesMarkdown(recipes))
}

func (b *Bot) handleShop(ctx context.Context, msg *tgbotapi.Message, args string) {
	recipes, err := b.app.ListRecipes(ctx)
	if err != nil {
		b.replyError(msg.Chat.ID, "Error loading recipes", err)
		return
	}
	picks, err := parsePicks(args, recipes)
	if err != nil {
		b.replyError(msg.Chat.ID, "Invalid selection", err)
		return
	}

	owner := ownerOf(msg.From)
	if _, err := b.app.GenerateList(ctx, owner, picks); err != nil {
		b.replyError(msg.Chat.ID, "Error building shopping list", err)
		return
	}
	b.sendList(ctx, msg.Chat.ID, owner, shopping.SortNone)
}

func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message, args string) {
	mode, err := shopping.ParseSortMode(strings.TrimSpace(args))
	if err != nil {
		b.replyError(msg.Chat.ID, "Invalid sort mode", err)
		return
	}
	b.sendList(ctx, msg.Chat.ID, ownerOf(msg.From), mode)
}

func (b *Bot) sendList(ctx context.Context, chatID int64, owner string, mode shopping.SortMode) {
	view, err := b.app.View(ctx, owner, mode)
	if err != nil {
		b.replyListError(chatID, err)
		return
	}
	out := tgbotapi.NewMessage(chatID, formatListMarkdown(view))
	out.ParseMode = tgbotapi.ModeMarkdown
	out.ReplyMarkup = listKeyboard(view)
	b.send(out)
}

func (b *Bot) handleFridge(ctx context.Context, msg *tgbotapi.Message, args string) {
	lines := strings.Split(args, "\n")
	res, err := b.app.FridgeCheck(ctx, ownerOf(msg.From), lines)
	if err != nil {
		b.replyListError(msg.Chat.ID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("🧊 *Fridge check*\n")
	sb.WriteString(fmt.Sprintf("• Removed: %d\n• Reduced: %d\n", res.Removed, res.Reduced))
	for _, line := range res.Skipped {
		sb.WriteString(fmt.Sprintf("• Skipped: %s\n", escape(line)))
	}
	b.reply(msg.Chat.ID, sb.String())
	b.sendList(ctx, msg.Chat.ID, ownerOf(msg.From), shopping.SortNone)
}

func (b *Bot) handleClear(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.app.ClearList(ctx, ownerOf(msg.From)); err != nil {
		b.replyError(msg.Chat.ID, "Error clearing shopping list", err)
		return
	}
	b.reply(msg.Chat.ID, "🗑 Shopping list cleared.")
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message, args string) {
	rec, err := b.recipeByNumber(ctx, args)
	if err != nil {
		b.replyError(msg.Chat.ID, "Invalid recipe", err)
		return
	}
	if err := b.app.DeleteRecipe(ctx, rec.ID); err != nil {
		b.replyError(msg.Chat.ID, "Error deleting recipe", err)
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🗑 Deleted *%s*.", escape(rec.Name)))
}

func (b *Bot) handleImport(ctx context.Context, msg *tgbotapi.Message, url string) {
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, "✂️ *Importing recipe...*")
	replyMsg.ParseMode = tgbotapi.ModeMarkdown
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		b.logger.Warn("failed to send initial reply", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	var finalText string
	res, err := b.app.ImportRecipe(ctx, ownerOf(msg.From), url)
	if err != nil {
		b.logger.Warn("error importing recipe", zap.String("url", url), zap.Error(err))
		finalText = errorText("Error importing recipe", err)
	} else {
		finalText = formatImportMarkdown(res.Recipe, res.Skipped)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

// handlePhoto attaches the largest size of a photo to the recipe numbered in
// its caption.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	rec, err := b.recipeByNumber(ctx, msg.Caption)
	if err != nil {
		b.replyError(msg.Chat.ID, "Caption the photo with a recipe number", err)
		return
	}

	photo := msg.Photo[len(msg.Photo)-1]
	data, err := b.download(ctx, photo.FileID)
	if err != nil {
		b.replyError(msg.Chat.ID, "Error downloading photo", err)
		return
	}

	if _, err := b.app.AttachImage(ctx, ownerOf(msg.From), rec.ID, http.DetectContentType(data), data); err != nil {
		b.replyError(msg.Chat.ID, "Error saving photo", err)
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🖼 Photo saved for *%s*.", escape(rec.Name)))
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	// One byte over the limit is enough for the validator to reject it.
	limit := b.app.Validator().Limits().MaxImageSize + 1
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	if query.Message == nil {
		return
	}
	chatID, messageID := query.Message.Chat.ID, query.Message.MessageID
	owner := ownerOf(query.From)

	parts := strings.Split(query.Data, "|")
	var (
		view *app.View
		err  error
	)
	switch {
	case parts[0] == "toggle" && len(parts) == 4:
		idx, convErr := strconv.Atoi(parts[1])
		if convErr != nil {
			return
		}
		mode, _ := shopping.ParseSortMode(parts[3])
		if _, err = b.app.ToggleItem(ctx, owner, idx, parts[2]); err == nil {
			view, err = b.app.View(ctx, owner, mode)
		}
	case parts[0] == "sort" && len(parts) == 2:
		mode, _ := shopping.ParseSortMode(parts[1])
		view, err = b.app.View(ctx, owner, mode)
	default:
		b.logger.Warn("unknown callback", zap.String("data", query.Data))
		return
	}

	if err != nil {
		b.replyListError(chatID, err)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, formatListMarkdown(view), listKeyboard(view))
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

func (b *Bot) handleStatsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	activity, err := b.metricsStore.GetDailyActivity(ctx, 7)
	if err != nil {
		b.replyError(msg.Chat.ID, "Error fetching metrics", err)
		return
	}
	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))
	b.reply(msg.Chat.ID, formatStatsMarkdown(activity, health))
}

// recipeByNumber resolves a 1-based position in the recipe list.
func (b *Bot) recipeByNumber(ctx context.Context, arg string) (*recipe.Recipe, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return nil, fmt.Errorf("not a recipe number: %q", arg)
	}
	recipes, err := b.app.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(recipes) {
		return nil, fmt.Errorf("no recipe number %d", n)
	}
	return &recipes[n-1], nil
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

func (b *Bot) replyError(chatID int64, title string, err error) {
	b.reply(chatID, errorText(title, err))
}

func (b *Bot) replyListError(chatID int64, err error) {
	switch {
	case errors.Is(err, app.ErrNoShoppingList):
		b.reply(chatID, "📭 No shopping list yet. Pick recipes with /shop.")
	case errors.Is(err, app.ErrItemNotFound):
		b.reply(chatID, "That item is no longer on the list.")
	default:
		b.logger.Error("shopping list request failed", zap.Error(err))
		b.replyError(chatID, "Error loading shopping list", err)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Error(err))
	}
}

// parsePicks reads "1 2=6 3" into picks against the numbered recipe list.
// "n=s" overrides the servings of recipe n.
func parsePicks(args string, recipes []recipe.Recipe) ([]app.Pick, error) {
	fields := strings.FieldsFunc(args, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, app.ErrNoSelection
	}

	picks := make([]app.Pick, 0, len(fields))
	for _, f := range fields {
		numStr, servStr, hasServings := strings.Cut(f, "=")
		n, err := strconv.Atoi(numStr)
		if err != nil || n < 1 || n > len(recipes) {
			return nil, fmt.Errorf("%w: no recipe number %q", validation.ErrInvalid, numStr)
		}
		pick := app.Pick{RecipeID: recipes[n-1].ID}
		if hasServings {
			s, err := strconv.Atoi(servStr)
			if err != nil || s < 1 {
				return nil, fmt.Errorf("%w: invalid servings %q", validation.ErrInvalid, servStr)
			}
			pick.Servings = s
		}
		picks = append(picks, pick)
	}
	return picks, nil
}

func errorText(title string, err error) string {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *%s:*\n```\n%v\n```", title, safeErr)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
