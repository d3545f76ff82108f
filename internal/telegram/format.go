package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
)

var sortLabels = map[shopping.SortMode]string{
	shopping.SortNone:         "original order",
	shopping.SortAlphabetical: "A-Z",
	shopping.SortCategory:     "by category",
}

func formatListMarkdown(view *app.View) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n")
	if len(view.Items) == 0 {
		sb.WriteString("\n_The list is empty._\n")
		return sb.String()
	}

	p := view.Progress
	sb.WriteString(fmt.Sprintf("%d of %d checked (%d%%)\n", p.Checked, p.Total, p.Percentage))

	if view.Mode == shopping.SortCategory {
		for _, g := range view.Groups {
			sb.WriteString(fmt.Sprintf("\n*%s*\n", escape(string(g.Category))))
			for _, it := range g.Items {
				writeItem(&sb, it.Item)
			}
		}
		return sb.String()
	}

	sb.WriteString("\n")
	for _, it := range view.Items {
		writeItem(&sb, it.Item)
	}
	return sb.String()
}

func writeItem(sb *strings.Builder, it shopping.Item) {
	mark := "▫️"
	if it.Checked {
		mark = "✅"
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", mark, escape(it.String())))
}

// listKeyboard has one toggle button per item in display order plus a button
// cycling the sort mode. Toggle data carries the stored index and item tag.
func listKeyboard(view *app.View) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range view.Items {
		label := "▫️ " + it.String()
		if it.Checked {
			label = "✅ " + it.String()
		}
		data := "toggle|" + strconv.Itoa(it.Index) + "|" + it.Tag() + "|" + string(view.Mode)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	next := view.Mode.Next()
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔃 Sort: "+sortLabels[next], "sort|"+string(next)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func formatRecipesMarkdown(recipes []recipe.Recipe) string {
	if len(recipes) == 0 {
		return "📖 No recipes yet. Send a recipe URL to import one."
	}
	var sb strings.Builder
	sb.WriteString("📖 *Recipes*\n\n")
	for i, r := range recipes {
		sb.WriteString(fmt.Sprintf("%d. %s (%d servings)", i+1, escape(r.Name), r.Servings))
		if r.Image != "" {
			sb.WriteString(" 🖼")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatImportMarkdown(r recipe.Recipe, skipped []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Servings:* %d\n*Ingredients:* %d\n",
		escape(r.Name), r.Servings, len(r.Ingredients)))
	if len(skipped) > 0 {
		sb.WriteString("\n⚠️ *Skipped lines:*\n")
		for _, line := range skipped {
			sb.WriteString("• " + escape(line) + "\n")
		}
	}
	return sb.String()
}

func formatStatsMarkdown(activity []metrics.DailyActivity, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(activity) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range activity {
		sb.WriteString(fmt.Sprintf("• *%s*: %d lists, %d fridge checks, %d toggles (%d events)\n",
			d.Date, d.ListsCreated, d.FridgeChecks, d.ItemsToggled, d.TotalEvents))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
