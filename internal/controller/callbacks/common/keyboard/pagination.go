package keyboard

import (
	"fmt"

	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot/models"
)

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "dentists_page:")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	// Кнопка "Предыдущая"
	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	// Индикатор страницы
	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		callbacktypes.Noop,
	))

	// Кнопка "Следующая"
	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// Page возвращает границы страницы [start, end) и общее число страниц
func Page(total, page, perPage int) (start, end, pages int) {
	if perPage <= 0 {
		perPage = 1
	}
	pages = (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start = page * perPage
	end = min(start+perPage, total)
	return start, end, pages
}

// WeekPagination создаёт ряд переключения недель.
// Если назад нельзя, вместо стрелки ставится неактивная кнопка.
func WeekPagination(title string, canPrev bool) []models.InlineKeyboardButton {
	prev := Button("·", callbacktypes.Noop)
	if canPrev {
		prev = Button("◀️", callbacktypes.SlotPrev)
	}
	return []models.InlineKeyboardButton{
		prev,
		Button("📅 "+title, callbacktypes.Noop),
		Button("▶️", callbacktypes.SlotNext),
	}
}
