package common

import (
	"bytes"
	"image/color"
	"strconv"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minSlotHeight    = 14.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	slotMinutes      = 30
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 27.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 13.0
	emptyFontSize      = 30.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	pastDayColor     = color.NRGBA{200, 200, 200, 255}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotAvailableColor = color.RGBA{133, 193, 85, 220}
	slotSelectedColor  = color.RGBA{90, 150, 230, 235}
	slotPinnedColor    = color.RGBA{255, 182, 193, 255}
	slotBothColor      = color.RGBA{170, 120, 220, 235}
	slotPastColor      = color.RGBA{190, 190, 190, 200}
	slotTextColor      = color.RGBA{20, 24, 28, 230}
	slotPinnedText     = color.RGBA{120, 40, 50, 255}
	slotShadowColor    = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontData = map[FontStyle][]byte{
		FontStyleDefault: goregular.TTF,
		FontStyleBold:    gobold.TTF,
	}

	fontMu      sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}

	fontMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData[fontStyle])
		if err != nil {
			parsed = nil
		}
		cachedFonts[fontStyle] = parsed
	}
	fontMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	// fallback к встроенному шрифту
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует окно из семи дней со слотами в их состояниях.
// now текущее время клиники, по нему подсвечивается сегодняшний день.
func GenerateWeekImage(window slots.Window, week map[civil.Date][]booking.Slot, now civil.DateTime) ([]byte, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	hours := calculateHourRange(week)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / slots.WeekLength
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, window)
	drawHourLabels(dc, hours, cellHeight)

	todayIndex := -1
	for i, day := range window.Days() {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		isToday := day == now.Date
		if isToday {
			todayIndex = i
		}

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, isToday, slots.IsPastDate(day, now))
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, s := range week[day] {
			drawSlot(dc, s, x, y, dayWidth, hours, cellHeight)
		}
	}

	drawCurrentTimeLine(dc, todayIndex, now.Time, hours, cellHeight, dayWidth)
	if isEmptyWeek(week) {
		drawEmptyNotice(dc)
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

func isEmptyWeek(week map[civil.Date][]booking.Slot) bool {
	for _, list := range week {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(week map[civil.Date][]booking.Slot) hourRange {
	minHour := 24
	maxHour := 0

	for _, list := range week {
		for _, s := range list {
			t, err := slots.ParseTimeKey(s.Time)
			if err != nil {
				continue
			}
			endMinutes := t.Hour*60 + t.Minute + slotMinutes
			endH := (endMinutes + 59) / 60
			if t.Hour < minHour {
				minHour = t.Hour
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, window slots.Window) {
	startMonth := window.Start.Month
	endMonth := window.End.Month

	title := formatting.GetMonthName(startMonth)
	if startMonth != endMonth {
		title += " - " + formatting.GetMonthName(endMonth)
	}
	title += " " + strconv.Itoa(window.End.Year)

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2+10, float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday, isPast bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case isPast:
		dc.SetColor(pastDayColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date civil.Date, x, y float64, dayWidth int) {
	weekdayStr := formatting.GetWeekdayShort(formatting.Weekday(date))
	dateStr := formatTwoDigits(date.Day) + "." + formatTwoDigits(int(date.Month))

	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(dateStr, x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayStr, x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSlot рисует один слот
func drawSlot(dc *gg.Context, s booking.Slot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	t, err := slots.ParseTimeKey(s.Time)
	if err != nil {
		return
	}

	startHour := float64(t.Hour) + float64(t.Minute)/60.0
	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := float64(slotMinutes) / 60.0 * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}

	fillColor := getSlotColor(s)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+1+shadowOffset, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Fill()

	// Основной слот
	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+1, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+1, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Stroke()

	txtColor := slotTextColor
	if s.State == slots.StatePinnedUnavailable {
		txtColor = slotPinnedText
	}

	loadFont(dc, slotTimeFontSize)
	dc.SetColor(txtColor)
	dc.DrawStringAnchored(s.Time, x+dayPaddingX+8, slotY+slotHeight/2, 0, 0.35)
}

// getSlotColor возвращает цвет слота по его состоянию
func getSlotColor(s booking.Slot) color.RGBA {
	switch s.State {
	case slots.StateSelected:
		return slotSelectedColor
	case slots.StatePinnedUnavailable:
		return slotPinnedColor
	case slots.StateSelectedAndPinned:
		return slotBothColor
	}
	if s.Past {
		return slotPastColor
	}
	return slotAvailableColor
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени в колонке сегодняшнего дня
func drawCurrentTimeLine(dc *gg.Context, todayIndex int, now civil.Time, hours hourRange, cellHeight float64, dayWidth int) {
	if todayIndex < 0 {
		return
	}

	currentHour := float64(now.Hour) + float64(now.Minute)/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	x := float64(leftLabelsWidth + todayIndex*dayWidth)
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(x, y, x+float64(dayWidth), y)
	dc.Stroke()
}

// drawEmptyNotice подписывает пустую неделю
func drawEmptyNotice(dc *gg.Context) {
	loadFont(dc, emptyFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored("Нет свободного времени",
		float64(imageWidth-legendWidth+leftLabelsWidth)/2, float64(imageHeight+headerHeight)/2, 0.5, 0.5)
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + slots.WeekLength*dayWidth + 10)
	legendY := float64(imageHeight) - 160.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Свободно", slotAvailableColor},
		{"Выбрано", slotSelectedColor},
		{"Текущая запись", slotPinnedColor},
		{"Текущая, выбрана", slotBothColor},
		{"Прошло", slotPastColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+6, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// формат числа с двумя цифрами
func formatTwoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func formatHourLabel(h int) string {
	return formatTwoDigits(h) + ":00"
}
