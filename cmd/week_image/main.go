package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"

	_ "time/tzdata"
)

// Рисует картинку недели для переноса записи на тестовых данных
func main() {
	out := flag.String("o", "week.png", "output file")
	tz := flag.String("tz", "Europe/Moscow", "clinic timezone")
	flag.Parse()

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Printf("Неизвестный пояс: %v\n", err)
		os.Exit(1)
	}

	clock := slots.NewClock(loc, time.Now)
	today := clock.Today()

	// Исходная запись послезавтра в 14:00, это время уже занято
	original := civil.DateTime{Date: today.AddDays(2), Time: civil.Time{Hour: 14}}
	sess := booking.NewEditSession(clock, slots.AlignMonday, booking.Target{DentistID: 1, AppointmentID: 1}, original)

	var raw []slots.TimeSlot
	for offset, hours := range [][]int{
		{9, 10, 11},
		{10, 16},
		{9, 12, 15},
		{11},
		{9, 10, 13, 17},
	} {
		for _, h := range hours {
			raw = append(raw, slots.TimeSlot{Start: civil.DateTime{
				Date: today.AddDays(offset),
				Time: civil.Time{Hour: h},
			}})
			raw = append(raw, slots.TimeSlot{Start: civil.DateTime{
				Date: today.AddDays(offset),
				Time: civil.Time{Hour: h, Minute: 30},
			}})
		}
	}

	ticket := sess.BeginFetch()
	if _, err := sess.Apply(ticket, raw); err != nil {
		fmt.Printf("Ошибка загрузки слотов: %v\n", err)
		os.Exit(1)
	}

	// Новый выбор в день исходной записи
	if err := sess.ViewDay(original.Date); err == nil {
		_ = sess.Select("15:00")
	}

	window := sess.Window()
	imageData, err := common.GenerateWeekImage(window, sess.Week(), clock.Now())
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *out)
	fmt.Printf("📅 Период: %s\n", window)
	fmt.Printf("📊 Слотов: %d\n", len(raw))
}
