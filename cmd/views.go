package main

import (
	"time"

	"github.com/translateme/translateme/history"
	"github.com/translateme/translateme/translation"
)

// Abbreviated date, short time.
const recordDateFormat = "Jan 2, 2006 at 3:04 PM"

type LanguageOption struct {
	Code     string
	Name     string
	Selected bool
}

type RecordView struct {
	Original       string
	Translated     string
	TargetLanguage string
	Date           string
}

type HomeView struct {
	Input     string
	Output    string
	Languages []LanguageOption
	Records   []RecordView
}

func (hv HomeView) HasOutput() bool {
	return hv.Output != ""
}

func languageOptions(selected string) []LanguageOption {
	if _, err := translation.ParseLanguage(selected); err != nil {
		selected = translation.DefaultLanguage.Code
	}
	langs := translation.Languages()
	return SliceToSlice(langs, func(lang translation.Language) LanguageOption {
		return LanguageOption{
			Code:     lang.Code,
			Name:     lang.DisplayName,
			Selected: lang.Code == selected,
		}
	})
}

func RecordViewFromRecord(rec history.Record, loc *time.Location) RecordView {
	date := rec.Date
	if loc != nil {
		date = date.In(loc)
	}
	return RecordView{
		Original:       rec.Original,
		Translated:     rec.Translated,
		TargetLanguage: rec.TargetLanguageName,
		Date:           date.Format(recordDateFormat),
	}
}

func homeViewFromScreen(screen history.Screen, records []history.Record) HomeView {
	return HomeView{
		Input:     screen.Input,
		Output:    screen.Output,
		Languages: languageOptions(screen.Language),
		Records: SliceToSlice(records, func(rec history.Record) RecordView {
			return RecordViewFromRecord(rec, time.Local)
		}),
	}
}
