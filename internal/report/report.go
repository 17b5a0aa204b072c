// Package report exports a reader's progress to an Excel workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/store"
)

// Sheet names, in workbook order.
const (
	SheetSummary    = "Summary"
	SheetSessions   = "Sessions"
	SheetRewards    = "Rewards"
	SheetRewardsLog = "Rewards Log"
)

// Data is everything the workbook shows.
type Data struct {
	Level            int
	Title            string
	NextLevelPercent int
	Streak           int
	BooksCompleted   int
	MinutesRead      int
	AverageWPM       float64
	AverageAccuracy  float64
	Points           int
	Sessions         []progress.SessionRecord
	Achievements     []progress.Achievement
	Badges           []rewards.Badge
	Milestones       []rewards.Milestone
	Events           []store.RewardEventRecord
}

// FromProfile gathers report data from a loaded profile and its reward log.
func FromProfile(p *profile.Profile, events []store.RewardEventRecord) Data {
	t, l := p.Progress, p.Rewards
	return Data{
		Level:            t.CurrentLevel(),
		Title:            progress.LevelTitle(t.CurrentLevel()),
		NextLevelPercent: t.NextLevelProgress(),
		Streak:           t.ActiveStreak(),
		BooksCompleted:   t.BooksCompleted(),
		MinutesRead:      t.TotalMinutesRead(),
		AverageWPM:       t.AverageWPM(),
		AverageAccuracy:  t.AverageAccuracy(),
		Points:           l.Points(),
		Sessions:         t.History(),
		Achievements:     t.Achievements(),
		Badges:           l.Badges(),
		Milestones:       l.Milestones(),
		Events:           events,
	}
}

// Write renders the workbook to w.
func Write(w io.Writer, d Data) error {
	f, err := build(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save renders the workbook to a file.
func Save(path string, d Data) error {
	f, err := build(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func build(d Data) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	w := &sheetWriter{f: f, header: header}
	w.summary(d)
	w.sessions(d.Sessions)
	w.rewards(d)
	w.log(d.Events)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter keeps the first error so the sheet builders read linearly.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) sheet(name string) {
	if w.err != nil || name == SheetSummary {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("add sheet %s: %w", name, err)
	}
}

func (w *sheetWriter) row(sheet string, n int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err == nil {
		err = w.f.SetSheetRow(sheet, cell, &values)
	}
	if err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, n, err)
	}
}

func (w *sheetWriter) headerRow(sheet string, cols ...any) {
	w.row(sheet, 1, cols...)
	if w.err != nil {
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		w.err = fmt.Errorf("%s header style: %w", sheet, err)
	}
}

func (w *sheetWriter) summary(d Data) {
	s := SheetSummary
	w.headerRow(s, "Measure", "Value")
	rows := [][]any{
		{"Level", d.Level},
		{"Rank", d.Title},
		{"Progress to next level (%)", d.NextLevelPercent},
		{"Current streak (days)", d.Streak},
		{"Books completed", d.BooksCompleted},
		{"Minutes read", d.MinutesRead},
		{"Average WPM (last 5)", round1(d.AverageWPM)},
		{"Average accuracy % (last 5)", round1(d.AverageAccuracy)},
		{"Points", d.Points},
		{"Sessions", len(d.Sessions)},
	}
	for i, r := range rows {
		w.row(s, i+2, r...)
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(s, "A", "A", 30)
	}
}

func (w *sheetWriter) sessions(recs []progress.SessionRecord) {
	s := SheetSessions
	w.sheet(s)
	w.headerRow(s, "Date", "Book", "WPM", "Accuracy", "Fluency", "Seconds", "Completed", "ID")
	for i, r := range recs {
		w.row(s, i+2, r.Date.Format("2006-01-02 15:04"), r.BookID, r.WordsPerMinute, r.Accuracy,
			r.Fluency, r.DurationSeconds, r.Completed, r.ID)
	}
}

func (w *sheetWriter) rewards(d Data) {
	s := SheetRewards
	w.sheet(s)
	w.headerRow(s, "Kind", "Name", "Detail", "Progress (%)", "Earned")
	n := 2
	for _, b := range d.Badges {
		w.row(s, n, "badge", b.Name, b.Rarity.DisplayName(), 100, b.DateEarned.Format("2006-01-02"))
		n++
	}
	for _, m := range d.Milestones {
		earned := ""
		if m.Completed {
			earned = "yes"
		}
		w.row(s, n, "milestone", m.Name, m.Description, round1(m.Percent()*100), earned)
		n++
	}
	for _, a := range d.Achievements {
		earned := ""
		if a.Achieved {
			earned = "yes"
		}
		w.row(s, n, "achievement", a.Name, a.Description, round1(a.Percent()*100), earned)
		n++
	}
}

func (w *sheetWriter) log(events []store.RewardEventRecord) {
	s := SheetRewardsLog
	w.sheet(s)
	w.headerRow(s, "Time", "Kind", "Points", "Total", "Badge", "Milestone", "Session", "Reason")
	for i, e := range events {
		w.row(s, i+2, e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind, e.Points, e.Total,
			e.BadgeID, e.MilestoneID, e.SessionID, e.Reason)
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
