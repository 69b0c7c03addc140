package ui

import (
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/transcript"
)

// ResultView decorates the current result with UI-only fields
type ResultView struct {
	State      model.DisplayState
	Result     *model.SummaryResult
	Language   model.Language
	Segments   []model.Segment
	Utterances []transcript.Utterance
	Badge      string
}

// NewResultView prepares r (which may be nil) for display
func NewResultView(r *model.SummaryResult) ResultView {
	v := ResultView{State: model.StateOf(r), Result: r}
	if r == nil {
		return v
	}
	v.Language = model.NormalizeLanguage(r.Language)
	v.Segments = transcript.Segments(r)
	if r.Sentiment != nil {
		v.Badge = r.Sentiment.Badge()
	}
	if r.Displayable() {
		v.Utterances = transcript.Utterances(r.SummaryTranslated, v.Language.Name, transcript.DefaultUtteranceLength)
	}
	return v
}

// HistoryView is one row of the history list
type HistoryView struct {
	model.HistoryItem
	Reprocessable bool
}

// NewHistoryViews decorates items for the history list
func NewHistoryViews(items []model.HistoryItem) []HistoryView {
	views := make([]HistoryView, 0, len(items))
	for _, it := range items {
		views = append(views, HistoryView{HistoryItem: it, Reprocessable: !it.IsUpload()})
	}
	return views
}

// HomeData is everything the main page renders
type HomeData struct {
	Email       string
	AuthEnabled bool
	Preferred   model.Language
	Languages   []model.Language
	Result      ResultView
	History     []HistoryView
	Logs        []model.LogEvent
	Progress    *model.ProgressSnapshot
}

// ProfileData is the signed-in user's account page
type ProfileData struct {
	User      *model.User
	Preferred model.Language
	Languages []model.Language
	Logs      []model.LogEvent
}
