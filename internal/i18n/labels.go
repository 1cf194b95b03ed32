// Package i18n holds the on-screen text of the shells.
//
// Messages are registered in an x/text catalog keyed by their English
// format string. The Korean strings come from the Christmas edition.
package i18n

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/robalobadob/memorygame/internal/game"
)

const (
	msgTitle     = "Christmas Memory Game"
	msgAttempts  = "Attempts: %d"
	msgTime      = "Time: %ds"
	msgComplete  = "Game complete!"
	msgAllFound  = "You matched them all!"
	msgTotalTime = "Total time: %ds"
	msgRecord    = "Final recorded time: %ds"
)

// Supported lists the locales with translations, default first.
var Supported = []language.Tag{language.English, language.Korean}

var translations = map[language.Tag]map[string]string{
	language.English: {
		msgTitle:     msgTitle,
		msgAttempts:  msgAttempts,
		msgTime:      msgTime,
		msgComplete:  msgComplete,
		msgAllFound:  msgAllFound,
		msgTotalTime: msgTotalTime,
		msgRecord:    msgRecord,
	},
	language.Korean: {
		msgTitle:     "크리스마스 메모리 게임",
		msgAttempts:  "시도 횟수: %d",
		msgTime:      "시간: %d초",
		msgComplete:  "게임 완료!",
		msgAllFound:  "다 맞추셨습니다!",
		msgTotalTime: "총 시간: %d초",
		msgRecord:    "최종 기록된 시간: %d초",
	},
}

var (
	cat     = mustCatalog()
	matcher = language.NewMatcher(Supported)
)

func mustCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Labels renders shell text in one locale.
type Labels struct {
	Tag language.Tag
	p   *message.Printer
}

// For picks the best supported locale for an Accept-Language header
// or a plain tag such as "ko" or "en-US". Unknown input yields English.
func For(pref string) Labels {
	_, idx := language.MatchStrings(matcher, pref)
	tag := Supported[idx]
	return Labels{Tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

func (l Labels) Title() string { return l.p.Sprintf(msgTitle) }
func (l Labels) Attempts(n int) string { return l.p.Sprintf(msgAttempts, n) }
func (l Labels) Complete() string { return l.p.Sprintf(msgComplete) }
func (l Labels) AllMatched() string { return l.p.Sprintf(msgAllFound) }
func (l Labels) Time(d time.Duration) string {
	return l.p.Sprintf(msgTime, int(d/time.Second))
}
func (l Labels) TotalTime(d time.Duration) string {
	return l.p.Sprintf(msgTotalTime, int(d/time.Second))
}
func (l Labels) Record(d time.Duration) string {
	return l.p.Sprintf(msgRecord, int(d/time.Second))
}

// View is the label set sent with every frame.
type View struct {
	Locale   string   `json:"locale"`
	Attempts string   `json:"attempts"`
	Time     string   `json:"time"`
	Summary  []string `json:"summary,omitempty"`
}

// Frame builds the labels for a snapshot; the summary lines only appear
// once the game is complete.
func (l Labels) Frame(snap game.Snapshot, sum game.Summary) View {
	v := View{
		Locale:   l.Tag.String(),
		Attempts: l.Attempts(snap.Attempts),
		Time:     l.Time(snap.Elapsed),
	}
	if snap.Complete {
		v.Summary = l.SummaryLines(sum)
	}
	return v
}

// SummaryLines is the end-of-game text, top to bottom.
func (l Labels) SummaryLines(sum game.Summary) []string {
	return []string{
		l.Complete(),
		l.TotalTime(sum.Total),
		l.Attempts(sum.Attempts),
		l.AllMatched(),
		l.Record(sum.Total),
	}
}
