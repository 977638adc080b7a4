package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

var ErrTranslatorNotFound = errors.New("handler: english translator not found")

var enLabels = map[string]string{
	"role.INNOVATOR":           "innovator",
	"role.ACCESSOR":            "accessor",
	"role.QUALIFYING_ACCESSOR": "qualifying accessor",
	"role.ASSESSMENT":          "needs assessment team",
	"role.ADMIN":               "administrator",

	"support.SUGGESTED":  "suggested",
	"support.ENGAGING":   "engaging",
	"support.WAITING":    "waiting",
	"support.UNASSIGNED": "unassigned",
	"support.UNSUITABLE": "unsuitable",
	"support.CLOSED":     "closed",

	"task.OPEN":      "open",
	"task.DONE":      "done",
	"task.DECLINED":  "declined",
	"task.CANCELLED": "cancelled",

	"unit.fallback": "the needs assessment team",
}

// Labels translates enum values into the wording used in email params.
type Labels struct {
	trans ut.Translator
}

func NewLabels() (*Labels, error) {
	enLocale := en.New()
	trans, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	for key, text := range enLabels {
		if err := trans.Add(key, text, false); err != nil {
			return nil, err
		}
	}

	return &Labels{trans: trans}, nil
}

func (l *Labels) t(key, fallback string) string {
	s, err := l.trans.T(key)
	if err != nil || s == "" {
		return strings.ToLower(strings.ReplaceAll(fallback, "_", " "))
	}
	return s
}

func (l *Labels) Role(r entity.Role) string {
	return l.t("role."+string(r), string(r))
}

func (l *Labels) SupportStatus(s entity.SupportStatus) string {
	return l.t("support."+string(s), string(s))
}

func (l *Labels) TaskStatus(s entity.TaskStatus) string {
	return l.t("task."+string(s), string(s))
}

// UnitName falls back to a generic wording when the actor has no unit.
func (l *Labels) UnitName(name string) string {
	if name != "" {
		return name
	}
	return l.t("unit.fallback", "")
}
