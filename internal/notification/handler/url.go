package handler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

var ErrInvalidBaseURL = errors.New("handler: web base url must be absolute")

// URL builds links into the web app. Every role has its own area.
type URL struct {
	base *url.URL
}

func NewURL(base string) (*URL, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}
	return &URL{base: u}, nil
}

func rolePath(role entity.Role) string {
	switch role {
	case entity.RoleInnovator:
		return "innovator"
	case entity.RoleAccessor, entity.RoleQualifyingAccessor:
		return "accessor"
	case entity.RoleAssessment:
		return "assessment"
	case entity.RoleAdmin:
		return "admin"
	default:
		return ""
	}
}

// For joins parts under the role area. Unknown roles link to the web root.
func (u *URL) For(role entity.Role, parts ...string) string {
	area := rolePath(role)
	if area == "" {
		return u.base.String()
	}
	return u.base.JoinPath(append([]string{area}, parts...)...).String()
}

func (u *URL) Innovation(role entity.Role, innovationID string, parts ...string) string {
	return u.For(role, append([]string{"innovations", innovationID}, parts...)...)
}

func (u *URL) Thread(role entity.Role, innovationID, threadID string) string {
	return u.Innovation(role, innovationID, "threads", threadID)
}

// Public links outside the role areas, e.g. sign up pages for invitees.
func (u *URL) Public(path string, query url.Values) string {
	out := u.base.JoinPath(path)
	if len(query) > 0 {
		out.RawQuery = query.Encode()
	}
	return out.String()
}
