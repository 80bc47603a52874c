package teamapi

import (
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamjoin/internal/handlers/firewall"
	"github.com/charleshuang3/teamjoin/internal/handlers/session"
	"github.com/charleshuang3/teamjoin/internal/invitations"
)

//go:embed templates/join_page.html
var joinPageTemplateFile string

var joinPageTemplate = template.Must(template.New("joinPage").Parse(joinPageTemplateFile))

// JoinPageData holds the data to be passed to the join page template.
type JoinPageData struct {
	// Invalid renders the "link no longer works" variant.
	Invalid bool

	InviterName    string
	InviterCompany string
	Role           string

	SignInURL     string
	SignUpURL     string
	GoogleSignURL string
}

func withInvitation(base, code string) string {
	return base + "?" + url.Values{"invitation": []string{code}}.Encode()
}

// joinPage is where shared links land. Signed in visitors join right away
// and go to the dashboard, anonymous ones are offered sign-in and sign-up
// links that carry the code.
func (a *TeamAPI) joinPage(c *gin.Context) {
	code := c.Param("code")
	lookup := invitations.Lookup{LinkCode: code}

	// Accept re-resolves the code itself, and succeeds again for a user
	// reopening a link they already used.
	if userID := session.UserID(c); userID != "" {
		res, err := a.invitations.Accept(c.Request.Context(), lookup, userID)
		if err != nil {
			a.joinPageError(c, err)
			return
		}
		if res.AlreadyMember {
			logger.Info().Str("user_id", userID).Msg("Join link opened by an existing member")
		}
		c.Redirect(http.StatusFound, a.config.DashboardURL)
		return
	}

	resolved, err := a.invitations.Validate(c.Request.Context(), lookup)
	if err != nil {
		a.joinPageError(c, err)
		return
	}

	data := &JoinPageData{
		InviterName:    resolved.InviterName,
		InviterCompany: resolved.InviterCompany,
		Role:           resolved.Invitation.Role,
		SignInURL:      withInvitation(a.config.SignInURL, code),
		SignUpURL:      withInvitation(a.config.SignUpURL, code),
	}
	if a.sessions.GoogleEnabled() {
		data.GoogleSignURL = withInvitation("/auth/google", code)
	}
	renderJoinPage(c, http.StatusOK, data)
}

func (a *TeamAPI) joinPageError(c *gin.Context, err error) {
	if errors.Is(err, invitations.ErrInvalidOrExpired) || errors.Is(err, invitations.ErrBadRequest) {
		firewall.MarkSuspicious(c, "invalid invitation code")
		renderJoinPage(c, http.StatusNotFound, &JoinPageData{Invalid: true})
		return
	}

	logger.Error().Err(err).Msg("Failed to handle join link")
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func renderJoinPage(c *gin.Context, status int, data *JoinPageData) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := joinPageTemplate.Execute(c.Writer, data); err != nil {
		logger.Error().Err(err).Msg("Failed to render join page")
	}
}
