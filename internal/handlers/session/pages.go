package session

import (
	_ "embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

//go:embed templates/auth_page.html
var authPageTemplateFile string

var authPageTemplate = template.Must(template.New("authPage").Parse(authPageTemplateFile))

// AuthPageData holds the data to be passed to the sign-in and sign-up pages.
type AuthPageData struct {
	SignUp bool
	Action string

	// Invitation is the link code the join page handed over, posted back
	// as a hidden field.
	Invitation     string
	GoogleLoginURL string
}

func (s *Sessions) handleSignInPage(c *gin.Context) {
	s.renderAuthPage(c, &AuthPageData{Action: "/auth/signin"})
}

func (s *Sessions) handleSignUpPage(c *gin.Context) {
	s.renderAuthPage(c, &AuthPageData{SignUp: true, Action: "/auth/signup"})
}

func (s *Sessions) renderAuthPage(c *gin.Context, data *AuthPageData) {
	data.Invitation = c.Query("invitation")
	if s.GoogleEnabled() {
		data.GoogleLoginURL = "/auth/google"
		if data.Invitation != "" {
			data.GoogleLoginURL += "?" + url.Values{"invitation": []string{data.Invitation}}.Encode()
		}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := authPageTemplate.Execute(c.Writer, data); err != nil {
		logger.Error().Err(err).Msg("Failed to render auth page")
	}
}
