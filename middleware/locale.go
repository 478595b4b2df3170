package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"minerva_app_go/config"
	"minerva_app_go/services/i18n"

	"github.com/labstack/echo/v4"
)

// DefaultLocale is used when the request expresses no supported preference
const DefaultLocale = "es"

var supportedLocales = []string{"es", "en"}

func isSupportedLocale(lang string) bool {
	for _, l := range supportedLocales {
		if l == lang {
			return true
		}
	}
	return false
}

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. Default ("es")
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := strings.ToLower(c.QueryParam("lang"))
			if lang != "" {
				if !isSupportedLocale(lang) {
					lang = DefaultLocale
				}
				setLanguageCookie(c, lang, cfg != nil && cfg.IsProduction())
			} else if cookie, err := c.Cookie("lang"); err == nil && isSupportedLocale(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				lang = localeFromAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}

			c.Set("locale", lang)

			// Request context carries the locale for services and templ components
			ctx := context.WithValue(c.Request().Context(), i18n.LocaleContextKey, lang)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// localeFromAcceptLanguage returns the first supported language in the
// header, in the order the client listed them
func localeFromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if isSupportedLocale(base) {
			return base
		}
	}
	return DefaultLocale
}

// SetLanguageCookie sets the language cookie
func SetLanguageCookie(c echo.Context, lang string) {
	cfg, ok := c.Get("config").(*config.Config)
	setLanguageCookie(c, lang, ok && cfg.IsProduction())
}

func setLanguageCookie(c echo.Context, lang string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     "lang",
		Value:    lang,
		Expires:  time.Now().Add(24 * 365 * time.Hour), // 1 year
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get("locale").(string); ok {
		return lang
	}
	return DefaultLocale
}
