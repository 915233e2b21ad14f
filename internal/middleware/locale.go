package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeKey struct{}

// LocaleKey is the context key locale negotiation stores its result under.
var LocaleKey = localeKey{}

var supportedLocales = []language.Tag{
	language.English,    // en: default
	language.Indonesian, // id
}

var localeMatcher = language.NewMatcher(supportedLocales)

// Locale negotiates the response language from the X-Locale override or
// the Accept-Language header and stores the base tag in the context.
func Locale(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := negotiateLocale(r, fallback)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func negotiateLocale(r *http.Request, fallback string) string {
	header := r.Header.Get("X-Locale")
	if header == "" {
		header = r.Header.Get("Accept-Language")
	}
	if header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			tag, _, conf := localeMatcher.Match(tags...)
			if conf > language.No {
				base, _ := tag.Base()
				return base.String()
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

// LocaleFromContext returns the negotiated locale, defaulting to English.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return "en"
}
