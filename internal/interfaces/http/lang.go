package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

const (
	langCookie     = "lang"
	langContextKey = "lang"
)

var (
	supportedLangs = []entity.Lang{entity.LangEnglish, entity.LangBengali}
	langMatcher    = language.NewMatcher([]language.Tag{language.English, language.Bengali})
)

// parseLang accepts any tag whose base language is supported ("bn-BD" is bn)
func parseLang(s string) (entity.Lang, bool) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, l := range supportedLangs {
		if base.String() == string(l) {
			return l, true
		}
	}
	return "", false
}

// negotiateLang picks the response language: ?lang=, then the lang cookie,
// then Accept-Language, defaulting to English.
func negotiateLang(c *gin.Context) (lang entity.Lang, fromQuery bool) {
	if q := c.Query("lang"); q != "" {
		if l, ok := parseLang(q); ok {
			return l, true
		}
	}
	if v, err := c.Cookie(langCookie); err == nil {
		if l, ok := parseLang(v); ok {
			return l, false
		}
	}

	tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
	if err == nil && len(tags) > 0 {
		_, idx, conf := langMatcher.Match(tags...)
		if conf != language.No {
			return supportedLangs[idx], false
		}
	}
	return entity.LangEnglish, false
}

// langMiddleware stores the negotiated language and remembers an explicit
// ?lang= choice in a cookie for a year.
func langMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang, fromQuery := negotiateLang(c)
		if fromQuery {
			c.SetCookie(langCookie, string(lang), 365*24*3600, "/", "", false, false)
		}
		c.Set(langContextKey, lang)
		c.Header("Content-Language", string(lang))
		c.Next()
	}
}

func langFrom(c *gin.Context) entity.Lang {
	if v, ok := c.Get(langContextKey); ok {
		if l, ok := v.(entity.Lang); ok {
			return l
		}
	}
	return entity.LangEnglish
}
