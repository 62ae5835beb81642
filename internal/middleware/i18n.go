// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/perfume-storefront/internal/i18n"
)

// I18nMiddleware picks the response language from ?lang or Accept-Language.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := matchLanguage(c.Query("lang"))
		if lang == "" {
			// Handle cases like "es-CL,es;q=0.9,en;q=0.8"
			for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
				if lang = matchLanguage(strings.Split(part, ";")[0]); lang != "" {
					break
				}
			}
		}
		if lang == "" {
			lang = i18n.DefaultLanguage()
		}

		c.Set("lang", lang)
		c.Next()
	}
}

func matchLanguage(tag string) string {
	parts := strings.FieldsFunc(strings.ToLower(tag), func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(parts) == 0 {
		return ""
	}
	base := parts[0]

	for _, supported := range i18n.GetSupportedLanguages() {
		if supported == base {
			return supported
		}
	}
	return ""
}
