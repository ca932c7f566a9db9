package api

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var pageTemplates = []string{
	"index",
	"login",
	"dashboard",
	"add_member",
	"member",
	"notifications",
	"not_found",
}

func parsePageTemplates(templates fs.FS, funcMap template.FuncMap, pages []string) (map[string]*template.Template, error) {
	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("base").Funcs(funcMap).ParseFS(templates, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		parsed[page] = tmpl
	}
	return parsed, nil
}

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":    formatTemplateDate,
		"formatMoney":   formatTemplateMoney,
		"t":             translateMessage,
		"tf":            translateMessagef,
		"isActiveRoute": isActiveTemplateRoute,
	}
}

func formatTemplateDate(value any) string {
	switch typed := value.(type) {
	case time.Time:
		if typed.IsZero() {
			return ""
		}
		return typed.Format(dateLayout)
	case *time.Time:
		if typed == nil || typed.IsZero() {
			return ""
		}
		return typed.Format(dateLayout)
	default:
		return ""
	}
}

func formatTemplateMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func isActiveTemplateRoute(currentPath string, route string) bool {
	path := strings.TrimSpace(currentPath)
	if route == "/" {
		return path == "/" || path == "" || strings.HasPrefix(path, "/?")
	}
	return path == route || strings.HasPrefix(path, route+"?") || strings.HasPrefix(path, route+"/")
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	payload := handler.withTemplateDefaults(c, data)
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", payload); err != nil {
		handler.log.Error("render template",
			zap.String("request_id", requestID(c)),
			zap.String("template", name),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	messages := currentMessages(c)
	if _, ok := data["Messages"]; !ok {
		data["Messages"] = messages
	}
	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}
	if _, ok := data["Languages"]; !ok {
		data["Languages"] = handler.i18n.SupportedLanguages()
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = currentPathWithQuery(c)
	}
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}
	if _, ok := data["CurrentAdmin"]; !ok {
		if admin, signedIn := currentAdmin(c); signedIn {
			data["CurrentAdmin"] = admin
		}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = handler.popFlashCookie(c)
	}
	return data
}

func currentPathWithQuery(c *fiber.Ctx) string {
	path := string(c.Request().URI().RequestURI())
	if path == "" {
		return c.Path()
	}
	return path
}
