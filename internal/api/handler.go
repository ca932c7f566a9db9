package api

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/gymdesk/internal/i18n"
	"github.com/terraincognita07/gymdesk/internal/services"
	"github.com/terraincognita07/gymdesk/internal/storage"
	"go.uber.org/zap"
)

// Config gathers what NewHandler needs. Templates is a filesystem holding
// base.html and one file per page.
type Config struct {
	Members       *services.MemberService
	Notifications *services.NotificationService
	Auth          *services.AuthService
	Photos        *storage.PhotoDirectory
	I18n          *i18n.Manager
	Templates     fs.FS
	SecretKey     []byte
	CookieSecure  bool
	Logger        *zap.Logger
}

type Handler struct {
	members       *services.MemberService
	notifications *services.NotificationService
	auth          *services.AuthService
	photos        *storage.PhotoDirectory
	i18n          *i18n.Manager
	cookies       *secureCookieCodec
	validate      *validator.Validate
	cookieSecure  bool
	log           *zap.Logger
	templates     map[string]*template.Template
	now           func() time.Time
}

func NewHandler(cfg Config) (*Handler, error) {
	switch {
	case cfg.Members == nil:
		return nil, errors.New("member service is required")
	case cfg.Auth == nil:
		return nil, errors.New("auth service is required")
	case cfg.Photos == nil:
		return nil, errors.New("photo directory is required")
	case cfg.I18n == nil:
		return nil, errors.New("i18n manager is required")
	case cfg.Templates == nil:
		return nil, errors.New("templates are required")
	}
	if cfg.Notifications == nil {
		cfg.Notifications = services.NewNotificationService(cfg.Members)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	cookies, err := newSecureCookieCodec(cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	templates, err := parsePageTemplates(cfg.Templates, newTemplateFuncMap(), pageTemplates)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Handler{
		members:       cfg.Members,
		notifications: cfg.Notifications,
		auth:          cfg.Auth,
		photos:        cfg.Photos,
		i18n:          cfg.I18n,
		cookies:       cookies,
		validate:      newFormValidator(),
		cookieSecure:  cfg.CookieSecure,
		log:           cfg.Logger.Named("http"),
		templates:     templates,
		now:           time.Now,
	}, nil
}
