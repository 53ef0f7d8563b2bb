package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jandrly/kancl/internal/api/metrics"
	"github.com/jandrly/kancl/internal/core/domain"
	"github.com/jandrly/kancl/internal/core/ports"
)

type TranslationHandler struct {
	translationService ports.TranslationService
}

func NewTranslationHandler(translationService ports.TranslationService) *TranslationHandler {
	return &TranslationHandler{translationService: translationService}
}

// GetByLocale returns the whole map of one locale.
//
// @Summary      Get translations
// @Tags         translations
// @Produce      json
// @Param        locale  path      string  true  "Locale code, e.g. en"
// @Success      200     {object}  domain.Translation
// @Failure      404     {object}  errorResponse
// @Router       /api/translations/{locale} [get]
func (h *TranslationHandler) GetByLocale(c echo.Context) error {
	t, err := h.translationService.GetByLocale(c.Request().Context(), c.Param("locale"))
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrTranslationNotFound
	}
	return c.JSON(http.StatusOK, t)
}

// Locales lists every locale that has a translation document.
//
// @Summary      Available locales
// @Tags         translations
// @Produce      json
// @Success      200  {array}   string
// @Router       /api/translations/locales [get]
func (h *TranslationHandler) Locales(c echo.Context) error {
	locales, err := h.translationService.AvailableLocales(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, locales)
}

// Upsert sets one key of a locale.
//
// @Summary      Set translation key
// @Tags         translations
// @Accept       json
// @Param        locale  path  string                    true  "Locale code"
// @Param        body    body  upsertTranslationRequest  true  "Key and value"
// @Success      204
// @Failure      400     {object}  errorResponse
// @Router       /api/translations/{locale} [put]
func (h *TranslationHandler) Upsert(c echo.Context) error {
	var req upsertTranslationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	locale := c.Param("locale")
	if err := h.translationService.Upsert(c.Request().Context(), locale, req.Key, req.Value); err != nil {
		return err
	}
	metrics.TranslationUpdatesTotal.WithLabelValues(locale).Inc()
	return c.NoContent(http.StatusNoContent)
}
